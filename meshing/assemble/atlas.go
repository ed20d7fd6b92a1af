// Package assemble turns a ChunkMesh's quads into renderable vertex data:
// positions, normals, UVs sampled from a texture atlas, and per-vertex
// smooth light/AO.
package assemble

import (
	"sync"

	"github.com/voxelforge/meshkit/meshing/types"
)

// TextureAtlas maps (block type, face) pairs to a tile rectangle within a
// fixed-size grid atlas texture, the way text_renderer.go maps glyphs to
// UVMin/UVMax rectangles in its glyph atlas.
type TextureAtlas struct {
	tilesPerSide int
	halfTexel    float32

	mu    sync.Mutex
	tiles map[tileKey]int // (blockType, face) -> tile index, row-major

	seenMissing sync.Map // blockType -> struct{}, logged once per type
	next        int

	logger func(format string, args ...any)
}

type tileKey struct {
	blockType types.BlockID
	face      types.Face
}

// NewTextureAtlas builds an atlas with tilesPerSide*tilesPerSide tile slots.
// logger receives a one-line warning the first time an unregistered block
// type is resolved; pass nil to silence it.
func NewTextureAtlas(tilesPerSide int, logger func(format string, args ...any)) *TextureAtlas {
	if tilesPerSide < 1 {
		tilesPerSide = 1
	}
	return &TextureAtlas{
		tilesPerSide: tilesPerSide,
		halfTexel:    0.5 / float32(tilesPerSide*tilesPerSide),
		tiles:        make(map[tileKey]int),
		logger:       logger,
	}
}

// Register assigns (or reassigns) the tile used for a block type and face.
func (a *TextureAtlas) Register(blockType types.BlockID, face types.Face, tileIndex int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tiles[tileKey{blockType, face}] = tileIndex
}

// Resolve returns the tile index for (blockType, face), falling back to
// tile 0 (and logging once per missing block type) if nothing was
// registered.
func (a *TextureAtlas) Resolve(blockType types.BlockID, face types.Face) int {
	a.mu.Lock()
	tile, ok := a.tiles[tileKey{blockType, face}]
	a.mu.Unlock()
	if ok {
		return tile
	}

	if _, logged := a.seenMissing.LoadOrStore(blockType, struct{}{}); !logged && a.logger != nil {
		a.logger("assemble: no atlas tile registered for block type %d, face %v, falling back to tile 0", blockType, face)
	}
	return 0
}

// UVRect returns the (min, max) UV rectangle for a tile index, inset on every
// edge by 0.5/(tilesPerSide*tilesPerSide) in UV units to keep bilinear
// sampling off neighboring tiles. The atlas has no texel size, so this inset
// equals half a texel only when each tile is tilesPerSide texels wide.
func (a *TextureAtlas) UVRect(tileIndex int) (min, max [2]float32) {
	col := tileIndex % a.tilesPerSide
	row := tileIndex / a.tilesPerSide

	tileSize := 1.0 / float32(a.tilesPerSide)
	u0 := float32(col)*tileSize + a.halfTexel
	v0 := float32(row)*tileSize + a.halfTexel
	u1 := float32(col+1)*tileSize - a.halfTexel
	v1 := float32(row+1)*tileSize - a.halfTexel

	return [2]float32{u0, v0}, [2]float32{u1, v1}
}
