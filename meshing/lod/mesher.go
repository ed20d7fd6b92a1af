package lod

import "github.com/voxelforge/meshkit/meshing/types"

// Mesher downsamples a chunk to a target level, then greedy-merges the
// reduced grid. Unlike the bit-parallel full-resolution mesher, this works
// directly over a boolean occupancy mask with a visited grid, since the
// reduced grids are small enough that bit-plane tricks don't pay for
// themselves.
type Mesher struct{}

func New() *Mesher { return &Mesher{} }

// MeshLOD downsamples voxels to level and greedy-merges the result,
// producing a ChunkMesh whose quad coordinates/dimensions are expressed in
// Full-resolution units (pre-multiplied by the level's scale).
func (m *Mesher) MeshLOD(voxels *[types.ChunkSizeCb]types.BlockID, level Level) types.ChunkMesh {
	if level == Full {
		return types.ChunkMesh{}
	}

	scale := level.Scale()
	gridSize := level.GridSize()
	grid := DownsampleGrid(voxels, level)

	return meshReducedGrid(grid, gridSize, scale)
}

func cellAt(grid []types.BlockID, gridSize, x, y, z int) types.BlockID {
	if x < 0 || y < 0 || z < 0 || x >= gridSize || y >= gridSize || z >= gridSize {
		return types.Air
	}
	return grid[z*gridSize*gridSize+y*gridSize+x]
}

// meshReducedGrid greedy-merges a coarse occupancy grid into quads, one
// axis-aligned sweep per face direction, using a per-layer visited mask to
// avoid re-covering cells already absorbed into an earlier quad.
func meshReducedGrid(grid []types.BlockID, gridSize, scale int) types.ChunkMesh {
	var mesh types.ChunkMesh

	type axisDir struct {
		face   types.Face
		normal [3]int
	}
	dirs := []axisDir{
		{types.FaceRight, [3]int{1, 0, 0}},
		{types.FaceLeft, [3]int{-1, 0, 0}},
		{types.FaceUp, [3]int{0, 1, 0}},
		{types.FaceDown, [3]int{0, -1, 0}},
		{types.FaceFront, [3]int{0, 0, 1}},
		{types.FaceBack, [3]int{0, 0, -1}},
	}

	for _, d := range dirs {
		meshDirection(&mesh, grid, gridSize, scale, d.face, d.normal)
	}

	return mesh
}

// meshDirection sweeps layers perpendicular to normal, building a 2D
// visibility mask per layer (cell solid and its neighbor in +normal
// direction is not), then greedily expands rectangles over that mask.
func meshDirection(mesh *types.ChunkMesh, grid []types.BlockID, gridSize, scale int, face types.Face, normal [3]int) {
	// u, v are the two axes spanning the 2D layer; axis is the swept axis.
	axis, u, v := axisFor(normal)

	mask := make([]types.BlockID, gridSize*gridSize)
	visited := make([]bool, gridSize*gridSize)

	for layer := 0; layer < gridSize; layer++ {
		for i := range mask {
			mask[i] = types.Air
			visited[i] = false
		}

		for a := 0; a < gridSize; a++ {
			for b := 0; b < gridSize; b++ {
				coord := coordFor(axis, u, v, layer, a, b)
				self := cellAt(grid, gridSize, coord[0], coord[1], coord[2])
				if self == types.Air {
					continue
				}
				neighborCoord := [3]int{coord[0] + normal[0], coord[1] + normal[1], coord[2] + normal[2]}
				neighbor := cellAt(grid, gridSize, neighborCoord[0], neighborCoord[1], neighborCoord[2])
				if neighbor == types.Air {
					mask[a*gridSize+b] = self
				}
			}
		}

		for a := 0; a < gridSize; a++ {
			for b := 0; b < gridSize; b++ {
				idx := a*gridSize + b
				if visited[idx] || mask[idx] == types.Air {
					continue
				}
				blockType := mask[idx]

				width := 1
				for b+width < gridSize && !visited[a*gridSize+b+width] && mask[a*gridSize+b+width] == blockType {
					width++
				}

				height := 1
				for a+height < gridSize {
					rowOK := true
					for k := 0; k < width; k++ {
						ni := (a+height)*gridSize + b + k
						if visited[ni] || mask[ni] != blockType {
							rowOK = false
							break
						}
					}
					if !rowOK {
						break
					}
					height++
				}

				for da := 0; da < height; da++ {
					for db := 0; db < width; db++ {
						visited[(a+da)*gridSize+b+db] = true
					}
				}

				coord := coordFor(axis, u, v, layer, a, b)
				emitScaledQuad(mesh, coord, width, height, scale, face, blockType, u, v)
			}
		}
	}
}

// axisFor returns the swept axis index (0=x,1=y,2=z) and the two spanning
// axis indices for a given face normal.
func axisFor(normal [3]int) (axis, u, v int) {
	switch {
	case normal[0] != 0:
		return 0, 1, 2
	case normal[1] != 0:
		return 1, 0, 2
	default:
		return 2, 0, 1
	}
}

func coordFor(axis, u, v, layer, a, b int) [3]int {
	var c [3]int
	c[axis] = layer
	c[u] = a
	c[v] = b
	return c
}

// emitScaledQuad converts a reduced-grid rectangle back into Full-resolution
// units by multiplying every coordinate and dimension by scale.
func emitScaledQuad(mesh *types.ChunkMesh, coord [3]int, width, height, scale int, face types.Face, blockType types.BlockID, u, v int) {
	pos := [3]int{coord[0] * scale, coord[1] * scale, coord[2] * scale}

	// A +normal face sits on the far side of its cell once scaled up.
	switch face {
	case types.FaceRight, types.FaceUp, types.FaceFront:
		axis := 3 - u - v
		pos[axis] += scale - 1
	}

	mesh.Quads = append(mesh.Quads, types.Quad{
		X:         uint8(pos[0]),
		Y:         uint8(pos[1]),
		Z:         uint8(pos[2]),
		Width:     uint8(width * scale),
		Height:    uint8(height * scale),
		Face:      face,
		BlockType: blockType,
	})
}
