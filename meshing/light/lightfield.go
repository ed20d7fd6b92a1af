// Package light implements LightField: BFS flood-fill block/sky light
// propagation plus smooth lighting and ambient occlusion lookups.
package light

import "github.com/voxelforge/meshkit/meshing/types"

const cs = types.ChunkSize

// MaxLight is the clamp ceiling for both light channels (4-bit scalar).
const MaxLight = 15

// Opacity reports whether the voxel at (x,y,z) blocks light. Callers derive
// this from block types; LightField has no opinion on which types are
// transparent.
type Opacity func(x, y, z int) bool

// LightField holds independent block-light and sky-light grids over a
// single chunk.
type LightField struct {
	blockLight [cs][cs][cs]uint8
	skyLight   [cs][cs][cs]uint8
}

func New() *LightField {
	return &LightField{}
}

func inBounds(x, y, z int) bool {
	return x >= 0 && x < cs && y >= 0 && y < cs && z >= 0 && z < cs
}

func clamp15(v uint8) uint8 {
	if v > MaxLight {
		return MaxLight
	}
	return v
}

func (l *LightField) GetBlockLight(x, y, z int) uint8 {
	if !inBounds(x, y, z) {
		return 0
	}
	return l.blockLight[x][y][z]
}

func (l *LightField) SetBlockLight(x, y, z int, v uint8) {
	if !inBounds(x, y, z) {
		return
	}
	l.blockLight[x][y][z] = clamp15(v)
}

func (l *LightField) GetSkyLight(x, y, z int) uint8 {
	if !inBounds(x, y, z) {
		return 0
	}
	return l.skyLight[x][y][z]
}

func (l *LightField) SetSkyLight(x, y, z int, v uint8) {
	if !inBounds(x, y, z) {
		return
	}
	l.skyLight[x][y][z] = clamp15(v)
}

// Combined returns the brighter of block and sky light at (x,y,z).
func (l *LightField) Combined(x, y, z int) uint8 {
	bl, sl := l.GetBlockLight(x, y, z), l.GetSkyLight(x, y, z)
	if bl > sl {
		return bl
	}
	return sl
}

type cell struct{ x, y, z int }

// PropagateBlockLight floods block light outward from every currently-lit,
// non-opaque voxel, decaying by 1 per step along all six neighbors.
func (l *LightField) PropagateBlockLight(opaque Opacity) {
	var result [cs][cs][cs]uint8
	queue := make([]cell, 0, cs*cs)

	for x := 0; x < cs; x++ {
		for y := 0; y < cs; y++ {
			for z := 0; z < cs; z++ {
				if l.blockLight[x][y][z] > 0 && !opaque(x, y, z) {
					result[x][y][z] = l.blockLight[x][y][z]
					queue = append(queue, cell{x, y, z})
				}
			}
		}
	}

	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]

		current := result[c.x][c.y][c.z]
		if current <= 1 {
			continue
		}
		newLight := current - 1

		neighbors := [6]cell{
			{c.x + 1, c.y, c.z}, {c.x - 1, c.y, c.z},
			{c.x, c.y + 1, c.z}, {c.x, c.y - 1, c.z},
			{c.x, c.y, c.z + 1}, {c.x, c.y, c.z - 1},
		}
		for _, n := range neighbors {
			if !inBounds(n.x, n.y, n.z) || opaque(n.x, n.y, n.z) {
				continue
			}
			if result[n.x][n.y][n.z] < newLight {
				result[n.x][n.y][n.z] = newLight
				queue = append(queue, n)
			}
		}
	}

	l.blockLight = result
}

// PropagateSkyLight floods sky light outward, with the -Y neighbor
// inheriting the full value (no decay) to model open-sky vertical
// transparency; the other five neighbors decay by 1.
func (l *LightField) PropagateSkyLight(opaque Opacity) {
	var result [cs][cs][cs]uint8
	queue := make([]cell, 0, cs*cs)

	for x := 0; x < cs; x++ {
		for y := 0; y < cs; y++ {
			for z := 0; z < cs; z++ {
				if l.skyLight[x][y][z] > 0 && !opaque(x, y, z) {
					result[x][y][z] = l.skyLight[x][y][z]
					queue = append(queue, cell{x, y, z})
				}
			}
		}
	}

	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		current := result[c.x][c.y][c.z]

		decayed := saturatingSub1(current)
		type neighborLight struct {
			cell
			light uint8
		}
		neighbors := [6]neighborLight{
			{cell{c.x + 1, c.y, c.z}, decayed},
			{cell{c.x - 1, c.y, c.z}, decayed},
			{cell{c.x, c.y + 1, c.z}, decayed},
			{cell{c.x, c.y - 1, c.z}, current}, // -Y: no decay
			{cell{c.x, c.y, c.z + 1}, decayed},
			{cell{c.x, c.y, c.z - 1}, decayed},
		}

		for _, n := range neighbors {
			if n.light == 0 || !inBounds(n.x, n.y, n.z) || opaque(n.x, n.y, n.z) {
				continue
			}
			if result[n.x][n.y][n.z] < n.light {
				result[n.x][n.y][n.z] = n.light
				queue = append(queue, n.cell)
			}
		}
	}

	l.skyLight = result
}

func saturatingSub1(v uint8) uint8 {
	if v == 0 {
		return 0
	}
	return v - 1
}

// SmoothLight returns the average combined light of the four voxels adjacent
// to the (x,y,z) corner used as a vertex sample. face is accepted for API
// symmetry with the packed-quad face encoding but the sample pattern is
// face-independent (matches the reference lighting engine).
func (l *LightField) SmoothLight(x, y, z int, face types.Face) uint8 {
	_ = face
	x0 := max0(x - 1)
	y0 := max0(y - 1)

	l0 := int(l.Combined(x0, y0, z))
	l1 := int(l.Combined(x, y0, z))
	l2 := int(l.Combined(x0, y, z))
	l3 := int(l.Combined(x, y, z))

	return uint8((l0 + l1 + l2 + l3) / 4)
}

func max0(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

// AmbientOcclusion computes a per-vertex AO factor in [0,1] from two side
// samples and the diagonal sample of a face corner. If both sides are
// opaque the corner is fully occluded regardless of the diagonal — this
// prevents light leaking through a solid L-shaped corner.
func AmbientOcclusion(side1, side2, diagonal bool) float32 {
	if side1 && side2 {
		return 0
	}
	sum := 0
	if side1 {
		sum++
	}
	if side2 {
		sum++
	}
	if diagonal {
		sum++
	}
	return 1 - float32(sum)/4
}
