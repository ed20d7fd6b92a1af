package assemble

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/voxelforge/meshkit/meshing/light"
	"github.com/voxelforge/meshkit/meshing/types"
)

// Vertex is the renderer-facing output of assembly: position, face normal,
// atlas UV, and a combined smooth-light/AO scalar baked per corner.
type Vertex struct {
	Pos    mgl32.Vec3
	Normal mgl32.Vec3
	UV     mgl32.Vec2
	Light  float32
	AO     float32
}

var faceNormals = [6]mgl32.Vec3{
	types.FaceRight: {1, 0, 0},
	types.FaceLeft:  {-1, 0, 0},
	types.FaceUp:    {0, 1, 0},
	types.FaceDown:  {0, -1, 0},
	types.FaceFront: {0, 0, 1},
	types.FaceBack:  {0, 0, -1},
}

// planeAxes returns (normalAxis, widthAxis, heightAxis) index triples (0=x,
// 1=y, 2=z) for a face, matching the CPU mesher's emitQuad axis convention.
func planeAxes(face types.Face) (normalAxis, widthAxis, heightAxis int) {
	switch face {
	case types.FaceRight, types.FaceLeft:
		return 0, 1, 2
	case types.FaceUp, types.FaceDown:
		return 1, 0, 2
	default:
		return 2, 0, 1
	}
}

func isPositiveFace(face types.Face) bool {
	return face == types.FaceRight || face == types.FaceUp || face == types.FaceFront
}

// MeshAssembler converts ChunkMesh quads into vertex/index buffers, baking
// in atlas UVs, smooth light, and ambient occlusion.
type MeshAssembler struct {
	Atlas *TextureAtlas
}

func New(atlas *TextureAtlas) *MeshAssembler {
	return &MeshAssembler{Atlas: atlas}
}

// Assemble builds a vertex/index buffer pair for mesh. opaque is used for
// the ambient-occlusion neighbor samples; lf supplies smooth light.
func (a *MeshAssembler) Assemble(mesh types.ChunkMesh, lf *light.LightField, opaque light.Opacity) ([]Vertex, []uint32) {
	vertices := make([]Vertex, 0, len(mesh.Quads)*4)
	indices := make([]uint32, 0, len(mesh.Quads)*6)

	for _, q := range mesh.Quads {
		base := uint32(len(vertices))
		corners, uvs := a.quadCorners(q)

		for i, c := range corners {
			pos := [3]int{c[0], c[1], c[2]}
			smooth := lf.SmoothLight(pos[0], pos[1], pos[2], q.Face)
			ao := a.cornerAO(q, i, opaque)

			vertices = append(vertices, Vertex{
				Pos:    mgl32.Vec3{float32(c[0]), float32(c[1]), float32(c[2])},
				Normal: faceNormals[q.Face],
				UV:     uvs[i],
				Light:  float32(smooth) / float32(light.MaxLight),
				AO:     ao,
			})
		}

		// Corner order 0..3 runs counter-clockwise seen from +X and +Z but
		// from -Y, so the Y faces take the opposite index order.
		ccw := isPositiveFace(q.Face)
		if q.Face == types.FaceUp || q.Face == types.FaceDown {
			ccw = !ccw
		}
		if ccw {
			indices = append(indices, base, base+1, base+2, base, base+2, base+3)
		} else {
			indices = append(indices, base, base+2, base+1, base, base+3, base+2)
		}
	}

	return vertices, indices
}

// quadCorners returns the four corner positions (in winding order
// 0,1,2,3 = origin, +width, +width+height, +height) and their matching UVs.
func (a *MeshAssembler) quadCorners(q types.Quad) ([4][3]int, [4]mgl32.Vec2) {
	normalAxis, widthAxis, heightAxis := planeAxes(q.Face)

	origin := [3]int{int(q.X), int(q.Y), int(q.Z)}
	if isPositiveFace(q.Face) {
		origin[normalAxis]++
	}

	corner := func(dw, dh int) [3]int {
		c := origin
		c[widthAxis] += dw
		c[heightAxis] += dh
		return c
	}

	corners := [4][3]int{
		corner(0, 0),
		corner(int(q.Width), 0),
		corner(int(q.Width), int(q.Height)),
		corner(0, int(q.Height)),
	}

	tile := a.Atlas.Resolve(q.BlockType, q.Face)
	uvMin, uvMax := a.Atlas.UVRect(tile)
	w, h := float32(q.Width), float32(q.Height)

	uvs := [4]mgl32.Vec2{
		{uvMin[0], uvMin[1]},
		{uvMin[0] + (uvMax[0]-uvMin[0])*w, uvMin[1]},
		{uvMin[0] + (uvMax[0]-uvMin[0])*w, uvMin[1] + (uvMax[1]-uvMin[1])*h},
		{uvMin[0], uvMin[1] + (uvMax[1]-uvMin[1])*h},
	}

	return corners, uvs
}

// cornerAO samples the two edge-adjacent cells and the diagonal cell for
// corner index i (0..3, matching quadCorners' winding) in the layer just
// outside the quad's face, where an occluding neighbor chunk of geometry
// would sit.
func (a *MeshAssembler) cornerAO(q types.Quad, cornerIndex int, opaque light.Opacity) float32 {
	normalAxis, widthAxis, heightAxis := planeAxes(q.Face)

	outside := [3]int{int(q.X), int(q.Y), int(q.Z)}
	if isPositiveFace(q.Face) {
		outside[normalAxis]++
	} else {
		outside[normalAxis]--
	}

	// Corner-local offsets along (width, height) for each of the 4 winding
	// positions, pointing outward from the quad.
	dw, dh := 0, 0
	switch cornerIndex {
	case 0:
		dw, dh = -1, -1
	case 1:
		dw, dh = int(q.Width), -1
	case 2:
		dw, dh = int(q.Width), int(q.Height)
	case 3:
		dw, dh = -1, int(q.Height)
	}

	side1 := outside
	side1[widthAxis] += dw
	side2 := outside
	side2[heightAxis] += dh
	diag := outside
	diag[widthAxis] += dw
	diag[heightAxis] += dh

	return light.AmbientOcclusion(
		opaque(side1[0], side1[1], side1[2]),
		opaque(side2[0], side2[1], side2[2]),
		opaque(diag[0], diag[1], diag[2]),
	)
}
