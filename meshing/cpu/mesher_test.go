package cpu

import (
	"testing"

	"github.com/voxelforge/meshkit/meshing/types"
)

func countFaces(quads []types.Quad, f types.Face) int {
	n := 0
	for _, q := range quads {
		if q.Face == f {
			n++
		}
	}
	return n
}

func TestAllAirProducesNoQuads(t *testing.T) {
	var voxels [types.ChunkSizeCb]types.BlockID
	mesh := New().Mesh(&voxels)
	if !mesh.IsEmpty() {
		t.Fatalf("expected empty mesh, got %d quads", mesh.QuadCount())
	}
}

func TestSingleBlockProducesSixQuads(t *testing.T) {
	var voxels [types.ChunkSizeCb]types.BlockID
	voxels[types.VoxelIndex(0, 0, 0)] = 1

	mesh := New().Mesh(&voxels)
	if mesh.QuadCount() != 6 {
		t.Fatalf("expected 6 quads, got %d", mesh.QuadCount())
	}
	for _, q := range mesh.Quads {
		if q.Width != 1 || q.Height != 1 {
			t.Errorf("expected 1x1 quad, got %dx%d on face %v", q.Width, q.Height, q.Face)
		}
		if q.BlockType != 1 {
			t.Errorf("expected block type 1, got %d", q.BlockType)
		}
	}
	for f := types.FaceRight; f <= types.FaceBack; f++ {
		if countFaces(mesh.Quads, f) != 1 {
			t.Errorf("expected exactly one quad for face %v", f)
		}
	}
}

func TestUniformSolidChunkMergesPerLayer(t *testing.T) {
	mesh := New().Mesh(types.UniformChunk(1))
	want := 6 * types.ChunkSize
	if mesh.QuadCount() != want {
		t.Fatalf("expected %d quads for uniform chunk, got %d", want, mesh.QuadCount())
	}
	for f := types.FaceRight; f <= types.FaceBack; f++ {
		if got := countFaces(mesh.Quads, f); got != types.ChunkSize {
			t.Errorf("face %v: expected %d quads (one per layer), got %d", f, types.ChunkSize, got)
		}
	}
}

func TestTwoByTwoByTwoSubCube(t *testing.T) {
	var voxels [types.ChunkSizeCb]types.BlockID
	for z := 0; z < 2; z++ {
		for y := 0; y < 2; y++ {
			for x := 0; x < 2; x++ {
				voxels[types.VoxelIndex(x, y, z)] = 1
			}
		}
	}
	mesh := New().Mesh(&voxels)
	if mesh.QuadCount() != 12 {
		t.Fatalf("expected 12 quads for 2x2x2 cube, got %d", mesh.QuadCount())
	}
}

func TestTwoAdjacentSameTypeBlocksMerge(t *testing.T) {
	var voxels [types.ChunkSizeCb]types.BlockID
	voxels[types.VoxelIndex(0, 0, 0)] = 1
	voxels[types.VoxelIndex(1, 0, 0)] = 1

	mesh := New().Mesh(&voxels)
	if mesh.QuadCount() < 6 || mesh.QuadCount() > 10 {
		t.Fatalf("expected between 6 and 10 quads, got %d", mesh.QuadCount())
	}

	for _, q := range mesh.Quads {
		switch q.Face {
		case types.FaceUp, types.FaceDown, types.FaceFront, types.FaceBack:
			if q.Width != 2 || q.Height != 1 {
				t.Errorf("face %v: expected merged 2x1 quad, got %dx%d", q.Face, q.Width, q.Height)
			}
		case types.FaceRight:
			if q.X != 2 {
				t.Errorf("+X quad should sit at x=2, got x=%d", q.X)
			}
		case types.FaceLeft:
			if q.X != 0 {
				t.Errorf("-X quad should sit at x=0, got x=%d", q.X)
			}
		}
	}
}

func TestTwoAdjacentDifferentTypeBlocksDoNotMerge(t *testing.T) {
	var voxels [types.ChunkSizeCb]types.BlockID
	voxels[types.VoxelIndex(0, 0, 0)] = 1
	voxels[types.VoxelIndex(1, 0, 0)] = 2

	mesh := New().Mesh(&voxels)
	if mesh.QuadCount() != 10 {
		t.Fatalf("expected exactly 10 quads, got %d", mesh.QuadCount())
	}
}

func TestCheckerboardProducesUnitQuads(t *testing.T) {
	mesh := New().Mesh(types.CheckerboardChunk(1))

	solidCount := 0
	for z := 0; z < types.ChunkSize; z++ {
		for y := 0; y < types.ChunkSize; y++ {
			for x := 0; x < types.ChunkSize; x++ {
				if (x+y+z)%2 == 0 {
					solidCount++
				}
			}
		}
	}

	if mesh.QuadCount() < solidCount/2 {
		t.Fatalf("expected at least %d quads, got %d", solidCount/2, mesh.QuadCount())
	}
	for _, q := range mesh.Quads {
		if q.Width != 1 || q.Height != 1 {
			t.Errorf("checkerboard quad should never merge, got %dx%d", q.Width, q.Height)
		}
	}
}

func TestQuadCoordinatesAreInBounds(t *testing.T) {
	mesh := New().Mesh(types.TerrainChunk())
	for _, q := range mesh.Quads {
		if q.X >= types.ChunkSize || q.Y >= types.ChunkSize || q.Z >= types.ChunkSize {
			t.Fatalf("quad coordinate out of bounds: %+v", q)
		}
		if q.Width < 1 || q.Width > types.ChunkSize || q.Height < 1 || q.Height > types.ChunkSize {
			t.Fatalf("quad dimension out of bounds: %+v", q)
		}
		if q.Face > types.FaceBack {
			t.Fatalf("quad face out of range: %+v", q)
		}
		if q.BlockType == types.Air {
			t.Fatalf("quad references air: %+v", q)
		}
	}
}

func TestNoDuplicateQuads(t *testing.T) {
	mesh := New().Mesh(types.TerrainChunk())
	seen := make(map[types.Quad]struct{}, len(mesh.Quads))
	for _, q := range mesh.Quads {
		if _, dup := seen[q]; dup {
			t.Fatalf("duplicate quad emitted: %+v", q)
		}
		seen[q] = struct{}{}
	}
}

func BenchmarkMeshUniformChunk(b *testing.B) {
	voxels := types.UniformChunk(1)
	mesher := New()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = mesher.Mesh(voxels)
	}
}

func BenchmarkMeshTerrainChunk(b *testing.B) {
	voxels := types.TerrainChunk()
	mesher := New()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = mesher.Mesh(voxels)
	}
}
