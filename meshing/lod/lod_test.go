package lod

import (
	"testing"

	"github.com/voxelforge/meshkit/meshing/types"
)

func TestScaleAndGridSize(t *testing.T) {
	cases := []struct {
		level        Level
		scale        int
		wantGridSize int
	}{
		{Full, 1, 32},
		{Reduced, 2, 16},
		{Low, 4, 8},
		{Minimal, 8, 4},
	}
	for _, c := range cases {
		if got := c.level.Scale(); got != c.scale {
			t.Errorf("%v.Scale() = %d, want %d", c.level, got, c.scale)
		}
		if got := c.level.GridSize(); got != c.wantGridSize {
			t.Errorf("%v.GridSize() = %d, want %d", c.level, got, c.wantGridSize)
		}
	}
}

func TestSelectLODThresholds(t *testing.T) {
	cfg := DefaultConfig()
	cases := []struct {
		distance float32
		want     Level
	}{
		{0, Full},
		{16, Full},
		{16.5, Reduced},
		{32, Reduced},
		{33, Low},
		{48, Low},
		{49, Minimal},
		{1000, Minimal},
	}
	for _, c := range cases {
		if got := cfg.SelectLOD(c.distance); got != c.want {
			t.Errorf("SelectLOD(%v) = %v, want %v", c.distance, got, c.want)
		}
	}
}

func TestSelectLODWithBlendOutsideTransitionIsStable(t *testing.T) {
	cfg := DefaultConfig()
	tr := cfg.SelectLODWithBlend(0)
	if tr.Level != Full || tr.Blend != 0 {
		t.Errorf("at distance 0 expected Full/0, got %v/%v", tr.Level, tr.Blend)
	}
	if tr.IsBlending() {
		t.Errorf("distance 0 should not be blending")
	}
}

func TestSelectLODWithBlendAtBoundaryIsHalfway(t *testing.T) {
	cfg := DefaultConfig()
	tr := cfg.SelectLODWithBlend(cfg.FullMax)
	if tr.Level != Full {
		t.Fatalf("expected Full level at the boundary, got %v", tr.Level)
	}
	if tr.Blend < 0.49 || tr.Blend > 0.51 {
		t.Errorf("expected blend ~0.5 exactly at the boundary, got %v", tr.Blend)
	}
	if !tr.IsBlending() {
		t.Errorf("boundary distance should be blending")
	}
}

func TestSelectLODWithBlendFullyTransitioned(t *testing.T) {
	cfg := DefaultConfig()
	tr := cfg.SelectLODWithBlend(cfg.FullMax + cfg.TransitionWidth/2)
	if tr.Blend != 1 {
		t.Errorf("expected blend=1 at the far edge of the band, got %v", tr.Blend)
	}
}

func TestDownsampleUniformChunkStaysUniform(t *testing.T) {
	voxels := types.UniformChunk(5)
	grid := DownsampleGrid(voxels, Reduced)
	for i, b := range grid {
		if b != 5 {
			t.Fatalf("cell %d: got %d, want 5", i, b)
		}
	}
}

func TestDownsampleAllAirStaysAir(t *testing.T) {
	var voxels [types.ChunkSizeCb]types.BlockID
	grid := DownsampleGrid(&voxels, Low)
	for i, b := range grid {
		if b != types.Air {
			t.Fatalf("cell %d: got %d, want air", i, b)
		}
	}
}

func TestDownsampleMajorityVoteFirstFoundWinsOnTie(t *testing.T) {
	var voxels [types.ChunkSizeCb]types.BlockID
	// Fill a 2x2x2 cell (Reduced scale) with a 4/4 split between two types:
	// type 1 should win since it is encountered first in scan order.
	for z := 0; z < 2; z++ {
		for y := 0; y < 2; y++ {
			for x := 0; x < 2; x++ {
				if (x+y*2+z*4) < 4 {
					voxels[types.VoxelIndex(x, y, z)] = 1
				} else {
					voxels[types.VoxelIndex(x, y, z)] = 2
				}
			}
		}
	}
	block := downsampleCell(&voxels, 0, 0, 0, 2)
	if block != 1 {
		t.Errorf("expected first-found type 1 to win the tie, got %d", block)
	}
}

func TestDownsampleAirMajoritySuppressesMinorityBlock(t *testing.T) {
	var voxels [types.ChunkSizeCb]types.BlockID
	// 64-voxel cell (Low scale, 4^3) with only 1 solid voxel: air holds a
	// strict majority (63/64) and should win even though it's not "most common solid".
	voxels[types.VoxelIndex(0, 0, 0)] = 1
	block := downsampleCell(&voxels, 0, 0, 0, 4)
	if block != types.Air {
		t.Errorf("expected air to win by majority, got %d", block)
	}
}

func TestMeshLODFullLevelIsEmpty(t *testing.T) {
	voxels := types.UniformChunk(1)
	mesh := New().MeshLOD(voxels, Full)
	if !mesh.IsEmpty() {
		t.Errorf("Full level LOD meshing should defer to the full-resolution mesher, got %d quads", mesh.QuadCount())
	}
}

func TestMeshLODUniformChunkMergesPerLayer(t *testing.T) {
	voxels := types.UniformChunk(1)
	mesh := New().MeshLOD(voxels, Reduced)

	gridSize := Reduced.GridSize()
	want := 6 * gridSize
	if mesh.QuadCount() != want {
		t.Fatalf("expected %d quads, got %d", want, mesh.QuadCount())
	}
}

func TestMeshLODQuadsAreScaledToFullResolutionUnits(t *testing.T) {
	voxels := types.UniformChunk(1)
	mesh := New().MeshLOD(voxels, Low)
	scale := Low.Scale()

	for _, q := range mesh.Quads {
		if int(q.Width)%scale != 0 || int(q.Height)%scale != 0 {
			t.Fatalf("quad dimensions should be multiples of scale %d: %+v", scale, q)
		}
	}
}

func TestMeshLODAllAirProducesNoQuads(t *testing.T) {
	var voxels [types.ChunkSizeCb]types.BlockID
	mesh := New().MeshLOD(&voxels, Minimal)
	if !mesh.IsEmpty() {
		t.Errorf("expected empty mesh for all-air chunk, got %d quads", mesh.QuadCount())
	}
}
