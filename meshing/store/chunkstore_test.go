package store

import (
	"testing"

	"github.com/voxelforge/meshkit/meshing/types"
)

func TestOutOfBoundsReadsReturnAirAndWritesAreNoops(t *testing.T) {
	c := New()
	if got := c.Get(-1, 0, 0); got != types.Air {
		t.Errorf("out-of-bounds get should return air, got %d", got)
	}
	if got := c.Get(32, 0, 0); got != types.Air {
		t.Errorf("out-of-bounds get should return air, got %d", got)
	}
	c.Set(-1, 0, 0, 5)
	c.Set(32, 0, 0, 5)
	if c.PaletteSize() != 1 {
		t.Errorf("out-of-bounds set should be a no-op, palette size = %d", c.PaletteSize())
	}
}

// TestBitsPerBlockTransitions mirrors scenario S7: inserting ids 1, 3, 9 in
// sequence should widen bpb 0 -> 1 -> 2 -> 4.
func TestBitsPerBlockTransitions(t *testing.T) {
	c := New()

	c.Set(0, 0, 0, 1)
	if c.BitsPerBlock() != 1 {
		t.Fatalf("after 2nd distinct type, expected bpb=1, got %d", c.BitsPerBlock())
	}

	c.Set(1, 0, 0, 3)
	if c.BitsPerBlock() != 2 {
		t.Fatalf("after 3rd distinct type, expected bpb=2, got %d", c.BitsPerBlock())
	}

	c.Set(2, 0, 0, 9)
	if c.BitsPerBlock() != 4 {
		t.Fatalf("after 4th distinct type, expected bpb=4, got %d", c.BitsPerBlock())
	}

	if got := c.Get(0, 0, 0); got != 1 {
		t.Errorf("Get(0,0,0) = %d, want 1", got)
	}
	if got := c.Get(1, 0, 0); got != 3 {
		t.Errorf("Get(1,0,0) = %d, want 3", got)
	}
	if got := c.Get(2, 0, 0); got != 9 {
		t.Errorf("Get(2,0,0) = %d, want 9", got)
	}
}

func TestBitsPerBlockWidensMonotonically(t *testing.T) {
	c := New()
	prev := c.BitsPerBlock()
	for i := 1; i <= 20; i++ {
		c.Set(i%types.ChunkSize, 0, 0, types.BlockID(i))
		cur := c.BitsPerBlock()
		if cur < prev {
			t.Fatalf("bits_per_block shrank from %d to %d after inserting type %d", prev, cur, i)
		}
		prev = cur
	}
}

func TestRoundTripFromDense(t *testing.T) {
	dense := types.TerrainChunk()
	c := FromDense(dense)

	for z := 0; z < types.ChunkSize; z++ {
		for y := 0; y < types.ChunkSize; y++ {
			for x := 0; x < types.ChunkSize; x++ {
				want := dense[types.VoxelIndex(x, y, z)]
				if got := c.Get(x, y, z); got != want {
					t.Fatalf("round trip mismatch at (%d,%d,%d): got %d, want %d", x, y, z, got, want)
				}
			}
		}
	}
}

func TestMemoryBudgets(t *testing.T) {
	uniform := FromDense(types.UniformChunk(1))
	if got := uniform.MemoryUsage(); got > 100 {
		t.Errorf("uniform chunk should be <=100B, got %d", got)
	}

	twoType := New()
	twoType.Set(0, 0, 0, 1)
	if got := twoType.MemoryUsage(); got > 5*1024 {
		t.Errorf("two-type chunk should be <=5KB, got %d", got)
	}

	eightType := New()
	for i := 1; i <= 8; i++ {
		eightType.Set(i-1, 0, 0, types.BlockID(i))
	}
	if got := eightType.MemoryUsage(); got > 20*1024 {
		t.Errorf("eight-type chunk should be <=20KB, got %d", got)
	}
}

func TestSetOverwriteDoesNotGrowPalette(t *testing.T) {
	c := New()
	c.Set(0, 0, 0, 7)
	size := c.PaletteSize()
	c.Set(0, 0, 0, 7)
	if c.PaletteSize() != size {
		t.Errorf("re-setting an existing type should not grow the palette")
	}
	c.Set(0, 0, 0, types.Air)
	if c.Get(0, 0, 0) != types.Air {
		t.Errorf("expected air after overwrite")
	}
}

func BenchmarkSetWideningPalette(b *testing.B) {
	for i := 0; i < b.N; i++ {
		c := New()
		for t := types.BlockID(1); t <= 300; t++ {
			c.Set(int(t%types.ChunkSize), int((t/types.ChunkSize)%types.ChunkSize), int(t/(types.ChunkSize*types.ChunkSize)), t)
		}
	}
}
