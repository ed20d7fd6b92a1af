package pool

import (
	"sync"

	"github.com/voxelforge/meshkit/meshing/types"
)

// DirtyTracker records which chunks need remeshing, the way XBrickMap
// tracks DirtySectors/DirtyBricks — a set rebuilt wholesale on drain rather
// than removed entry-by-entry.
type DirtyTracker struct {
	mu    sync.Mutex
	dirty map[types.ChunkCoord]bool
}

func NewDirtyTracker() *DirtyTracker {
	return &DirtyTracker{dirty: make(map[types.ChunkCoord]bool)}
}

// MarkDirty flags a chunk as needing remeshing.
func (t *DirtyTracker) MarkDirty(c types.ChunkCoord) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dirty[c] = true
}

// IsDirty reports whether a chunk is currently flagged.
func (t *DirtyTracker) IsDirty(c types.ChunkCoord) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dirty[c]
}

// DrainDirty returns every currently-dirty chunk coordinate and clears the
// set atomically, so chunks marked dirty again during meshing aren't lost.
func (t *DirtyTracker) DrainDirty() []types.ChunkCoord {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]types.ChunkCoord, 0, len(t.dirty))
	for c := range t.dirty {
		out = append(out, c)
	}
	t.dirty = make(map[types.ChunkCoord]bool)
	return out
}

// Count returns the number of chunks currently flagged dirty.
func (t *DirtyTracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.dirty)
}
