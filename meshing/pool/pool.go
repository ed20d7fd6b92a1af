package pool

import (
	"context"
	"sync"

	"github.com/voxelforge/meshkit/meshing/cpu"
	"github.com/voxelforge/meshkit/meshing/types"
)

// Job is one chunk waiting to be meshed.
type Job struct {
	Coord  types.ChunkCoord
	Voxels *[types.ChunkSizeCb]types.BlockID
}

// Result pairs a job's coordinate with its meshing outcome.
type Result struct {
	Coord types.ChunkCoord
	Mesh  types.ChunkMesh
}

// Mesher is anything that can mesh a dense voxel slab — cpu.Mesher and
// gpu.Mesher both satisfy it.
type Mesher interface {
	Mesh(voxels *[types.ChunkSizeCb]types.BlockID) types.ChunkMesh
}

// MesherPool runs a bounded number of worker goroutines, each owning its
// own Mesher so CPU meshers (which hold no shared state) and GPU meshers
// (which must not be dispatched concurrently) are equally safe to pool.
type MesherPool struct {
	jobs    chan Job
	results chan Result
	wg      sync.WaitGroup
}

// NewMesherPool starts workerCount goroutines, each constructed from
// newMesher. Pass a constructor rather than a shared instance so GPU
// backends get one Mesher (and one device queue) per worker.
func NewMesherPool(workerCount int, newMesher func() Mesher) *MesherPool {
	if workerCount < 1 {
		workerCount = 1
	}

	p := &MesherPool{
		jobs:    make(chan Job, workerCount*2),
		results: make(chan Result, workerCount*2),
	}

	for i := 0; i < workerCount; i++ {
		mesher := newMesher()
		p.wg.Add(1)
		go p.worker(mesher)
	}

	return p
}

// NewCPUMesherPool is a convenience constructor using the CPU mesher,
// which is stateless and safe to share across workers.
func NewCPUMesherPool(workerCount int) *MesherPool {
	shared := cpu.New()
	return NewMesherPool(workerCount, func() Mesher { return shared })
}

func (p *MesherPool) worker(m Mesher) {
	defer p.wg.Done()
	for job := range p.jobs {
		mesh := m.Mesh(job.Voxels)
		p.results <- Result{Coord: job.Coord, Mesh: mesh}
	}
}

// Submit enqueues jobs and blocks until all of their results have been
// collected, or ctx is cancelled. Results are returned in arrival order,
// not submission order.
func (p *MesherPool) Submit(ctx context.Context, jobs []Job) ([]Result, error) {
	go func() {
		for _, j := range jobs {
			p.jobs <- j
		}
	}()

	results := make([]Result, 0, len(jobs))
	for len(results) < len(jobs) {
		select {
		case r := <-p.results:
			results = append(results, r)
		case <-ctx.Done():
			return results, ctx.Err()
		}
	}
	return results, nil
}

// Close stops accepting new jobs and waits for in-flight workers to drain.
func (p *MesherPool) Close() {
	close(p.jobs)
	p.wg.Wait()
}
