// Package gpu implements a WebGPU compute-shader chunk mesher: two
// dispatch passes (face culling, greedy merge) over pre-allocated,
// batch-sized buffers, with blocking CPU readback.
package gpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/voxelforge/meshkit/meshing/shaders"
	"github.com/voxelforge/meshkit/meshing/types"
)

// ErrGPUUnavailable is returned when no compatible WebGPU adapter/device
// could be acquired.
var ErrGPUUnavailable = errors.New("gpu: no compatible adapter available")

// ErrMesherBusy is returned when a mesh call is attempted while another is
// already in flight on the same Mesher; a Mesher has exactly one owner at
// a time.
var ErrMesherBusy = errors.New("gpu: mesher busy with another dispatch")

const (
	chunkSizeCb     = types.ChunkSizeCb
	maxQuads        = types.MaxQuads
	maxBatchSize    = types.MaxBatchSize
	faceMaskStride  = 6 * types.ChunkSizeSq
	packedQuadBytes = 8 // word0 (u32) + block_type (u32)
)

type buffers struct {
	voxel          *wgpu.Buffer
	quad           *wgpu.Buffer
	counter        *wgpu.Buffer
	faceMask       *wgpu.Buffer
	counterZero    *wgpu.Buffer
	quadStaging    *wgpu.Buffer
	counterStaging *wgpu.Buffer
	batchSize      int
}

// Mesher dispatches the two-pass compute mesher against a dedicated
// WebGPU device. A single Mesher is not safe for concurrent use — callers
// needing parallelism should use the worker pool, which owns one Mesher
// per worker.
type Mesher struct {
	device             *wgpu.Device
	queue              *wgpu.Queue
	faceCullingPipe    *wgpu.ComputePipeline
	greedyMergePipe    *wgpu.ComputePipeline
	bindGroup          *wgpu.BindGroup
	buf                buffers
	inFlight           atomic.Bool
}

// New acquires a high-performance adapter/device and pre-allocates buffers
// sized for batchSize chunks (clamped to [1, MaxBatchSize]). Returns
// ErrGPUUnavailable if no adapter could be acquired — callers should fall
// back to the CPU mesher in that case.
func New(batchSize int) (*Mesher, error) {
	if batchSize < 1 {
		batchSize = 1
	}
	if batchSize > maxBatchSize {
		batchSize = maxBatchSize
	}

	instance := wgpu.CreateInstance(nil)

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGPUUnavailable, err)
	}

	device, err := adapter.RequestDevice(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGPUUnavailable, err)
	}

	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Chunk Meshing Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.ComputeWGSL},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGPUUnavailable, err)
	}

	faceCullingPipe, err := device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label: "Face Culling Pipeline",
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     module,
			EntryPoint: "face_culling",
		},
	})
	if err != nil {
		panic(err)
	}

	greedyMergePipe, err := device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label: "Greedy Merge Pipeline",
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     module,
			EntryPoint: "greedy_merge",
		},
	})
	if err != nil {
		panic(err)
	}

	n := uint64(batchSize)
	voxelSize := n * chunkSizeCb * 4
	quadSize := n * maxQuads * packedQuadBytes
	counterSize := n * 4
	faceMaskSize := n * faceMaskStride * 4

	voxel, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Voxel Buffer",
		Size:  voxelSize,
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		panic(err)
	}

	quad, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Quad Output Buffer",
		Size:  quadSize,
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc,
	})
	if err != nil {
		panic(err)
	}

	counterZeros := make([]byte, counterSize)
	counter, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Quad Counter Buffer",
		Size:  counterSize,
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		panic(err)
	}
	device.GetQueue().WriteBuffer(counter, 0, counterZeros)

	faceMask, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Face Mask Buffer",
		Size:  faceMaskSize,
		Usage: wgpu.BufferUsageStorage,
	})
	if err != nil {
		panic(err)
	}

	counterZero, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Counter Zero Buffer",
		Size:  counterSize,
		Usage: wgpu.BufferUsageCopySrc,
	})
	if err != nil {
		panic(err)
	}
	device.GetQueue().WriteBuffer(counterZero, 0, counterZeros)

	quadStaging, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Quad Staging Buffer",
		Size:  quadSize,
		Usage: wgpu.BufferUsageCopyDst | wgpu.BufferUsageMapRead,
	})
	if err != nil {
		panic(err)
	}

	counterStaging, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Counter Staging Buffer",
		Size:  counterSize,
		Usage: wgpu.BufferUsageCopyDst | wgpu.BufferUsageMapRead,
	})
	if err != nil {
		panic(err)
	}

	bindGroup, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Meshing Bind Group",
		Layout: faceCullingPipe.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: voxel, Size: voxelSize},
			{Binding: 1, Buffer: quad, Size: quadSize},
			{Binding: 2, Buffer: counter, Size: counterSize},
			{Binding: 3, Buffer: faceMask, Size: faceMaskSize},
		},
	})
	if err != nil {
		panic(err)
	}

	return &Mesher{
		device:          device,
		queue:           device.GetQueue(),
		faceCullingPipe: faceCullingPipe,
		greedyMergePipe: greedyMergePipe,
		bindGroup:       bindGroup,
		buf: buffers{
			voxel:          voxel,
			quad:           quad,
			counter:        counter,
			faceMask:       faceMask,
			counterZero:    counterZero,
			quadStaging:    quadStaging,
			counterStaging: counterStaging,
			batchSize:      batchSize,
		},
	}, nil
}

// MeshChunk uploads a single chunk and returns its decoded mesh. Returns
// ErrMesherBusy if another dispatch is already in flight.
func (m *Mesher) MeshChunk(voxels *[chunkSizeCb]types.BlockID) (types.ChunkMesh, error) {
	results, err := m.MeshChunksBatch([]*[chunkSizeCb]types.BlockID{voxels})
	if err != nil {
		return types.ChunkMesh{}, err
	}
	return results[0], nil
}

// MeshChunkAsync is a convenience wrapper for MeshChunk in a goroutine,
// delivering the result on the returned channel.
func (m *Mesher) MeshChunkAsync(voxels *[chunkSizeCb]types.BlockID) <-chan meshResult {
	ch := make(chan meshResult, 1)
	go func() {
		mesh, err := m.MeshChunk(voxels)
		ch <- meshResult{Mesh: mesh, Err: err}
	}()
	return ch
}

// Mesh adapts MeshChunk to the pool.Mesher interface, panicking on error
// rather than returning a silently-wrong empty mesh. MesherPool workers do
// not recover panics. Prefer MeshChunk directly when the caller wants to
// handle ErrGPUUnavailable/ErrMesherBusy itself.
func (m *Mesher) Mesh(voxels *[chunkSizeCb]types.BlockID) types.ChunkMesh {
	mesh, err := m.MeshChunk(voxels)
	if err != nil {
		panic(err)
	}
	return mesh
}

type meshResult struct {
	Mesh types.ChunkMesh
	Err  error
}

// MeshChunksBatch dispatches face_culling and greedy_merge once for the
// whole batch (clamped to the Mesher's pre-allocated batch size and
// MaxBatchSize), amortizing submission overhead across all chunks.
func (m *Mesher) MeshChunksBatch(chunks []*[chunkSizeCb]types.BlockID) ([]types.ChunkMesh, error) {
	if !m.inFlight.CompareAndSwap(false, true) {
		return nil, ErrMesherBusy
	}
	defer m.inFlight.Store(false)

	n := len(chunks)
	if n > m.buf.batchSize {
		n = m.buf.batchSize
	}
	if n == 0 {
		return nil, nil
	}

	for i := 0; i < n; i++ {
		offset := uint64(i) * chunkSizeCb * 4
		data := make([]byte, chunkSizeCb*4)
		for j, b := range chunks[i] {
			binary.LittleEndian.PutUint32(data[j*4:], uint32(b))
		}
		m.queue.WriteBuffer(m.buf.voxel, offset, data)
	}

	counterSize := uint64(n) * 4

	encoder, err := m.device.CreateCommandEncoder(nil)
	if err != nil {
		panic(err)
	}

	encoder.CopyBufferToBuffer(m.buf.counterZero, 0, m.buf.counter, 0, counterSize)

	{
		pass := encoder.BeginComputePass(nil)
		pass.SetPipeline(m.faceCullingPipe)
		pass.SetBindGroup(0, m.bindGroup, nil)
		pass.DispatchWorkgroups(4, 6, uint32(n))
		pass.End()
	}
	{
		pass := encoder.BeginComputePass(nil)
		pass.SetPipeline(m.greedyMergePipe)
		pass.SetBindGroup(0, m.bindGroup, nil)
		pass.DispatchWorkgroups(32, 6, uint32(n))
		pass.End()
	}

	totalQuadBytes := uint64(n) * maxQuads * packedQuadBytes
	encoder.CopyBufferToBuffer(m.buf.counter, 0, m.buf.counterStaging, 0, counterSize)
	encoder.CopyBufferToBuffer(m.buf.quad, 0, m.buf.quadStaging, 0, totalQuadBytes)

	cmdBuf, err := encoder.Finish(nil)
	if err != nil {
		panic(err)
	}
	m.queue.Submit(cmdBuf)

	counts := m.readCounters(n)
	return m.readQuads(n, counts), nil
}

// readCounters performs a blocking MapAsync + Poll + GetMappedRange +
// Unmap round trip to read back the per-chunk quad counters.
func (m *Mesher) readCounters(n int) []uint32 {
	size := uint64(n) * 4
	mapped := false
	m.buf.counterStaging.MapAsync(wgpu.MapModeRead, 0, size, func(status wgpu.BufferMapAsyncStatus) {
		mapped = status == wgpu.BufferMapAsyncStatusSuccess
	})
	for !mapped {
		m.device.Poll(false, nil)
	}

	data := m.buf.counterStaging.GetMappedRange(0, uint(size))
	counts := make([]uint32, n)
	for i := range counts {
		v := binary.LittleEndian.Uint32(data[i*4 : i*4+4])
		if v > maxQuads {
			v = maxQuads
		}
		counts[i] = v
	}
	m.buf.counterStaging.Unmap()
	return counts
}

func (m *Mesher) readQuads(n int, counts []uint32) []types.ChunkMesh {
	totalQuadBytes := uint64(n) * maxQuads * packedQuadBytes
	mapped := false
	m.buf.quadStaging.MapAsync(wgpu.MapModeRead, 0, totalQuadBytes, func(status wgpu.BufferMapAsyncStatus) {
		mapped = status == wgpu.BufferMapAsyncStatusSuccess
	})
	for !mapped {
		m.device.Poll(false, nil)
	}

	data := m.buf.quadStaging.GetMappedRange(0, uint(totalQuadBytes))

	results := make([]types.ChunkMesh, n)
	for i := 0; i < n; i++ {
		count := int(counts[i])
		quads := make([]types.Quad, 0, count)
		base := i * int(maxQuads) * packedQuadBytes
		for q := 0; q < count; q++ {
			off := base + q*packedQuadBytes
			word0 := binary.LittleEndian.Uint32(data[off : off+4])
			blockType := binary.LittleEndian.Uint32(data[off+4 : off+8])
			pq := types.PackedQuad{Word0: word0, BlockType: blockType}
			quads = append(quads, pq.Unpack())
		}
		results[i] = types.ChunkMesh{Quads: quads}
	}

	m.buf.quadStaging.Unmap()
	return results
}
