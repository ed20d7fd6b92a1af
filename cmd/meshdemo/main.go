// Command meshdemo builds a synthetic terrain chunk, meshes it on the GPU
// if one is available, falls back to the CPU mesher otherwise, and prints
// mesh and timing stats.
package main

import (
	"errors"
	"flag"

	"github.com/voxelforge/meshkit/meshing/assemble"
	"github.com/voxelforge/meshkit/meshing/config"
	"github.com/voxelforge/meshkit/meshing/cpu"
	"github.com/voxelforge/meshkit/meshing/gpu"
	"github.com/voxelforge/meshkit/meshing/light"
	"github.com/voxelforge/meshkit/meshing/profiling"
	"github.com/voxelforge/meshkit/meshing/types"
)

func main() {
	useGPU := flag.Bool("gpu", true, "try the GPU mesher before falling back to CPU")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	cfg := config.New().WithDebugLogging(*debug)
	if *useGPU {
		cfg = cfg.WithGPU(1)
	}

	prof := profiling.New()
	voxels := types.TerrainChunk()

	mesh := meshChunk(cfg, prof, voxels)

	cfg.Logger.Infof("meshed chunk: %d quads", mesh.QuadCount())

	prof.BeginScope("light")
	lf := light.New()
	for x := 0; x < types.ChunkSize; x++ {
		for y := 0; y < types.ChunkSize; y++ {
			for z := 0; z < types.ChunkSize; z++ {
				if voxels[types.VoxelIndex(x, y, z)] == types.Air {
					lf.SetSkyLight(x, y, z, light.MaxLight)
				}
			}
		}
	}
	opaque := func(x, y, z int) bool {
		return voxels[types.VoxelIndex(x, y, z)] != types.Air
	}
	lf.PropagateSkyLight(opaque)
	prof.EndScope("light")

	prof.BeginScope("assemble")
	atlas := assemble.NewTextureAtlas(16, cfg.Logger.Warnf)
	assembler := assemble.New(atlas)
	vertices, indices := assembler.Assemble(mesh, lf, opaque)
	prof.EndScope("assemble")

	prof.SetCount("quads", mesh.QuadCount())
	prof.SetCount("vertices", len(vertices))
	prof.SetCount("indices", len(indices))

	cfg.Logger.Infof("\n%s", prof.GetStatsString())
}

func meshChunk(cfg *config.Config, prof *profiling.Profiler, voxels *[types.ChunkSizeCb]types.BlockID) types.ChunkMesh {
	if cfg.UseGPU {
		mesher, err := gpu.New(cfg.GPUBatchSize)
		if err == nil {
			prof.BeginScope("gpu_mesh")
			mesh, meshErr := mesher.MeshChunk(voxels)
			prof.EndScope("gpu_mesh")
			if meshErr == nil {
				return mesh
			}
			cfg.Logger.Warnf("gpu mesh dispatch failed, falling back to cpu: %v", meshErr)
		} else if errors.Is(err, gpu.ErrGPUUnavailable) {
			cfg.Logger.Warnf("no gpu available, falling back to cpu mesher: %v", err)
		} else {
			cfg.Logger.Warnf("gpu mesher init failed, falling back to cpu mesher: %v", err)
		}
	}

	prof.BeginScope("cpu_mesh")
	mesh := cpu.New().Mesh(voxels)
	prof.EndScope("cpu_mesh")
	return mesh
}
