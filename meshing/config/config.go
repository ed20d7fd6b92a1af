// Package config assembles pipeline-wide settings through a fluent builder,
// in the same style as the engine's App builder (NewApp().UseStates(...)).
package config

import (
	"runtime"

	"github.com/voxelforge/meshkit/meshing/lod"
)

// Config bundles the tunables shared across the meshing pipeline: worker
// count, GPU batch size, LOD thresholds, and logging.
type Config struct {
	WorkerCount   int
	GPUBatchSize  int
	UseGPU        bool
	LodConfig     lod.Config
	Logger        Logger
	DebugLogging  bool
}

// New returns a Config with sane single-machine defaults: one worker per
// logical core worth of meshing, CPU-only, default LOD thresholds.
func New() *Config {
	return &Config{
		WorkerCount:  runtime.GOMAXPROCS(0),
		GPUBatchSize: 1,
		UseGPU:       false,
		LodConfig:    lod.DefaultConfig(),
		Logger:       NewDefaultLogger("meshkit", false),
	}
}

func (c *Config) WithWorkerCount(n int) *Config {
	if n < 1 {
		n = 1
	}
	c.WorkerCount = n
	return c
}

func (c *Config) WithGPU(batchSize int) *Config {
	c.UseGPU = true
	if batchSize < 1 {
		batchSize = 1
	}
	c.GPUBatchSize = batchSize
	return c
}

func (c *Config) WithLodConfig(lc lod.Config) *Config {
	c.LodConfig = lc
	return c
}

func (c *Config) WithLogger(l Logger) *Config {
	c.Logger = l
	return c
}

func (c *Config) WithDebugLogging(enabled bool) *Config {
	c.DebugLogging = enabled
	if c.Logger != nil {
		c.Logger.SetDebug(enabled)
	}
	return c
}
