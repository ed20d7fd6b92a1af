// Package lod implements distance-based level-of-detail selection and a
// downsampling mesher that trades geometric detail for draw-distance reach.
package lod

import "github.com/voxelforge/meshkit/meshing/types"

// Level names a discrete level of detail. Higher levels halve the
// resolution of the one below.
type Level uint8

const (
	Full     Level = iota // 1:1, scale 1
	Reduced               // scale 2
	Low                   // scale 4
	Minimal               // scale 8
)

// Scale returns the number of Full-resolution voxels represented by one
// cell at this level.
func (l Level) Scale() int {
	switch l {
	case Full:
		return 1
	case Reduced:
		return 2
	case Low:
		return 4
	case Minimal:
		return 8
	default:
		return 1
	}
}

// GridSize returns the per-axis cell count of a chunk downsampled to this
// level.
func (l Level) GridSize() int {
	return types.ChunkSize / l.Scale()
}

func (l Level) String() string {
	switch l {
	case Full:
		return "Full"
	case Reduced:
		return "Reduced"
	case Low:
		return "Low"
	case Minimal:
		return "Minimal"
	default:
		return "Unknown"
	}
}

// All lists every level in increasing coarseness order.
func All() []Level { return []Level{Full, Reduced, Low, Minimal} }

// Config holds the distance thresholds that drive level selection.
type Config struct {
	FullMax           float32
	ReducedMax        float32
	LowMax            float32
	MaxRenderDistance float32
	TransitionWidth   float32
}

// DefaultConfig mirrors the reference engine's tuned defaults.
func DefaultConfig() Config {
	return Config{
		FullMax:           16,
		ReducedMax:        32,
		LowMax:            48,
		MaxRenderDistance: 64,
		TransitionWidth:   2.0,
	}
}

// SelectLOD picks a level from a chunk's distance to the viewer, with no
// blend information. Every distance beyond LowMax yields Minimal;
// MaxRenderDistance is not consulted, so no distance is reported as
// unrendered.
func (c Config) SelectLOD(distance float32) Level {
	switch {
	case distance <= c.FullMax:
		return Full
	case distance <= c.ReducedMax:
		return Reduced
	case distance <= c.LowMax:
		return Low
	default:
		return Minimal
	}
}

// Transition describes a level selection plus how far into the blend band
// toward the next-coarser level the given distance falls.
type Transition struct {
	Level Level
	Blend float32 // 0 = fully this level, 1 = fully the next level
}

// IsBlending reports whether this transition straddles a level boundary.
func (t Transition) IsBlending() bool {
	return t.Blend > 0 && t.Blend < 1
}

// SelectLODWithBlend selects a level and computes a blend factor across a
// symmetric transition band centered on each boundary, so that LOD changes
// can be cross-faded rather than popping.
func (c Config) SelectLODWithBlend(distance float32) Transition {
	boundaries := []float32{c.FullMax, c.ReducedMax, c.LowMax}
	levels := []Level{Full, Reduced, Low, Minimal}

	half := c.TransitionWidth / 2

	for i, boundary := range boundaries {
		transitionStart := boundary - half
		if distance <= transitionStart {
			return Transition{Level: levels[i], Blend: 0}
		}
		if distance <= boundary+half {
			blend := (distance - transitionStart) / c.TransitionWidth
			blend = clamp01(blend)
			return Transition{Level: levels[i], Blend: blend}
		}
	}

	return Transition{Level: Minimal, Blend: 0}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
