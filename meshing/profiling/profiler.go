// Package profiling provides named scope timers and counters for the
// meshing pipeline (per-chunk CPU/GPU mesh time, quads emitted, palette
// widenings, and so on).
package profiling

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Profiler records named scope durations and counters across a meshing
// run; each scope keeps the duration of its most recent Begin/End pair. Not safe for concurrent use by multiple goroutines — give
// each pool worker its own Profiler and merge at the end if aggregate
// stats are needed.
type Profiler struct {
	Scopes     map[string]time.Duration
	StartTimes map[string]time.Time
	Counts     map[string]int
	Order      []string
}

func New() *Profiler {
	return &Profiler{
		Scopes:     make(map[string]time.Duration),
		StartTimes: make(map[string]time.Time),
		Counts:     make(map[string]int),
		Order:      make([]string, 0),
	}
}

// BeginScope marks the start of a named timing window.
func (p *Profiler) BeginScope(name string) {
	p.StartTimes[name] = time.Now()
	found := false
	for _, n := range p.Order {
		if n == name {
			found = true
			break
		}
	}
	if !found {
		p.Order = append(p.Order, name)
	}
}

// EndScope records the elapsed time since the matching BeginScope call.
func (p *Profiler) EndScope(name string) {
	if start, ok := p.StartTimes[name]; ok {
		p.Scopes[name] = time.Since(start)
	}
}

// SetCount records a named counter (e.g. quads emitted, chunks meshed).
func (p *Profiler) SetCount(name string, count int) {
	p.Counts[name] = count
}

// Reset zeroes all recorded durations while keeping scope order stable.
func (p *Profiler) Reset() {
	for k := range p.Scopes {
		p.Scopes[k] = 0
	}
}

// GetStatsString renders a human-readable summary of all timings and
// counters, for logging or an on-screen debug overlay.
func (p *Profiler) GetStatsString() string {
	var sb strings.Builder

	sb.WriteString("Timings (CPU/GPU):\n")
	for _, name := range p.Order {
		dur := p.Scopes[name]
		ms := float64(dur.Microseconds()) / 1000.0
		sb.WriteString(fmt.Sprintf("  %-20s: %.2f ms\n", name, ms))
	}

	sb.WriteString("\nStats:\n")
	keys := make([]string, 0, len(p.Counts))
	for k := range p.Counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("  %-20s: %d\n", k, p.Counts[k]))
	}

	return sb.String()
}
