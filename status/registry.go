package status

import (
	"fmt"
	"sync/atomic"
)

// Metric keys written by the simulation and particle pipeline
const (
	KeyFrames          = "sim.frames"
	KeyStepNanos       = "sim.step_ns"
	KeyStepPeakNanos   = "sim.step_peak_ns"
	KeyCollisions      = "sim.collisions"
	KeyWorkers         = "sim.workers"
	KeyEntities        = "sim.entities"
	KeyParticlesActive = "particles.visible"
	KeyExplosions      = "particles.explosions"
	KeyRespawns        = "particles.respawns"
	KeyVertices        = "render.vertices"
	KeyRunID           = "run.id"
	KeyPaused          = "run.paused"
)

// Registry is the central metrics facade
// Components cache pointers during init; hot loops write directly to atomics
type Registry struct {
	Bools   *MetricMap[atomic.Bool]
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Bools:   NewMetricMap[atomic.Bool](),
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}

// Snapshot flattens every metric into "key=value" pairs in sorted key order per type
// Used for the end-of-run report
func (r *Registry) Snapshot() []string {
	out := make([]string, 0, r.TotalCount())
	r.Ints.Range(func(key string, ptr *atomic.Int64) {
		out = append(out, fmt.Sprintf("%s=%d", key, ptr.Load()))
	})
	r.Floats.Range(func(key string, ptr *AtomicFloat) {
		out = append(out, fmt.Sprintf("%s=%.3f", key, ptr.Get()))
	})
	r.Bools.Range(func(key string, ptr *atomic.Bool) {
		out = append(out, fmt.Sprintf("%s=%t", key, ptr.Load()))
	})
	r.Strings.Range(func(key string, ptr *AtomicString) {
		out = append(out, fmt.Sprintf("%s=%s", key, ptr.Load()))
	})
	return out
}
