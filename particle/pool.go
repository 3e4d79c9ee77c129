// Package particle implements the CPU particle pipeline: a flat pool shared by a closed
// set of emitter kinds, each advancing its own contiguous sub-range
package particle

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/blastfield/vmath"
)

// ErrPoolExhausted is returned when a carve request exceeds the remaining capacity
var ErrPoolExhausted = errors.New("particle pool exhausted")

// Particle is one billboard record
type Particle struct {
	Pos     vmath.Vec3F
	Dir     vmath.Vec3F // Unit direction scaled by the kind's direction multiplier
	Radius  float64
	Age     float64 // Negative until the owning system starts
	Fade    float64 // 1 at birth, 0 at end of life
	Rot     float64 // Billboard rotation (radians)
	RotRate float64 // radians/sec
	Drag    float64 // Per-particle drag for ground-hugging kinds (1/sec)
	Color   uint32  // Packed 0xAARRGGBB
	Visible bool
}

// Range is a system's sub-range of the pool
type Range struct {
	Start, Count int
}

// Pool is the single pre-allocated particle array
// Ranges are carved once in creation order and never resized or released
type Pool struct {
	Particles []Particle
	used      int
}

// NewPool allocates capacity particles
func NewPool(capacity int) (*Pool, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity %d", ErrPoolExhausted, capacity)
	}
	return &Pool{Particles: make([]Particle, capacity)}, nil
}

// Carve reserves the next count particles
func (p *Pool) Carve(count int) (Range, error) {
	if count <= 0 {
		return Range{}, fmt.Errorf("%w: invalid count %d", ErrPoolExhausted, count)
	}
	if p.used+count > len(p.Particles) {
		return Range{}, fmt.Errorf("%w: need %d, %d free", ErrPoolExhausted, count, len(p.Particles)-p.used)
	}
	r := Range{Start: p.used, Count: count}
	p.used += count
	return r, nil
}

// Used returns the number of carved particles
func (p *Pool) Used() int {
	return p.used
}

// Slice returns the particles of a range
func (p *Pool) Slice(r Range) []Particle {
	return p.Particles[r.Start : r.Start+r.Count]
}
