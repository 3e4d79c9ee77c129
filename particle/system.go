package particle

import (
	"fmt"
	"math"

	"github.com/lixenwraith/blastfield/vmath"
)

// Kind selects a system's init and advance rules
type Kind uint8

const (
	KindDefault Kind = iota
	KindMushroomCloud
	KindStalk
	KindGroundBurst
	KindLandMine
)

func (k Kind) String() string {
	switch k {
	case KindDefault:
		return "default"
	case KindMushroomCloud:
		return "mushroom"
	case KindStalk:
		return "stalk"
	case KindGroundBurst:
		return "ground_burst"
	case KindLandMine:
		return "land_mine"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// View carries the camera axes used by view-relative rules
type View struct {
	Right vmath.Vec3F
	Up    vmath.Vec3F
}

// Environment carries world forces applied during Advance
type Environment struct {
	Wind    vmath.Vec3F
	Gravity vmath.Vec3F
}

// ExplosionSink receives the one-shot activation event of a system
type ExplosionSink interface {
	TriggerExplosion(center vmath.Vec3F, size float64)
}

// System owns a contiguous range of the pool and advances it with its kind's rule
// Not safe for concurrent use; systems run on the main thread only
type System struct {
	Kind        Kind
	Attr        Attributes
	Range       Range
	CurrentTime float64 // Seconds since start; negative while waiting

	particles []Particle
	started   bool
}

// NewSystem validates attr and carves count particles from pool
func NewSystem(pool *Pool, kind Kind, attr Attributes, count int) (*System, error) {
	if err := attr.Validate(); err != nil {
		return nil, fmt.Errorf("%s system: %w", kind, err)
	}
	r, err := pool.Carve(count)
	if err != nil {
		return nil, fmt.Errorf("%s system: %w", kind, err)
	}
	return &System{
		Kind:      kind,
		Attr:      attr,
		Range:     r,
		particles: pool.Slice(r),
	}, nil
}

// Particles returns the system's slice of the pool
func (s *System) Particles() []Particle {
	return s.particles
}

// Started reports whether the activation event has fired for the current cycle
func (s *System) Started() bool {
	return s.started
}

// Finished reports whether the current cycle has run past its lifespan
func (s *System) Finished() bool {
	return s.CurrentTime > s.Attr.LifeSpan
}

// SetAttributes replaces the parameter block; takes effect at the next Init
func (s *System) SetAttributes(attr Attributes) error {
	if err := attr.Validate(); err != nil {
		return fmt.Errorf("%s system: %w", s.Kind, err)
	}
	s.Attr = attr
	return nil
}

// Init reseeds every particle of the range and rearms the activation event
func (s *System) Init(rng *vmath.FastRand) {
	a := &s.Attr
	s.CurrentTime = a.StartTime
	s.started = false

	for i := range s.particles {
		p := &s.particles[i]

		offset := vmath.Vec3F{
			X: rng.Percent() * a.Spread,
			Y: rng.Percent() * a.Spread,
			Z: rng.Percent() * a.Spread,
		}
		p.Pos = vmath.V3FAdd(a.Center, vmath.V3FMul(offset, a.PosMul))
		p.Dir = vmath.V3FMul(vmath.V3FNormalize(s.initialDirection(rng)), a.DirMul)

		p.Radius = a.StartSize
		p.Age = a.StartTime
		p.Fade = 1
		p.Rot = rng.Float64() * 2 * math.Pi
		p.RotRate = rng.Percent() * a.RotRateMax
		p.Color = a.Color0.Lerp(a.Color1, rng.Float64()).Pack()
		p.Visible = false

		p.Drag = 0
		if s.Kind == KindGroundBurst || s.Kind == KindLandMine {
			p.Drag = rng.Range(a.DragMin, a.DragMax)
		}
	}
}

// initialDirection draws the unnormalized launch direction for the kind
func (s *System) initialDirection(rng *vmath.FastRand) vmath.Vec3F {
	switch s.Kind {
	case KindStalk:
		return vmath.Vec3F{X: rng.Percent() * 0.1, Y: 1, Z: rng.Percent() * 0.1}
	case KindGroundBurst:
		return vmath.Vec3F{X: rng.Percent(), Y: math.Abs(rng.Percent()) * 0.1, Z: rng.Percent()}
	case KindLandMine:
		return vmath.Vec3F{X: rng.Percent() * 0.15, Y: 1, Z: rng.Percent() * 0.15}
	default:
		// Upward-biased hemisphere
		return vmath.Vec3F{X: rng.Percent(), Y: math.Abs(rng.Percent()), Z: rng.Percent()}
	}
}

// Advance moves the system forward by elapsed seconds
// Returns true on the frame the system activates; sink may be nil
func (s *System) Advance(elapsed float64, view View, env Environment, sink ExplosionSink) bool {
	s.CurrentTime += elapsed

	if s.CurrentTime <= 0 {
		for i := range s.particles {
			s.particles[i].Visible = false
			s.particles[i].Age += elapsed
		}
		return false
	}

	fired := false
	if !s.started {
		s.started = true
		fired = true
		if sink != nil {
			sink.TriggerExplosion(s.Attr.Center, s.Attr.EndSize)
		}
	}

	for i := range s.particles {
		s.advanceParticle(&s.particles[i], elapsed, view, env)
	}
	return fired
}

// VisibleCount returns the number of particles currently marked visible
func (s *System) VisibleCount() int {
	n := 0
	for i := range s.particles {
		if s.particles[i].Visible {
			n++
		}
	}
	return n
}
