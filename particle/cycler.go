package particle

import (
	"errors"

	"github.com/lixenwraith/blastfield/vmath"
)

// Group is a set of systems that respawn together and share center, start time and flash color
// The first system decides when the group has finished
type Group []*System

// Cycler is the respawn policy: finished groups move to a new random location and restart
type Cycler struct {
	rng      *vmath.FastRand
	palette  []RGBA
	bounds   float64
	maxDelay float64
}

// NewCycler creates a respawn policy; palette must be non-empty
func NewCycler(rng *vmath.FastRand, palette []RGBA, bounds, maxDelay float64) *Cycler {
	return &Cycler{rng: rng, palette: palette, bounds: bounds, maxDelay: maxDelay}
}

// Respawn relocates and reinitializes every system of g
// A system whose new block fails validation keeps its old block and is not reinitialized
func (c *Cycler) Respawn(g Group) error {
	if len(g) == 0 {
		return nil
	}
	center := vmath.Vec3F{
		X: c.rng.Range(-c.bounds, c.bounds),
		Z: c.rng.Range(-c.bounds, c.bounds),
	}
	start := -c.rng.Float64() * c.maxDelay
	flash := c.palette[c.rng.Intn(len(c.palette))]

	var errs []error
	for _, s := range g {
		attr := s.Attr
		attr.Center = center
		attr.StartTime = start
		attr.Color0 = flash
		if err := s.SetAttributes(attr); err != nil {
			errs = append(errs, err)
			continue
		}
		s.Init(c.rng)
	}
	return errors.Join(errs...)
}

// Update respawns every group whose lead system has run past its lifespan
// Returns the number of groups respawned and any validation failures
func (c *Cycler) Update(groups []Group) (int, error) {
	n := 0
	var errs []error
	for _, g := range groups {
		if len(g) > 0 && g[0].Finished() {
			if err := c.Respawn(g); err != nil {
				errs = append(errs, err)
			}
			n++
		}
	}
	return n, errors.Join(errs...)
}
