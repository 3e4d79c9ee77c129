// Package terrain provides the height field that players follow
package terrain

import (
	"fmt"
	"math"

	"github.com/lixenwraith/blastfield/parameter"
	"github.com/lixenwraith/blastfield/vmath"
)

// Config shapes the procedural surface
type Config struct {
	WorldScale float64 // Side length of the square world centered on the origin
	Resolution int     // Samples per side, >= 2
	Amplitude  float64
	Wavelength float64 // Wavelength of the first octave
	Octaves    int
	Seed       uint64
}

// DefaultConfig returns the stock rolling-hills surface
func DefaultConfig() Config {
	return Config{
		WorldScale: parameter.WorldScale,
		Resolution: parameter.TerrainResolution,
		Amplitude:  parameter.TerrainAmplitude,
		Wavelength: parameter.TerrainWavelength,
		Octaves:    parameter.TerrainOctaves,
		Seed:       parameter.DefaultSeed,
	}
}

// HeightField is a regular grid of heights sampled bilinearly
// Immutable after construction, so concurrent reads from workers are safe
type HeightField struct {
	scale   float64
	res     int
	step    float64
	heights []float64 // res*res, row-major by z
}

// New samples the procedural surface into a height grid
func New(cfg Config) (*HeightField, error) {
	if !(cfg.WorldScale > 0) {
		return nil, fmt.Errorf("terrain world scale must be positive, got %v", cfg.WorldScale)
	}
	if cfg.Resolution < 2 {
		return nil, fmt.Errorf("terrain resolution must be at least 2, got %d", cfg.Resolution)
	}

	h := &HeightField{
		scale:   cfg.WorldScale,
		res:     cfg.Resolution,
		step:    cfg.WorldScale / float64(cfg.Resolution-1),
		heights: make([]float64, cfg.Resolution*cfg.Resolution),
	}

	// Per-octave phase offsets and directions from the seed
	rng := vmath.NewFastRand(cfg.Seed)
	type octave struct {
		amp, freq, phaseX, phaseZ float64
	}
	octaves := make([]octave, cfg.Octaves)
	amp, wl := cfg.Amplitude, cfg.Wavelength
	for i := range octaves {
		freq := 0.0
		if wl > 0 {
			freq = 2 * math.Pi / wl
		}
		octaves[i] = octave{amp, freq, rng.Float64() * 2 * math.Pi, rng.Float64() * 2 * math.Pi}
		amp *= 0.5
		wl *= 0.5
	}

	half := cfg.WorldScale / 2
	for zi := 0; zi < h.res; zi++ {
		z := -half + float64(zi)*h.step
		for xi := 0; xi < h.res; xi++ {
			x := -half + float64(xi)*h.step
			y := 0.0
			for _, o := range octaves {
				y += o.amp * math.Sin(x*o.freq+o.phaseX) * math.Cos(z*o.freq+o.phaseZ)
			}
			h.heights[zi*h.res+xi] = y
		}
	}
	return h, nil
}

// WorldScale returns the world side length
func (h *HeightField) WorldScale() float64 {
	return h.scale
}

// HeightAt samples bilinearly; coordinates outside the world clamp to the edge
// NaN coordinates read as height 0
func (h *HeightField) HeightAt(x, z float64) float64 {
	if math.IsNaN(x) || math.IsNaN(z) {
		return 0
	}
	gx, gz := h.toGrid(x, z)
	x0, z0 := int(gx), int(gz)
	if x0 >= h.res-1 {
		x0 = h.res - 2
	}
	if z0 >= h.res-1 {
		z0 = h.res - 2
	}
	fx, fz := gx-float64(x0), gz-float64(z0)

	h00 := h.heights[z0*h.res+x0]
	h10 := h.heights[z0*h.res+x0+1]
	h01 := h.heights[(z0+1)*h.res+x0]
	h11 := h.heights[(z0+1)*h.res+x0+1]

	return vmath.Lerp(vmath.Lerp(h00, h10, fx), vmath.Lerp(h01, h11, fx), fz)
}

// NormalAt returns the unit surface normal from central differences
func (h *HeightField) NormalAt(x, z float64) vmath.Vec3F {
	d := h.step
	dx := h.HeightAt(x+d, z) - h.HeightAt(x-d, z)
	dz := h.HeightAt(x, z+d) - h.HeightAt(x, z-d)
	return vmath.V3FNormalize(vmath.Vec3F{X: -dx, Y: 2 * d, Z: -dz})
}

// toGrid converts world coordinates to fractional grid coordinates clamped to the field
func (h *HeightField) toGrid(x, z float64) (float64, float64) {
	half := h.scale / 2
	limit := float64(h.res - 1)
	gx := vmath.Clamp((x+half)/h.step, 0, limit)
	gz := vmath.Clamp((z+half)/h.step, 0, limit)
	return gx, gz
}
