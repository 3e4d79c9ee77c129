package particle

import (
	"errors"
	"fmt"
	"math"

	"github.com/lixenwraith/blastfield/parameter"
	"github.com/lixenwraith/blastfield/vmath"
)

// ErrInvalidAttributes is returned by Validate
var ErrInvalidAttributes = errors.New("invalid particle system attributes")

// Attributes is a system's parameter block, set once per life cycle
type Attributes struct {
	Center    vmath.Vec3F
	Spread    float64
	LifeSpan  float64
	StartTime float64 // Negative delays the start

	StartSize    float64
	EndSize      float64
	SizeExponent float64

	StartSpeed    float64
	EndSpeed      float64
	SpeedExponent float64

	FadeExponent float64

	RollAmount  float64 // Mushroom roll strength
	WindFalloff float64 // Height over which wind and roll ramp to full
	Pull        float64 // Stalk radial inward pull (1/sec)

	PosMul vmath.Vec3F // Per-axis spawn offset multiplier
	DirMul vmath.Vec3F // Per-axis direction multiplier

	Color0 RGBA // Flash end of the gradient
	Color1 RGBA // Smoke end of the gradient

	DragMin, DragMax float64 // Per-particle drag range for ground-hugging kinds
	RotRateMax       float64
}

// DefaultAttributes returns the stock curve for a kind at the origin
func DefaultAttributes(kind Kind) Attributes {
	a := Attributes{
		Spread:        parameter.ParticleSpread,
		LifeSpan:      parameter.MushroomLifeSpan,
		StartSize:     parameter.ParticleStartSize,
		EndSize:       parameter.ParticleEndSize,
		SizeExponent:  parameter.ParticleSizeExp,
		StartSpeed:    parameter.MushroomStartSpeed,
		EndSpeed:      parameter.ParticleEndSpeed,
		SpeedExponent: parameter.ParticleSpeedExp,
		FadeExponent:  parameter.ParticleFadeExp,
		RollAmount:    parameter.ParticleRollAmount,
		WindFalloff:   parameter.ParticleWindFall,
		Pull:          parameter.StalkPull,
		PosMul:        vmath.Vec3F{X: 1, Y: 1, Z: 1},
		DirMul:        vmath.Vec3F{X: 1, Y: 1, Z: 1},
		Color0:        MustRGBA(parameter.FlashPalette[0]),
		Color1:        MustRGBA(parameter.SmokeColor),
		DragMin:       parameter.BurstDragMin,
		DragMax:       parameter.BurstDragMax,
		RotRateMax:    parameter.ParticleRotRateMax,
	}

	switch kind {
	case KindStalk:
		a.StartSpeed = parameter.StalkStartSpeed
		a.PosMul = vmath.Vec3F{X: 1, Y: 0.1, Z: 1}
	case KindGroundBurst:
		a.LifeSpan = parameter.GroundBurstLifeSpan
		a.StartSpeed = parameter.GroundBurstStartSpeed
		a.PosMul = vmath.Vec3F{X: 1, Y: 0, Z: 1}
	case KindLandMine:
		a.LifeSpan = parameter.LandMineLifeSpan
		a.StartSpeed = parameter.LandMineStartSpeed
		a.PosMul = vmath.Vec3F{X: 1, Y: 0, Z: 1}
	}
	return a
}

// Validate rejects parameter blocks that would produce NaN or never finish
func (a *Attributes) Validate() error {
	if !(a.LifeSpan > 0) {
		return fmt.Errorf("%w: lifespan %v", ErrInvalidAttributes, a.LifeSpan)
	}
	if a.Spread < 0 {
		return fmt.Errorf("%w: spread %v", ErrInvalidAttributes, a.Spread)
	}
	// Curve exponents are whole powers
	for name, e := range map[string]float64{
		"size":  a.SizeExponent,
		"speed": a.SpeedExponent,
		"fade":  a.FadeExponent,
	} {
		if e <= 0 || e != math.Trunc(e) {
			return fmt.Errorf("%w: %s exponent %v must be a positive integer", ErrInvalidAttributes, name, e)
		}
	}
	if a.DragMin < 0 || a.DragMax < a.DragMin {
		return fmt.Errorf("%w: drag range [%v, %v]", ErrInvalidAttributes, a.DragMin, a.DragMax)
	}
	return nil
}

// curve is the shared emission shape 1 - (t-1)^n over t in [0, 1]
// The magnitude form keeps odd exponents rising from 0 to 1 as well
func curve(t, n float64) float64 {
	return 1 - math.Pow(math.Abs(t-1), n)
}
