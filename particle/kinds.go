package particle

import (
	"math"

	"github.com/lixenwraith/blastfield/vmath"
)

// advanceParticle applies the shared curves then the kind's extra rule
func (s *System) advanceParticle(p *Particle, dt float64, view View, env Environment) {
	a := &s.Attr

	p.Age += dt
	p.Visible = p.Age > 0
	if !p.Visible {
		return
	}

	t := vmath.Clamp(p.Age/a.LifeSpan, 0, 1)

	p.Radius = math.Max(0, vmath.Lerp(a.StartSize, a.EndSize, curve(t, a.SizeExponent)))
	speed := vmath.Lerp(a.StartSpeed, a.EndSpeed, curve(t, a.SpeedExponent))
	p.Fade = vmath.Clamp(1-curve(t, a.FadeExponent), 0, 1)

	delta := vmath.V3FScale(p.Dir, speed*dt)

	switch s.Kind {
	case KindMushroomCloud:
		// Wind and roll ramp in with height above the blast center
		h := 1.0
		if a.WindFalloff > 0 {
			h = vmath.Clamp((p.Pos.Y-a.Center.Y)/a.WindFalloff, 0, 1)
		}
		delta = vmath.V3FAddScaled(delta, env.Wind, h*dt)
		p.Rot += a.RollAmount * vmath.V3FDot(delta, view.Right) * h

	case KindStalk:
		toCenter := vmath.V3FSub(a.Center, p.Pos)
		toCenter.Y = 0
		delta = vmath.V3FAddScaled(delta, toCenter, a.Pull*dt)
		// Taylor expansion of e^t - 1
		delta.Y += speed * (t + t*t/2 + t*t*t/6) * dt

	case KindGroundBurst:
		p.Dir = vmath.V3FScale(p.Dir, math.Max(0, 1-p.Drag*dt))

	case KindLandMine:
		p.Dir = vmath.V3FScale(p.Dir, math.Max(0, 1-p.Drag*dt))
		delta = vmath.V3FAddScaled(delta, env.Gravity, p.Age*dt)
	}

	p.Pos = vmath.V3FAdd(p.Pos, delta)
	p.Rot += p.RotRate * dt

	if (s.Kind == KindGroundBurst || s.Kind == KindLandMine) && p.Pos.Y < 0 {
		p.Pos.Y = 0
	}
}
