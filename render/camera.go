package render

import (
	"math"

	"github.com/lixenwraith/blastfield/particle"
	"github.com/lixenwraith/blastfield/vmath"
)

// Camera is an orbiting eye looking at a fixed target
type Camera struct {
	Target   vmath.Vec3F
	Distance float64
	Height   float64
	Angle    float64 // Radians around the vertical axis
}

// Eye returns the camera position
func (c *Camera) Eye() vmath.Vec3F {
	return vmath.Vec3F{
		X: c.Target.X + math.Sin(c.Angle)*c.Distance,
		Y: c.Target.Y + c.Height,
		Z: c.Target.Z - math.Cos(c.Angle)*c.Distance,
	}
}

// View returns the billboard axes for the current eye
// Falls back to world axes when looking straight down
func (c *Camera) View() particle.View {
	forward := vmath.V3FNormalize(vmath.V3FSub(c.Target, c.Eye()))
	right := vmath.V3FCross(vmath.V3FUp, forward)
	if vmath.V3FMagSq(right) < 1e-12 {
		return particle.View{Right: vmath.V3FX, Up: vmath.V3FZ}
	}
	right = vmath.V3FNormalize(right)
	return particle.View{Right: right, Up: vmath.V3FCross(forward, right)}
}

// Orbit advances the angle by rate*dt
func (c *Camera) Orbit(rate, dt float64) {
	c.Angle = math.Mod(c.Angle+rate*dt, 2*math.Pi)
}
