package physics

import (
	"github.com/lixenwraith/blastfield/vmath"
)

// Kinetic is the integrable part of a body
type Kinetic struct {
	Pos     vmath.Vec3F
	Vel     vmath.Vec3F
	Accel   vmath.Vec3F
	Gravity vmath.Vec3F
	Drag    float64 // Linear drag coefficient (1/sec)
}

// DragDelta returns the velocity change from linear drag over dt
// The change never exceeds the current velocity, so drag can stop a body but not reverse it
func DragDelta(vel vmath.Vec3F, drag, dt float64) vmath.Vec3F {
	if drag <= 0 || dt <= 0 {
		return vmath.Vec3F{}
	}
	f := drag * dt
	if f > 1 {
		f = 1
	}
	return vmath.V3FScale(vel, -f)
}

// Integrate performs forward Euler: v += (a + g)*dt + drag; p += v*dt
func Integrate(k *Kinetic, dt float64) {
	dv := vmath.V3FScale(vmath.V3FAdd(k.Accel, k.Gravity), dt)
	dv = vmath.V3FAdd(dv, DragDelta(k.Vel, k.Drag, dt))
	k.Vel = vmath.V3FAdd(k.Vel, dv)
	k.Pos = vmath.V3FAddScaled(k.Pos, k.Vel, dt)
}

// ReflectBounds clamps X and Z to [-half, half] and negates the offending velocity component
// Returns true if any reflection occurred
func ReflectBounds(k *Kinetic, half float64) bool {
	hit := false
	if k.Pos.X > half {
		k.Pos.X = half
		k.Vel.X = -k.Vel.X
		hit = true
	} else if k.Pos.X < -half {
		k.Pos.X = -half
		k.Vel.X = -k.Vel.X
		hit = true
	}
	if k.Pos.Z > half {
		k.Pos.Z = half
		k.Vel.Z = -k.Vel.Z
		hit = true
	} else if k.Pos.Z < -half {
		k.Pos.Z = -half
		k.Vel.Z = -k.Vel.Z
		hit = true
	}
	return hit
}

// ProjectOntoPlane removes the component of v along the unit normal n
// n × (v × n) is v minus its normal component for unit n
func ProjectOntoPlane(v, n vmath.Vec3F) vmath.Vec3F {
	return vmath.V3FCross(n, vmath.V3FCross(v, n))
}
