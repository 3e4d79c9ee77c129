package physics

import (
	"math"

	"github.com/lixenwraith/blastfield/vmath"
)

// Body is a read-only view of a sphere used for contact tests
type Body struct {
	Pos    vmath.Vec3F
	Vel    vmath.Vec3F
	Radius float64
}

// ContactProfile defines contact response parameters
type ContactProfile struct {
	Restitution float64 // Bounce coefficient on the contact normal
	Share       float64 // Fraction of penetration and impulse this side resolves
	Epsilon     float64 // Minimum center distance for a usable normal
}

// Contact is the one-sided correction for body A after touching body B
type Contact struct {
	Normal      vmath.Vec3F // Unit vector from B toward A
	Penetration float64
	DeltaPos    vmath.Vec3F
	DeltaVel    vmath.Vec3F
}

// Overlaps reports whether two spheres intersect (strictly)
func Overlaps(a, b Body) bool {
	sum := a.Radius + b.Radius
	return vmath.V3FDistSq(a.Pos, b.Pos) < sum*sum
}

// ResolveContact computes A's side of a sphere contact against B
// Only A is corrected; B resolves its own side when it runs the symmetric test,
// so each side takes Share of the penetration and of the impulse.
// Returns false when the spheres do not overlap or are coincident within Epsilon
func ResolveContact(a, b Body, profile *ContactProfile) (Contact, bool) {
	delta := vmath.V3FSub(a.Pos, b.Pos)
	distSq := vmath.V3FMagSq(delta)
	sum := a.Radius + b.Radius
	if distSq >= sum*sum {
		return Contact{}, false
	}

	dist := math.Sqrt(distSq)
	if dist < profile.Epsilon {
		return Contact{}, false
	}

	n := vmath.V3FScale(delta, 1.0/dist)
	pen := sum - dist

	// Approach speed along the normal; negative when closing
	vn := vmath.V3FDot(vmath.V3FSub(a.Vel, b.Vel), n)

	j := 0.0
	if vn < 0 {
		j = -(1 + profile.Restitution) * vn * profile.Share
	}
	// Resting overlaps still separate, proportional to depth
	j += pen * profile.Share * profile.Restitution

	return Contact{
		Normal:      n,
		Penetration: pen,
		DeltaPos:    vmath.V3FScale(n, pen*profile.Share),
		DeltaVel:    vmath.V3FScale(n, j),
	}, true
}
