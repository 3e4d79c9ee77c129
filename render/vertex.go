package render

import (
	"github.com/chewxy/math32"

	"github.com/lixenwraith/blastfield/particle"
	"github.com/lixenwraith/blastfield/vmath"
)

// VerticesPerParticle is the two-triangle quad expansion
const VerticesPerParticle = 6

// Vertex is one corner of a camera-facing particle quad
type Vertex struct {
	Pos   [3]float32
	UV    [2]float32
	Life  float32 // Fade factor
	Rot   float32
	Color uint32 // 0xAARRGGBB
}

// Unit quad corners and their texture coordinates, two triangles (0,1,2) (0,2,3)
var (
	quadCorners = [VerticesPerParticle][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, -1}, {1, 1}, {-1, 1}}
	quadUV      = [VerticesPerParticle][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 1}, {1, 0}, {0, 0}}
)

// appendQuad expands p into six vertices offset along the camera axes
func appendQuad(dst []Vertex, p *particle.Particle, right, up [3]float32) []Vertex {
	sin, cos := math32.Sincos(float32(p.Rot))
	r := float32(p.Radius)
	center := vec32(p.Pos)

	for i, c := range quadCorners {
		x := (c[0]*cos - c[1]*sin) * r
		y := (c[0]*sin + c[1]*cos) * r
		dst = append(dst, Vertex{
			Pos: [3]float32{
				center[0] + right[0]*x + up[0]*y,
				center[1] + right[1]*x + up[1]*y,
				center[2] + right[2]*x + up[2]*y,
			},
			UV:    quadUV[i],
			Life:  float32(p.Fade),
			Rot:   float32(p.Rot),
			Color: p.Color,
		})
	}
	return dst
}

func vec32(v vmath.Vec3F) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}

// QuadCenter averages a quad's six corners; the rotation cancels out
func QuadCenter(quad []Vertex) [3]float32 {
	var c [3]float32
	if len(quad) == 0 {
		return c
	}
	for _, v := range quad {
		c[0] += v.Pos[0]
		c[1] += v.Pos[1]
		c[2] += v.Pos[2]
	}
	n := float32(len(quad))
	return [3]float32{c[0] / n, c[1] / n, c[2] / n}
}
