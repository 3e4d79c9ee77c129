package particle

import (
	"fmt"
	"math"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBA is a gradient endpoint: color plus straight alpha
type RGBA struct {
	C colorful.Color
	A float64
}

// ParseRGBA accepts "#rgb", "#rrggbb" or "#rrggbbaa"; alpha defaults to 1
func ParseRGBA(s string) (RGBA, error) {
	alpha := 1.0
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return RGBA{}, fmt.Errorf("parse alpha in %q: %w", s, err)
		}
		alpha = float64(a) / 255
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return RGBA{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return RGBA{C: c, A: alpha}, nil
}

// MustRGBA parses a compile-time constant color
func MustRGBA(s string) RGBA {
	c, err := ParseRGBA(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Lerp blends a toward b in RGB space
func (a RGBA) Lerp(b RGBA, t float64) RGBA {
	return RGBA{C: a.C.BlendRgb(b.C, t), A: a.A + (b.A-a.A)*t}
}

// Pack converts to 0xAARRGGBB
func (a RGBA) Pack() uint32 {
	r, g, b := a.C.Clamped().RGB255()
	al := uint32(math.Round(math.Max(0, math.Min(1, a.A)) * 255))
	return al<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// Unpack splits 0xAARRGGBB into channels
func Unpack(c uint32) (r, g, b, a uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c), uint8(c >> 24)
}
