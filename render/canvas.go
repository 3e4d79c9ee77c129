package render

import (
	"github.com/gdamore/tcell/v2"
)

// RGB is an 8-bit color
type RGB struct {
	R, G, B uint8
}

var (
	RGBBlack      = RGB{0, 0, 0}
	RgbBackground = RGB{26, 27, 38}
	RgbEntity     = RGB{192, 202, 245}
	RgbStatus     = RGB{122, 162, 247}
)

// Blend mixes src over c by alpha
func Blend(c, src RGB, alpha float64) RGB {
	if alpha >= 1.0 {
		return src
	}
	if alpha <= 0.0 {
		return c
	}
	inv := 1.0 - alpha
	return RGB{
		R: uint8(float64(src.R)*alpha + float64(c.R)*inv),
		G: uint8(float64(src.G)*alpha + float64(c.G)*inv),
		B: uint8(float64(src.B)*alpha + float64(c.B)*inv),
	}
}

// Cell is one character cell of the canvas
type Cell struct {
	Rune rune
	Fg   RGB
	Bg   RGB
}

// ContentSetter is the subset of tcell.Screen the canvas writes to
type ContentSetter interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
}

// Canvas is a compositor over a cell array with touched tracking
type Canvas struct {
	cells   []Cell
	touched []bool
	width   int
	height  int
}

// NewCanvas creates a canvas of the given dimensions
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{}
	c.Resize(width, height)
	return c
}

// Resize adjusts dimensions, reallocates only if capacity is insufficient
func (c *Canvas) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	size := width * height
	if cap(c.cells) < size {
		c.cells = make([]Cell, size)
		c.touched = make([]bool, size)
	} else {
		c.cells = c.cells[:size]
		c.touched = c.touched[:size]
	}
	c.width = width
	c.height = height
	c.Clear()
}

// Bounds returns the canvas dimensions
func (c *Canvas) Bounds() (int, int) {
	return c.width, c.height
}

// Clear resets all cells using exponential copy
func (c *Canvas) Clear() {
	if len(c.cells) == 0 {
		return
	}
	c.cells[0] = Cell{Rune: ' ', Fg: RgbEntity, Bg: RgbBackground}
	c.touched[0] = false
	for filled := 1; filled < len(c.cells); filled *= 2 {
		copy(c.cells[filled:], c.cells[:filled])
	}
	for filled := 1; filled < len(c.touched); filled *= 2 {
		copy(c.touched[filled:], c.touched[:filled])
	}
}

func (c *Canvas) inBounds(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

// Set writes a rune with an alpha-blended foreground; background is kept
func (c *Canvas) Set(x, y int, r rune, fg RGB, alpha float64) {
	if !c.inBounds(x, y) {
		return
	}
	idx := y*c.width + x
	dst := &c.cells[idx]
	dst.Rune = r
	if c.touched[idx] {
		dst.Fg = Blend(dst.Fg, fg, alpha)
	} else {
		dst.Fg = Blend(dst.Bg, fg, alpha)
	}
	c.touched[idx] = true
}

// SetText writes a string left to right starting at x, y
func (c *Canvas) SetText(x, y int, s string, fg RGB) {
	for _, r := range s {
		c.Set(x, y, r, fg, 1)
		x++
	}
}

// Get returns the cell at x, y; out of range yields the zero cell
func (c *Canvas) Get(x, y int) Cell {
	if !c.inBounds(x, y) {
		return Cell{}
	}
	return c.cells[y*c.width+x]
}

// Flush writes every cell to the screen
func (c *Canvas) Flush(screen ContentSetter) {
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			cell := c.cells[y*c.width+x]
			style := tcell.StyleDefault.
				Foreground(toTcell(cell.Fg)).
				Background(toTcell(cell.Bg))
			screen.SetContent(x, y, cell.Rune, nil, style)
		}
	}
}

func toTcell(c RGB) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
