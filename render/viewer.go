package render

import (
	"context"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/blastfield/particle"
)

// Action is a user command read from the terminal
type Action uint8

const (
	ActionNone Action = iota
	ActionQuit
	ActionTogglePause
	ActionReset
	ActionResize
)

// Frame is everything the viewer plots in one refresh
type Frame struct {
	Positions []float32 // x, y, z, radius per entity
	Pool      *particle.Pool
	Order     []int // Pool indices nearest first, drawn in reverse
	Status    string
}

// Viewer is a top-down terminal plot of the world
// Row 0 is the status line; the world fills the rest of the screen
type Viewer struct {
	screen     tcell.Screen
	canvas     *Canvas
	worldScale float64
}

// NewViewer wraps an initialized screen
func NewViewer(screen tcell.Screen, worldScale float64) *Viewer {
	w, h := screen.Size()
	screen.HideCursor()
	return &Viewer{
		screen:     screen,
		canvas:     NewCanvas(w, h),
		worldScale: worldScale,
	}
}

// Canvas exposes the composed cells of the last Draw
func (v *Viewer) Canvas() *Canvas {
	return v.canvas
}

// Project maps world x, z onto a canvas column and row below the status line
// ok is false when the point falls outside the plotted area
func (v *Viewer) Project(x, z float64) (col, row int, ok bool) {
	w, h := v.canvas.Bounds()
	if w <= 0 || h <= 1 {
		return 0, 0, false
	}
	half := v.worldScale / 2
	u := (x + half) / v.worldScale
	t := (z + half) / v.worldScale
	if u < 0 || u >= 1 || t < 0 || t >= 1 || math.IsNaN(u) || math.IsNaN(t) {
		return 0, 0, false
	}
	return int(u * float64(w)), 1 + int(t*float64(h-1)), true
}

// Draw composes the frame and shows it
func (v *Viewer) Draw(f Frame) {
	v.canvas.Clear()

	if f.Pool != nil {
		for i := len(f.Order) - 1; i >= 0; i-- {
			p := &f.Pool.Particles[f.Order[i]]
			if !p.Visible {
				continue
			}
			col, row, ok := v.Project(p.Pos.X, p.Pos.Z)
			if !ok {
				continue
			}
			r, g, b, a := particle.Unpack(p.Color)
			v.canvas.Set(col, row, particleRune(p.Radius), RGB{r, g, b}, p.Fade*float64(a)/255)
		}
	}

	for i := 0; i+3 < len(f.Positions); i += 4 {
		col, row, ok := v.Project(float64(f.Positions[i]), float64(f.Positions[i+2]))
		if !ok {
			continue
		}
		v.canvas.Set(col, row, 'o', RgbEntity, 1)
	}

	v.canvas.SetText(0, 0, f.Status, RgbStatus)
	v.canvas.Flush(v.screen)
	v.screen.Show()
}

func particleRune(radius float64) rune {
	switch {
	case radius < 2:
		return '.'
	case radius < 6:
		return '*'
	default:
		return '#'
	}
}

// Run polls terminal events and forwards actions until ctx ends or the screen is finalized
func (v *Viewer) Run(ctx context.Context, actions chan<- Action) error {
	events := make(chan tcell.Event, 16)
	go pollEvents(ctx, v.screen, events)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			a := v.handleEvent(ev)
			if a == ActionNone {
				continue
			}
			select {
			case actions <- a:
			case <-ctx.Done():
				return nil
			}
			if a == ActionQuit {
				return nil
			}
		}
	}
}

// pollEvents forwards screen events until the screen is finalized or ctx ends
// events is closed only when the screen is finalized
func pollEvents(ctx context.Context, screen tcell.Screen, events chan<- tcell.Event) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			close(events)
			return
		}
		select {
		case events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

func (v *Viewer) handleEvent(ev tcell.Event) Action {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
			return ActionQuit
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
			return ActionQuit
		case ev.Key() == tcell.KeyRune && ev.Rune() == ' ':
			return ActionTogglePause
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'r':
			return ActionReset
		}
	case *tcell.EventResize:
		return ActionResize
	}
	return ActionNone
}

// Resize matches the canvas to the screen; call from the drawing goroutine
func (v *Viewer) Resize() {
	v.screen.Sync()
	w, h := v.screen.Size()
	v.canvas.Resize(w, h)
}

// Close restores the terminal
func (v *Viewer) Close() {
	v.screen.Fini()
}
