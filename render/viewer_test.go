package render

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/blastfield/particle"
	"github.com/lixenwraith/blastfield/vmath"
)

func newSimScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(w, h)
	return screen
}

func TestCanvasClearAndBlend(t *testing.T) {
	c := NewCanvas(4, 3)
	c.Set(1, 1, '*', RGB{255, 0, 0}, 1)
	assert.Equal(t, Cell{Rune: '*', Fg: RGB{255, 0, 0}, Bg: RgbBackground}, c.Get(1, 1))

	// Second write blends over the first
	c.Set(1, 1, '#', RGB{0, 0, 255}, 0.5)
	got := c.Get(1, 1)
	assert.Equal(t, '#', got.Rune)
	assert.Equal(t, RGB{127, 0, 127}, got.Fg)

	c.Set(-1, 0, 'x', RGBBlack, 1)
	c.Set(4, 0, 'x', RGBBlack, 1)
	assert.Equal(t, Cell{}, c.Get(4, 0))

	c.Clear()
	assert.Equal(t, ' ', c.Get(1, 1).Rune)
	assert.Equal(t, ' ', c.Get(3, 2).Rune)
}

func TestCanvasResizeReusesCapacity(t *testing.T) {
	c := NewCanvas(10, 10)
	c.Resize(5, 4)
	w, h := c.Bounds()
	assert.Equal(t, 5, w)
	assert.Equal(t, 4, h)
	assert.Len(t, c.cells, 20)
	assert.Equal(t, 100, cap(c.cells))
}

func TestBlendEndpoints(t *testing.T) {
	a, b := RGB{10, 20, 30}, RGB{200, 100, 0}
	assert.Equal(t, a, Blend(a, b, 0))
	assert.Equal(t, b, Blend(a, b, 1))
	assert.Equal(t, b, Blend(a, b, 2))
}

func TestViewerProject(t *testing.T) {
	screen := newSimScreen(t, 40, 21)
	defer screen.Fini()
	v := NewViewer(screen, 100)

	col, row, ok := v.Project(-50, -50)
	require.True(t, ok)
	assert.Equal(t, 0, col)
	assert.Equal(t, 1, row)

	col, row, ok = v.Project(0, 0)
	require.True(t, ok)
	assert.Equal(t, 20, col)
	assert.Equal(t, 11, row)

	_, _, ok = v.Project(50, 0)
	assert.False(t, ok)
	_, _, ok = v.Project(0, -60)
	assert.False(t, ok)
}

func TestViewerDrawPlotsEntitiesAndParticles(t *testing.T) {
	screen := newSimScreen(t, 40, 21)
	defer screen.Fini()
	v := NewViewer(screen, 100)

	pool, err := particle.NewPool(2)
	require.NoError(t, err)
	_, err = pool.Carve(2)
	require.NoError(t, err)
	pool.Particles[0] = particle.Particle{Pos: vmath.Vec3F{X: -25, Z: -25}, Radius: 8, Fade: 1, Color: 0xffff8000, Visible: true}
	pool.Particles[1] = particle.Particle{Pos: vmath.Vec3F{X: 25, Z: 25}, Radius: 1, Fade: 1, Color: 0xffff8000}

	v.Draw(Frame{
		Positions: []float32{0, 1, 0, 1},
		Pool:      pool,
		Order:     []int{0, 1},
		Status:    "frame 1",
	})

	canvas := v.Canvas()
	assert.Equal(t, 'o', canvas.Get(20, 11).Rune)
	assert.Equal(t, '#', canvas.Get(10, 6).Rune)
	assert.Equal(t, ' ', canvas.Get(30, 16).Rune) // invisible particle
	assert.Equal(t, 'f', canvas.Get(0, 0).Rune)

	r, _, _, _ := screen.GetContent(20, 11)
	assert.Equal(t, 'o', r)
}

func TestViewerRunTranslatesKeys(t *testing.T) {
	screen := newSimScreen(t, 20, 10)
	v := NewViewer(screen, 10)
	defer v.Close()

	actions := make(chan Action, 8)
	done := make(chan error, 1)
	go func() { done <- v.Run(context.Background(), actions) }()

	screen.InjectKey(tcell.KeyRune, ' ', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'r', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("viewer did not stop on quit")
	}

	var got []Action
	for len(actions) > 0 {
		if a := <-actions; a != ActionResize {
			got = append(got, a)
		}
	}
	assert.Equal(t, []Action{ActionTogglePause, ActionReset, ActionQuit}, got)
}

func TestViewerRunStopsOnCancel(t *testing.T) {
	screen := newSimScreen(t, 20, 10)
	v := NewViewer(screen, 10)
	defer v.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- v.Run(ctx, make(chan Action, 8)) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("viewer did not stop on cancel")
	}
}

// TestPollEventsExitsWhenConsumerGone: a poller stuck on an unread channel exits once ctx ends
func TestPollEventsExitsWhenConsumerGone(t *testing.T) {
	screen := newSimScreen(t, 20, 10)
	defer screen.Fini()

	for i := 0; i < 4; i++ {
		screen.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	}

	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan tcell.Event) // never read
	exited := make(chan struct{})
	go func() {
		pollEvents(ctx, screen, events)
		close(exited)
	}()

	cancel()
	select {
	case <-exited:
	case <-time.After(2 * time.Second):
		t.Fatal("poller blocked on a full event channel after cancel")
	}
}
