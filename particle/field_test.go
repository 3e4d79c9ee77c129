package particle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/blastfield/status"
	"github.com/lixenwraith/blastfield/vmath"
)

func TestPoolCarveInOrder(t *testing.T) {
	pool, err := NewPool(10)
	require.NoError(t, err)

	a, err := pool.Carve(4)
	require.NoError(t, err)
	b, err := pool.Carve(6)
	require.NoError(t, err)

	assert.Equal(t, Range{Start: 0, Count: 4}, a)
	assert.Equal(t, Range{Start: 4, Count: 6}, b)
	assert.Equal(t, 10, pool.Used())

	_, err = pool.Carve(1)
	assert.ErrorIs(t, err, ErrPoolExhausted)

	// Slices alias the pool
	pool.Slice(b)[0].Radius = 7
	assert.Equal(t, 7.0, pool.Particles[4].Radius)
}

func TestNewPoolRejectsEmpty(t *testing.T) {
	_, err := NewPool(0)
	assert.ErrorIs(t, err, ErrPoolExhausted)
}

func TestParseRGBA(t *testing.T) {
	c, err := ParseRGBA("#ff8000e6")
	require.NoError(t, err)
	assert.Equal(t, uint32(0xe6ff8000), c.Pack())

	c, err = ParseRGBA("#0f0")
	require.NoError(t, err)
	assert.Equal(t, uint32(0xff00ff00), c.Pack())

	_, err = ParseRGBA("#zz0000")
	assert.Error(t, err)
	_, err = ParseRGBA("#ff0000zz")
	assert.Error(t, err)

	r, g, b, a := Unpack(0x80102030)
	assert.Equal(t, [4]uint8{0x10, 0x20, 0x30, 0x80}, [4]uint8{r, g, b, a})
}

func TestRGBALerpEndpoints(t *testing.T) {
	a := MustRGBA("#ff000080")
	b := MustRGBA("#0000ffff")
	assert.Equal(t, a.Pack(), a.Lerp(b, 0).Pack())
	assert.Equal(t, b.Pack(), a.Lerp(b, 1).Pack())
}

// TestCyclerRespawnsFinishedGroup checks the group moves together and restarts with a palette color
func TestCyclerRespawnsFinishedGroup(t *testing.T) {
	pool, err := NewPool(40)
	require.NoError(t, err)
	mush, err := NewSystem(pool, KindMushroomCloud, DefaultAttributes(KindMushroomCloud), 20)
	require.NoError(t, err)
	stalk, err := NewSystem(pool, KindStalk, DefaultAttributes(KindStalk), 20)
	require.NoError(t, err)

	palette := []RGBA{MustRGBA("#ff0000"), MustRGBA("#00ff00")}
	c := NewCycler(vmath.NewFastRand(4), palette, 50, 3)
	g := Group{mush, stalk}
	require.NoError(t, c.Respawn(g))

	n, err := c.Update([]Group{g})
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	mush.CurrentTime = mush.Attr.LifeSpan + 0.01
	oldCenter := mush.Attr.Center
	n, err = c.Update([]Group{g})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.NotEqual(t, oldCenter, mush.Attr.Center)
	assert.Equal(t, mush.Attr.Center, stalk.Attr.Center)
	assert.Equal(t, mush.Attr.StartTime, stalk.Attr.StartTime)
	assert.Equal(t, mush.Attr.Color0, stalk.Attr.Color0)
	assert.Contains(t, palette, mush.Attr.Color0)

	assert.LessOrEqual(t, mush.Attr.StartTime, 0.0)
	assert.GreaterOrEqual(t, mush.Attr.StartTime, -3.0)
	assert.LessOrEqual(t, mush.Attr.Center.X, 50.0)
	assert.GreaterOrEqual(t, mush.Attr.Center.X, -50.0)
	assert.Equal(t, mush.Attr.StartTime, mush.CurrentTime)
	assert.False(t, mush.Started())
}

func TestFieldCyclesIndefinitely(t *testing.T) {
	reg := status.NewRegistry()
	cfg := DefaultFieldConfig()
	cfg.PerSystem = 16
	cfg.Mushrooms, cfg.GroundBursts, cfg.LandMines = 2, 1, 1
	sink := &recordingSink{}

	f, err := NewField(cfg, sink, nil, reg)
	require.NoError(t, err)
	require.Len(t, f.Systems(), 6)
	require.Len(t, f.Groups(), 4)
	assert.Equal(t, 16*6, f.Pool().Used())

	// Ranges are contiguous in creation order
	for i, s := range f.Systems() {
		assert.Equal(t, i*16, s.Range.Start)
	}

	view := View{Right: vmath.V3FX, Up: vmath.V3FUp}
	for i := 0; i < 400; i++ {
		f.Advance(0.1, view, DefaultEnvironment())
	}

	// 40 seconds covers several lifespans of every group
	assert.Greater(t, sink.calls, len(f.Systems()))
	assert.Equal(t, int64(sink.calls), reg.Ints.Get(status.KeyExplosions).Load())
	assert.Greater(t, reg.Ints.Get(status.KeyRespawns).Load(), int64(len(f.Groups())))

	for _, s := range f.Systems() {
		assert.LessOrEqual(t, s.CurrentTime, s.Attr.LifeSpan)
	}
}

func TestFieldRejectsEmptyConfig(t *testing.T) {
	cfg := DefaultFieldConfig()
	cfg.Mushrooms, cfg.GroundBursts, cfg.LandMines = 0, 0, 0
	_, err := NewField(cfg, nil, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidAttributes)

	cfg = DefaultFieldConfig()
	cfg.Palette = nil
	_, err = NewField(cfg, nil, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidAttributes)
}

// TestCyclerRespawnValidatesBlock: a system with a broken block is reported and left untouched
func TestCyclerRespawnValidatesBlock(t *testing.T) {
	pool, err := NewPool(20)
	require.NoError(t, err)
	s, err := NewSystem(pool, KindDefault, DefaultAttributes(KindDefault), 20)
	require.NoError(t, err)

	c := NewCycler(vmath.NewFastRand(9), []RGBA{MustRGBA("#ffffff")}, 50, 3)
	require.NoError(t, c.Respawn(Group{s}))

	s.Attr.LifeSpan = 0
	s.CurrentTime = 42
	center := s.Attr.Center

	n, err := c.Update([]Group{{s}})
	assert.Equal(t, 1, n)
	assert.ErrorIs(t, err, ErrInvalidAttributes)
	assert.Equal(t, center, s.Attr.Center)
	assert.Equal(t, 42.0, s.CurrentTime)
}
