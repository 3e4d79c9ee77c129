package terrain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/blastfield/engine"
	"github.com/lixenwraith/blastfield/vmath"
)

var _ engine.Terrain = (*HeightField)(nil)

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Resolution = 1
	_, err := New(cfg)
	assert.Error(t, err)

	cfg = DefaultConfig()
	cfg.WorldScale = 0
	_, err = New(cfg)
	assert.Error(t, err)
}

func TestFlatWhenAmplitudeZero(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Amplitude = 0
	h, err := New(cfg)
	require.NoError(t, err)

	assert.Equal(t, 0.0, h.HeightAt(12.3, -40))
	n := h.NormalAt(5, 5)
	assert.InDelta(t, 1, n.Y, 1e-12)
}

// TestHeightAtMatchesSamples checks bilinear sampling reproduces grid nodes exactly
func TestHeightAtMatchesSamples(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WorldScale = 10
	cfg.Resolution = 11
	h, err := New(cfg)
	require.NoError(t, err)

	for zi := 0; zi < 11; zi++ {
		for xi := 0; xi < 11; xi++ {
			x := -5 + float64(xi)
			z := -5 + float64(zi)
			assert.InDelta(t, h.heights[zi*11+xi], h.HeightAt(x, z), 1e-9)
		}
	}

	// Outside the world clamps to the edge sample
	assert.InDelta(t, h.HeightAt(5, 5), h.HeightAt(50, 50), 1e-12)
	assert.InDelta(t, h.HeightAt(-5, -5), h.HeightAt(-50, -50), 1e-12)
}

func TestNormalsUnitAndUpward(t *testing.T) {
	h, err := New(DefaultConfig())
	require.NoError(t, err)
	rng := vmath.NewFastRand(5)

	for i := 0; i < 200; i++ {
		x, z := rng.Range(-100, 100), rng.Range(-100, 100)
		n := h.NormalAt(x, z)
		assert.InDelta(t, 1, vmath.V3FMag(n), 1e-9)
		assert.Greater(t, n.Y, 0.0)
	}
}

func TestDeterministicBySeed(t *testing.T) {
	a, err := New(DefaultConfig())
	require.NoError(t, err)
	b, err := New(DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, a.heights, b.heights)
}

func TestNaNCoordinatesReadFlat(t *testing.T) {
	h, err := New(DefaultConfig())
	require.NoError(t, err)

	nan := math.NaN()
	assert.Zero(t, h.HeightAt(nan, 0))
	assert.Zero(t, h.HeightAt(0, nan))
	assert.Equal(t, vmath.V3FUp, h.NormalAt(nan, nan))
}
