package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/blastfield/parameter"
	"github.com/lixenwraith/blastfield/physics"
	"github.com/lixenwraith/blastfield/status"
	"github.com/lixenwraith/blastfield/vmath"
)

func testProfile() *physics.ContactProfile {
	return &physics.ContactProfile{
		Restitution: parameter.Restitution,
		Share:       parameter.PenetrationShare,
		Epsilon:     parameter.CoincidentEpsilon,
	}
}

// twoPlayerWorld places two unit spheres on a flat 20x20 world with an index-consistent grid
func twoPlayerWorld(t *testing.T, a, b vmath.Vec3F) ([]Player, *StepContext) {
	t.Helper()
	terrain := FlatTerrain{Scale: 20}
	grid, err := NewSpatialGrid(4, 4, terrain.WorldScale())
	require.NoError(t, err)

	players := make([]Player, 2)
	for i, pos := range []vmath.Vec3F{a, b} {
		players[i].ID = i
		players[i].Place(State{Pos: pos, Radius: 1, Facing: vmath.V3FX})
		players[i].cells = grid.Insert(i, pos, 1, nil)
	}
	return players, NewStepContext(players, grid, terrain, testProfile())
}

// TestCollideWithPlayerOverlap: centers 1.5 apart with radius 1 must separate with opposing impulses
func TestCollideWithPlayerOverlap(t *testing.T) {
	players, ctx := twoPlayerWorld(t, vmath.Vec3F{X: 0, Y: 1}, vmath.Vec3F{X: 1.5, Y: 1})

	players[0].pending = players[0].committed
	players[1].pending = players[1].committed
	require.True(t, players[0].CollideWithPlayer(&players[1], ctx.Profile))
	require.True(t, players[1].CollideWithPlayer(&players[0], ctx.Profile))

	a, b := players[0].Pending(), players[1].Pending()
	assert.Less(t, a.Pos.X, 0.0)
	assert.Greater(t, b.Pos.X, 1.5)
	assert.Less(t, a.Vel.X, 0.0)
	assert.Greater(t, b.Vel.X, 0.0)
	assert.InDelta(t, -a.Vel.X, b.Vel.X, 1e-12)
}

func TestCollideWithPlayerApart(t *testing.T) {
	players, ctx := twoPlayerWorld(t, vmath.Vec3F{X: 0, Y: 1}, vmath.Vec3F{X: 2.5, Y: 1})

	before := players[0].Committed()
	players[0].pending = before
	assert.False(t, players[0].CollideWithPlayer(&players[1], ctx.Profile))
	assert.Equal(t, before, players[0].Pending())
}

// TestAdvanceLeavesCommittedUntouched checks slot isolation until Commit
func TestAdvanceLeavesCommittedUntouched(t *testing.T) {
	players, ctx := twoPlayerWorld(t, vmath.Vec3F{X: 0, Y: 1}, vmath.Vec3F{X: 1.5, Y: 1})
	players[0].committed.Vel = vmath.Vec3F{X: 2}
	players[0].pending = players[0].committed

	beforeA := players[0].Committed()
	beforeB := players[1].Committed()

	players[0].Advance(0, 0.1, ctx)
	// The neighbour advancing after must see A's pre-step state
	assert.Equal(t, beforeA, players[0].Committed())
	players[1].Advance(0, 0.1, ctx)

	assert.Equal(t, beforeA, players[0].Committed())
	assert.Equal(t, beforeB, players[1].Committed())
	assert.NotEqual(t, beforeA.Pos, players[0].Pending().Pos)

	players[0].Commit()
	players[1].Commit()
	assert.Equal(t, players[0].Pending(), players[0].Committed())
	assert.Equal(t, 2, int(ctx.Collisions))
}

// TestAdvanceTerrainFollowAndBounds reflects off the wall and stays on the surface
func TestAdvanceTerrainFollowAndBounds(t *testing.T) {
	players, ctx := twoPlayerWorld(t, vmath.Vec3F{X: 9.9, Y: 5}, vmath.Vec3F{X: -5, Y: 1})
	players[0].committed.Vel = vmath.Vec3F{X: 10, Y: 3}
	players[0].committed.Gravity = vmath.Vec3F{Y: parameter.Gravity}

	players[0].Advance(0, 0.1, ctx)
	p := players[0].Pending()

	assert.Equal(t, 10.0, p.Pos.X)
	assert.Less(t, p.Vel.X, 0.0)
	assert.Equal(t, 1.0, p.Pos.Y) // flat height 0 + radius
	assert.InDelta(t, 0, p.Vel.Y, 1e-12)
	assert.InDelta(t, -1, p.Facing.X, 1e-12)
}

func newTestSimulation(t *testing.T, entities, workers int) (*Simulation, *status.Registry) {
	t.Helper()
	reg := status.NewRegistry()
	cfg := DefaultSimConfig()
	cfg.Entities = entities
	cfg.Workers = workers
	cfg.CellsX, cfg.CellsZ = 8, 8

	sim, err := NewSimulation(cfg, FlatTerrain{Scale: 60}, nil, reg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sim.Close() })
	return sim, reg
}

func TestSimulationFrame(t *testing.T) {
	sim, reg := newTestSimulation(t, 400, 4)

	for f := 0; f < 30; f++ {
		require.NoError(t, sim.Frame(float64(f)*0.016, 0.016))
	}

	half := 30.0
	for _, p := range sim.Players() {
		s := p.Committed()
		require.True(t, vmath.V3FIsFinite(s.Pos))
		assert.LessOrEqual(t, s.Pos.X, half)
		assert.GreaterOrEqual(t, s.Pos.X, -half)
		assert.LessOrEqual(t, s.Pos.Z, half)
		assert.GreaterOrEqual(t, s.Pos.Z, -half)
		assert.Equal(t, p.Pending(), s)
		assert.NotEmpty(t, p.Cells())
	}

	assert.Equal(t, int64(30), reg.Ints.Get(status.KeyFrames).Load())
	assert.Equal(t, int64(4), reg.Ints.Get(status.KeyWorkers).Load())
	assert.Greater(t, reg.Floats.Get(status.KeyStepNanos).Get(), 0.0)
}

// TestSimulationDeterministicAcrossWorkerCounts: disjoint writes and committed reads make results partition-independent
func TestSimulationDeterministicAcrossWorkerCounts(t *testing.T) {
	one, _ := newTestSimulation(t, 300, 1)
	many, _ := newTestSimulation(t, 300, 6)

	for f := 0; f < 20; f++ {
		require.NoError(t, one.Frame(float64(f)*0.02, 0.02))
		require.NoError(t, many.Frame(float64(f)*0.02, 0.02))
	}

	for i := range one.Players() {
		assert.Equal(t, one.Players()[i].Committed(), many.Players()[i].Committed(), "player %d", i)
	}
}

func TestSimulationPositionsStream(t *testing.T) {
	sim, _ := newTestSimulation(t, 10, 2)
	pos := sim.Positions(nil)
	require.Len(t, pos, 40)

	st := sim.Players()[3].Committed()
	assert.Equal(t, float32(st.Pos.X), pos[12])
	assert.Equal(t, float32(st.Radius), pos[15])
}

func TestSimulationRejectsBadConfig(t *testing.T) {
	cfg := DefaultSimConfig()
	cfg.Entities = 0
	_, err := NewSimulation(cfg, FlatTerrain{Scale: 10}, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidEntityCount)

	cfg = DefaultSimConfig()
	cfg.Entities = 10
	cfg.CellsX = 0
	_, err = NewSimulation(cfg, FlatTerrain{Scale: 10}, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidGrid)

	cfg = DefaultSimConfig()
	cfg.Entities = 10
	cfg.Workers = -1
	_, err = NewSimulation(cfg, FlatTerrain{Scale: 10}, nil, nil)
	assert.ErrorIs(t, err, ErrNoWorkers)
}
