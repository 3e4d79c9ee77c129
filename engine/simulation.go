package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/blastfield/parameter"
	"github.com/lixenwraith/blastfield/physics"
	"github.com/lixenwraith/blastfield/status"
	"github.com/lixenwraith/blastfield/vmath"
)

// SimConfig is the startup configuration of the entity simulation, read once
type SimConfig struct {
	Entities        int
	CellsX          int
	CellsZ          int
	Workers         int // 0 selects runtime.NumCPU()
	Seed            uint64
	StepTimeout     time.Duration
	ShutdownTimeout time.Duration
	Restitution     float64
}

// DefaultSimConfig returns the stock configuration
func DefaultSimConfig() SimConfig {
	return SimConfig{
		Entities:        parameter.EntityCount,
		CellsX:          parameter.GridCellsX,
		CellsZ:          parameter.GridCellsZ,
		Seed:            parameter.DefaultSeed,
		StepTimeout:     parameter.StepTimeout,
		ShutdownTimeout: parameter.ShutdownTimeout,
		Restitution:     parameter.Restitution,
	}
}

// Simulation owns the entity arena, the grid and the worker pool
// All methods except AdvanceRange run on the main thread
type Simulation struct {
	cfg     SimConfig
	players []Player
	grid    *SpatialGrid
	terrain Terrain
	sched   *Scheduler
	profile physics.ContactProfile
	ctxs    []*StepContext
	rng     *vmath.FastRand
	logger  *slog.Logger

	// Cached metric pointers
	statFrames     *atomic.Int64
	statCollisions *atomic.Int64
	statStepNanos  *status.AtomicFloat
	statStepPeak   *atomic.Int64
}

// NewSimulation allocates the entity pool, builds the grid and starts the workers
// Any allocation or validation failure aborts initialization; there is no partial pool
func NewSimulation(cfg SimConfig, terrain Terrain, logger *slog.Logger, reg *status.Registry) (*Simulation, error) {
	if cfg.Restitution == 0 {
		cfg.Restitution = parameter.Restitution
	}
	if cfg.Entities <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidEntityCount, cfg.Entities)
	}
	if terrain == nil {
		return nil, errors.New("simulation requires a terrain")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if reg == nil {
		reg = status.NewRegistry()
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrNoWorkers, cfg.Workers)
	}
	if cfg.StepTimeout <= 0 {
		cfg.StepTimeout = parameter.StepTimeout
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = parameter.ShutdownTimeout
	}

	grid, err := NewSpatialGrid(cfg.CellsX, cfg.CellsZ, terrain.WorldScale())
	if err != nil {
		return nil, fmt.Errorf("build grid: %w", err)
	}

	s := &Simulation{
		cfg:     cfg,
		players: make([]Player, cfg.Entities),
		grid:    grid,
		terrain: terrain,
		profile: physics.ContactProfile{
			Restitution: cfg.Restitution,
			Share:       parameter.PenetrationShare,
			Epsilon:     parameter.CoincidentEpsilon,
		},
		rng:            vmath.NewFastRand(cfg.Seed),
		logger:         logger,
		statFrames:     reg.Ints.Get(status.KeyFrames),
		statCollisions: reg.Ints.Get(status.KeyCollisions),
		statStepNanos:  reg.Floats.Get(status.KeyStepNanos),
		statStepPeak:   reg.Ints.Get(status.KeyStepPeakNanos),
	}
	for i := range s.players {
		s.players[i].ID = i
	}

	s.ctxs = make([]*StepContext, cfg.Workers)
	for i := range s.ctxs {
		s.ctxs[i] = NewStepContext(s.players, s.grid, s.terrain, &s.profile)
	}

	s.Reset(cfg.Seed)

	sched, err := NewScheduler(cfg.Workers, cfg.Entities, s,
		WithStepTimeout(cfg.StepTimeout),
		WithShutdownTimeout(cfg.ShutdownTimeout),
		WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("create workers: %w", err)
	}
	s.sched = sched

	reg.Ints.Get(status.KeyWorkers).Store(int64(cfg.Workers))
	reg.Ints.Get(status.KeyEntities).Store(int64(cfg.Entities))

	logger.Info("simulation ready",
		"entities", cfg.Entities,
		"workers", cfg.Workers,
		"cells", fmt.Sprintf("%dx%d", cfg.CellsX, cfg.CellsZ),
		"world_scale", terrain.WorldScale(),
	)
	return s, nil
}

// Reset repositions every player randomly and rebuilds the grid
// Must not be called while a step is in flight
func (s *Simulation) Reset(seed uint64) {
	s.rng = vmath.NewFastRand(seed)
	half := s.terrain.WorldScale() / 2

	for i := range s.players {
		r := s.rng.Range(parameter.PlayerRadiusMin, parameter.PlayerRadiusMax)
		x := s.rng.Range(-half+r, half-r)
		z := s.rng.Range(-half+r, half-r)

		heading := s.rng.Float64() * 2 * math.Pi
		dir := vmath.Vec3F{X: math.Cos(heading), Z: math.Sin(heading)}
		speed := s.rng.Float64() * parameter.PlayerStartSpeed

		s.players[i].Place(State{
			Pos:     vmath.Vec3F{X: x, Y: s.terrain.HeightAt(x, z) + r, Z: z},
			Vel:     vmath.V3FScale(dir, speed),
			Accel:   vmath.V3FScale(dir, parameter.PlayerThrust),
			Facing:  dir,
			Gravity: vmath.Vec3F{Y: parameter.Gravity},
			Radius:  r,
			Drag:    parameter.PlayerDrag,
		})
	}
	s.Rebuild()
}

// AdvanceRange implements RangeAdvancer; runs on worker goroutines
func (s *Simulation) AdvanceRange(worker int, lo, hi int, simTime, elapsed float64) {
	ctx := s.ctxs[worker]
	ctx.Collisions = 0
	start := time.Now()

	for i := lo; i < hi; i++ {
		s.players[i].Advance(simTime, elapsed, ctx)
	}

	status.StoreMax(s.statStepPeak, time.Since(start).Nanoseconds())
}

// Frame runs one full step: dispatch, wait, commit, grid rebuild
// A returned error is fatal for the frame loop
func (s *Simulation) Frame(simTime, elapsed float64) error {
	start := time.Now()
	s.statStepPeak.Store(0)

	if err := s.sched.Step(simTime, elapsed); err != nil {
		return err
	}
	if err := s.sched.WaitForCompletion(); err != nil {
		return err
	}

	s.Commit()
	s.Rebuild()

	var collisions int64
	for _, ctx := range s.ctxs {
		collisions += ctx.Collisions
	}
	s.statCollisions.Store(collisions)
	s.statFrames.Add(1)
	s.statStepNanos.SetEMA(float64(time.Since(start).Nanoseconds()), 0.1)
	return nil
}

// Commit makes every player's pending state authoritative
func (s *Simulation) Commit() {
	for i := range s.players {
		s.players[i].Commit()
	}
}

// Rebuild clears the grid and reinserts every player at its committed position
func (s *Simulation) Rebuild() {
	s.grid.Clear()
	for i := range s.players {
		p := &s.players[i]
		p.cells = s.grid.Insert(p.ID, p.committed.Pos, p.committed.Radius, p.cells[:0])
	}
}

// Positions appends each player's committed position (x, y, z, radius) for GPU-style instancing
func (s *Simulation) Positions(dst []float32) []float32 {
	for i := range s.players {
		st := &s.players[i].committed
		dst = append(dst, float32(st.Pos.X), float32(st.Pos.Y), float32(st.Pos.Z), float32(st.Radius))
	}
	return dst
}

// Players exposes the entity arena for read-only inspection between frames
func (s *Simulation) Players() []Player {
	return s.players
}

// Grid exposes the spatial grid for read-only inspection between frames
func (s *Simulation) Grid() *SpatialGrid {
	return s.grid
}

// Scheduler exposes the worker pool
func (s *Simulation) Scheduler() *Scheduler {
	return s.sched
}

// Close shuts the worker pool down
func (s *Simulation) Close() error {
	return s.sched.Shutdown()
}
