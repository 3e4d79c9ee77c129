package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/blastfield/audio"
	"github.com/lixenwraith/blastfield/config"
	"github.com/lixenwraith/blastfield/core"
	"github.com/lixenwraith/blastfield/engine"
	"github.com/lixenwraith/blastfield/parameter"
	"github.com/lixenwraith/blastfield/particle"
	"github.com/lixenwraith/blastfield/render"
	"github.com/lixenwraith/blastfield/status"
	"github.com/lixenwraith/blastfield/terrain"
)

// loadScenario applies flag overrides over the file or built-in defaults
func loadScenario(opts *options) (*config.Scenario, error) {
	scn := config.Default()
	if opts.configPath != "" {
		var err error
		if scn, err = config.Load(opts.configPath); err != nil {
			return nil, err
		}
	}

	if opts.frames >= 0 {
		scn.Run.Frames = opts.frames
	}
	if opts.entities > 0 {
		scn.Sim.Entities = opts.entities
	}
	if opts.workers >= 0 {
		scn.Sim.Workers = opts.workers
	}
	if opts.seedSet {
		scn.Sim.Seed = opts.seed
	}
	if opts.mute {
		scn.Run.Mute = true
	}
	if err := scn.Validate(); err != nil {
		return nil, err
	}
	return scn, nil
}

// newLogger picks the log destination; the viewer owns the terminal so its default is discard
func newLogger(opts *options, stderr io.Writer) (*slog.Logger, func(), error) {
	out := stderr
	closeFn := func() {}

	switch {
	case opts.logPath != "":
		f, err := os.OpenFile(opts.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log: %w", err)
		}
		out = f
		closeFn = func() { _ = f.Close() }
	case opts.view:
		out = io.Discard
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})), closeFn, nil
}

func newTerrain(scn *config.Scenario) (engine.Terrain, error) {
	if scn.Terrain.Flat {
		return engine.FlatTerrain{Scale: scn.Sim.WorldScale}, nil
	}
	hf, err := terrain.New(scn.TerrainConfig())
	if err != nil {
		return nil, fmt.Errorf("build terrain: %w", err)
	}
	return hf, nil
}

// run wires every component and drives the frame loop until done, interrupted or failed
func run(ctx context.Context, opts *options, stdout, stderr io.Writer) error {
	scn, err := loadScenario(opts)
	if err != nil {
		return err
	}
	if opts.dumpConfig {
		return scn.Encode(stdout)
	}

	logger, closeLog, err := newLogger(opts, stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	runID := uuid.New().String()
	logger = logger.With("run", runID)

	reg := status.NewRegistry()
	reg.Strings.Get(status.KeyRunID).Store(runID)

	terr, err := newTerrain(scn)
	if err != nil {
		return err
	}

	sim, err := engine.NewSimulation(scn.SimConfig(), terr, logger, reg)
	if err != nil {
		return fmt.Errorf("start simulation: %w", err)
	}
	defer func() {
		if err := sim.Close(); err != nil {
			logger.Error("worker shutdown", "error", err)
		}
	}()

	var sink particle.ExplosionSink
	if !scn.Run.Mute {
		sm := audio.NewSoundManager(scn.AudioConfig(), logger)
		if err := sm.Initialize(); err != nil {
			logger.Warn("audio disabled", "error", err)
		} else {
			sink = sm
			defer sm.Cleanup()
		}
	}

	fieldCfg, err := scn.FieldConfig()
	if err != nil {
		return err
	}
	field, err := particle.NewField(fieldCfg, sink, logger, reg)
	if err != nil {
		return fmt.Errorf("start particles: %w", err)
	}

	loop := newFrameLoop(scn, sim, field, reg, logger)

	if !opts.view {
		loop.useFixedStep()
		err = loop.run(ctx, nil)
	} else {
		err = runWithViewer(ctx, loop, scn.Sim.WorldScale)
	}

	logger.Info("run finished", "frames", reg.Ints.Get(status.KeyFrames).Load())
	for _, line := range reg.Snapshot() {
		fmt.Fprintln(stdout, line)
	}
	return err
}

// runWithViewer runs the frame loop and the terminal input loop together
func runWithViewer(ctx context.Context, loop *frameLoop, worldScale float64) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}

	viewer := render.NewViewer(screen, worldScale)
	core.SetCrashHook(viewer.Close)
	defer core.SetCrashHook(nil)
	defer viewer.Close()
	loop.viewer = viewer

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	actions := make(chan render.Action, 8)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return viewer.Run(gctx, actions)
	})
	g.Go(func() error {
		defer cancel()
		return loop.run(gctx, actions)
	})
	return g.Wait()
}

// frameLoop owns per-frame orchestration on the main goroutine
type frameLoop struct {
	sim      *engine.Simulation
	field    *particle.Field
	sorter   *render.Sorter
	camera   render.Camera
	env      particle.Environment
	clock    *engine.PausableClock
	mock     *engine.MockTimeProvider // Fixed-step source for headless runs
	interval time.Duration
	frames   int
	seed     uint64
	viewer   *render.Viewer
	reg      *status.Registry
	logger   *slog.Logger

	positions []float32
}

func newFrameLoop(scn *config.Scenario, sim *engine.Simulation, field *particle.Field, reg *status.Registry, logger *slog.Logger) *frameLoop {
	return &frameLoop{
		sim:    sim,
		field:  field,
		sorter: render.NewSorter(),
		camera: render.Camera{
			Distance: parameter.CameraDistance * scn.Sim.WorldScale / parameter.WorldScale,
			Height:   parameter.CameraHeight * scn.Sim.WorldScale / parameter.WorldScale,
		},
		env:      particle.DefaultEnvironment(),
		clock:    engine.NewPausableClock(engine.SystemTime{}, parameter.MaxFrameElapsed),
		interval: scn.FrameInterval(),
		frames:   scn.Run.Frames,
		seed:     scn.Sim.Seed,
		reg:      reg,
		logger:   logger,
	}
}

// useFixedStep drives the clock from a mock source advanced one interval per frame
func (l *frameLoop) useFixedStep() {
	l.mock = engine.NewMockTimeProvider(time.Unix(0, 0))
	l.clock = engine.NewPausableClock(l.mock, 0)
}

// run steps frames until the frame budget is spent, ctx ends or the user quits
// actions is nil in headless mode
func (l *frameLoop) run(ctx context.Context, actions <-chan render.Action) error {
	var tick <-chan time.Time
	if l.mock == nil {
		t := time.NewTicker(l.interval)
		defer t.Stop()
		tick = t.C
	}

	done := 0
	for l.frames == 0 || done < l.frames {
		if l.mock != nil {
			if err := ctx.Err(); err != nil {
				return nil
			}
			l.mock.Advance(l.interval)
		} else {
			select {
			case <-ctx.Done():
				return nil
			case a := <-actions:
				if quit := l.handle(a); quit {
					return nil
				}
				continue
			case <-tick:
			}
		}

		stepped, err := l.step()
		if err != nil {
			return err
		}
		if stepped {
			done++
		}
	}
	return nil
}

func (l *frameLoop) handle(a render.Action) (quit bool) {
	switch a {
	case render.ActionQuit:
		return true
	case render.ActionTogglePause:
		paused := l.clock.Toggle()
		l.reg.Bools.Get(status.KeyPaused).Store(paused)
		l.logger.Info("pause", "paused", paused)
	case render.ActionReset:
		l.sim.Reset(l.seed)
		l.logger.Info("reset", "seed", l.seed)
	case render.ActionResize:
		if l.viewer != nil {
			l.viewer.Resize()
		}
	}
	return false
}

// step advances one frame; a paused clock yields no step but still redraws
func (l *frameLoop) step() (bool, error) {
	simTime, dt := l.clock.Tick()
	stepped := dt > 0

	if stepped {
		if err := l.sim.Frame(simTime, dt); err != nil {
			return false, fmt.Errorf("frame at %.3fs: %w", simTime, err)
		}

		l.camera.Orbit(parameter.CameraOrbitRate, dt)
		view := l.camera.View()
		l.field.Advance(dt, view, l.env)

		pool := l.field.Pool()
		l.sorter.Sort(pool, pool.Used(), l.camera.Eye())
		verts := l.sorter.Flush(view)
		l.reg.Ints.Get(status.KeyVertices).Store(int64(len(verts)))
	}

	if l.viewer != nil {
		l.positions = l.sim.Positions(l.positions[:0])
		l.viewer.Draw(render.Frame{
			Positions: l.positions,
			Pool:      l.field.Pool(),
			Order:     l.sorter.Order(),
			Status:    l.statusLine(),
		})
	}
	return stepped, nil
}

func (l *frameLoop) statusLine() string {
	state := "running"
	if l.clock.IsPaused() {
		state = "paused"
	}
	return fmt.Sprintf(" frame %d  collisions %d  particles %d  step %.2fms  %s  [space] pause [r] reset [q] quit",
		l.reg.Ints.Get(status.KeyFrames).Load(),
		l.reg.Ints.Get(status.KeyCollisions).Load(),
		l.sorter.Active(),
		l.reg.Floats.Get(status.KeyStepNanos).Get()/1e6,
		state,
	)
}
