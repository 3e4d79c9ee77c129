package particle

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/lixenwraith/blastfield/parameter"
	"github.com/lixenwraith/blastfield/status"
	"github.com/lixenwraith/blastfield/vmath"
)

// FieldConfig sizes the particle field, read once at startup
type FieldConfig struct {
	PerSystem    int
	Mushrooms    int // Each mushroom also gets a stalk
	GroundBursts int
	LandMines    int
	Palette      []RGBA
	Bounds       float64 // Respawn half-extent
	MaxDelay     float64 // Largest respawn start delay (seconds)
	Seed         uint64
}

// DefaultFieldConfig returns the stock field
func DefaultFieldConfig() FieldConfig {
	palette := make([]RGBA, len(parameter.FlashPalette))
	for i, hex := range parameter.FlashPalette {
		palette[i] = MustRGBA(hex)
	}
	return FieldConfig{
		PerSystem:    parameter.ParticlesPerSystem,
		Mushrooms:    parameter.MushroomSystems,
		GroundBursts: parameter.GroundBurstSystems,
		LandMines:    parameter.LandMineSystems,
		Palette:      palette,
		Bounds:       parameter.RespawnBounds,
		MaxDelay:     parameter.RespawnMaxDelay,
		Seed:         parameter.DefaultSeed,
	}
}

// SystemCount returns the number of systems the config produces
func (c FieldConfig) SystemCount() int {
	return 2*c.Mushrooms + c.GroundBursts + c.LandMines
}

// Field owns the particle pool, every system and the respawn policy
type Field struct {
	pool    *Pool
	systems []*System
	groups  []Group
	cycler  *Cycler
	sink    ExplosionSink
	logger  *slog.Logger

	statVisible    *atomic.Int64
	statExplosions *atomic.Int64
	statRespawns   *atomic.Int64
}

// NewField allocates the pool, carves one range per system in creation order and seeds every group
func NewField(cfg FieldConfig, sink ExplosionSink, logger *slog.Logger, reg *status.Registry) (*Field, error) {
	if cfg.PerSystem <= 0 || cfg.SystemCount() <= 0 {
		return nil, fmt.Errorf("%w: %d systems of %d particles", ErrInvalidAttributes, cfg.SystemCount(), cfg.PerSystem)
	}
	if len(cfg.Palette) == 0 {
		return nil, fmt.Errorf("%w: empty flash palette", ErrInvalidAttributes)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if reg == nil {
		reg = status.NewRegistry()
	}

	pool, err := NewPool(cfg.PerSystem * cfg.SystemCount())
	if err != nil {
		return nil, err
	}

	f := &Field{
		pool:           pool,
		sink:           sink,
		logger:         logger,
		cycler:         NewCycler(vmath.NewFastRand(cfg.Seed), cfg.Palette, cfg.Bounds, cfg.MaxDelay),
		statVisible:    reg.Ints.Get(status.KeyParticlesActive),
		statExplosions: reg.Ints.Get(status.KeyExplosions),
		statRespawns:   reg.Ints.Get(status.KeyRespawns),
	}

	add := func(kinds ...Kind) error {
		g := make(Group, 0, len(kinds))
		for _, k := range kinds {
			s, err := NewSystem(pool, k, DefaultAttributes(k), cfg.PerSystem)
			if err != nil {
				return err
			}
			f.systems = append(f.systems, s)
			g = append(g, s)
		}
		f.groups = append(f.groups, g)
		return nil
	}

	for i := 0; i < cfg.Mushrooms; i++ {
		if err := add(KindMushroomCloud, KindStalk); err != nil {
			return nil, err
		}
	}
	for i := 0; i < cfg.GroundBursts; i++ {
		if err := add(KindGroundBurst); err != nil {
			return nil, err
		}
	}
	for i := 0; i < cfg.LandMines; i++ {
		if err := add(KindLandMine); err != nil {
			return nil, err
		}
	}

	for _, g := range f.groups {
		if err := f.cycler.Respawn(g); err != nil {
			return nil, err
		}
	}

	logger.Info("particle field ready",
		"systems", len(f.systems),
		"particles", pool.Used(),
	)
	return f, nil
}

// Advance steps every system then respawns finished groups
func (f *Field) Advance(elapsed float64, view View, env Environment) {
	for _, s := range f.systems {
		if s.Advance(elapsed, view, env, f.sink) {
			f.statExplosions.Add(1)
			f.logger.Debug("explosion", "kind", s.Kind.String(), "x", s.Attr.Center.X, "z", s.Attr.Center.Z)
		}
	}

	n, err := f.cycler.Update(f.groups)
	if err != nil {
		f.logger.Warn("respawn rejected", "error", err)
	}
	if n > 0 {
		f.statRespawns.Add(int64(n))
	}

	visible := 0
	for _, s := range f.systems {
		visible += s.VisibleCount()
	}
	f.statVisible.Store(int64(visible))
}

// Pool returns the shared particle pool
func (f *Field) Pool() *Pool {
	return f.pool
}

// Systems returns every system in creation order
func (f *Field) Systems() []*System {
	return f.systems
}

// Groups returns the respawn groups
func (f *Field) Groups() []Group {
	return f.groups
}

// DefaultEnvironment returns the stock wind and gravity
func DefaultEnvironment() Environment {
	w := parameter.WindVelocity
	return Environment{
		Wind:    vmath.Vec3F{X: w[0], Y: w[1], Z: w[2]},
		Gravity: vmath.Vec3F{Y: parameter.Gravity},
	}
}
