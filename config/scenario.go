// Package config loads the startup scenario: a TOML or YAML file layered over built-in defaults
// The scenario is read once; there is no reload
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/blastfield/audio"
	"github.com/lixenwraith/blastfield/engine"
	"github.com/lixenwraith/blastfield/parameter"
	"github.com/lixenwraith/blastfield/particle"
	"github.com/lixenwraith/blastfield/terrain"
)

// ErrInvalidConfig is returned for scenario values that cannot start a run
var ErrInvalidConfig = errors.New("invalid scenario config")

// Duration decodes "250ms"-style strings from either format
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Scenario is the full startup configuration
type Scenario struct {
	Sim       SimSection      `toml:"sim" yaml:"sim"`
	Terrain   TerrainSection  `toml:"terrain" yaml:"terrain"`
	Particles ParticleSection `toml:"particles" yaml:"particles"`
	Run       RunSection      `toml:"run" yaml:"run"`
}

type SimSection struct {
	Entities    int      `toml:"entities" yaml:"entities"`
	WorldScale  float64  `toml:"world_scale" yaml:"world_scale"`
	CellsX      int      `toml:"cells_x" yaml:"cells_x"`
	CellsZ      int      `toml:"cells_z" yaml:"cells_z"`
	Workers     int      `toml:"workers" yaml:"workers"` // 0 selects the CPU count
	StepTimeout Duration `toml:"step_timeout" yaml:"step_timeout"`
	Seed        uint64   `toml:"seed" yaml:"seed"`
	Restitution float64  `toml:"restitution" yaml:"restitution"`
}

type TerrainSection struct {
	Flat       bool    `toml:"flat" yaml:"flat"`
	Amplitude  float64 `toml:"amplitude" yaml:"amplitude"`
	Wavelength float64 `toml:"wavelength" yaml:"wavelength"`
	Octaves    int     `toml:"octaves" yaml:"octaves"`
	Resolution int     `toml:"resolution" yaml:"resolution"`
}

type ParticleSection struct {
	PerSystem     int      `toml:"per_system" yaml:"per_system"`
	Mushrooms     int      `toml:"mushrooms" yaml:"mushrooms"`
	GroundBursts  int      `toml:"ground_bursts" yaml:"ground_bursts"`
	LandMines     int      `toml:"land_mines" yaml:"land_mines"`
	Palette       []string `toml:"palette" yaml:"palette"`
	RespawnBounds float64  `toml:"respawn_bounds" yaml:"respawn_bounds"`
}

type RunSection struct {
	Frames int     `toml:"frames" yaml:"frames"` // 0 runs until interrupted
	FPS    int     `toml:"fps" yaml:"fps"`
	Mute   bool    `toml:"mute" yaml:"mute"`
	Volume float64 `toml:"volume" yaml:"volume"`
}

// Default returns the built-in scenario
func Default() *Scenario {
	return &Scenario{
		Sim: SimSection{
			Entities:    parameter.EntityCount,
			WorldScale:  parameter.WorldScale,
			CellsX:      parameter.GridCellsX,
			CellsZ:      parameter.GridCellsZ,
			StepTimeout: Duration(parameter.StepTimeout),
			Seed:        parameter.DefaultSeed,
			Restitution: parameter.Restitution,
		},
		Terrain: TerrainSection{
			Amplitude:  parameter.TerrainAmplitude,
			Wavelength: parameter.TerrainWavelength,
			Octaves:    parameter.TerrainOctaves,
			Resolution: parameter.TerrainResolution,
		},
		Particles: ParticleSection{
			PerSystem:     parameter.ParticlesPerSystem,
			Mushrooms:     parameter.MushroomSystems,
			GroundBursts:  parameter.GroundBurstSystems,
			LandMines:     parameter.LandMineSystems,
			Palette:       append([]string(nil), parameter.FlashPalette...),
			RespawnBounds: parameter.RespawnBounds,
		},
		Run: RunSection{
			FPS:    int(time.Second / parameter.FrameUpdateInterval),
			Volume: parameter.MasterVolume,
		},
	}
}

// Load reads path over the defaults; the extension selects YAML (.yaml, .yml) or TOML
// Unknown keys are rejected
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return Parse(data, FormatYAML)
	default:
		return Parse(data, FormatTOML)
	}
}

// Format selects the scenario decoder
type Format uint8

const (
	FormatTOML Format = iota
	FormatYAML
)

// Parse decodes data over the defaults and validates the result
func Parse(data []byte, format Format) (*Scenario, error) {
	s := Default()

	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode yaml scenario: %w", err)
		}
	default:
		dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
		if err := dec.Decode(s); err != nil {
			return nil, fmt.Errorf("decode toml scenario: %w", err)
		}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks ranges that the constructors would otherwise reject later
func (s *Scenario) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
		}
	}

	check(s.Sim.Entities > 0, "sim.entities must be positive, got %d", s.Sim.Entities)
	check(s.Sim.WorldScale > 0, "sim.world_scale must be positive, got %v", s.Sim.WorldScale)
	check(s.Sim.CellsX > 0 && s.Sim.CellsZ > 0, "sim.cells_x and sim.cells_z must be positive, got %dx%d", s.Sim.CellsX, s.Sim.CellsZ)
	check(s.Sim.Workers >= 0, "sim.workers must not be negative, got %d", s.Sim.Workers)
	check(s.Sim.StepTimeout > 0, "sim.step_timeout must be positive")
	check(s.Sim.Restitution >= 0 && s.Sim.Restitution <= 1, "sim.restitution must be in [0, 1], got %v", s.Sim.Restitution)

	check(s.Terrain.Resolution >= 2, "terrain.resolution must be at least 2, got %d", s.Terrain.Resolution)
	check(s.Terrain.Flat || s.Terrain.Wavelength > 0, "terrain.wavelength must be positive, got %v", s.Terrain.Wavelength)

	p := s.Particles
	check(p.PerSystem > 0, "particles.per_system must be positive, got %d", p.PerSystem)
	check(p.Mushrooms >= 0 && p.GroundBursts >= 0 && p.LandMines >= 0, "particles system counts must not be negative")
	check(len(p.Palette) > 0, "particles.palette must not be empty")
	for _, hex := range p.Palette {
		if _, err := particle.ParseRGBA(hex); err != nil {
			errs = append(errs, fmt.Errorf("%w: particles.palette: %w", ErrInvalidConfig, err))
		}
	}

	check(s.Run.Frames >= 0, "run.frames must not be negative, got %d", s.Run.Frames)
	check(s.Run.FPS > 0, "run.fps must be positive, got %d", s.Run.FPS)
	check(s.Run.Volume >= 0 && s.Run.Volume <= 1, "run.volume must be in [0, 1], got %v", s.Run.Volume)

	return errors.Join(errs...)
}

// FrameInterval is the wall time between frames
func (s *Scenario) FrameInterval() time.Duration {
	return time.Second / time.Duration(s.Run.FPS)
}

// SimConfig maps the sim section onto the engine
func (s *Scenario) SimConfig() engine.SimConfig {
	cfg := engine.DefaultSimConfig()
	cfg.Entities = s.Sim.Entities
	cfg.CellsX = s.Sim.CellsX
	cfg.CellsZ = s.Sim.CellsZ
	cfg.Workers = s.Sim.Workers
	cfg.Seed = s.Sim.Seed
	cfg.StepTimeout = time.Duration(s.Sim.StepTimeout)
	cfg.Restitution = s.Sim.Restitution
	return cfg
}

// TerrainConfig maps the terrain section onto the height field generator
func (s *Scenario) TerrainConfig() terrain.Config {
	return terrain.Config{
		WorldScale: s.Sim.WorldScale,
		Resolution: s.Terrain.Resolution,
		Amplitude:  s.Terrain.Amplitude,
		Wavelength: s.Terrain.Wavelength,
		Octaves:    s.Terrain.Octaves,
		Seed:       s.Sim.Seed,
	}
}

// FieldConfig maps the particles section onto the particle field
func (s *Scenario) FieldConfig() (particle.FieldConfig, error) {
	cfg := particle.DefaultFieldConfig()
	cfg.PerSystem = s.Particles.PerSystem
	cfg.Mushrooms = s.Particles.Mushrooms
	cfg.GroundBursts = s.Particles.GroundBursts
	cfg.LandMines = s.Particles.LandMines
	cfg.Bounds = s.Particles.RespawnBounds
	cfg.Seed = s.Sim.Seed

	cfg.Palette = make([]particle.RGBA, 0, len(s.Particles.Palette))
	for _, hex := range s.Particles.Palette {
		c, err := particle.ParseRGBA(hex)
		if err != nil {
			return particle.FieldConfig{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		cfg.Palette = append(cfg.Palette, c)
	}
	return cfg, nil
}

// AudioConfig maps the run section onto the sound manager
func (s *Scenario) AudioConfig() *audio.Config {
	cfg := audio.DefaultConfig()
	cfg.Enabled = !s.Run.Mute
	cfg.MasterVolume = s.Run.Volume
	return cfg
}

// Encode writes the scenario as TOML
func (s *Scenario) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(s)
}
