package audio

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/blastfield/parameter"
	"github.com/lixenwraith/blastfield/vmath"
)

// SoundManager plays explosion cues through a shared mixer
// Without a speaker every call is a no-op
type SoundManager struct {
	mu          sync.Mutex
	cfg         *Config
	mixer       *beep.Mixer
	initialized bool
	logger      *slog.Logger

	voices  atomic.Int32
	played  atomic.Int64
	dropped atomic.Int64
}

// NewSoundManager creates a sound manager; nil cfg selects the defaults
func NewSoundManager(cfg *Config, logger *slog.Logger) *SoundManager {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SoundManager{
		cfg:    cfg,
		mixer:  &beep.Mixer{},
		logger: logger,
	}
}

// Initialize opens the speaker and starts the mixer
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized || !sm.cfg.Enabled {
		return nil
	}

	rate := beep.SampleRate(sm.cfg.SampleRate)
	if err := speaker.Init(rate, rate.N(parameter.AudioBufferDuration)); err != nil {
		return fmt.Errorf("speaker init: %w", err)
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup stops all sounds
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()

	// beep has no speaker close; clearing the mixer silences output
	sm.initialized = false
}

// TriggerExplosion queues one explosion cue scaled by size
// Triggers beyond the voice cap are dropped
func (sm *SoundManager) TriggerExplosion(center vmath.Vec3F, size float64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	if int(sm.voices.Load()) >= sm.cfg.MaxVoices {
		sm.dropped.Add(1)
		return
	}
	sm.voices.Add(1)
	sm.played.Add(1)

	cue := beep.Seq(
		CreateExplosionSound(sm.cfg, ExplosionGain(size, sm.cfg.FullSize)),
		beep.Callback(func() { sm.voices.Add(-1) }),
	)

	speaker.Lock()
	sm.mixer.Add(cue)
	speaker.Unlock()

	sm.logger.Debug("explosion cue", "x", center.X, "z", center.Z, "size", size)
}

// Voices returns the number of cues currently playing
func (sm *SoundManager) Voices() int {
	return int(sm.voices.Load())
}

// Stats returns the number of cues played and dropped
func (sm *SoundManager) Stats() (played, dropped int64) {
	return sm.played.Load(), sm.dropped.Load()
}
