package audio

import (
	"github.com/lixenwraith/blastfield/parameter"
)

// Config holds audio output settings
type Config struct {
	Enabled      bool
	MasterVolume float64 // 0.0 to 1.0
	SampleRate   int
	MaxVoices    int
	FullSize     float64 // Explosion size that plays at full gain
}

// DefaultConfig returns the stock audio settings
func DefaultConfig() *Config {
	return &Config{
		Enabled:      true,
		MasterVolume: parameter.MasterVolume,
		SampleRate:   parameter.AudioSampleRate,
		MaxVoices:    parameter.MaxExplosionVoices,
		FullSize:     parameter.ParticleEndSize,
	}
}
