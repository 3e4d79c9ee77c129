package parameter

import "time"

// Audio output
const (
	// AudioSampleRate is the speaker sample rate (Hz)
	AudioSampleRate = 48000

	// AudioBufferDuration is the speaker buffer length
	AudioBufferDuration = 100 * time.Millisecond

	// MasterVolume scales every cue
	MasterVolume = 0.6

	// MaxExplosionVoices caps concurrently playing explosion cues; extra triggers are dropped
	MaxExplosionVoices = 6
)

// Explosion cue shape
const (
	ExplosionSoundDuration = 1200 * time.Millisecond
	ExplosionSoundAttack   = 5 * time.Millisecond
	ExplosionSoundRelease  = 1000 * time.Millisecond

	// ExplosionRumbleFreq is the low sine under the noise burst (Hz)
	ExplosionRumbleFreq = 45.0

	// ExplosionNoiseMix and ExplosionRumbleMix balance the two layers
	ExplosionNoiseMix  = 0.65
	ExplosionRumbleMix = 0.35

	// ExplosionMinGain is the floor of the size-scaled gain
	ExplosionMinGain = 0.2
)
