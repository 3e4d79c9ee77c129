package parameter

// Particle pool
const (
	// ParticlesPerSystem is the particle count carved for each system
	ParticlesPerSystem = 200

	// MushroomSystems, GroundBurstSystems and LandMineSystems are the per-kind system counts
	// Each mushroom cloud also gets a stalk system sharing its center
	MushroomSystems    = 8
	GroundBurstSystems = 10
	LandMineSystems    = 6
)

// Shared emission curve; the power-curve exponents must be integral
const (
	ParticleSpread     = 4.0
	ParticleStartSize  = 0.0
	ParticleEndSize    = 10.0
	ParticleSizeExp    = 128.0
	ParticleEndSpeed   = 4.0
	ParticleSpeedExp   = 32.0
	ParticleFadeExp    = 4.0
	ParticleRollAmount = 0.2
	ParticleWindFall   = 20.0
	ParticleRotRateMax = 1.5
)

// Per-kind lifespans (seconds) and start speeds (units/sec)
const (
	MushroomLifeSpan    = 10.0
	GroundBurstLifeSpan = 9.0
	LandMineLifeSpan    = 9.0

	MushroomStartSpeed    = 20.0
	StalkStartSpeed       = 50.0
	GroundBurstStartSpeed = 100.0
	LandMineStartSpeed    = 250.0

	// StalkPull is the radial inward pull strength (1/sec)
	StalkPull = 0.5

	// BurstDragMin/Max bound the per-particle drag for ground-hugging kinds (1/sec)
	BurstDragMin = 1.0
	BurstDragMax = 3.0
)

// Respawn policy
const (
	// RespawnMaxDelay is the largest negative start time assigned on respawn (seconds)
	RespawnMaxDelay = 3.0

	// RespawnBounds is the half-extent of the square respawn area
	RespawnBounds = 80.0
)

// Environment
var (
	// WindVelocity is the ambient wind applied to mushroom clouds, scaled by height
	WindVelocity = [3]float64{-2.0, 10.0, 0}

	// FlashPalette is the fixed flash color palette (RRGGBBAA hex)
	FlashPalette = []string{"#ff8000e6", "#ff4d0de6", "#ff6600e6", "#cc4d0de6"}

	// SmokeColor is the far end of every particle color gradient
	SmokeColor = "#4d4d4dcc"
)
