package parameter

// Player physics
const (
	// Restitution is the collision bounce coefficient projected on the contact normal
	Restitution = 0.9

	// PenetrationShare is the fraction of overlap each participant resolves on its own side
	PenetrationShare = 0.5

	// CoincidentEpsilon is the center distance below which a contact has no usable normal and is skipped
	CoincidentEpsilon = 1e-9

	// PlayerRadiusMin/Max bound the random radius assigned at reset
	PlayerRadiusMin = 0.4
	PlayerRadiusMax = 1.0

	// PlayerDrag is the linear drag coefficient (1/sec)
	PlayerDrag = 0.35

	// PlayerThrust is the magnitude of the constant steering acceleration assigned at reset (units/sec²)
	PlayerThrust = 4.0

	// PlayerStartSpeed is the maximum magnitude of the initial horizontal velocity (units/sec)
	PlayerStartSpeed = 6.0

	// Gravity is the downward acceleration; terrain follow reprojects it onto the slope
	Gravity = -9.8
)

// Terrain
const (
	// TerrainAmplitude is the peak height of the procedural height field
	TerrainAmplitude = 6.0

	// TerrainWavelength is the base wavelength of the largest octave (world units)
	TerrainWavelength = 60.0

	// TerrainOctaves is the number of summed sine octaves
	TerrainOctaves = 3

	// TerrainResolution is the number of height samples per side
	TerrainResolution = 129
)
