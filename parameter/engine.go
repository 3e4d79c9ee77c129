package parameter

import "time"

// Frame loop timing
const (
	// FrameUpdateInterval is the simulation frame interval (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond

	// MaxFrameElapsed caps a single frame's dt after a stall or pause so integration stays stable
	MaxFrameElapsed = 100 * time.Millisecond

	// StepTimeout bounds WaitForCompletion; exceeding it is fatal to the frame loop
	StepTimeout = 2 * time.Second

	// ShutdownTimeout bounds worker exit after the final start signal
	ShutdownTimeout = 2 * time.Second
)

// Entity pool and world
const (
	// EntityCount is the fixed player pool size
	EntityCount = 5000

	// WorldScale is the side length of the square world centered on the origin
	WorldScale = 200.0

	// GridCellsX and GridCellsZ are the spatial grid dimensions
	GridCellsX = 32
	GridCellsZ = 32

	// DefaultSeed seeds entity placement and particle randomness
	DefaultSeed = 0x5EED
)

// Camera
const (
	// CameraDistance and CameraHeight place the orbiting eye relative to the world center
	CameraDistance = 180.0
	CameraHeight   = 90.0

	// CameraOrbitRate is the orbit angular speed (radians/sec)
	CameraOrbitRate = 0.05
)
