package engine

import "errors"

var (
	// ErrInvalidGrid is returned for a zero-sized grid or non-positive world scale
	ErrInvalidGrid = errors.New("invalid spatial grid")

	// ErrNoWorkers is returned when a scheduler is requested with fewer than one worker
	ErrNoWorkers = errors.New("worker count must be at least 1")

	// ErrStepTimeout means a worker did not signal done in time; callers treat it as fatal
	ErrStepTimeout = errors.New("simulation step timed out")

	// ErrShutdownTimeout means workers did not exit in time after shutdown was requested
	ErrShutdownTimeout = errors.New("worker shutdown timed out")

	// ErrStepInFlight is returned when Step is called before the previous step was awaited
	ErrStepInFlight = errors.New("step already in flight")

	// ErrSchedulerClosed is returned by Step and WaitForCompletion after Shutdown
	ErrSchedulerClosed = errors.New("scheduler is shut down")

	// ErrInvalidEntityCount is returned for a negative or zero entity pool
	ErrInvalidEntityCount = errors.New("invalid entity count")
)
