package engine

import (
	"sync"
	"sync/atomic"
	"time"
)

// PausableClock provides pausable simulation time with pause duration tracking
type PausableClock struct {
	mu sync.RWMutex

	src       TimeProvider
	realStart time.Time

	// Pause state
	isPaused        atomic.Bool
	pauseStartTime  time.Time     // When current pause started (real time)
	totalPausedTime time.Duration // Cumulative pause duration

	// Frame tracking for Tick
	lastElapsed time.Duration
	maxDelta    time.Duration
}

// NewPausableClock creates a clock reading src; maxDelta caps a single Tick (0 = uncapped)
func NewPausableClock(src TimeProvider, maxDelta time.Duration) *PausableClock {
	if src == nil {
		src = SystemTime{}
	}
	return &PausableClock{
		src:       src,
		realStart: src.Now(),
		maxDelta:  maxDelta,
	}
}

// Elapsed returns simulation time since creation, excluding pauses
func (pc *PausableClock) Elapsed() time.Duration {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return pc.elapsedLocked()
}

func (pc *PausableClock) elapsedLocked() time.Duration {
	if pc.isPaused.Load() {
		return pc.pauseStartTime.Sub(pc.realStart) - pc.totalPausedTime
	}
	return pc.src.Now().Sub(pc.realStart) - pc.totalPausedTime
}

// Tick returns (simTime, elapsed) in seconds since the previous Tick
// elapsed is zero while paused and capped at maxDelta after a stall
func (pc *PausableClock) Tick() (simTime, elapsed float64) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	now := pc.elapsedLocked()
	delta := now - pc.lastElapsed
	if pc.maxDelta > 0 && delta > pc.maxDelta {
		delta = pc.maxDelta
	}
	if delta < 0 {
		delta = 0
	}
	pc.lastElapsed = now
	return now.Seconds(), delta.Seconds()
}

// Pause stops simulation time advancement
func (pc *PausableClock) Pause() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if pc.isPaused.CompareAndSwap(false, true) {
		pc.pauseStartTime = pc.src.Now()
	}
}

// Resume continues simulation time advancement
func (pc *PausableClock) Resume() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if pc.isPaused.CompareAndSwap(true, false) {
		pc.totalPausedTime += pc.src.Now().Sub(pc.pauseStartTime)
		pc.pauseStartTime = time.Time{}
	}
}

// Toggle flips pause state and returns the new state
func (pc *PausableClock) Toggle() bool {
	if pc.IsPaused() {
		pc.Resume()
		return false
	}
	pc.Pause()
	return true
}

// IsPaused returns current pause state
func (pc *PausableClock) IsPaused() bool {
	return pc.isPaused.Load()
}

// TotalPauseDuration returns cumulative pause time including any current pause
func (pc *PausableClock) TotalPauseDuration() time.Duration {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	total := pc.totalPausedTime
	if pc.isPaused.Load() && !pc.pauseStartTime.IsZero() {
		total += pc.src.Now().Sub(pc.pauseStartTime)
	}
	return total
}
