package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemTimeMonotonic(t *testing.T) {
	var provider TimeProvider = SystemTime{}

	t1 := provider.Now()
	time.Sleep(10 * time.Millisecond)
	t2 := provider.Now()

	assert.GreaterOrEqual(t, t2.Sub(t1), 10*time.Millisecond)
}

func TestMockTimeProviderConcurrency(t *testing.T) {
	mock := NewMockTimeProvider(time.Unix(0, 0))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				mock.Advance(time.Millisecond)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = mock.Now()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, time.Second, mock.Now().Sub(time.Unix(0, 0)))
}

// TestPausableClockTick verifies Tick deltas, pause freezing and the delta cap
func TestPausableClockTick(t *testing.T) {
	mock := NewMockTimeProvider(time.Unix(100, 0))
	clock := NewPausableClock(mock, 100*time.Millisecond)

	mock.Advance(16 * time.Millisecond)
	simTime, dt := clock.Tick()
	assert.Equal(t, 0.016, simTime)
	assert.Equal(t, 0.016, dt)

	clock.Pause()
	mock.Advance(5 * time.Second)
	simTime, dt = clock.Tick()
	assert.Zero(t, dt, "paused clock must not advance")
	assert.Equal(t, 0.016, simTime)
	assert.Equal(t, 5*time.Second, clock.TotalPauseDuration())

	clock.Resume()
	mock.Advance(time.Second)
	_, dt = clock.Tick()
	assert.Equal(t, 0.1, dt, "delta capped after a stall")
	assert.Equal(t, 1016*time.Millisecond, clock.Elapsed())
}

func TestPausableClockToggle(t *testing.T) {
	clock := NewPausableClock(NewMockTimeProvider(time.Unix(0, 0)), 0)
	require.True(t, clock.Toggle())
	require.True(t, clock.IsPaused())
	require.False(t, clock.Toggle())
	require.False(t, clock.IsPaused())
}
