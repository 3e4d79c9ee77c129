package engine

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingJob counts visits per entity index and remembers the times it was handed
type recordingJob struct {
	mu      sync.Mutex
	visits  []int32
	times   map[int][2]float64
	release chan struct{} // when non-nil, workers block until closed
}

func newRecordingJob(n int) *recordingJob {
	return &recordingJob{visits: make([]int32, n), times: map[int][2]float64{}}
}

func (j *recordingJob) AdvanceRange(worker int, lo, hi int, simTime, elapsed float64) {
	if j.release != nil {
		<-j.release
	}
	for i := lo; i < hi; i++ {
		atomic.AddInt32(&j.visits[i], 1)
	}
	j.mu.Lock()
	j.times[worker] = [2]float64{simTime, elapsed}
	j.mu.Unlock()
}

func TestPartitionScenario(t *testing.T) {
	ranges, err := Partition(4, 10)
	require.NoError(t, err)
	assert.Equal(t, []Range{{0, 2}, {2, 4}, {4, 6}, {6, 10}}, ranges)
}

func TestPartitionRejectsZeroWorkers(t *testing.T) {
	_, err := Partition(0, 10)
	assert.True(t, errors.Is(err, ErrNoWorkers))
}

// TestPartitionCompleteness checks the union is exactly [0, m) with the documented sizes
func TestPartitionCompleteness(t *testing.T) {
	for n := 1; n <= 9; n++ {
		for _, m := range []int{0, 1, 7, 10, 64, 1001} {
			ranges, err := Partition(n, m)
			require.NoError(t, err)
			require.Len(t, ranges, n)

			next := 0
			for i, r := range ranges {
				assert.Equal(t, next, r.Lo, "gap or overlap n=%d m=%d worker=%d", n, m, i)
				if i < n-1 {
					assert.Equal(t, m/n, r.Len())
				} else {
					assert.Equal(t, m-(n-1)*(m/n), r.Len())
				}
				next = r.Hi
			}
			assert.Equal(t, m, next)
		}
	}
}

func TestSchedulerStepVisitsEveryEntityOnce(t *testing.T) {
	job := newRecordingJob(103)
	s, err := NewScheduler(4, 103, job, WithStepTimeout(time.Second))
	require.NoError(t, err)
	defer s.Shutdown()

	for step := 1; step <= 5; step++ {
		require.NoError(t, s.Step(float64(step), 0.016))
		require.NoError(t, s.WaitForCompletion())

		for i := range job.visits {
			require.Equal(t, int32(step), atomic.LoadInt32(&job.visits[i]), "entity %d", i)
		}
	}

	job.mu.Lock()
	defer job.mu.Unlock()
	for w := 0; w < 4; w++ {
		assert.Equal(t, [2]float64{5, 0.016}, job.times[w])
	}
}

func TestSchedulerStepInFlight(t *testing.T) {
	job := newRecordingJob(8)
	job.release = make(chan struct{})
	s, err := NewScheduler(2, 8, job, WithStepTimeout(time.Second))
	require.NoError(t, err)

	require.NoError(t, s.Step(0, 0.01))
	assert.True(t, errors.Is(s.Step(0, 0.01), ErrStepInFlight))

	close(job.release)
	require.NoError(t, s.WaitForCompletion())
	require.NoError(t, s.Shutdown())
}

// TestSchedulerTimeout stalls one worker past the step bound
func TestSchedulerTimeout(t *testing.T) {
	job := newRecordingJob(4)
	job.release = make(chan struct{})
	s, err := NewScheduler(2, 4, job,
		WithStepTimeout(20*time.Millisecond),
		WithShutdownTimeout(time.Second),
	)
	require.NoError(t, err)

	require.NoError(t, s.Step(0, 0.01))
	err = s.WaitForCompletion()
	assert.True(t, errors.Is(err, ErrStepTimeout))

	// Unstall so shutdown can join
	close(job.release)
	assert.NoError(t, s.Shutdown())
}

func TestSchedulerShutdownIdempotent(t *testing.T) {
	job := newRecordingJob(10)
	s, err := NewScheduler(3, 10, job)
	require.NoError(t, err)

	require.NoError(t, s.Shutdown())
	require.NoError(t, s.Shutdown())

	assert.True(t, errors.Is(s.Step(0, 0), ErrSchedulerClosed))
	assert.True(t, errors.Is(s.WaitForCompletion(), ErrSchedulerClosed))
}

// TestSchedulerMoreWorkersThanEntities leaves early workers idle and the last one with everything
func TestSchedulerMoreWorkersThanEntities(t *testing.T) {
	job := newRecordingJob(3)
	s, err := NewScheduler(8, 3, job)
	require.NoError(t, err)
	defer s.Shutdown()

	ranges := s.Ranges()
	assert.Equal(t, Range{0, 3}, ranges[7])
	for _, r := range ranges[:7] {
		assert.Equal(t, 0, r.Len())
	}

	require.NoError(t, s.Step(0, 0.01))
	require.NoError(t, s.WaitForCompletion())
	for i := range job.visits {
		assert.Equal(t, int32(1), job.visits[i])
	}
}
