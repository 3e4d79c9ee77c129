package engine

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/blastfield/core"
	"github.com/lixenwraith/blastfield/parameter"
)

// Range is a half-open entity index range [Lo, Hi)
type Range struct {
	Lo, Hi int
}

// Len returns the number of indices in the range
func (r Range) Len() int {
	return r.Hi - r.Lo
}

// RangeAdvancer advances a contiguous entity range for one worker
// Implementations must only write state owned by indices in [lo, hi)
type RangeAdvancer interface {
	AdvanceRange(worker int, lo, hi int, simTime, elapsed float64)
}

// Partition splits m entities across n workers: each gets m/n, the last also takes the remainder
func Partition(n, m int) ([]Range, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrNoWorkers, n)
	}
	if m < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidEntityCount, m)
	}

	delta := m / n
	ranges := make([]Range, n)
	for i := 0; i < n; i++ {
		ranges[i] = Range{Lo: i * delta, Hi: (i + 1) * delta}
	}
	ranges[n-1].Hi = m
	return ranges, nil
}

// worker is one execution context with its start/done event pair
type worker struct {
	id    int
	span  Range
	start chan struct{} // 1-buffered: signaled by Step and Shutdown
	done  chan struct{} // 1-buffered: signaled after each completed step

	// Written by Step before start is signaled; the channel send orders the write
	simTime float64
	elapsed float64
}

// Scheduler runs simulation steps across a fixed pool of workers
// Step dispatches without blocking; WaitForCompletion blocks until all workers signal done
type Scheduler struct {
	workers []*worker
	job     RangeAdvancer
	logger  *slog.Logger

	stepTimeout     time.Duration
	shutdownTimeout time.Duration

	// Process-wide exit flag checked by workers after each start signal
	done atomic.Bool

	inFlight atomic.Bool
	closed   atomic.Bool
	stopOnce sync.Once
	stopErr  error
	wg       sync.WaitGroup
}

// SchedulerOption configures a Scheduler
type SchedulerOption func(*Scheduler)

// WithStepTimeout overrides the WaitForCompletion bound
func WithStepTimeout(d time.Duration) SchedulerOption {
	return func(s *Scheduler) { s.stepTimeout = d }
}

// WithShutdownTimeout overrides the Shutdown bound
func WithShutdownTimeout(d time.Duration) SchedulerOption {
	return func(s *Scheduler) { s.shutdownTimeout = d }
}

// WithLogger attaches a logger
func WithLogger(l *slog.Logger) SchedulerOption {
	return func(s *Scheduler) { s.logger = l }
}

// NewScheduler partitions entityCount across n workers and starts them
// Workers block on their start signal until the first Step
func NewScheduler(n, entityCount int, job RangeAdvancer, opts ...SchedulerOption) (*Scheduler, error) {
	ranges, err := Partition(n, entityCount)
	if err != nil {
		return nil, err
	}

	s := &Scheduler{
		workers:         make([]*worker, n),
		job:             job,
		logger:          slog.Default(),
		stepTimeout:     parameter.StepTimeout,
		shutdownTimeout: parameter.ShutdownTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	for i, r := range ranges {
		s.workers[i] = &worker{
			id:    i,
			span:  r,
			start: make(chan struct{}, 1),
			done:  make(chan struct{}, 1),
		}
	}

	s.wg.Add(n)
	for _, w := range s.workers {
		w := w
		core.Go(func() { s.workerLoop(w) })
	}

	s.logger.Debug("scheduler started", "workers", n, "entities", entityCount)
	return s, nil
}

// Ranges returns each worker's assigned index range
func (s *Scheduler) Ranges() []Range {
	out := make([]Range, len(s.workers))
	for i, w := range s.workers {
		out[i] = w.span
	}
	return out
}

// Workers returns the pool size
func (s *Scheduler) Workers() int {
	return len(s.workers)
}

// Step records the frame times into each worker and signals start; it does not wait
func (s *Scheduler) Step(simTime, elapsed float64) error {
	if s.closed.Load() {
		return ErrSchedulerClosed
	}
	if !s.inFlight.CompareAndSwap(false, true) {
		return ErrStepInFlight
	}

	for _, w := range s.workers {
		w.simTime = simTime
		w.elapsed = elapsed
		w.start <- struct{}{}
	}
	return nil
}

// WaitForCompletion blocks until every worker has signaled done or the step timeout expires
// A timeout leaves the step in flight; callers must treat it as fatal
func (s *Scheduler) WaitForCompletion() error {
	if s.closed.Load() {
		return ErrSchedulerClosed
	}
	if !s.inFlight.Load() {
		return nil
	}

	timer := time.NewTimer(s.stepTimeout)
	defer timer.Stop()

	for _, w := range s.workers {
		select {
		case <-w.done:
		case <-timer.C:
			s.logger.Error("step timed out", "worker", w.id, "timeout", s.stepTimeout)
			return fmt.Errorf("%w: worker %d after %s", ErrStepTimeout, w.id, s.stepTimeout)
		}
	}

	s.inFlight.Store(false)
	return nil
}

// Shutdown sets the done flag, wakes every worker and waits for them to exit
// Safe to call more than once; later calls return the first result
func (s *Scheduler) Shutdown() error {
	s.stopOnce.Do(func() {
		s.closed.Store(true)
		s.done.Store(true)

		// A worker mid-step still holds its start token consumed; non-blocking send
		// leaves at most one pending token per worker
		for _, w := range s.workers {
			select {
			case w.start <- struct{}{}:
			default:
			}
		}

		exited := make(chan struct{})
		go func() {
			s.wg.Wait()
			close(exited)
		}()

		select {
		case <-exited:
			s.logger.Debug("scheduler stopped", "workers", len(s.workers))
		case <-time.After(s.shutdownTimeout):
			s.stopErr = fmt.Errorf("%w: after %s", ErrShutdownTimeout, s.shutdownTimeout)
			s.logger.Error("scheduler shutdown timed out", "timeout", s.shutdownTimeout)
		}
	})
	return s.stopErr
}

// workerLoop waits for start, exits on shutdown, otherwise advances its range and signals done
func (s *Scheduler) workerLoop(w *worker) {
	defer s.wg.Done()

	for {
		<-w.start
		if s.done.Load() {
			return
		}

		if w.span.Len() > 0 {
			s.job.AdvanceRange(w.id, w.span.Lo, w.span.Hi, w.simTime, w.elapsed)
		}

		w.done <- struct{}{}
	}
}
