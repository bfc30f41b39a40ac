package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/visweswararao3005/SeleniumTestScheduler/internal/due"
)

// Scheduler drives the fetch-evaluate-dispatch cycle off a periodic timer.
//
// At most one cycle runs at a time: the busy gate drops timer firings that
// arrive while a cycle is in flight. Within a cycle, due schedules are
// dispatched sequentially, and each schedule is marked as run only after its
// own dispatch completes.
type Scheduler struct {
	config     Config
	logger     *slog.Logger
	openStore  StoreOpener
	dispatcher Dispatcher

	// now is swappable for tests
	now func() time.Time

	busy atomic.Bool
	wg   sync.WaitGroup

	mu    sync.Mutex
	stats Stats
}

// New creates a scheduler with validated configuration
func New(config Config, openStore StoreOpener, dispatcher Dispatcher, logger *slog.Logger) (*Scheduler, error) {
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	if openStore == nil {
		return nil, errors.New("scheduler: store opener is required")
	}
	if dispatcher == nil {
		return nil, errors.New("scheduler: dispatcher is required")
	}

	return &Scheduler{
		config:     config,
		logger:     logger.With("component", "scheduler"),
		openStore:  openStore,
		dispatcher: dispatcher,
		now:        time.Now,
	}, nil
}

// Run is the main scheduler loop. It blocks until ctx is cancelled, then
// waits for any in-flight cycle before returning.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("scheduler started", "tick_interval", s.config.TickInterval())

	ticker := time.NewTicker(s.config.TickInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopping")
			s.wg.Wait()
			s.logger.Info("scheduler stopped")
			return

		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// Stats returns a snapshot of the cumulative tick-loop counters.
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// tick starts a cycle unless the previous one is still running, in which
// case the firing is dropped. Ticks never queue.
func (s *Scheduler) tick(ctx context.Context) {
	if !s.busy.CompareAndSwap(false, true) {
		s.mu.Lock()
		s.stats.DroppedTicks++
		s.mu.Unlock()
		s.logger.Debug("previous cycle still running, dropping tick")
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.busy.Store(false)
		s.runCycle(ctx)
	}()
}

// runCycle performs one fetch-evaluate-dispatch pass. Errors abort the cycle
// and are retried from scratch on the next tick; nothing here is fatal.
func (s *Scheduler) runCycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("cycle panicked", "panic", r)
		}
	}()

	start := s.now()

	store, err := s.openStore()
	if err != nil {
		s.logger.Error("failed to open schedule store", "error", err)
		return
	}
	defer store.Close()

	schedules, err := store.FetchActiveSchedules(start)
	if err != nil {
		s.logger.Error("failed to fetch schedules", "error", err)
		return
	}

	dispatched := 0
	for _, sched := range schedules {
		if !due.IsDue(sched, s.now()) {
			continue
		}

		exitCode, err := s.dispatcher.Dispatch(ctx, sched)
		if err != nil {
			s.logger.Error("dispatch failed, schedule left unmarked",
				"schedule_id", sched.ID,
				"client", sched.ClientName,
				"error", err)
			continue
		}
		dispatched++

		if exitCode != 0 {
			s.logger.Warn("test runner exited non-zero",
				"schedule_id", sched.ID,
				"client", sched.ClientName,
				"exit_code", exitCode)
		} else {
			s.logger.Info("test run completed",
				"schedule_id", sched.ID,
				"client", sched.ClientName,
				"exit_code", exitCode)
		}

		// Marking happens regardless of the subprocess's exit code: the
		// schedule fired, pass or fail.
		ranAt := s.now()
		if err := store.MarkRun(sched.ID, ranAt); err != nil {
			s.logger.Error("failed to record run time, schedule may re-fire next tick",
				"schedule_id", sched.ID,
				"error", err)
		}
	}

	duration := time.Since(start)

	s.mu.Lock()
	s.stats.Cycles++
	s.stats.SchedulesFetched += len(schedules)
	s.stats.RunsDispatched += dispatched
	s.stats.LastCycleAt = start
	s.stats.LastCycleDuration = duration
	s.mu.Unlock()

	s.logger.Debug("cycle complete",
		"fetched", len(schedules),
		"dispatched", dispatched,
		"duration", duration)
}
