package scheduler

import (
	"context"
	"time"

	"github.com/visweswararao3005/SeleniumTestScheduler/internal/db"
)

// Store is the schedule store as seen by one cycle.
type Store interface {
	// FetchActiveSchedules returns active schedules whose date window
	// contains asOf.
	FetchActiveSchedules(asOf time.Time) ([]db.Schedule, error)

	// MarkRun records ranAt as the schedule's last run time.
	MarkRun(id string, ranAt time.Time) error

	Close() error
}

// StoreOpener acquires a fresh store connection. The scheduler opens one per
// cycle and closes it at cycle end, so connectivity lost between cycles is
// recovered on the next tick.
type StoreOpener func() (Store, error)

// Dispatcher runs the external test program for one due schedule and waits
// for it to finish. The exit code is informational; a non-nil error means
// the dispatch itself failed and the schedule must not be marked.
type Dispatcher interface {
	Dispatch(ctx context.Context, sched db.Schedule) (exitCode int, err error)
}

// Stats are cumulative counters for the tick loop.
type Stats struct {
	Cycles            int
	DroppedTicks      int
	SchedulesFetched  int
	RunsDispatched    int
	LastCycleAt       time.Time
	LastCycleDuration time.Duration
}
