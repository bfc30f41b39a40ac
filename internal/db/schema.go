package db

import "time"

// Schedule represents one recurring test-run definition.
//
// Rows are created and edited by the administrative surface; the scheduler
// only ever reads them and advances LastRunTime after a dispatched run.
type Schedule struct {
	ID           string
	ClientName   string
	TestsToBeRun *string // comma-separated categories, or "all"/NULL for every category
	FromDate     *time.Time
	ToDate       *time.Time
	DaysOfWeek   *string // comma-separated weekday names, NULL/empty means every day
	AtTime       *string // time of day as HH:MM:SS; a schedule with no parseable at_time never fires
	LastRunTime  *time.Time
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
