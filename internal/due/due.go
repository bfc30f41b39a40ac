// Package due decides whether a schedule should fire at a given instant.
// Everything here is pure; callers supply the clock.
package due

import (
	"strings"
	"time"

	"github.com/visweswararao3005/SeleniumTestScheduler/internal/db"
)

// IsDue reports whether sched should fire at now.
//
// A schedule is due when now's weekday is in the schedule's day set, now has
// reached today's scheduled instant (start of day plus at_time), and no run
// has been recorded at or after that instant. A schedule with a missing or
// unparseable at_time is never due; a missing days_of_week means every day.
// That asymmetry is deliberate and matches the administrative contract.
//
// The from_date/to_date window is enforced by the store query, not here; use
// InWindow for callers that bypass the store.
func IsDue(sched db.Schedule, now time.Time) bool {
	days := ParseDays(deref(sched.DaysOfWeek))
	if !containsDay(days, strings.ToLower(now.Weekday().String())) {
		return false
	}

	if sched.AtTime == nil {
		return false
	}
	atTime, err := ParseAtTime(*sched.AtTime)
	if err != nil {
		return false
	}

	scheduledAt := startOfDay(now).Add(atTime)
	if now.Before(scheduledAt) {
		// too early for today's threshold
		return false
	}

	if sched.LastRunTime != nil && !sched.LastRunTime.Before(scheduledAt) {
		// already ran for today's threshold
		return false
	}

	return true
}

// InWindow reports whether now falls inside the schedule's inclusive
// from_date/to_date window, at date granularity. It is the in-memory
// equivalent of the store's date-window predicate.
func InWindow(sched db.Schedule, now time.Time) bool {
	day := startOfDay(now)
	if sched.FromDate != nil && day.Before(startOfDay(*sched.FromDate)) {
		return false
	}
	if sched.ToDate != nil && day.After(startOfDay(*sched.ToDate)) {
		return false
	}
	return true
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func containsDay(days []string, day string) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
