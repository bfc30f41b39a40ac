package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

const scheduleColumns = `
	id, client_name, tests_to_be_run, from_date, to_date,
	days_of_week, at_time, last_run_time, is_active, created_at, updated_at
`

// FetchActiveSchedules retrieves every active schedule whose date window
// contains asOf. The is_active gate and the inclusive from_date/to_date
// window are applied here, server-side; time-of-day and weekday evaluation
// happen in memory afterwards.
func (db *DB) FetchActiveSchedules(asOf time.Time) ([]Schedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM schedules
		WHERE is_active = 1
		  AND (from_date IS NULL OR date(from_date) <= date(?))
		  AND (to_date IS NULL OR date(to_date) >= date(?))
		ORDER BY client_name, id
	`

	rows, err := db.Query(query, asOf, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedules []Schedule
	for rows.Next() {
		var s Schedule
		if err := scanSchedule(rows, &s); err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	// Return empty slice instead of nil
	if schedules == nil {
		schedules = []Schedule{}
	}

	return schedules, nil
}

// MarkRun records that a run was triggered for the schedule. last_run_time is
// the only schedule field this system ever writes.
func (db *DB) MarkRun(id string, ranAt time.Time) error {
	query := `
		UPDATE schedules
		SET last_run_time = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := db.Exec(query, ranAt, time.Now(), id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// CreateSchedule creates a new schedule. An empty ID is assigned by the store.
func (db *DB) CreateSchedule(s *Schedule) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now

	query := `
		INSERT INTO schedules (` + scheduleColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		s.ID,
		s.ClientName,
		s.TestsToBeRun,
		s.FromDate,
		s.ToDate,
		s.DaysOfWeek,
		s.AtTime,
		s.LastRunTime,
		s.IsActive,
		s.CreatedAt,
		s.UpdatedAt,
	)
	return err
}

// GetSchedule retrieves a schedule by ID
func (db *DB) GetSchedule(id string) (*Schedule, error) {
	s := &Schedule{}

	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE id = ?`

	err := scanSchedule(db.QueryRow(query, id), s)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return s, nil
}

// ListSchedules retrieves all schedules, active or not
func (db *DB) ListSchedules() ([]Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules ORDER BY created_at DESC`

	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedules []Schedule
	for rows.Next() {
		var s Schedule
		if err := scanSchedule(rows, &s); err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if schedules == nil {
		schedules = []Schedule{}
	}

	return schedules, nil
}

// SetActive flips the is_active gate on a schedule
func (db *DB) SetActive(id string, active bool) error {
	query := `UPDATE schedules SET is_active = ?, updated_at = ? WHERE id = ?`

	result, err := db.Exec(query, active, time.Now(), id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteSchedule deletes a schedule by ID
func (db *DB) DeleteSchedule(id string) error {
	query := `DELETE FROM schedules WHERE id = ?`

	result, err := db.Exec(query, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanSchedule(row scanner, s *Schedule) error {
	return row.Scan(
		&s.ID,
		&s.ClientName,
		&s.TestsToBeRun,
		&s.FromDate,
		&s.ToDate,
		&s.DaysOfWeek,
		&s.AtTime,
		&s.LastRunTime,
		&s.IsActive,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
}
