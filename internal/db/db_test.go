package db

import (
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	database, err := Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := database.Migrate(); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return database
}

func strptr(s string) *string { return &s }

func timeptr(t time.Time) *time.Time { return &t }

func TestMigrate_SchemaVersion(t *testing.T) {
	database := setupTestDB(t)

	version, err := database.SchemaVersion()
	if err != nil {
		t.Fatalf("failed to get schema version: %v", err)
	}
	if version != 1 {
		t.Errorf("expected schema version 1, got %d", version)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	database := setupTestDB(t)

	if err := database.Migrate(); err != nil {
		t.Fatalf("expected re-running migrations to be a no-op, got %v", err)
	}
}

func TestSchemaVersion_NoSchemaTable(t *testing.T) {
	database, err := Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	defer database.Close()

	version, err := database.SchemaVersion()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0 before migrations, got %d", version)
	}
}

func TestCreateAndGetSchedule(t *testing.T) {
	database := setupTestDB(t)

	s := &Schedule{
		ClientName:   "Acme",
		TestsToBeRun: strptr("Smoke, Regression"),
		DaysOfWeek:   strptr("Monday"),
		AtTime:       strptr("09:00:00"),
		IsActive:     true,
	}

	if err := database.CreateSchedule(s); err != nil {
		t.Fatalf("failed to create schedule: %v", err)
	}
	if s.ID == "" {
		t.Fatal("expected store to assign an ID")
	}

	got, err := database.GetSchedule(s.ID)
	if err != nil {
		t.Fatalf("failed to get schedule: %v", err)
	}

	if got.ClientName != "Acme" {
		t.Errorf("expected client Acme, got %s", got.ClientName)
	}
	if got.TestsToBeRun == nil || *got.TestsToBeRun != "Smoke, Regression" {
		t.Errorf("unexpected tests_to_be_run: %v", got.TestsToBeRun)
	}
	if got.AtTime == nil || *got.AtTime != "09:00:00" {
		t.Errorf("unexpected at_time: %v", got.AtTime)
	}
	if got.LastRunTime != nil {
		t.Errorf("expected no last_run_time on a new schedule, got %v", got.LastRunTime)
	}
	if !got.IsActive {
		t.Error("expected schedule to be active")
	}
}

func TestGetSchedule_NotFound(t *testing.T) {
	database := setupTestDB(t)

	_, err := database.GetSchedule("missing")
	if !IsNotFound(err) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestFetchActiveSchedules_ExcludesInactive(t *testing.T) {
	database := setupTestDB(t)

	active := &Schedule{ClientName: "Active", AtTime: strptr("09:00:00"), IsActive: true}
	inactive := &Schedule{ClientName: "Inactive", AtTime: strptr("09:00:00"), IsActive: false}

	for _, s := range []*Schedule{active, inactive} {
		if err := database.CreateSchedule(s); err != nil {
			t.Fatalf("failed to create schedule: %v", err)
		}
	}

	schedules, err := database.FetchActiveSchedules(time.Now())
	if err != nil {
		t.Fatalf("failed to fetch schedules: %v", err)
	}

	if len(schedules) != 1 {
		t.Fatalf("expected 1 schedule, got %d", len(schedules))
	}
	if schedules[0].ClientName != "Active" {
		t.Errorf("expected the active schedule, got %s", schedules[0].ClientName)
	}
}

func TestFetchActiveSchedules_DateWindow(t *testing.T) {
	database := setupTestDB(t)

	asOf := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	inWindow := &Schedule{
		ClientName: "InWindow",
		AtTime:     strptr("09:00:00"),
		FromDate:   timeptr(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		ToDate:     timeptr(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)),
		IsActive:   true,
	}
	notStarted := &Schedule{
		ClientName: "NotStarted",
		AtTime:     strptr("09:00:00"),
		FromDate:   timeptr(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)),
		IsActive:   true,
	}
	expired := &Schedule{
		ClientName: "Expired",
		AtTime:     strptr("09:00:00"),
		ToDate:     timeptr(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)),
		IsActive:   true,
	}
	unbounded := &Schedule{
		ClientName: "Unbounded",
		AtTime:     strptr("09:00:00"),
		IsActive:   true,
	}

	for _, s := range []*Schedule{inWindow, notStarted, expired, unbounded} {
		if err := database.CreateSchedule(s); err != nil {
			t.Fatalf("failed to create schedule: %v", err)
		}
	}

	schedules, err := database.FetchActiveSchedules(asOf)
	if err != nil {
		t.Fatalf("failed to fetch schedules: %v", err)
	}

	names := make(map[string]bool)
	for _, s := range schedules {
		names[s.ClientName] = true
	}

	if len(schedules) != 2 {
		t.Fatalf("expected 2 schedules, got %d (%v)", len(schedules), names)
	}
	if !names["InWindow"] || !names["Unbounded"] {
		t.Errorf("expected InWindow and Unbounded, got %v", names)
	}
}

func TestFetchActiveSchedules_WindowBoundsInclusive(t *testing.T) {
	database := setupTestDB(t)

	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	s := &Schedule{
		ClientName: "Boundary",
		AtTime:     strptr("09:00:00"),
		FromDate:   timeptr(day),
		ToDate:     timeptr(day),
		IsActive:   true,
	}
	if err := database.CreateSchedule(s); err != nil {
		t.Fatalf("failed to create schedule: %v", err)
	}

	// Late in the boundary day is still inside the inclusive window.
	schedules, err := database.FetchActiveSchedules(day.Add(23 * time.Hour))
	if err != nil {
		t.Fatalf("failed to fetch schedules: %v", err)
	}
	if len(schedules) != 1 {
		t.Errorf("expected boundary-day schedule to be fetched, got %d schedules", len(schedules))
	}
}

func TestFetchActiveSchedules_Empty(t *testing.T) {
	database := setupTestDB(t)

	schedules, err := database.FetchActiveSchedules(time.Now())
	if err != nil {
		t.Fatalf("failed to fetch schedules: %v", err)
	}
	if schedules == nil {
		t.Error("expected empty slice, got nil")
	}
	if len(schedules) != 0 {
		t.Errorf("expected no schedules, got %d", len(schedules))
	}
}

func TestMarkRun(t *testing.T) {
	database := setupTestDB(t)

	s := &Schedule{ClientName: "Acme", AtTime: strptr("09:00:00"), IsActive: true}
	if err := database.CreateSchedule(s); err != nil {
		t.Fatalf("failed to create schedule: %v", err)
	}

	ranAt := time.Date(2024, 1, 15, 9, 1, 0, 0, time.UTC)
	if err := database.MarkRun(s.ID, ranAt); err != nil {
		t.Fatalf("failed to mark run: %v", err)
	}

	got, err := database.GetSchedule(s.ID)
	if err != nil {
		t.Fatalf("failed to get schedule: %v", err)
	}
	if got.LastRunTime == nil {
		t.Fatal("expected last_run_time to be set")
	}
	if got.LastRunTime.Unix() != ranAt.Unix() {
		t.Errorf("expected last_run_time %v, got %v", ranAt, got.LastRunTime)
	}
}

func TestMarkRun_NotFound(t *testing.T) {
	database := setupTestDB(t)

	err := database.MarkRun("missing", time.Now())
	if !IsNotFound(err) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestSetActive(t *testing.T) {
	database := setupTestDB(t)

	s := &Schedule{ClientName: "Acme", AtTime: strptr("09:00:00"), IsActive: true}
	if err := database.CreateSchedule(s); err != nil {
		t.Fatalf("failed to create schedule: %v", err)
	}

	if err := database.SetActive(s.ID, false); err != nil {
		t.Fatalf("failed to deactivate: %v", err)
	}

	schedules, err := database.FetchActiveSchedules(time.Now())
	if err != nil {
		t.Fatalf("failed to fetch schedules: %v", err)
	}
	if len(schedules) != 0 {
		t.Errorf("expected deactivated schedule to be excluded, got %d", len(schedules))
	}
}

func TestDeleteSchedule(t *testing.T) {
	database := setupTestDB(t)

	s := &Schedule{ClientName: "Acme", AtTime: strptr("09:00:00"), IsActive: true}
	if err := database.CreateSchedule(s); err != nil {
		t.Fatalf("failed to create schedule: %v", err)
	}

	if err := database.DeleteSchedule(s.ID); err != nil {
		t.Fatalf("failed to delete schedule: %v", err)
	}

	if _, err := database.GetSchedule(s.ID); !IsNotFound(err) {
		t.Errorf("expected not found after delete, got %v", err)
	}

	if err := database.DeleteSchedule(s.ID); !IsNotFound(err) {
		t.Errorf("expected not found deleting twice, got %v", err)
	}
}

func TestListSchedules_IncludesInactive(t *testing.T) {
	database := setupTestDB(t)

	for _, s := range []*Schedule{
		{ClientName: "A", AtTime: strptr("09:00:00"), IsActive: true},
		{ClientName: "B", AtTime: strptr("10:00:00"), IsActive: false},
	} {
		if err := database.CreateSchedule(s); err != nil {
			t.Fatalf("failed to create schedule: %v", err)
		}
	}

	schedules, err := database.ListSchedules()
	if err != nil {
		t.Fatalf("failed to list schedules: %v", err)
	}
	if len(schedules) != 2 {
		t.Errorf("expected 2 schedules, got %d", len(schedules))
	}
}
