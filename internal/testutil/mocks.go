package testutil

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/visweswararao3005/SeleniumTestScheduler/internal/db"
)

// MockStore provides an in-memory schedule store for testing
type MockStore struct {
	mu        sync.Mutex
	schedules []db.Schedule
	marked    []MarkCall
	fetchErr  error
	markErr   error
	closed    int
}

// MarkCall records one MarkRun invocation
type MarkCall struct {
	ID    string
	RanAt time.Time
}

func NewMockStore() *MockStore {
	return &MockStore{}
}

func (m *MockStore) SetSchedules(schedules []db.Schedule) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schedules = schedules
}

func (m *MockStore) SetFetchError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchErr = err
}

func (m *MockStore) SetMarkError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markErr = err
}

func (m *MockStore) FetchActiveSchedules(asOf time.Time) ([]db.Schedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fetchErr != nil {
		return nil, m.fetchErr
	}

	out := make([]db.Schedule, len(m.schedules))
	copy(out, m.schedules)
	return out, nil
}

func (m *MockStore) MarkRun(id string, ranAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.markErr != nil {
		return m.markErr
	}

	m.marked = append(m.marked, MarkCall{ID: id, RanAt: ranAt})

	// Keep the in-memory row consistent so later cycles see the new
	// last_run_time, like the real store would.
	for i := range m.schedules {
		if m.schedules[i].ID == id {
			t := ranAt
			m.schedules[i].LastRunTime = &t
		}
	}
	return nil
}

func (m *MockStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed++
	return nil
}

func (m *MockStore) Marked() []MarkCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]MarkCall, len(m.marked))
	copy(out, m.marked)
	return out
}

func (m *MockStore) CloseCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// RecordingDispatcher is a Dispatcher that records calls instead of
// launching subprocesses
type RecordingDispatcher struct {
	mu       sync.Mutex
	calls    []db.Schedule
	exitCode int
	err      error
	delay    time.Duration
}

func NewRecordingDispatcher() *RecordingDispatcher {
	return &RecordingDispatcher{}
}

func (d *RecordingDispatcher) SetExitCode(code int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.exitCode = code
}

func (d *RecordingDispatcher) SetError(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.err = err
}

// SetDelay makes each dispatch sleep, simulating a slow test run
func (d *RecordingDispatcher) SetDelay(delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delay = delay
}

func (d *RecordingDispatcher) Dispatch(ctx context.Context, sched db.Schedule) (int, error) {
	d.mu.Lock()
	delay := d.delay
	d.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.err != nil {
		return 0, d.err
	}

	d.calls = append(d.calls, sched)
	return d.exitCode, nil
}

func (d *RecordingDispatcher) Calls() []db.Schedule {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]db.Schedule, len(d.calls))
	copy(out, d.calls)
	return out
}

func (d *RecordingDispatcher) CallCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.calls)
}

// TestLogger captures slog output for assertions
type TestLogger struct {
	mu      sync.Mutex
	entries []LogEntry
}

type LogEntry struct {
	Level   string
	Message string
	Fields  map[string]interface{}
}

func NewTestLogger() *TestLogger {
	return &TestLogger{}
}

// Logger returns a *slog.Logger that writes to this TestLogger
func (l *TestLogger) Logger() *slog.Logger {
	return slog.New(&testLogHandler{logger: l})
}

func (l *TestLogger) GetEntries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *TestLogger) GetEntriesByLevel(level string) []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []LogEntry
	for _, e := range l.entries {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

func (l *TestLogger) HasError() bool {
	return len(l.GetEntriesByLevel("ERROR")) > 0
}

func (l *TestLogger) append(e LogEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, e)
}

type testLogHandler struct {
	logger *TestLogger
	attrs  []slog.Attr
}

func (h *testLogHandler) Enabled(_ context.Context, _ slog.Level) bool { return true }

func (h *testLogHandler) Handle(_ context.Context, r slog.Record) error {
	entry := LogEntry{
		Level:   r.Level.String(),
		Message: r.Message,
		Fields:  make(map[string]interface{}),
	}
	r.Attrs(func(a slog.Attr) bool {
		entry.Fields[a.Key] = a.Value.Any()
		return true
	})
	for _, a := range h.attrs {
		entry.Fields[a.Key] = a.Value.Any()
	}
	h.logger.append(entry)
	return nil
}

func (h *testLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &testLogHandler{logger: h.logger, attrs: merged}
}

func (h *testLogHandler) WithGroup(_ string) slog.Handler { return h }
