package due

import (
	"reflect"
	"testing"
	"time"
)

func TestParseDays_Empty(t *testing.T) {
	for _, in := range []string{"", "  ", ","} {
		days := ParseDays(in)
		if len(days) != 7 {
			t.Errorf("ParseDays(%q): expected all seven days, got %v", in, days)
		}
	}
}

func TestParseDays_TrimsQuotesAndWhitespace(t *testing.T) {
	got := ParseDays(` "Monday", 'tuesday' , WEDNESDAY `)
	want := []string{"monday", "tuesday", "wednesday"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestParseDays_SingleDay(t *testing.T) {
	got := ParseDays("Friday")
	want := []string{"friday"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestParseAtTime_Valid(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"09:00:00", 9 * time.Hour},
		{"09:30", 9*time.Hour + 30*time.Minute},
		{"23:59:59", 23*time.Hour + 59*time.Minute + 59*time.Second},
		{"00:00:00", 0},
		{" 12:15:30 ", 12*time.Hour + 15*time.Minute + 30*time.Second},
	}

	for _, tc := range cases {
		got, err := ParseAtTime(tc.in)
		if err != nil {
			t.Errorf("ParseAtTime(%q): unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseAtTime(%q): expected %v, got %v", tc.in, tc.want, got)
		}
	}
}

func TestParseAtTime_Invalid(t *testing.T) {
	cases := []string{
		"",
		"garbage",
		"25:00:00",
		"09:60:00",
		"09:00:60",
		"-1:00:00",
		"09",
		"09:00:00:00",
	}

	for _, in := range cases {
		if _, err := ParseAtTime(in); err == nil {
			t.Errorf("ParseAtTime(%q): expected error", in)
		}
	}
}
