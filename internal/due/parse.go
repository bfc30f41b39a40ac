package due

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var allDays = []string{
	"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday",
}

// ParseDays resolves a schedule's day-of-week set from its comma-separated
// days_of_week value. Tokens are lowercased and stripped of surrounding
// quotes and whitespace. An empty or blank value means every day of the
// week, never "no days".
func ParseDays(s string) []string {
	var days []string
	for _, tok := range strings.Split(s, ",") {
		tok = strings.ToLower(strings.Trim(tok, "\"' \t"))
		if tok != "" {
			days = append(days, tok)
		}
	}

	if len(days) == 0 {
		return append([]string(nil), allDays...)
	}
	return days
}

// ParseAtTime parses a schedule's at_time value as a duration since
// midnight. Accepted forms are "HH:MM:SS" and "HH:MM".
func ParseAtTime(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM:SS", s)
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}

	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}

	sec := 0
	if len(parts) == 3 {
		sec, err = strconv.Atoi(parts[2])
		if err != nil || sec < 0 || sec > 59 {
			return 0, fmt.Errorf("invalid second in %q", s)
		}
	}

	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(sec)*time.Second, nil
}
