package scheduler

import (
	"fmt"
	"time"
)

// Config defines configuration for the scheduler's tick loop
type Config struct {
	// Seconds between timer firings. A tick that arrives while the
	// previous cycle is still running is dropped, not queued.
	TickIntervalSeconds int `toml:"tick_interval_seconds"`
}

// DefaultConfig returns scheduler configuration defaults
func DefaultConfig() Config {
	return Config{
		TickIntervalSeconds: 60,
	}
}

// TickInterval returns the configured interval as a duration
func (c Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalSeconds) * time.Second
}

// validateConfig validates scheduler configuration and returns error if invalid
func validateConfig(config Config) error {
	if config.TickIntervalSeconds <= 0 {
		return fmt.Errorf("TickIntervalSeconds must be positive, got %d", config.TickIntervalSeconds)
	}
	return nil
}
