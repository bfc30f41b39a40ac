package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/visweswararao3005/SeleniumTestScheduler/internal/db"
	"github.com/visweswararao3005/SeleniumTestScheduler/internal/runner"
	"github.com/visweswararao3005/SeleniumTestScheduler/internal/scheduler"
)

// Config represents the application configuration
type Config struct {
	Database  db.Config        `toml:"database"`
	Scheduler scheduler.Config `toml:"scheduler"`
	Runner    runner.Config    `toml:"runner"`
	Logging   LoggingConfig    `toml:"logging"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Database: db.Config{
			Driver:       "sqlite3",
			DSN:          "scheduler.db",
			MaxOpenConns: 5,
			MaxIdleConns: 2,
		},
		Scheduler: scheduler.DefaultConfig(),
		Runner: runner.Config{
			Path: "dotnet",
			Args: []string{"test", "--filter"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadFromFile loads configuration from a TOML file
func LoadFromFile(path string) (*Config, error) {
	// Start with defaults
	config := DefaultConfig()

	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	// Parse TOML file
	if _, err := toml.DecodeFile(path, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// LoadConfig loads configuration with the following precedence:
// 1. Default values
// 2. Config file (if specified)
// 3. Command-line flags (handled by caller)
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		return DefaultConfig(), nil
	}

	return LoadFromFile(configPath)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Database validation
	if c.Database.Driver == "" {
		return fmt.Errorf("database driver must be specified")
	}
	if c.Database.Driver != "sqlite3" {
		return fmt.Errorf("unsupported database driver: %s (must be sqlite3)", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database DSN must be specified")
	}

	// Scheduler validation
	if c.Scheduler.TickIntervalSeconds <= 0 {
		return fmt.Errorf("scheduler tick_interval_seconds must be positive")
	}

	// Runner validation
	if c.Runner.Path == "" {
		return fmt.Errorf("runner path must be specified")
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logging.Level)
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be text or json)", c.Logging.Format)
	}

	return nil
}
