package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/mattn/go-sqlite3"
	"github.com/visweswararao3005/SeleniumTestScheduler/internal/config"
	"github.com/visweswararao3005/SeleniumTestScheduler/internal/db"
	"github.com/visweswararao3005/SeleniumTestScheduler/internal/runner"
	"github.com/visweswararao3005/SeleniumTestScheduler/internal/scheduler"
)

func main() {
	// Parse command-line flags
	configFile := flag.String("config", "", "Path to configuration file (TOML)")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Initialize structured logger
	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	slog.Info("starting selenium test scheduler", "config_file", *configFile)
	slog.Info("database configuration", "driver", cfg.Database.Driver, "dsn", cfg.Database.DSN)
	slog.Info("runner configuration", "path", cfg.Runner.Path, "args", cfg.Runner.Args)

	// Run migrations on a startup connection; cycles acquire their own.
	if !cfg.Database.SkipMigrations {
		database, err := db.OpenWithConfig(cfg.Database)
		if err != nil {
			slog.Error("failed to connect to database", "error", err, "driver", cfg.Database.Driver)
			os.Exit(1)
		}

		if err := database.Migrate(); err != nil {
			slog.Error("failed to run migrations", "error", err)
			database.Close()
			os.Exit(1)
		}

		version, err := database.SchemaVersion()
		if err != nil {
			slog.Error("failed to get schema version", "error", err)
			database.Close()
			os.Exit(1)
		}
		slog.Info("database schema ready", "version", version)
		database.Close()
	} else {
		slog.Info("skipping migrations", "reason", "configured to skip")
	}

	// The store is opened fresh each cycle so transient connectivity loss
	// between cycles heals on the next tick.
	openStore := func() (scheduler.Store, error) {
		return db.OpenWithConfig(cfg.Database)
	}

	dispatcher := runner.New(cfg.Runner, logger)

	sched, err := scheduler.New(cfg.Scheduler, openStore, dispatcher, logger)
	if err != nil {
		slog.Error("failed to create scheduler", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	slog.Info("scheduler is running", "tick_interval_seconds", cfg.Scheduler.TickIntervalSeconds)

	// Blocks until an interrupt arrives, then waits out the in-flight cycle.
	sched.Run(ctx)

	slog.Info("shut down cleanly")
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
