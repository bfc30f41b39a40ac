// Package runner launches the external test-execution program for one
// schedule and streams its output to the operator log.
package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"

	"github.com/visweswararao3005/SeleniumTestScheduler/internal/db"
	"github.com/visweswararao3005/SeleniumTestScheduler/internal/filter"
)

// Config holds the test runner invocation settings
type Config struct {
	// Path is the executable to launch, e.g. "dotnet".
	Path string `toml:"path"`
	// Args are fixed leading arguments; the computed category filter is
	// appended as the final argument.
	Args []string `toml:"args"`
	// WorkDir is the working directory for the subprocess. Empty means
	// inherit the scheduler's.
	WorkDir string `toml:"work_dir"`
}

// Runner dispatches test runs as local OS processes.
type Runner struct {
	config Config
	logger *slog.Logger
}

func New(config Config, logger *slog.Logger) *Runner {
	return &Runner{
		config: config,
		logger: logger.With("component", "runner"),
	}
}

// Dispatch launches the test runner for sched with the computed category
// filter as its selection argument and CLIENT_NAME in its environment, then
// waits for it to exit. Output is forwarded line by line as the subprocess
// runs; both streams are fully drained before Dispatch returns.
//
// The returned exit code is observability only: a non-zero exit is not an
// error here. An error is returned only when the subprocess could not be
// started or awaited, or when it was terminated by shutdown. In those cases
// the schedule must stay unmarked so the next tick can retry.
func (r *Runner) Dispatch(ctx context.Context, sched db.Schedule) (int, error) {
	expr := filter.Build(sched.ClientName, deref(sched.TestsToBeRun))

	args := append(append([]string{}, r.config.Args...), expr)
	r.logger.Info("launching test runner",
		"schedule_id", sched.ID,
		"client", sched.ClientName,
		"path", r.config.Path,
		"filter", expr)

	cmd := exec.CommandContext(ctx, r.config.Path, args...)
	cmd.Dir = r.config.WorkDir
	cmd.Env = append(os.Environ(), "CLIENT_NAME="+sched.ClientName)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return 0, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return 0, fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("start %s: %w", r.config.Path, err)
	}

	// Blocking read loops, joined before Wait so no trailing output is lost.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		r.forward(stdout, "stdout", sched.ClientName)
	}()
	go func() {
		defer wg.Done()
		r.forward(stderr, "stderr", sched.ClientName)
	}()
	wg.Wait()

	waitErr := cmd.Wait()

	if ctx.Err() != nil {
		return 0, fmt.Errorf("test runner terminated: %w", ctx.Err())
	}

	var exitErr *exec.ExitError
	switch {
	case waitErr == nil:
		return 0, nil
	case errors.As(waitErr, &exitErr):
		return exitErr.ExitCode(), nil
	default:
		return 0, fmt.Errorf("wait for %s: %w", r.config.Path, waitErr)
	}
}

func (r *Runner) forward(pipe io.Reader, stream, client string) {
	sc := bufio.NewScanner(pipe)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if stream == "stderr" {
			r.logger.Warn("runner stderr", "client", client, "line", sc.Text())
		} else {
			r.logger.Info("runner output", "client", client, "line", sc.Text())
		}
	}
	if err := sc.Err(); err != nil {
		r.logger.Warn("runner output stream error", "client", client, "stream", stream, "error", err)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
