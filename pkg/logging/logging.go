// Package logging configures zerolog for envup.
//
// Entries go to stderr and to $XDG_STATE_HOME/envup/envup.log. Every entry
// written during a provisioning run carries the run ID and environment name
// stored in the run's context, so a log file shared by many runs can be
// filtered back to one.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// levels maps the -v count to a zerolog level; counts past the end are trace
var levels = []zerolog.Level{
	zerolog.WarnLevel,
	zerolog.InfoLevel,
	zerolog.DebugLevel,
}

// SetupLogger points the global logger at stderr and the log file.
// A log file that can't be opened is reported and skipped.
func SetupLogger(verbosity int) {
	level := zerolog.TraceLevel
	if verbosity >= 0 && verbosity < len(levels) {
		level = levels[verbosity]
	}
	zerolog.SetGlobalLevel(level)

	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
		NoColor:    os.Getenv("NO_COLOR") != "",
	}}

	logFile := getLogFilePath()
	handle, fileErr := setupLogFile(logFile)
	if fileErr == nil {
		writers = append(writers, handle)
	}

	ctx := zerolog.New(io.MultiWriter(writers...)).With().Timestamp()
	if verbosity >= 2 {
		ctx = ctx.Caller()
	}
	log.Logger = ctx.Logger()

	if fileErr != nil {
		log.Warn().Err(fileErr).Str("path", logFile).Msg("Failed to create log file, logging to console only")
	}
	log.Debug().Int("verbosity", verbosity).Str("logFile", logFile).Msg("Logger initialized")
}

// GetLogger returns the global logger tagged with component
func GetLogger(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

type runKey struct{}

// Run identifies one provisioning pass in the logs
type Run struct {
	ID          string
	Environment string
}

// StartRun stores a new Run for environment in ctx
func StartRun(ctx context.Context, environment string) (context.Context, Run) {
	run := Run{ID: newRunID(), Environment: environment}
	return context.WithValue(ctx, runKey{}, run), run
}

// RunFromContext returns the Run stored by StartRun
func RunFromContext(ctx context.Context) (Run, bool) {
	if ctx == nil {
		return Run{}, false
	}
	run, ok := ctx.Value(runKey{}).(Run)
	return run, ok
}

// ForContext adds the run fields found in ctx to logger
func ForContext(ctx context.Context, logger zerolog.Logger) zerolog.Logger {
	run, ok := RunFromContext(ctx)
	if !ok {
		return logger
	}
	return logger.With().Str("run", run.ID).Str("environment", run.Environment).Logger()
}

// newRunID is the first block of a random UUID, short enough to grep for
func newRunID() string {
	return uuid.NewString()[:8]
}

// getLogFilePath prefers a live XDG_STATE_HOME over the directory xdg
// resolved at startup
func getLogFilePath() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		stateHome = xdg.StateHome
	}
	if stateHome == "" {
		return "envup.log"
	}
	return filepath.Join(stateHome, "envup", "envup.log")
}

func setupLogFile(logPath string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return file, nil
}

// LogCommand records a child process about to start
func LogCommand(logger zerolog.Logger, cmd string, args []string) {
	logger.Debug().
		Str("command", cmd).
		Strs("args", args).
		Msg("Executing command")
}

// LogOperationStart logs operation and returns the func that logs its duration
func LogOperationStart(logger zerolog.Logger, operation string) func() {
	start := time.Now()
	logger.Debug().Str("operation", operation).Msg("Operation started")

	return func() {
		logger.Debug().
			Str("operation", operation).
			Dur("duration", time.Since(start)).
			Msg("Operation completed")
	}
}
