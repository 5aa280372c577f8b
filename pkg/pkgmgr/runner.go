package pkgmgr

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/arthur-debert/envup/pkg/errors"
	"github.com/arthur-debert/envup/pkg/logging"
	"github.com/rs/zerolog"
)

// Command is one child process invocation
type Command struct {
	Name        string
	Args        []string
	Description string

	// Stream echoes output to the runner's writers while it is captured.
	// Long solves use it so the user sees progress.
	Stream bool
}

// String returns the command line as typed in a shell
func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Result is the captured outcome of a finished process
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success reports a zero exit status
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// Output joins stdout and stderr for error reports
func (r Result) Output() string {
	parts := make([]string, 0, 2)
	if s := strings.TrimSpace(r.Stdout); s != "" {
		parts = append(parts, s)
	}
	if s := strings.TrimSpace(r.Stderr); s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, "\n")
}

// WaitDelay bounds how long Run waits for output pipes after the context
// ends. Launcher scripts leave children holding them after the kill.
const WaitDelay = 500 * time.Millisecond

// Runner starts a process and waits for it.
// A non-zero exit is reported through Result.ExitCode with a nil error;
// the error is reserved for processes that could not run at all.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ExecRunner runs commands with os/exec
type ExecRunner struct {
	logger zerolog.Logger
	stdout io.Writer
	stderr io.Writer
}

// NewExecRunner creates a runner that echoes streamed commands to the
// process' stdout and stderr
func NewExecRunner() *ExecRunner {
	return NewExecRunnerWithOutput(os.Stdout, os.Stderr)
}

// NewExecRunnerWithOutput creates a runner echoing streamed commands to the given writers
func NewExecRunnerWithOutput(stdout, stderr io.Writer) *ExecRunner {
	return &ExecRunner{
		logger: logging.GetLogger("pkgmgr.runner"),
		stdout: stdout,
		stderr: stderr,
	}
}

// Run executes cmd and captures its output
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	if cmd.Name == "" {
		return Result{ExitCode: -1}, errors.New(errors.ErrInvalidInput, "command name is required")
	}

	logger := logging.ForContext(ctx, r.logger)
	logging.LogCommand(logger, cmd.Name, cmd.Args)

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Env = os.Environ()
	c.WaitDelay = WaitDelay

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr
	if cmd.Stream {
		if r.stdout != nil {
			c.Stdout = io.MultiWriter(&stdout, r.stdout)
		}
		if r.stderr != nil {
			c.Stderr = io.MultiWriter(&stderr, r.stderr)
		}
	}

	err := c.Run()

	result := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) && ctx.Err() == nil {
			result.ExitCode = exitErr.ExitCode()
			logger.Debug().
				Str("command", cmd.String()).
				Int("exitCode", result.ExitCode).
				Str("stderr", result.Stderr).
				Msg("Command exited with non-zero status")
			return result, nil
		}

		result.ExitCode = -1
		logger.Debug().
			Err(err).
			Str("command", cmd.String()).
			Msg("Command could not be run")
		return result, errors.Wrapf(err, errors.ErrInternal, "failed to run %s", cmd.Name).
			WithDetail(errors.DetailSubcommand, cmd.String())
	}

	logger.Debug().
		Str("command", cmd.String()).
		Msg("Command executed successfully")

	return result, nil
}

var _ Runner = (*ExecRunner)(nil)
