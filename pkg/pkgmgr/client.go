package pkgmgr

import (
	"context"

	"github.com/arthur-debert/envup/pkg/logging"
	"github.com/arthur-debert/envup/pkg/types"
	"github.com/rs/zerolog"
)

// Subcommand names, used in logs and error details
const (
	SubcommandList    = "env list"
	SubcommandCreate  = "env create"
	SubcommandUpdate  = "env update"
	SubcommandRun     = "run"
	SubcommandSelfUpd = "update"
	SubcommandClean   = "clean"
)

// Client is the capability set envup needs from a conda-family tool
type Client interface {
	// Executable returns the tool this client drives
	Executable() types.ExecutableReference

	ListEnvironments(ctx context.Context) (Result, error)
	CreateEnvironment(ctx context.Context, manifest types.ManifestHandle, verbosityFlag string) (Result, error)
	UpdateEnvironment(ctx context.Context, manifest types.ManifestHandle, verbosityFlag string) (Result, error)
	RunInEnvironment(ctx context.Context, name types.EnvironmentName, args ...string) (Result, error)

	// UpdateAll updates the tool and all of its own dependencies
	UpdateAll(ctx context.Context) (Result, error)
	// CleanAll removes cached packages, tarballs and index caches
	CleanAll(ctx context.Context) (Result, error)
}

// CondaClient drives conda or mamba through a Runner
type CondaClient struct {
	exe    types.ExecutableReference
	runner Runner
	dryRun bool
	logger zerolog.Logger
}

// NewCondaClient creates a client for the located executable.
// In dry-run mode every call except ListEnvironments is logged and skipped.
func NewCondaClient(exe types.ExecutableReference, runner Runner, dryRun bool) *CondaClient {
	return &CondaClient{
		exe:    exe,
		runner: runner,
		dryRun: dryRun,
		logger: logging.GetLogger("pkgmgr.client"),
	}
}

// Executable returns the tool this client drives
func (c *CondaClient) Executable() types.ExecutableReference {
	return c.exe
}

// DryRun reports whether mutating calls are skipped
func (c *CondaClient) DryRun() bool {
	return c.dryRun
}

// ListEnvironments runs `env list`. It is read-only and runs in dry-run mode too.
func (c *CondaClient) ListEnvironments(ctx context.Context) (Result, error) {
	return c.runner.Run(ctx, c.command(SubcommandList, false, "env", "list"))
}

// CreateEnvironment runs `[flag] env create -y --file <manifest>`
func (c *CondaClient) CreateEnvironment(ctx context.Context, manifest types.ManifestHandle, verbosityFlag string) (Result, error) {
	args := withFlag(verbosityFlag, "env", "create", "-y", "--file", manifest.Path())
	return c.mutate(ctx, c.command(SubcommandCreate, true, args...))
}

// UpdateEnvironment runs `[flag] env update --prune -y --file <manifest>`
func (c *CondaClient) UpdateEnvironment(ctx context.Context, manifest types.ManifestHandle, verbosityFlag string) (Result, error) {
	args := withFlag(verbosityFlag, "env", "update", "--prune", "-y", "--file", manifest.Path())
	return c.mutate(ctx, c.command(SubcommandUpdate, true, args...))
}

// RunInEnvironment runs `run -n <name> <args...>`
func (c *CondaClient) RunInEnvironment(ctx context.Context, name types.EnvironmentName, args ...string) (Result, error) {
	full := append([]string{"run", "-n", name.String()}, args...)
	return c.mutate(ctx, c.command(SubcommandRun, true, full...))
}

// UpdateAll runs `update -y --all`
func (c *CondaClient) UpdateAll(ctx context.Context) (Result, error) {
	return c.mutate(ctx, c.command(SubcommandSelfUpd, true, "update", "-y", "--all"))
}

// CleanAll runs `clean -y --all`
func (c *CondaClient) CleanAll(ctx context.Context) (Result, error) {
	return c.mutate(ctx, c.command(SubcommandClean, true, "clean", "-y", "--all"))
}

func (c *CondaClient) command(description string, stream bool, args ...string) Command {
	return Command{
		Name:        c.exe.ResolvedForm,
		Args:        args,
		Description: description,
		Stream:      stream,
	}
}

func (c *CondaClient) mutate(ctx context.Context, cmd Command) (Result, error) {
	if c.dryRun {
		c.logger.Info().
			Str("command", cmd.String()).
			Msg("Dry run mode - command would be executed")
		return Result{}, nil
	}
	return c.runner.Run(ctx, cmd)
}

// withFlag prepends the verbosity flag when there is one
func withFlag(flag string, args ...string) []string {
	if flag == "" {
		return args
	}
	return append([]string{flag}, args...)
}

var _ Client = (*CondaClient)(nil)
