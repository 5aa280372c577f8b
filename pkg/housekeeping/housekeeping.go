// Package housekeeping runs best-effort maintenance before provisioning:
// updating the package manager, cleaning its cache and upgrading the
// package installer. Nothing here can fail a run; a stale cache or an old
// solver only makes provisioning slower.
package housekeeping

import (
	"context"

	"github.com/arthur-debert/envup/pkg/config"
	"github.com/arthur-debert/envup/pkg/errors"
	"github.com/arthur-debert/envup/pkg/logging"
	"github.com/arthur-debert/envup/pkg/pkgmgr"
	"github.com/rs/zerolog"
)

// Step names as they appear in logs
const (
	StepUpdate           = "update"
	StepClean            = "clean"
	StepUpgradeInstaller = "upgrade-installer"
)

// Options selects the steps to run
type Options struct {
	Update                  bool
	Clean                   bool
	UpgradeInstaller        bool
	InstallerUpgradeCommand []string
	DryRun                  bool
}

// OptionsFromConfig builds Options from the loaded configuration
func OptionsFromConfig(cfg *config.Config, dryRun bool) Options {
	return Options{
		Update:                  cfg.Housekeeping.Update,
		Clean:                   cfg.Housekeeping.Clean,
		UpgradeInstaller:        cfg.Housekeeping.UpgradeInstaller,
		InstallerUpgradeCommand: cfg.Housekeeping.InstallerUpgradeCommand,
		DryRun:                  dryRun,
	}
}

// Runner performs the maintenance sequence
type Runner struct {
	opts   Options
	runner pkgmgr.Runner
	logger zerolog.Logger
}

// New creates a housekeeping Runner. runner starts the installer upgrade,
// which is not a package-manager subcommand.
func New(runner pkgmgr.Runner, opts Options) *Runner {
	return &Runner{
		opts:   opts,
		runner: runner,
		logger: logging.GetLogger("housekeeping"),
	}
}

// Run executes every enabled step in order. Failures are logged as warnings
// and the sequence continues.
func (h *Runner) Run(ctx context.Context, client pkgmgr.Client) {
	logger := logging.ForContext(ctx, h.logger)
	done := logging.LogOperationStart(logger, "housekeeping")
	defer done()

	if h.opts.Update {
		h.step(logger, StepUpdate, func() (pkgmgr.Result, error) { return client.UpdateAll(ctx) })
	}
	if h.opts.Clean {
		h.step(logger, StepClean, func() (pkgmgr.Result, error) { return client.CleanAll(ctx) })
	}
	if h.opts.UpgradeInstaller {
		h.step(logger, StepUpgradeInstaller, func() (pkgmgr.Result, error) { return h.upgradeInstaller(ctx) })
	}
}

func (h *Runner) upgradeInstaller(ctx context.Context) (pkgmgr.Result, error) {
	if len(h.opts.InstallerUpgradeCommand) == 0 {
		return pkgmgr.Result{}, errors.New(errors.ErrInvalidInput, "installer upgrade command is empty")
	}
	cmd := pkgmgr.Command{
		Name:        h.opts.InstallerUpgradeCommand[0],
		Args:        h.opts.InstallerUpgradeCommand[1:],
		Description: StepUpgradeInstaller,
		Stream:      true,
	}
	if h.opts.DryRun {
		logger := logging.ForContext(ctx, h.logger)
		logger.Info().Str("command", cmd.String()).Msg("Dry run mode - command would be executed")
		return pkgmgr.Result{}, nil
	}
	if h.runner == nil {
		return pkgmgr.Result{}, errors.New(errors.ErrInternal, "no runner for installer upgrade")
	}
	return h.runner.Run(ctx, cmd)
}

// step runs fn and contains any failure
func (h *Runner) step(logger zerolog.Logger, name string, fn func() (pkgmgr.Result, error)) {
	logger.Info().Str("step", name).Msg("Housekeeping step")

	res, err := fn()
	switch {
	case err != nil:
		logger.Warn().
			Err(err).
			Str("code", string(errors.ErrAdvisory)).
			Str("step", name).
			Msg("Housekeeping step failed, continuing")
	case !res.Success():
		logger.Warn().
			Str("code", string(errors.ErrAdvisory)).
			Str("step", name).
			Int("exitCode", res.ExitCode).
			Str("output", res.Output()).
			Msg("Housekeeping step exited with non-zero status, continuing")
	default:
		logger.Debug().Str("step", name).Msg("Housekeeping step completed")
	}
}
