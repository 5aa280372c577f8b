package provision

import (
	"context"
	"time"

	"github.com/arthur-debert/envup/pkg/envquery"
	"github.com/arthur-debert/envup/pkg/logging"
	"github.com/arthur-debert/envup/pkg/manifest"
	"github.com/arthur-debert/envup/pkg/pkgmgr"
	"github.com/arthur-debert/envup/pkg/types"
	"github.com/rs/zerolog"
)

// Locator resolves the executable for a run
type Locator interface {
	Locate(ctx context.Context) types.ExecutableReference
}

// Housekeeper runs best-effort maintenance and never fails
type Housekeeper interface {
	Run(ctx context.Context, client pkgmgr.Client)
}

// ClientFactory builds a package-manager client for the located executable
type ClientFactory func(exe types.ExecutableReference) pkgmgr.Client

// Options configures an Orchestrator
type Options struct {
	Auxiliary        AuxiliaryPackage
	SkipHousekeeping bool
	DryRun           bool
}

// Orchestrator runs one provisioning pass at a time
type Orchestrator struct {
	locator     Locator
	housekeeper Housekeeper
	newClient   ClientFactory
	opts        Options
	logger      zerolog.Logger
	now         func() time.Time
}

// NewOrchestrator wires the provisioning components together.
// housekeeper may be nil, which behaves like SkipHousekeeping.
func NewOrchestrator(locator Locator, housekeeper Housekeeper, newClient ClientFactory, opts Options) *Orchestrator {
	return &Orchestrator{
		locator:     locator,
		housekeeper: housekeeper,
		newClient:   newClient,
		opts:        opts,
		logger:      logging.GetLogger("provision"),
		now:         time.Now,
	}
}

// Provision creates or updates the environment described by m.
//
// A manifest without a name line fails before any process is started. Once
// the operation is dispatched, a failure returns both the error and a result
// with Success false so callers can still report what was attempted.
func (o *Orchestrator) Provision(ctx context.Context, m types.ManifestHandle, intent types.VerbosityIntent) (*types.ProvisionResult, error) {
	if err := o.opts.Auxiliary.Validate(); err != nil {
		return nil, err
	}

	name, err := manifest.ReadEnvironmentName(m)
	if err != nil {
		return nil, err
	}

	ctx, _ = logging.StartRun(ctx, name.String())
	logger := logging.ForContext(ctx, o.logger)

	exe := o.locator.Locate(ctx)
	client := o.newClient(exe)

	logger.Info().
		Str("manifest", m.Path()).
		Str("executable", exe.ResolvedForm).
		Str("kind", string(exe.Kind)).
		Str("verbosity", string(intent)).
		Bool("dryRun", o.opts.DryRun).
		Msg("Provisioning environment")

	if !o.opts.SkipHousekeeping && o.housekeeper != nil {
		o.housekeeper.Run(ctx, client)
	}

	operation := types.OperationInstall
	if envquery.Exists(ctx, client, name) {
		operation = types.OperationUpdate
	}

	done := logging.LogOperationStart(logger, string(operation))
	start := o.now()

	switch operation {
	case types.OperationUpdate:
		err = Update(ctx, client, m, name, intent, o.opts.Auxiliary)
	default:
		err = Install(ctx, client, m, name, intent, o.opts.Auxiliary)
	}

	elapsed := o.now().Sub(start).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}
	done()

	result := &types.ProvisionResult{
		Operation:       operation,
		Success:         err == nil,
		ElapsedSeconds:  elapsed,
		EnvironmentName: name,
		Executable:      exe,
		DryRun:          o.opts.DryRun,
	}

	if err != nil {
		logger.Error().
			Err(err).
			Str("operation", string(operation)).
			Float64("elapsedSeconds", elapsed).
			Msg("Provisioning failed")
		return result, err
	}

	logger.Info().
		Str("operation", string(operation)).
		Float64("elapsedSeconds", elapsed).
		Msg("Provisioning completed")

	return result, nil
}
