package envup

import (
	"github.com/arthur-debert/envup/pkg/housekeeping"
	"github.com/arthur-debert/envup/pkg/locator"
	"github.com/arthur-debert/envup/pkg/logging"
	"github.com/arthur-debert/envup/pkg/pkgmgr"
	"github.com/arthur-debert/envup/pkg/provision"
	"github.com/arthur-debert/envup/pkg/types"
	"github.com/arthur-debert/envup/pkg/verbosity"
	"github.com/spf13/cobra"
)

type provisionFlags struct {
	verbosity        string
	quiet            bool
	skipHousekeeping bool
	auxPackage       string
	indexURL         string
}

func (a *app) newProvisionCmd() *cobra.Command {
	var f provisionFlags

	cmd := &cobra.Command{
		Use:     "provision <manifest>",
		Short:   MsgProvisionShort,
		Long:    MsgProvisionLong,
		Example: MsgProvisionExample,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runProvision(cmd, types.ManifestHandle(args[0]), f)
		},
	}

	cmd.Flags().StringVar(&f.verbosity, "verbosity", "", MsgFlagVerbosity)
	cmd.Flags().BoolVarP(&f.quiet, "quiet", "q", false, MsgFlagQuiet)
	cmd.Flags().BoolVar(&f.skipHousekeeping, "skip-housekeeping", false, MsgFlagSkipHousekeeping)
	cmd.Flags().StringVar(&f.auxPackage, "aux-package", "", MsgFlagAuxPackage)
	cmd.Flags().StringVar(&f.indexURL, "index-url", "", MsgFlagIndexURL)

	_ = cmd.RegisterFlagCompletionFunc("verbosity", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, 0, len(types.KnownIntents))
		for _, intent := range types.KnownIntents {
			names = append(names, string(intent))
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func (a *app) runProvision(cmd *cobra.Command, manifest types.ManifestHandle, f provisionFlags) error {
	aux := provision.AuxiliaryFromConfig(a.cfg)
	if f.auxPackage != "" {
		aux.Package = f.auxPackage
	}
	if f.indexURL != "" {
		aux.IndexURL = f.indexURL
	}

	runner := a.runner(cmd)
	loc := locator.New(runner, locator.OptionsFromConfig(a.cfg), a.opts.LocatorOptions...)
	hk := housekeeping.New(runner, housekeeping.OptionsFromConfig(a.cfg, a.dryRun))
	newClient := func(exe types.ExecutableReference) pkgmgr.Client {
		return pkgmgr.NewCondaClient(exe, runner, a.dryRun)
	}

	orch := provision.NewOrchestrator(loc, hk, newClient, provision.Options{
		Auxiliary:        aux,
		SkipHousekeeping: f.skipHousekeeping,
		DryRun:           a.dryRun,
	})

	result, err := orch.Provision(cmd.Context(), manifest, resolveIntent(f, a.cfg.Verbosity))
	if result != nil {
		if rerr := a.render(cmd, result); rerr != nil && err == nil {
			return rerr
		}
	}
	return a.report(cmd, err)
}

// resolveIntent picks the package manager verbosity: --quiet, then
// --verbosity, then the configured value (which ENVUP_VERBOSITY overrides).
// An empty result is passed on as absent.
func resolveIntent(f provisionFlags, configured string) types.VerbosityIntent {
	if f.quiet {
		return types.IntentQuiet
	}

	raw := f.verbosity
	if raw == "" {
		raw = configured
	}

	intent, known := verbosity.ParseIntent(raw)
	if !known {
		logger := logging.GetLogger("cmd.provision")
		logger.Warn().
			Str("verbosity", raw).
			Msg("Unknown verbosity intent, using a single -v")
	}
	return intent
}
