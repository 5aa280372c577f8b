package provision

import (
	"context"
	"strings"

	"github.com/arthur-debert/envup/pkg/config"
	"github.com/arthur-debert/envup/pkg/errors"
	"github.com/arthur-debert/envup/pkg/logging"
	"github.com/arthur-debert/envup/pkg/pkgmgr"
	"github.com/arthur-debert/envup/pkg/types"
	"github.com/arthur-debert/envup/pkg/verbosity"
)

// AuxiliaryPackage is installed into the environment after every create or update
type AuxiliaryPackage struct {
	Installer string
	Package   string
	IndexURL  string
}

// AuxiliaryFromConfig builds the auxiliary package from configuration
func AuxiliaryFromConfig(cfg *config.Config) AuxiliaryPackage {
	return AuxiliaryPackage{
		Installer: cfg.Auxiliary.Installer,
		Package:   cfg.Auxiliary.Package,
		IndexURL:  cfg.Auxiliary.IndexURL,
	}
}

// Validate checks every field is set
func (a AuxiliaryPackage) Validate() error {
	switch {
	case strings.TrimSpace(a.Installer) == "":
		return errors.New(errors.ErrInvalidInput, "auxiliary installer is not configured")
	case strings.TrimSpace(a.Package) == "":
		return errors.New(errors.ErrInvalidInput, "auxiliary package is not configured")
	case strings.TrimSpace(a.IndexURL) == "":
		return errors.New(errors.ErrInvalidInput, "auxiliary index URL is not configured")
	}
	return nil
}

// args returns `<installer> install --upgrade -i <index> <package>`
func (a AuxiliaryPackage) args() []string {
	return []string{a.Installer, "install", "--upgrade", "-i", a.IndexURL, a.Package}
}

// Install creates the environment from manifest, installs the auxiliary
// package and lists environments as a confirmation.
func Install(ctx context.Context, client pkgmgr.Client, manifest types.ManifestHandle, name types.EnvironmentName, intent types.VerbosityIntent, aux AuxiliaryPackage) error {
	flag := verbosity.Translate(intent, client.Executable())

	res, err := client.CreateEnvironment(ctx, manifest, flag)
	if err := check(pkgmgr.SubcommandCreate, res, err); err != nil {
		return err
	}

	return finish(ctx, client, name, aux)
}

// Update refreshes the environment in place, pruning packages no longer in
// the manifest, then installs the auxiliary package and confirms.
func Update(ctx context.Context, client pkgmgr.Client, manifest types.ManifestHandle, name types.EnvironmentName, intent types.VerbosityIntent, aux AuxiliaryPackage) error {
	flag := verbosity.Translate(intent, client.Executable())

	res, err := client.UpdateEnvironment(ctx, manifest, flag)
	if err := check(pkgmgr.SubcommandUpdate, res, err); err != nil {
		return err
	}

	return finish(ctx, client, name, aux)
}

// finish is the post-step shared by Install and Update
func finish(ctx context.Context, client pkgmgr.Client, name types.EnvironmentName, aux AuxiliaryPackage) error {
	res, err := client.RunInEnvironment(ctx, name, aux.args()...)
	if err := check(pkgmgr.SubcommandRun+" "+aux.Installer+" install", res, err); err != nil {
		return err
	}

	confirm(ctx, client)
	return nil
}

// confirm lists environments; its failure is advisory
func confirm(ctx context.Context, client pkgmgr.Client) {
	logger := logging.GetLogger("provision")

	res, err := client.ListEnvironments(ctx)
	if err != nil || !res.Success() {
		event := logger.Warn().
			Str("code", string(errors.ErrAdvisory)).
			Int("exitCode", res.ExitCode)
		if err != nil {
			event = event.Err(err)
		}
		event.Msg("Could not list environments after provisioning")
		return
	}
	logger.Info().Str("environments", strings.TrimSpace(res.Stdout)).Msg("Environments")
}

// check turns a failed invocation into a ProvisionError carrying the output
func check(subcommand string, res pkgmgr.Result, err error) error {
	if err != nil {
		return errors.Wrapf(err, errors.ErrProvision, "%s could not be run", subcommand).
			WithDetail(errors.DetailSubcommand, subcommand).
			WithDetail(errors.DetailExitCode, res.ExitCode).
			WithDetail(errors.DetailOutput, res.Output())
	}
	if !res.Success() {
		return errors.Newf(errors.ErrProvision, "%s exited with status %d", subcommand, res.ExitCode).
			WithDetail(errors.DetailSubcommand, subcommand).
			WithDetail(errors.DetailExitCode, res.ExitCode).
			WithDetail(errors.DetailOutput, res.Output())
	}
	return nil
}
