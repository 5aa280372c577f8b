package envup

import (
	"github.com/arthur-debert/envup/pkg/config"
	"github.com/arthur-debert/envup/pkg/envquery"
	"github.com/arthur-debert/envup/pkg/errors"
	"github.com/arthur-debert/envup/pkg/manifest"
	"github.com/arthur-debert/envup/pkg/pkgmgr"
	"github.com/arthur-debert/envup/pkg/types"
	"github.com/spf13/cobra"
)

func (a *app) newLocateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "locate",
		Short:   MsgLocateShort,
		Long:    MsgLocateLong,
		GroupID: "diagnostics",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			exe := a.locate(cmd, a.runner(cmd))
			return a.render(cmd, exe)
		},
	}
}

func (a *app) newExistsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "exists <name>",
		Short:   MsgExistsShort,
		Long:    MsgExistsLong,
		GroupID: "diagnostics",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, ok := types.NewEnvironmentName(args[0])
			if !ok {
				return a.report(cmd, errors.New(errors.ErrInvalidInput, "environment name must not be empty"))
			}

			runner := a.runner(cmd)
			exe := a.locate(cmd, runner)
			// Listing is read-only, so dry-run makes no difference here
			client := pkgmgr.NewCondaClient(exe, runner, a.dryRun)

			return a.render(cmd, &types.EnvironmentStatus{
				EnvironmentName: name,
				Exists:          envquery.Exists(cmd.Context(), client, name),
				Executable:      exe,
			})
		},
	}
}

func (a *app) newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "inspect <manifest>",
		Short:   MsgInspectShort,
		Long:    MsgInspectLong,
		GroupID: "diagnostics",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := manifest.Summarize(types.ManifestHandle(args[0]))
			if err != nil {
				return a.report(cmd, err)
			}
			return a.render(cmd, summary)
		},
	}
}

func (a *app) newConfigCmd() *cobra.Command {
	var defaults bool

	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		Long:    MsgConfigLong,
		GroupID: "diagnostics",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if defaults {
				return writeString(cmd.OutOrStdout(), config.GetDefaultConfigContent())
			}

			out, err := config.Dump(a.cfg)
			if err != nil {
				return a.report(cmd, err)
			}
			return writeString(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().BoolVar(&defaults, "defaults", false, MsgFlagDefaults)
	return cmd
}
