// Package envup holds the cobra command tree of the envup CLI.
package envup

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/arthur-debert/envup/internal/version"
	"github.com/arthur-debert/envup/pkg/config"
	"github.com/arthur-debert/envup/pkg/errors"
	"github.com/arthur-debert/envup/pkg/locator"
	"github.com/arthur-debert/envup/pkg/logging"
	"github.com/arthur-debert/envup/pkg/pkgmgr"
	"github.com/arthur-debert/envup/pkg/types"
	"github.com/arthur-debert/envup/pkg/ui"
	"github.com/arthur-debert/envup/pkg/ui/styles"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Options replaces process-level dependencies, mainly for tests.
// Zero values use the real implementations.
type Options struct {
	// Runner starts package manager processes
	Runner pkgmgr.Runner
	// LocatorOptions are passed to every Locator
	LocatorOptions []locator.Option
}

// app is the state shared by the commands of one invocation
type app struct {
	opts Options

	verbosity  int
	configPath string
	format     string
	dryRun     bool

	cfg          *config.Config
	outputFormat ui.Format
	reported     bool
}

// NewRootCmd creates the root command with the real process runner
func NewRootCmd() *cobra.Command {
	return NewRootCmdWithOptions(Options{})
}

// NewRootCmdWithOptions creates the root command with injected dependencies
func NewRootCmdWithOptions(opts Options) *cobra.Command {
	a := &app{opts: opts}
	return a.rootCmd()
}

// Execute runs the CLI and returns the process exit code.
// SIGINT and SIGTERM cancel the running package manager command.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{}
	rootCmd := a.rootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !a.reported {
			// Usage errors never reach a renderer
			_, _ = fmt.Fprintln(os.Stderr, styles.Get("Error").Render(fmt.Sprintf("Error: %v", err)))
			_, _ = fmt.Fprintln(os.Stderr, MsgErrHint)
		}
		return 1
	}
	return 0
}

func (a *app) rootCmd() *cobra.Command {
	initTemplateFormatting()

	rootCmd := &cobra.Command{
		Use:     "envup",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.report(cmd, a.setup(cmd))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&a.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.StringVar(&a.configPath, "config", "", MsgFlagConfig)
	flags.StringVar(&a.format, "format", "", MsgFlagFormat)
	flags.BoolVar(&a.dryRun, "dry-run", false, MsgFlagDryRun)

	rootCmd.AddGroup(
		&cobra.Group{ID: "core", Title: "COMMANDS:"},
		&cobra.Group{ID: "diagnostics", Title: "DIAGNOSTICS:"},
		&cobra.Group{ID: "misc", Title: "MISC:"},
	)
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(a.newProvisionCmd())
	rootCmd.AddCommand(a.newLocateCmd())
	rootCmd.AddCommand(a.newExistsCmd())
	rootCmd.AddCommand(a.newInspectCmd())
	rootCmd.AddCommand(a.newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	initTopics(rootCmd)
	rootCmd.SetHelpCommandGroupID("misc")

	return rootCmd
}

// setup configures logging, loads configuration and resolves the output format
func (a *app) setup(cmd *cobra.Command) error {
	logging.SetupLogger(a.verbosity)
	log.Debug().Str("command", cmd.Name()).Msg("Command started")

	cfg, err := config.LoadWithOverrides(a.configPath, map[string]interface{}{
		"output.format": a.format,
	})
	if err != nil {
		return err
	}
	a.cfg = cfg

	format, err := ui.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	a.outputFormat = format

	return nil
}

// renderer writes results to the command's stdout
func (a *app) renderer(cmd *cobra.Command) (ui.Renderer, error) {
	return ui.NewRenderer(a.outputFormat, cmd.OutOrStdout())
}

// report renders err to stderr in the selected format and marks it as shown
func (a *app) report(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}

	r, rerr := ui.NewRenderer(a.outputFormat, cmd.ErrOrStderr())
	if rerr == nil && r.RenderError(err) == nil {
		a.reported = true
	}
	return err
}

// runner returns the injected runner or one streaming output to stderr,
// keeping stdout for rendered results
func (a *app) runner(cmd *cobra.Command) pkgmgr.Runner {
	if a.opts.Runner != nil {
		return a.opts.Runner
	}
	return pkgmgr.NewExecRunnerWithOutput(cmd.ErrOrStderr(), cmd.ErrOrStderr())
}

func (a *app) locate(cmd *cobra.Command, runner pkgmgr.Runner) types.ExecutableReference {
	loc := locator.New(runner, locator.OptionsFromConfig(a.cfg), a.opts.LocatorOptions...)
	return loc.Locate(cmd.Context())
}

// render writes result, reporting a rendering failure like any other error
func (a *app) render(cmd *cobra.Command, result interface{}) error {
	r, err := a.renderer(cmd)
	if err != nil {
		return a.report(cmd, err)
	}
	if err := r.RenderResult(result); err != nil {
		return a.report(cmd, errors.Wrap(err, errors.ErrInternal, "failed to render output"))
	}
	return nil
}

// writeString is used by commands whose output is already formatted
func writeString(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	return err
}
