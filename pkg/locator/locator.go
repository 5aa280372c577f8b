// Package locator finds the package-manager executable for a run.
//
// Preference order, first hit wins:
//
//  1. the fast variant answers a live `--version` probe on PATH
//  2. the fast variant exists in the base installation, as a shell launcher
//     (condabin) or a native executable (bin, Library/bin on Windows)
//  3. the base tool inside the base installation, then the explicit override
//     variable, then the bare base command name
//
// The base installation is derived from the active prefix variable with any
// trailing envs/<name> segment removed, which covers Anaconda, Miniconda,
// Miniforge and Mambaforge layouts alike. Locate never fails.
package locator

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/arthur-debert/envup/pkg/config"
	"github.com/arthur-debert/envup/pkg/errors"
	"github.com/arthur-debert/envup/pkg/logging"
	"github.com/arthur-debert/envup/pkg/pkgmgr"
	"github.com/arthur-debert/envup/pkg/types"
	"github.com/rs/zerolog"
)

// DefaultProbeTimeout bounds the fast-variant version probe
const DefaultProbeTimeout = 2 * time.Second

// envsSegment is the directory holding named environments under a base install
const envsSegment = "envs"

// Options names the tools and variables to look for
type Options struct {
	FastCommand  string
	BaseCommand  string
	PrefixEnv    string
	ExeEnv       string
	ProbeTimeout time.Duration
}

// OptionsFromConfig builds Options from the loaded configuration
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		FastCommand:  cfg.PackageManager.FastCommand,
		BaseCommand:  cfg.PackageManager.BaseCommand,
		PrefixEnv:    cfg.PackageManager.PrefixEnv,
		ExeEnv:       cfg.PackageManager.ExeEnv,
		ProbeTimeout: cfg.Locator.ProbeTimeout,
	}
}

// Option customizes a Locator
type Option func(*Locator)

// WithGetenv replaces os.Getenv
func WithGetenv(getenv func(string) string) Option {
	return func(l *Locator) { l.getenv = getenv }
}

// WithFileCheck replaces the on-disk existence check
func WithFileCheck(exists func(string) bool) Option {
	return func(l *Locator) { l.fileExists = exists }
}

// WithPlatform selects the install layout for goos instead of runtime.GOOS
func WithPlatform(goos string) Option {
	return func(l *Locator) { l.goos = goos }
}

// Locator resolves an ExecutableReference
type Locator struct {
	opts       Options
	runner     pkgmgr.Runner
	getenv     func(string) string
	fileExists func(string) bool
	goos       string
	logger     zerolog.Logger
}

// New creates a Locator probing through runner
func New(runner pkgmgr.Runner, opts Options, options ...Option) *Locator {
	if opts.FastCommand == "" {
		opts.FastCommand = "mamba"
	}
	if opts.BaseCommand == "" {
		opts.BaseCommand = "conda"
	}
	if opts.PrefixEnv == "" {
		opts.PrefixEnv = "CONDA_PREFIX"
	}
	if opts.ExeEnv == "" {
		opts.ExeEnv = "CONDA_EXE"
	}
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = DefaultProbeTimeout
	}

	l := &Locator{
		opts:       opts,
		runner:     runner,
		getenv:     os.Getenv,
		fileExists: isRegularFile,
		goos:       runtime.GOOS,
		logger:     logging.GetLogger("locator"),
	}
	for _, o := range options {
		o(l)
	}
	return l
}

// Locate returns the best available executable. It never fails.
func (l *Locator) Locate(ctx context.Context) types.ExecutableReference {
	if l.probe(ctx) {
		ref := types.ExecutableReference{Kind: types.KindFastVariant, ResolvedForm: l.opts.FastCommand}
		l.logger.Debug().Str("executable", ref.ResolvedForm).Msg("Fast variant answered probe")
		return ref
	}

	base := BaseDirectory(l.getenv(l.opts.PrefixEnv))

	if base != "" {
		for _, candidate := range l.fastCandidates(base) {
			if l.fileExists(candidate) {
				l.logger.Debug().Str("executable", candidate).Msg("Fast variant found in base installation")
				return types.ExecutableReference{Kind: types.KindFastVariant, ResolvedForm: candidate}
			}
		}
	}

	l.logger.Debug().
		Str("code", string(errors.ErrDiscovery)).
		Str("base", base).
		Msg("Fast variant not found, falling back to base tool")

	return types.ExecutableReference{Kind: types.KindBaseTool, ResolvedForm: l.baseTool(base)}
}

// probe runs `<fast> --version` with a short timeout
func (l *Locator) probe(ctx context.Context) bool {
	if l.runner == nil {
		return false
	}

	probeCtx, cancel := context.WithTimeout(ctx, l.opts.ProbeTimeout)
	defer cancel()

	res, err := l.runner.Run(probeCtx, pkgmgr.Command{
		Name:        l.opts.FastCommand,
		Args:        []string{"--version"},
		Description: "version probe",
	})
	if err != nil {
		l.logger.Debug().Err(err).Str("command", l.opts.FastCommand).Msg("Fast variant probe failed")
		return false
	}
	return res.Success()
}

// fastCandidates lists the launcher form first, then the native form
func (l *Locator) fastCandidates(base string) []string {
	name := l.opts.FastCommand
	if l.goos == "windows" {
		return []string{
			filepath.Join(base, "condabin", name+".bat"),
			filepath.Join(base, "Library", "bin", name+".exe"),
		}
	}
	return []string{
		filepath.Join(base, "condabin", name),
		filepath.Join(base, "bin", name),
	}
}

func (l *Locator) baseTool(base string) string {
	if base != "" {
		candidate := filepath.Join(base, "bin", l.opts.BaseCommand)
		if l.goos == "windows" {
			candidate = filepath.Join(base, "Scripts", l.opts.BaseCommand+".exe")
		}
		if l.fileExists(candidate) {
			return candidate
		}
	}

	if override := strings.TrimSpace(l.getenv(l.opts.ExeEnv)); override != "" {
		return override
	}

	return l.opts.BaseCommand
}

// BaseDirectory strips a trailing envs/<name> (or bare envs) segment from an
// installation prefix. An empty prefix yields an empty base.
func BaseDirectory(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return ""
	}

	clean := filepath.Clean(prefix)
	if filepath.Base(clean) == envsSegment {
		return filepath.Dir(clean)
	}
	parent := filepath.Dir(clean)
	if filepath.Base(parent) == envsSegment {
		return filepath.Dir(parent)
	}
	return clean
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
