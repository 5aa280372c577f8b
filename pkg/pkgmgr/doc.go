// Package pkgmgr is envup's only contact with the outside package manager.
//
// A Runner starts child processes and captures their output. A Client wraps a
// Runner with the conda-family subcommands envup needs (env list, env create,
// env update, run, update, clean) and returns a structured Result for each,
// so callers decide what a non-zero exit means instead of parsing raw text.
//
// Tests replace the Runner with testutil.ScriptedRunner and never spawn
// processes.
package pkgmgr
