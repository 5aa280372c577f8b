// Package provision coordinates one provisioning run.
//
// The Orchestrator reads the environment name from the manifest, locates the
// package manager, runs housekeeping, checks whether the environment exists
// and then either installs or updates it. Install and Update both finish by
// installing the pinned auxiliary package from its private index, because
// that package's source can't be expressed in the manifest itself.
//
// Failures come in two kinds. Housekeeping and the confirmation listing are
// advisory: they are logged and the run continues. Create, update and the
// auxiliary install are fatal: the error carries the subcommand, exit code
// and captured output, and nothing is retried or rolled back.
package provision
