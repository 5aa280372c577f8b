// Package types defines the values passed between envup's provisioning
// components: the located executable, the verbosity intent, the environment
// name taken from a manifest and the result of a provisioning run.
package types
