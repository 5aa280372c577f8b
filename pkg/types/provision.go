package types

import "strings"

// EnvironmentName is the trimmed value of a manifest's first name line
type EnvironmentName string

// NewEnvironmentName trims raw and reports whether anything is left
func NewEnvironmentName(raw string) (EnvironmentName, bool) {
	name := strings.TrimSpace(raw)
	return EnvironmentName(name), name != ""
}

// String returns the name
func (n EnvironmentName) String() string {
	return string(n)
}

// ManifestHandle is a local path to a dependency manifest.
// envup only ever reads it.
type ManifestHandle string

// Path returns the manifest path
func (m ManifestHandle) Path() string {
	return string(m)
}

// Operation is the terminal operation chosen for a run
type Operation string

const (
	OperationInstall Operation = "install"
	OperationUpdate  Operation = "update"
)

// ProvisionResult is the outcome of one provisioning run
type ProvisionResult struct {
	Operation       Operation           `json:"operation"`
	Success         bool                `json:"success"`
	ElapsedSeconds  float64             `json:"elapsed_seconds"`
	EnvironmentName EnvironmentName     `json:"environment_name"`
	Executable      ExecutableReference `json:"executable"`
	DryRun          bool                `json:"dry_run,omitempty"`
}

// EnvironmentStatus answers whether an environment exists for a given tool
type EnvironmentStatus struct {
	EnvironmentName EnvironmentName     `json:"environment_name"`
	Exists          bool                `json:"exists"`
	Executable      ExecutableReference `json:"executable"`
}
