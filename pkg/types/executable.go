package types

// ExecutableKind identifies which member of the conda family was located
type ExecutableKind string

const (
	// KindFastVariant is the accelerated, drop-in compatible solver (mamba)
	KindFastVariant ExecutableKind = "fast-variant"

	// KindBaseTool is the base package manager (conda)
	KindBaseTool ExecutableKind = "base-tool"
)

// ExecutableReference identifies the package manager a run will use.
// It is created once by the locator and passed by value afterwards.
type ExecutableReference struct {
	Kind ExecutableKind `json:"kind"`

	// ResolvedForm is an absolute path or a bare command name
	ResolvedForm string `json:"resolved_form"`
}

// IsFastVariant reports whether the reference points at the fast solver
func (r ExecutableReference) IsFastVariant() bool {
	return r.Kind == KindFastVariant
}

// String returns the resolved form
func (r ExecutableReference) String() string {
	return r.ResolvedForm
}
