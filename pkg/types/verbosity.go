package types

import "strings"

// VerbosityIntent is the abstract amount of output the user asked for.
// The zero value means the intent is absent.
type VerbosityIntent string

const (
	IntentQuiet    VerbosityIntent = "quiet"
	IntentNormal   VerbosityIntent = "normal"
	IntentVerbose1 VerbosityIntent = "verbose-1"
	IntentVerbose2 VerbosityIntent = "verbose-2"
	IntentVerbose3 VerbosityIntent = "verbose-3"

	// IntentNormalVerbose is accepted as an alias of IntentVerbose1
	IntentNormalVerbose VerbosityIntent = "normal-verbose"
)

// KnownIntents lists the intents in increasing order of output
var KnownIntents = []VerbosityIntent{
	IntentQuiet,
	IntentNormal,
	IntentVerbose1,
	IntentVerbose2,
	IntentVerbose3,
}

// NormalizeIntent trims and lower-cases a raw intent string
func NormalizeIntent(raw string) VerbosityIntent {
	return VerbosityIntent(strings.ToLower(strings.TrimSpace(raw)))
}

// IsAbsent reports whether no intent was given
func (v VerbosityIntent) IsAbsent() bool {
	return strings.TrimSpace(string(v)) == ""
}

// IsKnown reports whether the intent is one of the documented values
func (v VerbosityIntent) IsKnown() bool {
	if v == IntentNormalVerbose {
		return true
	}
	for _, known := range KnownIntents {
		if v == known {
			return true
		}
	}
	return false
}
