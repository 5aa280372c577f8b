// Package verbosity turns an abstract verbosity intent into the flag the
// located package manager understands. It never starts a process.
package verbosity

import (
	"github.com/arthur-debert/envup/pkg/types"
)

// Flags passed to conda-family tools
const (
	FlagNone  = ""
	FlagOne   = "-v"
	FlagTwo   = "-vv"
	FlagThree = "-vvv"
	FlagDebug = "--debug"
)

// Translate returns the flag for intent. An absent intent means the most
// verbose tier.
func Translate(intent types.VerbosityIntent, exe types.ExecutableReference) string {
	if intent.IsAbsent() {
		intent = types.IntentVerbose3
	}

	switch types.NormalizeIntent(string(intent)) {
	case types.IntentQuiet:
		return FlagNone
	case types.IntentVerbose3:
		if exe.IsFastVariant() {
			return FlagDebug
		}
		return FlagThree
	case types.IntentVerbose2:
		return FlagTwo
	case types.IntentVerbose1, types.IntentNormalVerbose:
		return FlagOne
	default:
		return FlagOne
	}
}

// ParseIntent normalizes raw and reports whether it is a documented intent.
// Unknown values are still usable; Translate maps them to a single -v.
func ParseIntent(raw string) (types.VerbosityIntent, bool) {
	intent := types.NormalizeIntent(raw)
	if intent.IsAbsent() {
		return "", true
	}
	return intent, intent.IsKnown()
}
