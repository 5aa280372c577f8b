package envup

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	MsgRootShort       = "Provision conda environments from a manifest"
	MsgProvisionShort  = "Create or update the environment described by a manifest"
	MsgLocateShort     = "Show the package manager envup would use"
	MsgExistsShort     = "Report whether a named environment exists"
	MsgInspectShort    = "Show what a manifest declares"
	MsgConfigShort     = "Print the effective configuration"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate man pages"

	// Flag descriptions
	MsgFlagVerbose          = "Increase envup's log verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig           = "Config file (default $XDG_CONFIG_HOME/envup/config.toml)"
	MsgFlagFormat           = "Output format: auto, term, text or json"
	MsgFlagDryRun           = "Log mutating package manager commands instead of running them"
	MsgFlagVerbosity        = "Package manager verbosity: quiet, normal, verbose-1, verbose-2, verbose-3"
	MsgFlagQuiet            = "Pass no verbosity flag to the package manager"
	MsgFlagSkipHousekeeping = "Skip update, cache clean and installer upgrade"
	MsgFlagAuxPackage       = "Auxiliary package to install after create or update"
	MsgFlagIndexURL         = "Package index for the auxiliary package"
	MsgFlagDefaults         = "Print the embedded defaults instead of the effective configuration"
	MsgFlagManDir           = "Directory to write man pages to"

	// Errors
	MsgErrNoCommand = "no command specified"
	MsgErrHint      = "Run 'envup help' for usage."
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/provision-long.txt
	msgProvisionLongRaw string
	MsgProvisionLong    = strings.TrimSpace(msgProvisionLongRaw)

	//go:embed msgs/provision-example.txt
	msgProvisionExampleRaw string
	MsgProvisionExample    = strings.TrimRight(msgProvisionExampleRaw, "\n")

	//go:embed msgs/locate-long.txt
	msgLocateLongRaw string
	MsgLocateLong    = strings.TrimSpace(msgLocateLongRaw)

	//go:embed msgs/exists-long.txt
	msgExistsLongRaw string
	MsgExistsLong    = strings.TrimSpace(msgExistsLongRaw)

	//go:embed msgs/inspect-long.txt
	msgInspectLongRaw string
	MsgInspectLong    = strings.TrimSpace(msgInspectLongRaw)

	//go:embed msgs/config-long.txt
	msgConfigLongRaw string
	MsgConfigLong    = strings.TrimSpace(msgConfigLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
