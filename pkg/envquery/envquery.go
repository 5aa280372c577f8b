// Package envquery answers whether a named environment already exists.
package envquery

import (
	"context"
	"regexp"

	"github.com/arthur-debert/envup/pkg/errors"
	"github.com/arthur-debert/envup/pkg/logging"
	"github.com/arthur-debert/envup/pkg/pkgmgr"
	"github.com/arthur-debert/envup/pkg/types"
)

// Exists lists environments through client and matches name against the
// listing. A failed listing counts as "not present": the create call that
// follows reports the real problem.
func Exists(ctx context.Context, client pkgmgr.Client, name types.EnvironmentName) bool {
	logger := logging.GetLogger("envquery")

	res, err := client.ListEnvironments(ctx)
	if err != nil || !res.Success() {
		event := logger.Warn().
			Str("code", string(errors.ErrAdvisory)).
			Str("environment", name.String()).
			Int("exitCode", res.ExitCode)
		if err != nil {
			event = event.Err(err)
		}
		event.Msg("Could not list environments, assuming it does not exist")
		return false
	}

	found := MatchListing(res.Stdout, name)
	logger.Debug().
		Str("environment", name.String()).
		Bool("exists", found).
		Msg("Environment lookup")
	return found
}

// MatchListing reports whether a line of `env list` output starts with name
// followed by whitespace. The match is anchored so "ping" does not match
// "ping-dev".
func MatchListing(output string, name types.EnvironmentName) bool {
	if name == "" {
		return false
	}
	pattern := regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(name.String()) + `\s`)
	return pattern.MatchString(output)
}
