package testutil

import (
	"context"
	"strings"

	"github.com/arthur-debert/envup/pkg/pkgmgr"
)

// ResponseFunc computes the response for a matched command
type ResponseFunc func(cmd pkgmgr.Command) (pkgmgr.Result, error)

type rule struct {
	pattern string
	respond ResponseFunc
}

// ScriptedRunner is a pkgmgr.Runner that records every command and answers
// from a script instead of starting processes.
// Rules match when the command line contains the pattern; the most recently
// added matching rule wins. Unmatched commands succeed with empty output.
type ScriptedRunner struct {
	Calls []pkgmgr.Command
	rules []rule
}

// NewScriptedRunner creates an empty script
func NewScriptedRunner() *ScriptedRunner {
	return &ScriptedRunner{}
}

// On answers commands containing pattern with a fixed result
func (s *ScriptedRunner) On(pattern string, result pkgmgr.Result) *ScriptedRunner {
	return s.OnFunc(pattern, func(pkgmgr.Command) (pkgmgr.Result, error) {
		return result, nil
	})
}

// OnFunc answers commands containing pattern with fn
func (s *ScriptedRunner) OnFunc(pattern string, fn ResponseFunc) *ScriptedRunner {
	s.rules = append(s.rules, rule{pattern: pattern, respond: fn})
	return s
}

// Fail makes commands containing pattern exit with code and stderr
func (s *ScriptedRunner) Fail(pattern string, code int, stderr string) *ScriptedRunner {
	return s.On(pattern, pkgmgr.Result{ExitCode: code, Stderr: stderr})
}

// Error makes commands containing pattern fail to start
func (s *ScriptedRunner) Error(pattern string, err error) *ScriptedRunner {
	return s.OnFunc(pattern, func(pkgmgr.Command) (pkgmgr.Result, error) {
		return pkgmgr.Result{ExitCode: -1}, err
	})
}

// Run implements pkgmgr.Runner
func (s *ScriptedRunner) Run(ctx context.Context, cmd pkgmgr.Command) (pkgmgr.Result, error) {
	s.Calls = append(s.Calls, cmd)
	if err := ctx.Err(); err != nil {
		return pkgmgr.Result{ExitCode: -1}, err
	}

	line := cmd.String()
	for i := len(s.rules) - 1; i >= 0; i-- {
		if strings.Contains(line, s.rules[i].pattern) {
			return s.rules[i].respond(cmd)
		}
	}
	return pkgmgr.Result{}, nil
}

// CommandLines returns the recorded commands as shell lines
func (s *ScriptedRunner) CommandLines() []string {
	lines := make([]string, 0, len(s.Calls))
	for _, c := range s.Calls {
		lines = append(lines, c.String())
	}
	return lines
}

// CallCount returns how many recorded commands contain pattern
func (s *ScriptedRunner) CallCount(pattern string) int {
	n := 0
	for _, c := range s.Calls {
		if strings.Contains(c.String(), pattern) {
			n++
		}
	}
	return n
}

// Called reports whether any recorded command contains pattern
func (s *ScriptedRunner) Called(pattern string) bool {
	return s.CallCount(pattern) > 0
}

var _ pkgmgr.Runner = (*ScriptedRunner)(nil)
