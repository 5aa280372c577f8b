package envup

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/envup/pkg/errors"
	"github.com/arthur-debert/envup/pkg/locator"
	"github.com/arthur-debert/envup/pkg/pkgmgr"
	"github.com/arthur-debert/envup/pkg/pkgmgr/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manifestYAML = `name: ping
channels:
  - conda-forge
dependencies:
  - python=3.11
  - numpy
`

type cliResult struct {
	stdout string
	stderr string
	err    error
}

// runCLI executes envup with a scripted runner and an isolated environment.
// The fast variant probe succeeds because unscripted commands do.
func runCLI(t *testing.T, runner *testutil.ScriptedRunner, args ...string) cliResult {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	t.Setenv("NO_COLOR", "1")

	root := NewRootCmdWithOptions(Options{
		Runner: runner,
		LocatorOptions: []locator.Option{
			locator.WithGetenv(func(string) string { return "" }),
			locator.WithFileCheck(func(string) bool { return false }),
		},
	})

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.Execute()
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "environment.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestProvisionInstallJSON(t *testing.T) {
	runner := testutil.NewScriptedRunner()
	path := writeManifest(t, manifestYAML)

	res := runCLI(t, runner, "provision", "--format", "json", path)
	require.NoError(t, res.err)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &result))
	assert.Equal(t, "install", result["operation"])
	assert.Equal(t, true, result["success"])
	assert.Equal(t, "ping", result["environment_name"])

	assert.True(t, runner.Called("mamba --debug env create -y --file "+path))
	assert.True(t, runner.Called("mamba run -n ping pip install --upgrade -i"))
	assert.True(t, runner.Called("mamba clean -y --all"))
}

func TestProvisionUpdateText(t *testing.T) {
	runner := testutil.NewScriptedRunner()
	runner.On("env list", pkgmgr.Result{Stdout: "base  *  /opt/conda\nping     /opt/conda/envs/ping\n"})
	path := writeManifest(t, manifestYAML)

	res := runCLI(t, runner, "provision", "--format", "text", "--verbosity", "verbose-2", path)
	require.NoError(t, res.err)

	assert.Contains(t, res.stdout, "Update ping done")
	assert.True(t, runner.Called("mamba -vv env update --prune -y --file "+path))
}

func TestProvisionVerbositySources(t *testing.T) {
	tests := []struct {
		name     string
		env      string
		args     []string
		expected string
	}{
		{"absent means most verbose", "", nil, "mamba --debug env create"},
		{"environment variable", "verbose-1", nil, "mamba -v env create"},
		{"flag beats environment", "verbose-1", []string{"--verbosity", "verbose-2"}, "mamba -vv env create"},
		{"quiet beats everything", "verbose-1", []string{"--quiet", "--verbosity", "verbose-2"}, "mamba env create"},
		{"unknown intent", "chatty", nil, "mamba -v env create"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ENVUP_VERBOSITY", tt.env)
			runner := testutil.NewScriptedRunner()
			path := writeManifest(t, manifestYAML)

			args := append([]string{"provision", "--format", "json"}, tt.args...)
			res := runCLI(t, runner, append(args, path)...)
			require.NoError(t, res.err)

			assert.True(t, runner.Called(tt.expected), "commands: %v", runner.CommandLines())
		})
	}
}

func TestProvisionAuxiliaryOverrides(t *testing.T) {
	runner := testutil.NewScriptedRunner()
	path := writeManifest(t, manifestYAML)

	res := runCLI(t, runner, "provision", "--format", "json",
		"--aux-package", "ping-tools", "--index-url", "https://pkgs.example.com/simple", path)
	require.NoError(t, res.err)

	assert.True(t, runner.Called("run -n ping pip install --upgrade -i https://pkgs.example.com/simple ping-tools"))
}

func TestProvisionSkipHousekeeping(t *testing.T) {
	runner := testutil.NewScriptedRunner()
	path := writeManifest(t, manifestYAML)

	res := runCLI(t, runner, "provision", "--format", "json", "--skip-housekeeping", path)
	require.NoError(t, res.err)

	assert.False(t, runner.Called("clean -y --all"))
	assert.False(t, runner.Called("update -y --all"))
}

func TestProvisionDryRun(t *testing.T) {
	runner := testutil.NewScriptedRunner()
	path := writeManifest(t, manifestYAML)

	res := runCLI(t, runner, "provision", "--dry-run", "--format", "text", path)
	require.NoError(t, res.err)

	assert.Contains(t, res.stdout, "[DRY RUN]")
	for _, line := range runner.CommandLines() {
		assert.Contains(t, []string{"mamba --version", "mamba env list"}, line)
	}
	assert.False(t, runner.Called("env create"))
}

func TestProvisionManifestWithoutName(t *testing.T) {
	runner := testutil.NewScriptedRunner()
	path := writeManifest(t, "dependencies:\n  - numpy\n")

	res := runCLI(t, runner, "provision", "--format", "text", path)

	require.Error(t, res.err)
	assert.True(t, errors.IsErrorCode(res.err, errors.ErrManifest))
	assert.Contains(t, res.stderr, "Error MANIFEST")
	assert.Empty(t, runner.Calls)
	assert.Empty(t, res.stdout)
}

func TestProvisionCreateFailure(t *testing.T) {
	runner := testutil.NewScriptedRunner()
	runner.Fail("env create", 1, "ResolvePackageNotFound: nump")
	path := writeManifest(t, manifestYAML)

	res := runCLI(t, runner, "provision", "--format", "text", path)

	require.Error(t, res.err)
	assert.True(t, errors.IsErrorCode(res.err, errors.ErrProvision))
	assert.Contains(t, res.stdout, "Install ping failed")
	assert.Contains(t, res.stderr, "command: env create")
	assert.Contains(t, res.stderr, "exit code: 1")
	assert.Contains(t, res.stderr, "ResolvePackageNotFound: nump")
}

func TestProvisionRequiresManifest(t *testing.T) {
	res := runCLI(t, testutil.NewScriptedRunner(), "provision")
	assert.Error(t, res.err)
}

func TestLocate(t *testing.T) {
	t.Run("fast variant on PATH", func(t *testing.T) {
		res := runCLI(t, testutil.NewScriptedRunner(), "locate", "--format", "text")
		require.NoError(t, res.err)
		assert.Equal(t, "mamba (fast-variant)\n", res.stdout)
	})

	t.Run("falls back to base tool", func(t *testing.T) {
		runner := testutil.NewScriptedRunner()
		runner.Fail("mamba --version", 127, "not found")

		res := runCLI(t, runner, "locate", "--format", "json")
		require.NoError(t, res.err)

		var exe map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(res.stdout), &exe))
		assert.Equal(t, "base-tool", exe["kind"])
		assert.Equal(t, "conda", exe["resolved_form"])
	})
}

func TestExists(t *testing.T) {
	runner := testutil.NewScriptedRunner()
	runner.On("env list", pkgmgr.Result{Stdout: "ping  /opt/conda/envs/ping\n"})

	res := runCLI(t, runner, "exists", "--format", "text", "ping")
	require.NoError(t, res.err)
	assert.Equal(t, "ping exists (via mamba)\n", res.stdout)

	res = runCLI(t, runner, "exists", "--format", "text", "pin")
	require.NoError(t, res.err)
	assert.Equal(t, "pin does not exist (via mamba)\n", res.stdout)
}

func TestInspect(t *testing.T) {
	path := writeManifest(t, manifestYAML)

	res := runCLI(t, testutil.NewScriptedRunner(), "inspect", "--format", "text", path)
	require.NoError(t, res.err)

	assert.Contains(t, res.stdout, "Environment ping")
	assert.Contains(t, res.stdout, "channels: conda-forge")
	assert.Contains(t, res.stdout, "- numpy")
}

func TestConfigCommand(t *testing.T) {
	t.Setenv("ENVUP_AUXILIARY_PACKAGE", "ping-tools")

	res := runCLI(t, testutil.NewScriptedRunner(), "config")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "[auxiliary]")
	assert.Contains(t, res.stdout, "ping-tools")

	res = runCLI(t, testutil.NewScriptedRunner(), "config", "--defaults")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "[package_manager]")
	assert.NotContains(t, res.stdout, "ping-tools")
}

func TestExplicitConfigMustExist(t *testing.T) {
	res := runCLI(t, testutil.NewScriptedRunner(), "--config", filepath.Join(t.TempDir(), "missing.toml"), "locate")
	require.Error(t, res.err)
	assert.True(t, errors.IsErrorCode(res.err, errors.ErrConfigLoad))
}

func TestInvalidFormat(t *testing.T) {
	res := runCLI(t, testutil.NewScriptedRunner(), "locate", "--format", "yaml")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "unknown format")
}

func TestFormatFlagOverridesEnvironment(t *testing.T) {
	t.Setenv("ENVUP_OUTPUT_FORMAT", "json")

	res := runCLI(t, testutil.NewScriptedRunner(), "locate")
	require.NoError(t, res.err)
	assert.True(t, json.Valid([]byte(res.stdout)), res.stdout)

	res = runCLI(t, testutil.NewScriptedRunner(), "locate", "--format", "text")
	require.NoError(t, res.err)
	assert.False(t, json.Valid([]byte(res.stdout)), res.stdout)
	assert.Contains(t, res.stdout, "mamba")
}

func TestVersion(t *testing.T) {
	res := runCLI(t, testutil.NewScriptedRunner(), "version")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "envup version dev")
}

func TestHelpTopic(t *testing.T) {
	res := runCLI(t, testutil.NewScriptedRunner(), "help", "discovery")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Discovery")
	assert.Contains(t, res.stdout, "CONDA_PREFIX")
}

func TestNoCommand(t *testing.T) {
	res := runCLI(t, testutil.NewScriptedRunner())
	require.Error(t, res.err)
	assert.Contains(t, res.stdout, "provision")
}

func TestResolveIntent(t *testing.T) {
	assert.Equal(t, "quiet", string(resolveIntent(provisionFlags{quiet: true, verbosity: "verbose-2"}, "normal")))
	assert.Equal(t, "verbose-2", string(resolveIntent(provisionFlags{verbosity: "Verbose-2"}, "normal")))
	assert.Equal(t, "normal", string(resolveIntent(provisionFlags{}, " normal ")))
	assert.True(t, resolveIntent(provisionFlags{}, "").IsAbsent())
}
