package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/envup/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables that override config keys
const EnvPrefix = "ENVUP_"

// EnvVerbosity carries the externally computed verbosity intent
const EnvVerbosity = EnvPrefix + "VERBOSITY"

// sections are the top-level tables; ENVUP_<SECTION>_<KEY> maps to section.key
var sections = []string{"package_manager", "locator", "auxiliary", "housekeeping", "output"}

// Config is the effective envup configuration
type Config struct {
	Verbosity      string         `koanf:"verbosity"`
	PackageManager PackageManager `koanf:"package_manager"`
	Locator        Locator        `koanf:"locator"`
	Auxiliary      Auxiliary      `koanf:"auxiliary"`
	Housekeeping   Housekeeping   `koanf:"housekeeping"`
	Output         Output         `koanf:"output"`
}

// PackageManager names the tools and the environment variables used to find them
type PackageManager struct {
	FastCommand string `koanf:"fast_command"`
	BaseCommand string `koanf:"base_command"`
	// PrefixEnv holds the active installation prefix (CONDA_PREFIX)
	PrefixEnv string `koanf:"prefix_env"`
	// ExeEnv holds an explicit path to the base tool (CONDA_EXE)
	ExeEnv string `koanf:"exe_env"`
}

// Locator tunes executable discovery
type Locator struct {
	ProbeTimeout time.Duration `koanf:"probe_timeout"`
}

// Auxiliary describes the package installed after every create or update
type Auxiliary struct {
	Installer string `koanf:"installer"`
	Package   string `koanf:"package"`
	IndexURL  string `koanf:"index_url"`
}

// Housekeeping toggles the best-effort maintenance steps
type Housekeeping struct {
	Update                  bool     `koanf:"update"`
	Clean                   bool     `koanf:"clean"`
	UpgradeInstaller        bool     `koanf:"upgrade_installer"`
	InstallerUpgradeCommand []string `koanf:"installer_upgrade_command"`
}

// Output controls result rendering
type Output struct {
	Format string `koanf:"format"`
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/envup/config.toml
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = xdg.ConfigHome
	}
	return filepath.Join(configHome, "envup", "config.toml")
}

// Load builds the configuration from embedded defaults, the config file and
// the environment. An explicit path must exist; the default path is optional.
func Load(path string) (*Config, error) {
	return LoadWithOverrides(path, nil)
}

// LoadWithOverrides is Load with a final layer of dotted keys
// ("output.format") that wins over every other source. Empty values are skipped.
func LoadWithOverrides(path string, overrides map[string]interface{}) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. Config file
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path).
				WithDetail(errors.DetailPath, path)
		}
	} else if explicit {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "config file not found: %s", path).
			WithDetail(errors.DetailPath, path)
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 4. Command-line overrides
	if layer := nonEmpty(overrides); len(layer) > 0 {
		if err := k.Load(confmap.Provider(layer, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	// 5. Unmarshal
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(" "),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the values the provisioning core can't run without
func (c *Config) Validate() error {
	if strings.TrimSpace(c.PackageManager.FastCommand) == "" {
		return errors.New(errors.ErrInvalidInput, "package_manager.fast_command must not be empty")
	}
	if strings.TrimSpace(c.PackageManager.BaseCommand) == "" {
		return errors.New(errors.ErrInvalidInput, "package_manager.base_command must not be empty")
	}
	if c.Locator.ProbeTimeout <= 0 {
		return errors.Newf(errors.ErrInvalidInput, "locator.probe_timeout must be positive, got %s", c.Locator.ProbeTimeout)
	}
	if strings.TrimSpace(c.Auxiliary.Installer) == "" {
		return errors.New(errors.ErrInvalidInput, "auxiliary.installer must not be empty")
	}
	return nil
}

func nonEmpty(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		if v == nil {
			continue
		}
		out[k] = v
	}
	return out
}

// envKey maps ENVUP_AUXILIARY_INDEX_URL to auxiliary.index_url.
// Only the section separator becomes a dot; keys keep their underscores.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, section := range sections {
		if strings.HasPrefix(key, section+"_") {
			return section + "." + strings.TrimPrefix(key, section+"_")
		}
	}
	return key
}

// ToMap returns the configuration as nested maps keyed like the TOML file
func (c *Config) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"verbosity": c.Verbosity,
		"package_manager": map[string]interface{}{
			"fast_command": c.PackageManager.FastCommand,
			"base_command": c.PackageManager.BaseCommand,
			"prefix_env":   c.PackageManager.PrefixEnv,
			"exe_env":      c.PackageManager.ExeEnv,
		},
		"locator": map[string]interface{}{
			"probe_timeout": c.Locator.ProbeTimeout.String(),
		},
		"auxiliary": map[string]interface{}{
			"installer": c.Auxiliary.Installer,
			"package":   c.Auxiliary.Package,
			"index_url": c.Auxiliary.IndexURL,
		},
		"housekeeping": map[string]interface{}{
			"update":                    c.Housekeeping.Update,
			"clean":                     c.Housekeeping.Clean,
			"upgrade_installer":         c.Housekeeping.UpgradeInstaller,
			"installer_upgrade_command": c.Housekeeping.InstallerUpgradeCommand,
		},
		"output": map[string]interface{}{
			"format": c.Output.Format,
		},
	}
}
