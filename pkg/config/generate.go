package config

import (
	"bytes"

	"github.com/arthur-debert/envup/pkg/errors"
	toml "github.com/pelletier/go-toml/v2"
)

// Dump renders the effective configuration as TOML
func Dump(cfg *Config) (string, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(cfg.ToMap()); err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to encode configuration")
	}
	return buf.String(), nil
}
