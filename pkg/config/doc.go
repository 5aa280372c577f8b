// Package config handles configuration management for envup.
// It layers embedded defaults, an optional TOML file, ENVUP_* environment
// variables and finally command-line flags (applied by the cmd package).
package config
