package manifest

import (
	"fmt"
	"os"
	"sort"

	"github.com/arthur-debert/envup/pkg/errors"
	"github.com/arthur-debert/envup/pkg/types"
	"gopkg.in/yaml.v3"
)

// Summary is a readable digest of a conda environment manifest
type Summary struct {
	Name            types.EnvironmentName `json:"name"`
	Channels        []string              `json:"channels"`
	Dependencies    []string              `json:"dependencies"`
	PipDependencies []string              `json:"pip_dependencies,omitempty"`
	Variables       []string              `json:"variables,omitempty"`
}

type document struct {
	Name         string            `yaml:"name"`
	Channels     []string          `yaml:"channels"`
	Dependencies []yaml.Node       `yaml:"dependencies"`
	Variables    map[string]string `yaml:"variables"`
}

// Summarize reads and parses a manifest. The name comes from the same
// line-based rule provisioning uses, so both always agree.
func Summarize(manifest types.ManifestHandle) (*Summary, error) {
	data, err := os.ReadFile(manifest.Path())
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifest, "cannot read manifest %s", manifest.Path()).
			WithDetail(errors.DetailPath, manifest.Path())
	}

	name, err := ParseEnvironmentName(manifest, data)
	if err != nil {
		return nil, err
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifest, "manifest %s is not valid YAML", manifest.Path()).
			WithDetail(errors.DetailPath, manifest.Path())
	}

	summary := &Summary{
		Name:     name,
		Channels: doc.Channels,
	}

	for _, node := range doc.Dependencies {
		switch node.Kind {
		case yaml.ScalarNode:
			summary.Dependencies = append(summary.Dependencies, node.Value)
		case yaml.MappingNode:
			var nested map[string][]string
			if err := node.Decode(&nested); err != nil {
				return nil, errors.Wrapf(err, errors.ErrManifest, "unsupported dependency entry at line %d", node.Line).
					WithDetail(errors.DetailPath, manifest.Path())
			}
			summary.PipDependencies = append(summary.PipDependencies, nested["pip"]...)
		}
	}

	for key, value := range doc.Variables {
		summary.Variables = append(summary.Variables, fmt.Sprintf("%s=%s", key, value))
	}
	sort.Strings(summary.Variables)

	return summary, nil
}
