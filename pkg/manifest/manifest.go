// Package manifest reads conda environment manifests.
//
// Provisioning only ever needs the environment name, taken from the first
// line matching `name: <value>`; everything else is passed to the package
// manager untouched. Summary parses the whole document for display.
package manifest

import (
	"bufio"
	"bytes"
	"os"
	"regexp"

	"github.com/arthur-debert/envup/pkg/errors"
	"github.com/arthur-debert/envup/pkg/types"
)

var nameLine = regexp.MustCompile(`^name:\s*(.+)$`)

var bom = []byte("\xef\xbb\xbf")

// ReadEnvironmentName returns the trimmed value of the manifest's first
// name line. Unreadable files and manifests without a usable name line
// fail with ErrManifest.
func ReadEnvironmentName(manifest types.ManifestHandle) (types.EnvironmentName, error) {
	data, err := os.ReadFile(manifest.Path())
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrManifest, "cannot read manifest %s", manifest.Path()).
			WithDetail(errors.DetailPath, manifest.Path())
	}
	return ParseEnvironmentName(manifest, data)
}

// ParseEnvironmentName extracts the name from manifest content.
// Name lines with a blank value are skipped.
func ParseEnvironmentName(manifest types.ManifestHandle, data []byte) (types.EnvironmentName, error) {
	scanner := bufio.NewScanner(bytes.NewReader(bytes.TrimPrefix(data, bom)))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		match := nameLine.FindStringSubmatch(scanner.Text())
		if match == nil {
			continue
		}
		name, ok := types.NewEnvironmentName(match[1])
		if !ok {
			continue
		}
		return name, nil
	}
	if err := scanner.Err(); err != nil {
		return "", errors.Wrapf(err, errors.ErrManifest, "cannot scan manifest %s", manifest.Path()).
			WithDetail(errors.DetailPath, manifest.Path())
	}

	return "", errors.Newf(errors.ErrManifest, "manifest %s has no 'name:' line", manifest.Path()).
		WithDetail(errors.DetailPath, manifest.Path())
}
