package project

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is the optional `airyc.yaml` workspace file read once per batch
// compile: it names the entry module, the runtime archive the CLI passes
// through to the linker, and extra search paths for import resolution.
// Grounded on the teacher's YAML-keyed lock manifest (`EnvLockDigest`
// pattern) — a small, versioned, human-editable record read once and held
// immutable for the lifetime of a compilation, the same role the metadata
// snapshot (§4.4) plays for cross-module signatures.
type Manifest struct {
	Entry       string   `yaml:"entry"`
	RuntimeArchive string `yaml:"runtime_archive,omitempty"`
	SearchPaths []string `yaml:"search_paths,omitempty"`
}

// LoadManifest reads and parses an airyc.yaml workspace file. A missing
// file is not an error — callers fall back to CLI flags — but a malformed
// one is, since a present-but-broken manifest should never be silently
// ignored.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
