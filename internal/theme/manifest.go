package theme

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Manifest file names, in lookup order.
const (
	ManifestJSON = "theme.json"
	ManifestYAML = "theme.yaml"
)

// Manifest is the optional metadata file of a theme.
type Manifest struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Parent      string `json:"parent" yaml:"parent"`
	AssetPath   string `json:"asset_path" yaml:"asset_path"`
}

// ManifestPath returns the manifest file present in dir, or "" if there is none.
func ManifestPath(fsys afero.Fs, dir string) (string, error) {
	for _, name := range []string{ManifestJSON, ManifestYAML} {
		path := filepath.Join(dir, name)
		ok, err := afero.Exists(fsys, path)
		if err != nil {
			return "", fmt.Errorf("checking %s: %w", path, err)
		}
		if ok {
			return path, nil
		}
	}
	return "", nil
}

// ReadManifest reads the manifest of the theme in dir. It returns nil when
// the directory has no manifest.
func ReadManifest(fsys afero.Fs, dir string) (*Manifest, error) {
	path, err := ManifestPath(fsys, dir)
	if err != nil || path == "" {
		return nil, err
	}

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var m Manifest
	switch filepath.Ext(path) {
	case ".json":
		err = json.Unmarshal(data, &m)
	default:
		err = yaml.Unmarshal(data, &m)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	return &m, nil
}
