// Package theme models stylist themes: directories holding a visual skin,
// optionally described by a theme.json or theme.yaml manifest and
// optionally carrying an assets/ folder to publish.
package theme

import (
	"errors"
	"fmt"
	"path/filepath"
)

// AssetsDirName is the subdirectory of a theme holding publishable assets.
const AssetsDirName = "assets"

// ErrThemeNotFound is returned when a theme is not registered.
var ErrThemeNotFound = errors.New("theme not found")

// Theme is a located theme directory.
type Theme struct {
	// Name is the human-readable display name.
	Name string `json:"name"`

	// Path is the absolute theme directory.
	Path string `json:"path"`

	// AssetPath is where the assets are published, relative to the public
	// themes prefix.
	AssetPath string `json:"asset_path"`

	Description string `json:"description,omitempty"`
	Parent      string `json:"parent,omitempty"`
}

// AssetsDir returns the absolute path of the theme's assets directory.
func (t *Theme) AssetsDir() string {
	return filepath.Join(t.Path, AssetsDirName)
}

// String implements fmt.Stringer.
func (t *Theme) String() string {
	return fmt.Sprintf("%s (%s)", t.Name, t.Path)
}

func notFound(name string) error {
	return fmt.Errorf("%w: %s", ErrThemeNotFound, name)
}
