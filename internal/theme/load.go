package theme

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Load builds a Theme from the directory dir.
//
// The manifest, when present, supplies the name, description, parent and
// asset path. Without one the name is derived from the directory name. The
// asset path defaults to the slug of the name, or of the directory name
// when the name has no letters or digits.
func Load(fsys afero.Fs, dir string) (*Theme, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving theme path: %w", err)
	}

	info, err := fsys.Stat(absDir)
	if err != nil {
		return nil, fmt.Errorf("reading theme directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("theme path is not a directory: %s", absDir)
	}

	t := &Theme{Path: absDir}

	m, err := ReadManifest(fsys, absDir)
	if err != nil {
		return nil, err
	}
	if m != nil {
		t.Name = strings.TrimSpace(m.Name)
		t.Description = m.Description
		t.Parent = m.Parent
		t.AssetPath = strings.Trim(filepath.ToSlash(filepath.Clean(strings.TrimSpace(m.AssetPath))), "/")
		if t.AssetPath == "." {
			t.AssetPath = ""
		}
	}

	if t.Name == "" {
		t.Name = DisplayName(filepath.Base(absDir))
	}
	if t.AssetPath == "" {
		t.AssetPath = Slug(t.Name)
	}
	if t.AssetPath == "" {
		t.AssetPath = Slug(filepath.Base(absDir))
	}
	if t.AssetPath == "" {
		return nil, fmt.Errorf("theme %q has no usable asset path", t.Name)
	}

	return t, nil
}
