package theme

import (
	"strings"

	"github.com/spf13/afero"
)

// Registry holds registered themes, keyed case-insensitively by name.
// It is not safe for concurrent use.
type Registry struct {
	fs     afero.Fs
	themes []*Theme
	byName map[string]int
}

// NewRegistry returns an empty Registry reading themes from fsys.
func NewRegistry(fsys afero.Fs) *Registry {
	return &Registry{
		fs:     fsys,
		byName: make(map[string]int),
	}
}

// RegisterPath loads the theme in dir and registers it.
func (r *Registry) RegisterPath(dir string) (*Theme, error) {
	t, err := Load(r.fs, dir)
	if err != nil {
		return nil, err
	}
	r.Register(t)
	return t, nil
}

// Register adds t. A theme with the same name replaces the earlier entry
// while keeping its position.
func (r *Registry) Register(t *Theme) {
	key := strings.ToLower(t.Name)
	if i, ok := r.byName[key]; ok {
		r.themes[i] = t
		return
	}
	r.byName[key] = len(r.themes)
	r.themes = append(r.themes, t)
}

// Get returns the theme registered under name. When no name matches, a
// theme whose asset path equals name is returned, so "dark-ocean" finds
// "Dark Ocean".
func (r *Registry) Get(name string) (*Theme, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if i, ok := r.byName[key]; ok {
		return r.themes[i], nil
	}
	for _, t := range r.themes {
		if strings.EqualFold(t.AssetPath, key) {
			return t, nil
		}
	}
	return nil, notFound(name)
}

// Themes returns registered themes in registration order.
func (r *Registry) Themes() []*Theme {
	out := make([]*Theme, len(r.themes))
	copy(out, r.themes)
	return out
}

// Len returns the number of registered themes.
func (r *Registry) Len() int {
	return len(r.themes)
}
