package theme

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
)

// Locator collects candidate theme directories. It is handed to listeners
// of the publishing event so that any part of the application can
// contribute themes.
type Locator struct {
	fs    afero.Fs
	dirs  []string
	index map[string]struct{}
}

// NewLocator returns an empty Locator reading from fsys.
func NewLocator(fsys afero.Fs) *Locator {
	return &Locator{
		fs:    fsys,
		index: make(map[string]struct{}),
	}
}

// AddPath adds a single theme directory. Paths already present are ignored.
// It reports whether the path was added.
func (l *Locator) AddPath(dir string) (bool, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return false, fmt.Errorf("resolving theme path: %w", err)
	}
	if _, ok := l.index[abs]; ok {
		return false, nil
	}
	l.index[abs] = struct{}{}
	l.dirs = append(l.dirs, abs)
	return true, nil
}

// Discover adds root when it is a theme itself (carries a manifest),
// otherwise every immediate subdirectory of root that carries a manifest.
// Subdirectories are visited in lexical order. It returns the number of
// directories added.
func (l *Locator) Discover(root string) (int, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return 0, fmt.Errorf("resolving theme root: %w", err)
	}

	manifest, err := ManifestPath(l.fs, abs)
	if err != nil {
		return 0, err
	}
	if manifest != "" {
		added, err := l.AddPath(abs)
		if err != nil || !added {
			return 0, err
		}
		return 1, nil
	}

	entries, err := afero.ReadDir(l.fs, abs)
	if err != nil {
		return 0, fmt.Errorf("reading theme root %s: %w", abs, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	count := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(abs, entry.Name())
		manifest, err := ManifestPath(l.fs, dir)
		if err != nil {
			return count, err
		}
		if manifest == "" {
			continue
		}
		added, err := l.AddPath(dir)
		if err != nil {
			return count, err
		}
		if added {
			count++
		}
	}

	return count, nil
}

// Paths returns the located directories in insertion order.
func (l *Locator) Paths() []string {
	out := make([]string, len(l.dirs))
	copy(out, l.dirs)
	return out
}
