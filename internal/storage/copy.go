package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// CopyStats summarises a directory copy.
type CopyStats struct {
	Files       int   `json:"files"`
	Directories int   `json:"directories"`
	Bytes       int64 `json:"bytes"`
	Skipped     int   `json:"skipped"` // non-regular entries such as sockets or directory symlinks
}

// Add accumulates other into s.
func (s *CopyStats) Add(other CopyStats) {
	s.Files += other.Files
	s.Directories += other.Directories
	s.Bytes += other.Bytes
	s.Skipped += other.Skipped
}

// CopyDirectory recursively copies srcDir, an absolute path that may lie
// outside the sandbox, to destRelative inside the sandbox.
//
// Missing destination directories are created and existing files are
// replaced atomically. Files present at the destination but not in the
// source are left alone. Symlinks to regular files are followed; any other
// non-regular entry is skipped.
func (s *Sandbox) CopyDirectory(srcDir, destRelative string) (CopyStats, error) {
	var stats CopyStats

	info, err := s.fs.Stat(srcDir)
	if err != nil {
		return stats, fmt.Errorf("reading source directory: %w", err)
	}
	if !info.IsDir() {
		return stats, fmt.Errorf("source is not a directory: %s", srcDir)
	}

	destRoot, err := s.ResolvePath(destRelative)
	if err != nil {
		return stats, err
	}

	err = afero.Walk(s.fs, srcDir, func(path string, fi os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return fmt.Errorf("relativising %s: %w", path, err)
		}
		target := filepath.Join(destRoot, rel)

		if fi.IsDir() {
			if err := s.fs.MkdirAll(target, dirPerm); err != nil {
				return fmt.Errorf("creating directory %s: %w", target, err)
			}
			stats.Directories++
			return nil
		}

		if fi.Mode()&os.ModeSymlink != 0 {
			resolved, err := s.fs.Stat(path)
			if err != nil {
				return fmt.Errorf("following symlink %s: %w", path, err)
			}
			fi = resolved
		}
		if !fi.Mode().IsRegular() {
			stats.Skipped++
			return nil
		}

		n, err := s.copyFile(path, target, fi.Mode().Perm())
		if err != nil {
			return err
		}
		stats.Files++
		stats.Bytes += n
		return nil
	})
	if err != nil {
		return stats, fmt.Errorf("copying %s: %w", srcDir, err)
	}

	return stats, nil
}

func (s *Sandbox) copyFile(src, target string, perm os.FileMode) (int64, error) {
	f, err := s.fs.Open(src)
	if err != nil {
		return 0, fmt.Errorf("opening source file: %w", err)
	}
	defer f.Close()

	if perm == 0 {
		perm = filePerm
	}

	n, err := s.atomicWrite(target, f, perm)
	if err != nil {
		return 0, fmt.Errorf("copying %s: %w", src, err)
	}
	return n, nil
}
