// Package storage provides sandboxed file operations for stylist.
// All writes are restricted to a base directory (the public directory) to
// prevent path traversal. Operations go through an afero.Fs so that the
// real filesystem, an in-memory one, or a copy-on-write overlay can be used.
package storage

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const (
	dirPerm  os.FileMode = 0o755
	filePerm os.FileMode = 0o644
)

// ErrPathEscapes is returned when a relative path resolves outside the sandbox.
var ErrPathEscapes = errors.New("path escapes sandbox")

// Sandbox provides sandboxed file operations within a base directory.
type Sandbox struct {
	fs      afero.Fs
	baseDir string
}

// NewSandboxFs creates a new Sandbox on fsys rooted at baseDir.
func NewSandboxFs(fsys afero.Fs, baseDir string) (*Sandbox, error) {
	absPath, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("getting absolute path: %w", err)
	}

	if err := fsys.MkdirAll(absPath, dirPerm); err != nil {
		return nil, fmt.Errorf("creating base directory: %w", err)
	}

	return &Sandbox{fs: fsys, baseDir: absPath}, nil
}

// Fs returns the filesystem the sandbox operates on.
func (s *Sandbox) Fs() afero.Fs {
	return s.fs
}

// ResolvePath resolves a relative path within the sandbox.
// Returns an error wrapping ErrPathEscapes if the path is absolute or would
// leave the sandbox.
func (s *Sandbox) ResolvePath(relativePath string) (string, error) {
	if filepath.IsAbs(relativePath) {
		return "", fmt.Errorf("%w: %s (absolute paths not allowed)", ErrPathEscapes, relativePath)
	}

	absPath := filepath.Join(s.baseDir, filepath.Clean(relativePath))

	if absPath != s.baseDir && !strings.HasPrefix(absPath, s.baseDir+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrPathEscapes, relativePath)
	}

	return absPath, nil
}

// atomicWrite writes r to a temporary file next to targetPath and renames it
// into place. It returns the number of bytes written.
func (s *Sandbox) atomicWrite(targetPath string, r io.Reader, perm os.FileMode) (int64, error) {
	dir := filepath.Dir(targetPath)
	if err := s.fs.MkdirAll(dir, dirPerm); err != nil {
		return 0, fmt.Errorf("creating parent directory: %w", err)
	}

	tempName := fmt.Sprintf(".%s.%s.tmp", filepath.Base(targetPath), randomHex(8))
	tempPath := filepath.Join(dir, tempName)

	tempFile, err := s.fs.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return 0, fmt.Errorf("creating temporary file: %w", err)
	}

	n, err := io.Copy(tempFile, r)
	closeErr := tempFile.Close()

	if err != nil {
		_ = s.fs.Remove(tempPath)
		return 0, fmt.Errorf("writing to temporary file: %w", err)
	}
	if closeErr != nil {
		_ = s.fs.Remove(tempPath)
		return 0, fmt.Errorf("closing temporary file: %w", closeErr)
	}

	if err := s.fs.Rename(tempPath, targetPath); err != nil {
		_ = s.fs.Remove(tempPath)
		return 0, fmt.Errorf("renaming to target: %w", err)
	}

	return n, nil
}

// Stat returns file info for a path within the sandbox. A missing path
// yields an error wrapping fs.ErrNotExist.
func (s *Sandbox) Stat(relativePath string) (os.FileInfo, error) {
	path, err := s.ResolvePath(relativePath)
	if err != nil {
		return nil, err
	}

	info, err := s.fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("getting file info: %w", err)
	}
	return info, nil
}

// DirExists reports whether path is an existing directory on fsys.
func DirExists(fsys afero.Fs, path string) (bool, error) {
	ok, err := afero.DirExists(fsys, path)
	if err != nil {
		return false, fmt.Errorf("checking directory %s: %w", path, err)
	}
	return ok, nil
}

// randomHex generates a random hex string of the specified length.
func randomHex(n int) string {
	b := make([]byte, n/2+1)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%d", os.Getpid())
	}
	return hex.EncodeToString(b)[:n]
}
