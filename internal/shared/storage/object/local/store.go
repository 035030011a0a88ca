package local

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Store implements filesystem writes rooted at baseDir. Paths passed in are
// relative to the root and must not escape it.
type Store struct {
	baseDir string
}

// New creates a new local store rooted at baseDir.
func New(baseDir string) *Store {
	if strings.TrimSpace(baseDir) == "" {
		baseDir = "."
	}
	return &Store{baseDir: baseDir}
}

// Root returns the directory every relative path is resolved against.
func (s *Store) Root() string {
	return s.baseDir
}

// EnsureDir creates dir and its parents. It never fails because the
// directory already exists, including when another request created it first.
func (s *Store) EnsureDir(dir string) error {
	full, err := s.resolve(dir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(full, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	return nil
}

// WriteFile writes data to relPath. A failed write may leave a partial file behind.
func (s *Store) WriteFile(ctx context.Context, relPath string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := s.resolve(relPath)
	if err != nil {
		return err
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// Remove deletes relPath. A file that is already gone is not an error.
func (s *Store) Remove(relPath string) error {
	full, err := s.resolve(relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

func (s *Store) resolve(relPath string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(strings.TrimLeft(relPath, `/\`)))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid storage path %q", relPath)
	}
	return filepath.Join(s.baseDir, clean), nil
}
