package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// DefaultPerm is the mode used when Write creates a new file.
const DefaultPerm os.FileMode = 0o644

// ErrPathIsDirectory is returned when the path points to a directory instead of a file.
var ErrPathIsDirectory = errors.New("path is a directory, not a file")

// ErrEmptyPath is returned when an empty path is passed to Read or Write.
var ErrEmptyPath = errors.New("path must not be empty")

// Store reads and writes whole configuration files on an afero filesystem.
type Store struct {
	fs afero.Fs
}

// NewStore returns a Store backed by fs. A nil fs selects the OS filesystem.
func NewStore(fs afero.Fs) *Store {
	if fs == nil {
		fs = afero.NewOsFs()
	}

	return &Store{fs: fs}
}

// Fs returns the underlying filesystem.
//
//nolint:ireturn // afero.Fs is the abstraction callers work with
func (s *Store) Fs() afero.Fs {
	if s == nil || s.fs == nil {
		return afero.NewOsFs()
	}

	return s.fs
}

// Read returns the full contents of the file at fpath.
func (s *Store) Read(fpath string) ([]byte, error) {
	if fpath == "" {
		return nil, ErrEmptyPath
	}

	fs := s.Fs()
	cleanPath := filepath.Clean(fpath)

	stat, err := fs.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("stat file %q: %w", cleanPath, err)
	}

	if stat.IsDir() {
		return nil, fmt.Errorf("path %q: %w", cleanPath, ErrPathIsDirectory)
	}

	data, err := afero.ReadFile(fs, cleanPath)
	if err != nil {
		return nil, fmt.Errorf("reading file %q: %w", cleanPath, err)
	}

	return data, nil
}

// Write replaces the contents of the file at fpath with data.
// An existing file keeps its permission bits; a new one gets DefaultPerm.
func (s *Store) Write(fpath string, data []byte) error {
	if fpath == "" {
		return ErrEmptyPath
	}

	fs := s.Fs()
	cleanPath := filepath.Clean(fpath)
	perm := DefaultPerm

	stat, err := fs.Stat(cleanPath)

	switch {
	case err == nil && stat.IsDir():
		return fmt.Errorf("path %q: %w", cleanPath, ErrPathIsDirectory)
	case err == nil:
		perm = stat.Mode().Perm()
	case !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("stat file %q: %w", cleanPath, err)
	}

	err = afero.WriteFile(fs, cleanPath, data, perm)
	if err != nil {
		return fmt.Errorf("writing file %q: %w", cleanPath, err)
	}

	return nil
}
