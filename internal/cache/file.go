package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps one file per key inside a scratch directory
type FileStore struct {
	dir string
}

// NewFileStore creates a file store rooted at dir, creating the directory if needed
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the scratch directory
func (s *FileStore) Dir() string {
	return s.dir
}

// Set writes value to the file named key.
// The write goes through a temporary file and a rename so readers never see partial content.
func (s *FileStore) Set(ctx context.Context, key, value string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, "."+key+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close cache entry: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to save cache entry: %w", err)
	}

	return nil
}

// Get reads the file named key
func (s *FileStore) Get(ctx context.Context, key string) (string, bool, error) {
	path, err := s.path(key)
	if err != nil {
		return "", false, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read cache entry: %w", err)
	}

	return string(data), true, nil
}

// Close is a no-op for files
func (s *FileStore) Close() error {
	return nil
}

// path maps key to a file inside the scratch directory
func (s *FileStore) path(key string) (string, error) {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.dir, key), nil
}

var _ Store = (*FileStore)(nil)
