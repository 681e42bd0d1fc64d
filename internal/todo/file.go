package todo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// LoadResult describes what a file load found.
type LoadResult struct {
	ParseResult
	Missing bool // the file did not exist; the store was left as it was
}

// Load reads the task file at path into a new store.
// A missing file yields an empty store and no error.
func Load(path string) (*Store, LoadResult, error) {
	s := NewStore()
	result, err := s.LoadFile(path)
	if err != nil {
		return nil, result, err
	}
	return s, result, nil
}

// LoadFile replaces the store contents with the task file at path.
// A missing file is a no-op.
func (s *Store) LoadFile(path string) (LoadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return LoadResult{Missing: true}, nil
		}
		return LoadResult{}, fmt.Errorf("read task file: %w", err)
	}
	return LoadResult{ParseResult: s.Deserialize(string(data))}, nil
}

// Save writes the task file to path, replacing it atomically.
func (s *Store) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create task dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write task file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(s.Serialize()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write task file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write task file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write task file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write task file: %w", err)
	}
	return nil
}
