package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const statsFileName = "stats.json"

// File stores the value as a JSON file inside the data directory.
type File struct {
	path string
}

func NewFile(dataDir string) *File {
	return &File{path: filepath.Join(dataDir, statsFileName)}
}

// Path returns the location of the stats file.
func (f *File) Path() string {
	return f.path
}

func (f *File) Load() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read stats file: %w", err)
	}
	return data, nil
}

func (f *File) Save(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("write stats file: %w", err)
	}
	return nil
}

func (f *File) Close() error {
	return nil
}
