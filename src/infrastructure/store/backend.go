package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrNotExist is returned by a Backend when a collection has never been written
var ErrNotExist = errors.New("collection does not exist")

// Backend reads and writes encoded collections by name
type Backend interface {
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, data []byte) error
}

// FileBackend keeps each collection in <dir>/<name>.json
type FileBackend struct {
	dir string
}

// NewFileBackend creates a file backend rooted at dir
func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{dir: dir}
}

// Path returns the file backing the named collection
func (b *FileBackend) Path(name string) string {
	return filepath.Join(b.dir, name+".json")
}

// Read returns the content of the collection file
func (b *FileBackend) Read(_ context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(b.Path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", b.Path(name), ErrNotExist)
		}
		return nil, fmt.Errorf("failed to read %s: %w", b.Path(name), err)
	}
	return data, nil
}

// Write replaces the collection file. The data is written to a temporary
// file first and renamed over the target.
func (b *FileBackend) Write(_ context.Context, name string, data []byte) error {
	if err := os.MkdirAll(b.dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(b.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	// CreateTempは0600で作るので通常のファイルと同じ権限に揃える
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to chmod %s: %w", tmpName, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, b.Path(name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", b.Path(name), err)
	}
	return nil
}
