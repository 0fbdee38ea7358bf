package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileBackend stores the task payload in a single JSON file. Writes go to a
// temporary file first and are renamed into place.
type FileBackend struct {
	mu   sync.Mutex
	path string
}

// NewFileBackend returns a backend writing to path, creating its directory.
func NewFileBackend(path string) (*FileBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &FileBackend{path: path}, nil
}

// Path returns the payload file location.
func (b *FileBackend) Path() string { return b.path }

// Load reads the payload file. A missing or empty file is ErrNoPayload.
func (b *FileBackend) Load(_ context.Context) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	data, err := os.ReadFile(b.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoPayload
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", b.path, err)
	}
	if len(data) == 0 {
		return nil, ErrNoPayload
	}
	return data, nil
}

// Save atomically replaces the payload file.
func (b *FileBackend) Save(_ context.Context, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(b.path), ".tasks-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, b.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", b.path, err)
	}
	return nil
}

// Close is a no-op; the file is not held open between calls.
func (b *FileBackend) Close() error { return nil }
