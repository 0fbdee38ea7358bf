package store

import (
	"context"
	"sync"
)

// MemoryBackend keeps the payload in memory. Used for --ephemeral runs and
// tests.
type MemoryBackend struct {
	mu      sync.Mutex
	payload []byte
	saves   int
	saveErr error
}

// NewMemoryBackend returns an empty backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

// NewMemoryBackendWith returns a backend preloaded with payload.
func NewMemoryBackendWith(payload []byte) *MemoryBackend {
	return &MemoryBackend{payload: append([]byte(nil), payload...)}
}

func (b *MemoryBackend) Load(_ context.Context) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.payload == nil {
		return nil, ErrNoPayload
	}
	return append([]byte(nil), b.payload...), nil
}

func (b *MemoryBackend) Save(_ context.Context, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.saveErr != nil {
		return b.saveErr
	}
	b.payload = append([]byte(nil), payload...)
	b.saves++
	return nil
}

func (b *MemoryBackend) Close() error { return nil }

// Saves returns the number of successful saves.
func (b *MemoryBackend) Saves() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.saves
}

// FailSaves makes every following Save return err (nil restores).
func (b *MemoryBackend) FailSaves(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.saveErr = err
}
