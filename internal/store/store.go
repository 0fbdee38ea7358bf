package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nhle/month-planner/internal/model"
)

// ErrNoPayload is returned by a Backend that has never been written to.
var ErrNoPayload = errors.New("no stored payload")

// Backend is a key-value style blob store holding the serialized task list.
type Backend interface {
	// Load returns the last saved payload, or ErrNoPayload.
	Load(ctx context.Context) ([]byte, error)

	// Save replaces the stored payload.
	Save(ctx context.Context, payload []byte) error

	// Close releases any underlying resources.
	Close() error
}

// Persister loads and saves whole task lists.
type Persister interface {
	LoadTasks(ctx context.Context) ([]model.Task, error)
	SaveTasks(ctx context.Context, tasks []model.Task) error
}

// BackendPersister adapts a Backend to the Persister interface using the
// JSON task-list codec.
type BackendPersister struct {
	backend Backend
}

// NewBackendPersister wraps b.
func NewBackendPersister(b Backend) *BackendPersister {
	return &BackendPersister{backend: b}
}

// LoadTasks reads and decodes the stored list. It returns ErrNoPayload when
// nothing has been stored yet.
func (p *BackendPersister) LoadTasks(ctx context.Context) ([]model.Task, error) {
	payload, err := p.backend.Load(ctx)
	if err != nil {
		return nil, err
	}
	return DecodeTasks(payload)
}

// SaveTasks encodes and stores the list.
func (p *BackendPersister) SaveTasks(ctx context.Context, tasks []model.Task) error {
	payload, err := EncodeTasks(tasks)
	if err != nil {
		return err
	}
	return p.backend.Save(ctx, payload)
}

// EncodeTasks serializes tasks as a JSON array of
// {id, title, category, start, end} objects.
func EncodeTasks(tasks []model.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []model.Task{}
	}
	payload, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("encoding tasks: %w", err)
	}
	return payload, nil
}

// DecodeTasks parses a payload produced by EncodeTasks. Every task must
// pass model.Task.Validate and ids must be unique, otherwise the whole
// payload is rejected.
func DecodeTasks(payload []byte) ([]model.Task, error) {
	var tasks []model.Task
	if err := json.Unmarshal(payload, &tasks); err != nil {
		return nil, fmt.Errorf("decoding tasks: %w", err)
	}

	seen := make(map[int]bool, len(tasks))
	for _, t := range tasks {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("decoding task %d: %w", t.ID, err)
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("decoding tasks: duplicate id %d", t.ID)
		}
		seen[t.ID] = true
	}

	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}
