package testutil

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/nhle/month-planner/internal/model"
	"github.com/nhle/month-planner/internal/store"
)

// NewTestBackend creates an in-memory SQLiteBackend with all migrations
// applied. It automatically closes the backend when the test completes.
func NewTestBackend(t *testing.T) *store.SQLiteBackend {
	t.Helper()

	b, err := store.NewSQLiteBackend(":memory:")
	if err != nil {
		t.Fatalf("creating test backend: %v", err)
	}

	t.Cleanup(func() {
		if err := b.Close(); err != nil {
			t.Errorf("closing test backend: %v", err)
		}
	})

	return b
}

// NewTestStore returns an empty TaskStore persisting synchronously to a
// fresh MemoryBackend, which is returned for inspection.
func NewTestStore(t *testing.T) (*store.TaskStore, *store.MemoryBackend) {
	t.Helper()

	backend := store.NewMemoryBackend()
	s := store.NewTaskStore(store.NewBackendPersister(backend), DiscardLogger())
	return s, backend
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Day returns day n of June 2026, a month starting on a Monday. Values
// outside 1..30 roll into the neighbouring months.
func Day(n int) model.Day {
	return model.NewDay(2026, time.June, n)
}

// MustCreate adds a task or fails the test.
func MustCreate(
	t *testing.T,
	s *store.TaskStore,
	title string,
	category model.Category,
	start, end int,
) model.Task {
	t.Helper()

	task, err := s.Create(title, category, Day(start), Day(end))
	if err != nil {
		t.Fatalf("creating task %q: %v", title, err)
	}
	return task
}
