package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/month-planner/internal/model"
	"github.com/nhle/month-planner/internal/store"
	"github.com/nhle/month-planner/tests/testutil"
)

func TestCreateAssignsMonotonicIDs(t *testing.T) {
	s, backend := testutil.NewTestStore(t)

	a := testutil.MustCreate(t, s, "first", model.CategoryToDo, 1, 1)
	b := testutil.MustCreate(t, s, "second", model.CategoryReview, 2, 4)

	assert.Equal(t, 0, a.ID)
	assert.Equal(t, 1, b.ID)
	assert.Equal(t, 2, backend.Saves())
	assert.Equal(t, []model.Task{a, b}, s.Tasks())
}

func TestCreateTrimsAndValidates(t *testing.T) {
	s, backend := testutil.NewTestStore(t)

	task, err := s.Create("  Draft report  ", model.CategoryReview, testutil.Day(5), testutil.Day(7))
	require.NoError(t, err)
	assert.Equal(t, "Draft report", task.Title)

	tests := []struct {
		name     string
		title    string
		category model.Category
		start    int
		end      int
		wantErr  error
	}{
		{"blank title", "   ", model.CategoryToDo, 1, 2, model.ErrEmptyTitle},
		{"unknown category", "x", model.Category(42), 1, 2, model.ErrUnknownCategory},
		{"reversed range", "x", model.CategoryToDo, 5, 2, model.ErrInvalidRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(tt.title, tt.category, testutil.Day(tt.start), testutil.Day(tt.end))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Equal(t, 1, s.Len(), "rejected creates must not change the store")
	assert.Equal(t, 1, backend.Saves())
}

func TestUpdateReplacesOnlySuppliedFields(t *testing.T) {
	s, _ := testutil.NewTestStore(t)
	task := testutil.MustCreate(t, s, "Draft report", model.CategoryToDo, 10, 12)

	renamed, err := s.Update(task.ID, store.Rename("Final report", model.CategoryCompleted))
	require.NoError(t, err)
	assert.Equal(t, "Final report", renamed.Title)
	assert.Equal(t, model.CategoryCompleted, renamed.Category)
	assert.Equal(t, task.Start, renamed.Start)
	assert.Equal(t, task.End, renamed.End)

	moved, err := s.Update(task.ID, store.Reschedule(testutil.Day(20), testutil.Day(22)))
	require.NoError(t, err)
	assert.Equal(t, "Final report", moved.Title)
	assert.Equal(t, testutil.Day(20), moved.Start)

	got, ok := s.Task(task.ID)
	require.True(t, ok)
	assert.Equal(t, moved, got)
}

func TestUpdateRejectsInvalidResult(t *testing.T) {
	s, backend := testutil.NewTestStore(t)
	task := testutil.MustCreate(t, s, "Draft report", model.CategoryToDo, 10, 12)
	before := s.Tasks()
	saves := backend.Saves()

	_, err := s.Update(task.ID, store.SetStart(testutil.Day(14)))
	assert.ErrorIs(t, err, model.ErrInvalidRange)

	_, err = s.Update(task.ID, store.Rename(" ", model.CategoryToDo))
	assert.ErrorIs(t, err, model.ErrEmptyTitle)

	_, err = s.Update(99, store.SetEnd(testutil.Day(20)))
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	assert.Equal(t, before, s.Tasks())
	assert.Equal(t, saves, backend.Saves())
}

func TestLoadRoundTrip(t *testing.T) {
	s, backend := testutil.NewTestStore(t)
	testutil.MustCreate(t, s, "one", model.CategoryToDo, 1, 3)
	testutil.MustCreate(t, s, "two", model.CategoryInProgress, 28, 33)
	want := s.Tasks()

	reloaded := store.NewTaskStore(store.NewBackendPersister(backend), testutil.DiscardLogger())
	reloaded.Load(context.Background())
	assert.Equal(t, want, reloaded.Tasks())

	// The counter resumes past the highest stored id.
	next := testutil.MustCreate(t, reloaded, "three", model.CategoryReview, 4, 4)
	assert.Equal(t, 2, next.ID)
}

func TestLoadFailsSoft(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
	}{
		{"nothing stored", nil},
		{"not json", []byte("{{{")},
		{"wrong shape", []byte(`{"id":1}`)},
		{"bad category", []byte(`[{"id":1,"title":"a","category":"Blocked","start":"2026-06-01","end":"2026-06-01"}]`)},
		{"reversed", []byte(`[{"id":1,"title":"a","category":"Review","start":"2026-06-05","end":"2026-06-01"}]`)},
		{"duplicate ids", []byte(`[
			{"id":1,"title":"a","category":"Review","start":"2026-06-01","end":"2026-06-01"},
			{"id":1,"title":"b","category":"Review","start":"2026-06-02","end":"2026-06-02"}]`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var backend *store.MemoryBackend
			if tt.payload == nil {
				backend = store.NewMemoryBackend()
			} else {
				backend = store.NewMemoryBackendWith(tt.payload)
			}
			s := store.NewTaskStore(store.NewBackendPersister(backend), testutil.DiscardLogger())

			s.Load(context.Background())

			assert.Empty(t, s.Tasks())
			task := testutil.MustCreate(t, s, "fresh", model.CategoryToDo, 1, 1)
			assert.Equal(t, 0, task.ID)
		})
	}
}

func TestSaveFailureIsNotSurfaced(t *testing.T) {
	s, backend := testutil.NewTestStore(t)
	backend.FailSaves(errors.New("disk full"))

	task, err := s.Create("still works", model.CategoryToDo, testutil.Day(1), testutil.Day(1))
	require.NoError(t, err)

	_, err = s.Update(task.ID, store.SetEnd(testutil.Day(3)))
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
}

func TestStartNeverAfterEnd(t *testing.T) {
	s, _ := testutil.NewTestStore(t)
	task := testutil.MustCreate(t, s, "span", model.CategoryToDo, 10, 12)

	patches := []store.TaskPatch{
		store.SetStart(testutil.Day(11)),
		store.SetStart(testutil.Day(13)),
		store.SetEnd(testutil.Day(9)),
		store.Reschedule(testutil.Day(20), testutil.Day(18)),
		store.SetEnd(testutil.Day(30)),
		store.SetStart(testutil.Day(30)),
	}
	for _, p := range patches {
		_, _ = s.Update(task.ID, p)
		for _, tk := range s.Tasks() {
			assert.False(t, tk.Start.After(tk.End), "task %d: %s > %s", tk.ID, tk.Start, tk.End)
		}
	}
}
