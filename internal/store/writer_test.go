package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/month-planner/internal/model"
	"github.com/nhle/month-planner/internal/store"
	"github.com/nhle/month-planner/tests/testutil"
)

// recordingPersister records every saved snapshot and can block saves
// until released.
type recordingPersister struct {
	mu      sync.Mutex
	saved   [][]model.Task
	gate    chan struct{}
	started chan struct{}
	err     error
}

func (p *recordingPersister) LoadTasks(context.Context) ([]model.Task, error) {
	return nil, store.ErrNoPayload
}

func (p *recordingPersister) SaveTasks(_ context.Context, tasks []model.Task) error {
	if p.started != nil {
		p.started <- struct{}{}
	}
	if p.gate != nil {
		<-p.gate
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.saved = append(p.saved, tasks)
	return p.err
}

func (p *recordingPersister) snapshots() [][]model.Task {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([][]model.Task(nil), p.saved...)
}

func tasksN(n int) []model.Task {
	out := make([]model.Task, n)
	for i := range out {
		out[i] = model.Task{ID: i, Title: "t", Category: model.CategoryToDo, Start: testutil.Day(1), End: testutil.Day(1)}
	}
	return out
}

func TestAsyncWriterWritesOnFlush(t *testing.T) {
	rec := &recordingPersister{}
	w := store.NewAsyncWriter(rec, testutil.DiscardLogger())
	defer w.Close(context.Background())

	require.NoError(t, w.SaveTasks(context.Background(), tasksN(2)))
	require.NoError(t, w.Flush(context.Background()))

	snaps := rec.snapshots()
	require.NotEmpty(t, snaps)
	assert.Len(t, snaps[len(snaps)-1], 2)
}

func TestAsyncWriterCoalescesAndKeepsOrder(t *testing.T) {
	rec := &recordingPersister{gate: make(chan struct{}), started: make(chan struct{}, 8)}
	w := store.NewAsyncWriter(rec, testutil.DiscardLogger())

	ctx := context.Background()
	require.NoError(t, w.SaveTasks(ctx, tasksN(1)))

	// Wait until the first save is in progress, then queue more behind it.
	select {
	case <-rec.started:
	case <-time.After(time.Second):
		t.Fatal("first save never started")
	}
	require.NoError(t, w.SaveTasks(ctx, tasksN(2)))
	require.NoError(t, w.SaveTasks(ctx, tasksN(3)))
	require.NoError(t, w.SaveTasks(ctx, tasksN(4)))

	close(rec.gate)
	require.NoError(t, w.Close(ctx))

	snaps := rec.snapshots()
	require.Len(t, snaps, 2, "queued snapshots collapse into the newest one")
	assert.Len(t, snaps[0], 1)
	assert.Len(t, snaps[1], 4)
}

func TestAsyncWriterSaveReturnsWithoutWaiting(t *testing.T) {
	rec := &recordingPersister{gate: make(chan struct{})}
	w := store.NewAsyncWriter(rec, testutil.DiscardLogger())

	done := make(chan struct{})
	go func() {
		_ = w.SaveTasks(context.Background(), tasksN(1))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("SaveTasks blocked on the underlying persister")
	}

	close(rec.gate)
	require.NoError(t, w.Close(context.Background()))
}

func TestAsyncWriterAfterClose(t *testing.T) {
	rec := &recordingPersister{err: errors.New("ignored")}
	w := store.NewAsyncWriter(rec, testutil.DiscardLogger())

	require.NoError(t, w.SaveTasks(context.Background(), tasksN(1)))
	require.NoError(t, w.Close(context.Background()))
	require.NoError(t, w.Close(context.Background()))

	assert.ErrorIs(t, w.SaveTasks(context.Background(), tasksN(1)), store.ErrWriterClosed)
	assert.Len(t, rec.snapshots(), 1, "pending snapshot is written on close")
	assert.NoError(t, w.Flush(context.Background()))
}

func TestTaskStoreThroughAsyncWriter(t *testing.T) {
	backend := store.NewMemoryBackend()
	w := store.NewAsyncWriter(store.NewBackendPersister(backend), testutil.DiscardLogger())
	s := store.NewTaskStore(w, testutil.DiscardLogger())

	testutil.MustCreate(t, s, "a", model.CategoryToDo, 1, 2)
	testutil.MustCreate(t, s, "b", model.CategoryToDo, 3, 4)
	require.NoError(t, w.Close(context.Background()))

	reloaded := store.NewTaskStore(store.NewBackendPersister(backend), testutil.DiscardLogger())
	reloaded.Load(context.Background())
	assert.Equal(t, s.Tasks(), reloaded.Tasks())
}
