package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/nhle/month-planner/internal/model"
)

// ErrWriterClosed is returned by AsyncWriter.SaveTasks after Close.
var ErrWriterClosed = errors.New("async writer closed")

// AsyncWriter is a Persister that hands saves to a single background
// goroutine. SaveTasks returns immediately; snapshots are written in the
// order they were submitted, and a snapshot still waiting when a newer one
// arrives is dropped in favour of the newer one.
type AsyncWriter struct {
	next   Persister
	logger *slog.Logger

	mu         sync.Mutex
	pending    []model.Task
	hasPending bool
	closed     bool

	wakeCh  chan struct{}
	flushCh chan chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewAsyncWriter starts the background writer in front of next.
func NewAsyncWriter(next Persister, logger *slog.Logger) *AsyncWriter {
	if logger == nil {
		logger = slog.Default()
	}
	w := &AsyncWriter{
		next:    next,
		logger:  logger,
		wakeCh:  make(chan struct{}, 1),
		flushCh: make(chan chan struct{}),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	go w.run()
	return w
}

// LoadTasks reads synchronously through to the wrapped persister.
func (w *AsyncWriter) LoadTasks(ctx context.Context) ([]model.Task, error) {
	return w.next.LoadTasks(ctx)
}

// SaveTasks queues a snapshot of tasks for writing.
func (w *AsyncWriter) SaveTasks(_ context.Context, tasks []model.Task) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWriterClosed
	}
	w.pending = append([]model.Task(nil), tasks...)
	w.hasPending = true
	w.mu.Unlock()

	select {
	case w.wakeCh <- struct{}{}:
	default:
		// A wake-up is already queued; it will pick up the newest snapshot.
	}
	return nil
}

// Flush blocks until every snapshot queued so far has been written.
func (w *AsyncWriter) Flush(ctx context.Context) error {
	reply := make(chan struct{})
	select {
	case w.flushCh <- reply:
	case <-w.doneCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-reply:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close writes any pending snapshot and stops the goroutine.
func (w *AsyncWriter) Close(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.stopCh)
	select {
	case <-w.doneCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *AsyncWriter) run() {
	defer close(w.doneCh)
	for {
		select {
		case <-w.wakeCh:
			w.writePending()
		case reply := <-w.flushCh:
			w.writePending()
			close(reply)
		case <-w.stopCh:
			w.writePending()
			return
		}
	}
}

// writePending saves the newest queued snapshot, if any. Failures are
// logged; the next mutation retries with fresher data.
func (w *AsyncWriter) writePending() {
	w.mu.Lock()
	if !w.hasPending {
		w.mu.Unlock()
		return
	}
	snapshot := w.pending
	w.pending = nil
	w.hasPending = false
	w.mu.Unlock()

	if err := w.next.SaveTasks(context.Background(), snapshot); err != nil {
		w.logger.Warn("saving tasks failed", "error", err, "tasks", len(snapshot))
		return
	}
	w.logger.Debug("tasks saved", "tasks", len(snapshot))
}
