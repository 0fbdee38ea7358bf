package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/nhle/month-planner/internal/model"
)

// ErrTaskNotFound is returned by Update for an unknown id.
var ErrTaskNotFound = errors.New("task not found")

// TaskPatch lists the fields an Update replaces. Nil fields keep their
// stored value.
type TaskPatch struct {
	Title    *string
	Category *model.Category
	Start    *model.Day
	End      *model.Day
}

// Rename returns a patch changing the title and category, as the edit form does.
func Rename(title string, category model.Category) TaskPatch {
	return TaskPatch{Title: &title, Category: &category}
}

// Reschedule returns a patch changing both endpoints.
func Reschedule(start, end model.Day) TaskPatch {
	return TaskPatch{Start: &start, End: &end}
}

// SetStart returns a patch changing only the first day.
func SetStart(start model.Day) TaskPatch {
	return TaskPatch{Start: &start}
}

// SetEnd returns a patch changing only the last day.
func SetEnd(end model.Day) TaskPatch {
	return TaskPatch{End: &end}
}

// apply returns t with the patch fields copied in.
func (p TaskPatch) apply(t model.Task) model.Task {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Start != nil {
		t.Start = *p.Start
	}
	if p.End != nil {
		t.End = *p.End
	}
	return t
}

// TaskStore owns the task list and the id counter. Every mutation replaces
// the whole list and then hands a snapshot to the persister.
type TaskStore struct {
	mu      sync.RWMutex
	tasks   []model.Task
	lastID  int
	persist Persister
	logger  *slog.Logger
}

// NewTaskStore returns an empty store writing through p. Call Load to read
// the persisted tasks.
func NewTaskStore(p Persister, logger *slog.Logger) *TaskStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskStore{persist: p, logger: logger, lastID: -1}
}

// Load replaces the in-memory list with the persisted one. Nothing stored,
// a backend failure or a malformed payload all leave the store empty; none
// of them is reported to the caller.
func (s *TaskStore) Load(ctx context.Context) {
	tasks, err := s.persist.LoadTasks(ctx)
	switch {
	case errors.Is(err, ErrNoPayload):
		s.logger.Info("no stored tasks")
		tasks = nil
	case err != nil:
		s.logger.Warn("discarding stored tasks", "error", err)
		tasks = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = append([]model.Task(nil), tasks...)
	s.lastID = -1
	for _, t := range s.tasks {
		if t.ID > s.lastID {
			s.lastID = t.ID
		}
	}
	s.logger.Info("tasks loaded", "count", len(s.tasks))
}

// Tasks returns a copy of the current list in insertion order.
func (s *TaskStore) Tasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Task(nil), s.tasks...)
}

// Task returns the task with the given id.
func (s *TaskStore) Task(id int) (model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

// Len returns the number of tasks.
func (s *TaskStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// Create validates and appends a new task with the next id.
func (s *TaskStore) Create(
	title string,
	category model.Category,
	start, end model.Day,
) (model.Task, error) {
	task := model.Task{
		Title:    strings.TrimSpace(title),
		Category: category,
		Start:    start,
		End:      end,
	}
	if err := task.Validate(); err != nil {
		return model.Task{}, fmt.Errorf("creating task: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task.ID = s.nextID()
	next := make([]model.Task, len(s.tasks), len(s.tasks)+1)
	copy(next, s.tasks)
	next = append(next, task)
	s.replaceAll(next)

	s.logger.Debug("task created", "id", task.ID, "range", task.Range().String())
	return task, nil
}

// Update applies patch to the task with the given id. The patched task
// must still be valid; otherwise the store is left unchanged.
func (s *TaskStore) Update(id int, patch TaskPatch) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return model.Task{}, fmt.Errorf("updating task %d: %w", id, ErrTaskNotFound)
	}

	updated := patch.apply(s.tasks[idx])
	if err := updated.Validate(); err != nil {
		return model.Task{}, fmt.Errorf("updating task %d: %w", id, err)
	}

	next := make([]model.Task, len(s.tasks))
	copy(next, s.tasks)
	next[idx] = updated
	s.replaceAll(next)
	return updated, nil
}

// nextID advances the counter. Caller holds mu.
func (s *TaskStore) nextID() int {
	s.lastID++
	return s.lastID
}

// indexOf returns the slice index of id or -1. Caller holds mu.
func (s *TaskStore) indexOf(id int) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// replaceAll swaps in a new list and hands a snapshot to the persister.
// Save errors are logged only: persistence is a best-effort cache of the
// in-memory list. Caller holds mu, which keeps saves in mutation order.
func (s *TaskStore) replaceAll(tasks []model.Task) {
	s.tasks = tasks

	snapshot := append([]model.Task(nil), tasks...)
	if err := s.persist.SaveTasks(context.Background(), snapshot); err != nil {
		s.logger.Warn("persisting tasks failed", "error", err)
	}
}
