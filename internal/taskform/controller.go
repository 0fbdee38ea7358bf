// Package taskform holds the create/edit form state that sits between a
// finished pointer gesture and a task store write.
package taskform

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nhle/month-planner/internal/model"
	"github.com/nhle/month-planner/internal/store"
)

// ErrValidation is returned by Submit when the form cannot be committed.
// The form stays open.
var ErrValidation = errors.New("invalid task form")

// ErrClosed is returned by Submit when no form is open.
var ErrClosed = errors.New("task form is not open")

// PreviewLabel labels a selection preview before a title is typed.
const PreviewLabel = "New Task"

// TaskWriter is the subset of the task store the form commits to.
type TaskWriter interface {
	Create(title string, category model.Category, start, end model.Day) (model.Task, error)
	Update(id int, patch store.TaskPatch) (model.Task, error)
}

// Mode says whether the form is closed, creating, or editing.
type Mode int

const (
	ModeClosed Mode = iota
	ModeCreate
	ModeEdit
)

func (m Mode) String() string {
	switch m {
	case ModeCreate:
		return "create"
	case ModeEdit:
		return "edit"
	default:
		return "closed"
	}
}

// Controller owns the pending range or the edited task id plus the
// fields being typed.
type Controller struct {
	tasks  TaskWriter
	logger *slog.Logger

	mode      Mode
	pending   model.DateRange
	editingID int
	title     string
	category  model.Category
}

// New returns a closed controller.
func New(tasks TaskWriter, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{tasks: tasks, logger: logger}
}

// OpenCreate opens an empty form for a new task over r.
func (c *Controller) OpenCreate(r model.DateRange) {
	c.reset()
	c.mode = ModeCreate
	c.pending = r
	c.category = model.CategoryToDo
}

// OpenEdit opens the form preloaded with t's title and category.
func (c *Controller) OpenEdit(t model.Task) {
	c.reset()
	c.mode = ModeEdit
	c.editingID = t.ID
	c.title = t.Title
	c.category = t.Category
	c.pending = t.Range()
}

func (c *Controller) Mode() Mode               { return c.mode }
func (c *Controller) IsOpen() bool             { return c.mode != ModeClosed }
func (c *Controller) Title() string            { return c.title }
func (c *Controller) Category() model.Category { return c.category }
func (c *Controller) SetTitle(title string)    { c.title = title }

func (c *Controller) SetCategory(cat model.Category) { c.category = cat }

// Range returns the pending create range, or the edited task's span.
func (c *Controller) Range() model.DateRange {
	return c.pending
}

// EditingID returns the id of the task being edited.
func (c *Controller) EditingID() (int, bool) {
	return c.editingID, c.mode == ModeEdit
}

// PreviewTitle is the label shown on the selection preview.
func (c *Controller) PreviewTitle() string {
	if t := strings.TrimSpace(c.title); t != "" {
		return t
	}
	return PreviewLabel
}

// Heading returns the form title for the current mode.
func (c *Controller) Heading() string {
	if c.mode == ModeEdit {
		return "Edit Task"
	}
	return "Create Task"
}

// Validate checks the typed fields without committing.
func (c *Controller) Validate() error {
	if strings.TrimSpace(c.title) == "" {
		return fmt.Errorf("%w: %w", ErrValidation, model.ErrEmptyTitle)
	}
	if !c.category.Valid() {
		return fmt.Errorf("%w: %w", ErrValidation, model.ErrUnknownCategory)
	}
	return nil
}

// Submit commits the form. Create mode adds a task over the pending range;
// edit mode changes only title and category. On success the form closes.
func (c *Controller) Submit() (model.Task, error) {
	if c.mode == ModeClosed {
		return model.Task{}, ErrClosed
	}
	if err := c.Validate(); err != nil {
		return model.Task{}, err
	}

	var (
		task model.Task
		err  error
	)
	if c.mode == ModeCreate {
		task, err = c.tasks.Create(c.title, c.category, c.pending.Start, c.pending.End)
	} else {
		task, err = c.tasks.Update(c.editingID, store.Rename(c.title, c.category))
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	c.logger.Info("task form submitted", "mode", c.mode.String(), "task_id", task.ID)
	c.reset()
	return task, nil
}

// Cancel discards the form.
func (c *Controller) Cancel() {
	c.reset()
}

func (c *Controller) reset() {
	*c = Controller{tasks: c.tasks, logger: c.logger}
}
