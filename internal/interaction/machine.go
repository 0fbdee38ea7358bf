package interaction

import (
	"log/slog"

	"github.com/nhle/month-planner/internal/model"
	"github.com/nhle/month-planner/internal/store"
)

// TaskSource is the part of the task store the machine reads and writes.
type TaskSource interface {
	Task(id int) (model.Task, bool)
	Update(id int, patch store.TaskPatch) (model.Task, error)
}

// Machine tracks a single pointer gesture. Moves and resizes are written
// to the TaskSource on every pointer-enter; only new selections live
// purely in the machine until pointer-up.
type Machine struct {
	tasks  TaskSource
	logger *slog.Logger

	state  State
	hover  model.Day
	enters int
}

// New returns an idle machine.
func New(tasks TaskSource, logger *slog.Logger) *Machine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Machine{tasks: tasks, logger: logger, state: Idle{}}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Preview returns the in-progress selection range, if any.
func (m *Machine) Preview() (model.DateRange, bool) {
	s, ok := m.state.(SelectingRange)
	if !ok {
		return model.DateRange{}, false
	}
	return model.NewDateRange(s.Anchor, s.Current), true
}

// ActiveTask returns the id of the task being moved or resized.
func (m *Machine) ActiveTask() (int, bool) {
	switch s := m.state.(type) {
	case MovingTask:
		return s.TaskID, true
	case ResizingTask:
		return s.TaskID, true
	}
	return 0, false
}

// PointerDown starts a gesture on day. hit is nil when the press landed on
// empty cell space. Presses while a gesture is already running are ignored.
func (m *Machine) PointerDown(day model.Day, hit *TaskHit) {
	if _, idle := m.state.(Idle); !idle {
		m.logger.Debug("pointer down ignored", "state", m.state.String())
		return
	}

	m.hover = day
	m.enters = 0
	m.state = m.classify(day, hit)
	m.logger.Debug("pointer down", "day", day.String(), "state", m.state.String())
}

func (m *Machine) classify(day model.Day, hit *TaskHit) State {
	if hit == nil {
		return SelectingRange{Anchor: day, Current: day}
	}
	t, ok := m.tasks.Task(hit.TaskID)
	if !ok {
		m.logger.Debug("pointer down on unknown task", "task_id", hit.TaskID)
		return SelectingRange{Anchor: day, Current: day}
	}

	isStart, isEnd := day.Equal(t.Start), day.Equal(t.End)
	switch {
	case isStart && isEnd:
		edge := EdgeRight
		if hit.Offset < 0.5 {
			edge = EdgeLeft
		}
		return ResizingTask{TaskID: t.ID, Edge: edge}
	case isStart:
		return ResizingTask{TaskID: t.ID, Edge: EdgeLeft}
	case isEnd:
		return ResizingTask{TaskID: t.ID, Edge: EdgeRight}
	default:
		return MovingTask{TaskID: t.ID, Anchor: day}
	}
}

// PointerEnter reports the pointer crossing into day. It returns true when
// the selection preview or a task changed.
func (m *Machine) PointerEnter(day model.Day) bool {
	if day.Equal(m.hover) {
		return false
	}
	m.hover = day

	switch s := m.state.(type) {
	case SelectingRange:
		m.enters++
		s.Current = day
		m.state = s
		return true
	case MovingTask:
		m.enters++
		return m.move(s, day)
	case ResizingTask:
		m.enters++
		return m.resize(s, day)
	}
	return false
}

func (m *Machine) move(s MovingTask, day model.Day) bool {
	t, ok := m.tasks.Task(s.TaskID)
	if !ok {
		return false
	}
	start, end := day, day.AddDays(t.Duration())
	if start.Equal(t.Start) {
		return false
	}
	return m.update(t.ID, store.Reschedule(start, end))
}

func (m *Machine) resize(s ResizingTask, day model.Day) bool {
	t, ok := m.tasks.Task(s.TaskID)
	if !ok {
		return false
	}

	if s.Edge == EdgeLeft {
		if day.After(t.End) || day.Equal(t.Start) {
			return false
		}
		return m.update(t.ID, store.SetStart(day))
	}
	if day.Before(t.Start) || day.Equal(t.End) {
		return false
	}
	return m.update(t.ID, store.SetEnd(day))
}

func (m *Machine) update(id int, patch store.TaskPatch) bool {
	if _, err := m.tasks.Update(id, patch); err != nil {
		m.logger.Warn("drag update rejected", "task_id", id, "error", err)
		return false
	}
	return true
}

// PointerUp ends the gesture and returns the machine to Idle. A press and
// release on a task with no pointer-enter in between counts as a click and
// asks for the edit form.
func (m *Machine) PointerUp() Outcome {
	prev := m.state
	enters := m.enters
	m.state = Idle{}
	m.enters = 0

	var out Outcome
	switch s := prev.(type) {
	case SelectingRange:
		out = Outcome{Kind: OutcomeCreate, Range: model.NewDateRange(s.Anchor, s.Current)}
	case MovingTask:
		if enters == 0 {
			out = Outcome{Kind: OutcomeEdit, TaskID: s.TaskID}
		}
	case ResizingTask:
		if enters == 0 {
			out = Outcome{Kind: OutcomeEdit, TaskID: s.TaskID}
		}
	}

	m.logger.Debug("pointer up", "from", prev.String(), "outcome", int(out.Kind))
	return out
}
