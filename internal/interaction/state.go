// Package interaction turns pointer events over the month grid into range
// selections and incremental task moves and resizes.
package interaction

import (
	"fmt"

	"github.com/nhle/month-planner/internal/model"
)

// State is one of Idle, SelectingRange, MovingTask or ResizingTask.
type State interface {
	fmt.Stringer
	state()
}

// Idle means no pointer button is held.
type Idle struct{}

// SelectingRange is a new-task drag across empty cells.
type SelectingRange struct {
	Anchor  model.Day
	Current model.Day
}

// MovingTask drags a whole task; its duration is preserved.
type MovingTask struct {
	TaskID int
	Anchor model.Day
}

// ResizingTask drags one endpoint of a task.
type ResizingTask struct {
	TaskID int
	Edge   Edge
}

func (Idle) state()           {}
func (SelectingRange) state() {}
func (MovingTask) state()     {}
func (ResizingTask) state()   {}

func (Idle) String() string { return "idle" }

func (s SelectingRange) String() string {
	return fmt.Sprintf("selecting %s", model.NewDateRange(s.Anchor, s.Current))
}

func (s MovingTask) String() string {
	return fmt.Sprintf("moving task %d from %s", s.TaskID, s.Anchor)
}

func (s ResizingTask) String() string {
	return fmt.Sprintf("resizing task %d %s edge", s.TaskID, s.Edge)
}

// Edge names the endpoint a resize adjusts.
type Edge int

const (
	EdgeLeft Edge = iota
	EdgeRight
)

func (e Edge) String() string {
	if e == EdgeLeft {
		return "left"
	}
	return "right"
}

// TaskHit describes a pointer-down that landed on a rendered task segment.
type TaskHit struct {
	TaskID int
	// Offset is the horizontal position inside the day cell, in [0,1).
	Offset float64
}

// OutcomeKind says what the UI should do after a pointer-up.
type OutcomeKind int

const (
	OutcomeNone OutcomeKind = iota
	// OutcomeCreate asks for the create form over Outcome.Range.
	OutcomeCreate
	// OutcomeEdit asks for the edit form for Outcome.TaskID.
	OutcomeEdit
)

// Outcome is the result of releasing the pointer.
type Outcome struct {
	Kind   OutcomeKind
	Range  model.DateRange
	TaskID int
}
