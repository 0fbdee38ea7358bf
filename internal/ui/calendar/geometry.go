package calendar

import (
	"sort"

	grid "github.com/nhle/month-planner/internal/calendar"
	"github.com/nhle/month-planner/internal/interaction"
	"github.com/nhle/month-planner/internal/model"
)

// headerRows is the weekday heading above the first week.
const headerRows = 1

const (
	minCellWidth  = 4
	minCellHeight = 2
)

// Segment is one bar drawn across day cells: a task, or the selection
// preview when Preview is set.
type Segment struct {
	TaskID   int
	Title    string
	Category model.Category
	Range    model.DateRange
	Preview  bool
}

// Geometry places day cells and segment lanes on screen. Rendering and
// mouse hit testing both read from the same Geometry, so what is drawn
// is what gets clicked.
type Geometry struct {
	Days       []model.Day
	CellWidth  int
	CellHeight int
	// OriginX, OriginY are the screen coordinates of the first cell.
	OriginX int
	OriginY int

	// lanes[week][lane] holds non-overlapping segments for that week row.
	lanes [][][]Segment
}

// Layout computes the geometry for days drawn inside a width x height
// area whose top-left corner is at screen (left, top).
func Layout(days []model.Day, segments []Segment, left, top, width, height int) Geometry {
	weeks := len(days) / grid.DaysPerWeek
	g := Geometry{
		Days:       days,
		CellWidth:  max(width/grid.DaysPerWeek, minCellWidth),
		CellHeight: minCellHeight,
		OriginX:    left,
		OriginY:    top + headerRows,
	}
	if weeks > 0 {
		g.CellHeight = max((height-headerRows)/weeks, minCellHeight)
	}

	g.lanes = make([][][]Segment, weeks)
	for w := range weeks {
		g.lanes[w] = assignLanes(days[w*grid.DaysPerWeek:(w+1)*grid.DaysPerWeek], segments)
	}
	return g
}

// assignLanes places every segment overlapping week into the first lane
// where it does not collide. Earlier and longer tasks get the top lanes;
// the preview always goes last so existing bars do not jump.
func assignLanes(week []model.Day, segments []Segment) [][]Segment {
	span := model.DateRange{Start: week[0], End: week[len(week)-1]}

	var inWeek []Segment
	for _, s := range segments {
		if s.Range.Start.After(span.End) || s.Range.End.Before(span.Start) {
			continue
		}
		inWeek = append(inWeek, s)
	}

	sort.SliceStable(inWeek, func(i, j int) bool {
		a, b := inWeek[i], inWeek[j]
		if a.Preview != b.Preview {
			return b.Preview
		}
		if c := a.Range.Start.Compare(b.Range.Start); c != 0 {
			return c < 0
		}
		if da, db := a.Range.Days(), b.Range.Days(); da != db {
			return da > db
		}
		return a.TaskID < b.TaskID
	})

	var lanes [][]Segment
	for _, s := range inWeek {
		placed := false
		for i := range lanes {
			if !collides(lanes[i], s) {
				lanes[i] = append(lanes[i], s)
				placed = true
				break
			}
		}
		if !placed {
			lanes = append(lanes, []Segment{s})
		}
	}
	return lanes
}

func collides(lane []Segment, s Segment) bool {
	for _, other := range lane {
		if !s.Range.Start.After(other.Range.End) && !s.Range.End.Before(other.Range.Start) {
			return true
		}
	}
	return false
}

// Weeks returns the number of week rows.
func (g Geometry) Weeks() int {
	return len(g.Days) / grid.DaysPerWeek
}

// VisibleLanes is how many segment lines fit under a cell's date line.
func (g Geometry) VisibleLanes() int {
	return g.CellHeight - 1
}

// Width returns the drawn width of the grid.
func (g Geometry) Width() int {
	return g.CellWidth * grid.DaysPerWeek
}

// Slots returns, for the day at index i, the segment in each lane of its
// week (nil where the lane is empty on that day).
func (g Geometry) Slots(i int) []*Segment {
	week := i / grid.DaysPerWeek
	d := g.Days[i]

	out := make([]*Segment, len(g.lanes[week]))
	for lane, segs := range g.lanes[week] {
		for k := range segs {
			if segs[k].Range.Contains(d) {
				out[lane] = &segs[k]
				break
			}
		}
	}
	return out
}

// Hidden returns how many segments on day i do not fit in the cell. When
// some are hidden the last visible line becomes a "+N" marker, so the
// segment that would have used it is counted too.
func (g Geometry) Hidden(i int) int {
	slots := g.Slots(i)
	visible := g.VisibleLanes()
	if len(slots) <= visible || countNonNil(slots[visible:]) == 0 {
		return 0
	}
	return countNonNil(slots[visible-1:])
}

func countNonNil(slots []*Segment) int {
	n := 0
	for _, s := range slots {
		if s != nil {
			n++
		}
	}
	return n
}

// CellAt returns the index into Days of the cell under screen (x, y).
func (g Geometry) CellAt(x, y int) (int, bool) {
	dx, dy := x-g.OriginX, y-g.OriginY
	if dx < 0 || dy < 0 || dx >= g.Width() || dy >= g.CellHeight*g.Weeks() {
		return 0, false
	}
	return (dy/g.CellHeight)*grid.DaysPerWeek + dx/g.CellWidth, true
}

// Hit resolves screen (x, y) to a day and, when the position is on a task
// bar, the task and the horizontal offset inside the cell.
func (g Geometry) Hit(x, y int) (model.Day, *interaction.TaskHit, bool) {
	i, ok := g.CellAt(x, y)
	if !ok {
		return model.Day{}, nil, false
	}
	day := g.Days[i]

	line := (y - g.OriginY) % g.CellHeight
	lane := line - 1
	if lane < 0 || lane >= g.VisibleLanes() {
		return day, nil, true
	}
	if g.Hidden(i) > 0 && lane == g.VisibleLanes()-1 {
		return day, nil, true
	}

	slots := g.Slots(i)
	if lane >= len(slots) || slots[lane] == nil || slots[lane].Preview {
		return day, nil, true
	}

	offset := float64((x-g.OriginX)%g.CellWidth) / float64(g.CellWidth)
	return day, &interaction.TaskHit{TaskID: slots[lane].TaskID, Offset: offset}, true
}
