package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/month-planner/internal/model"
	"github.com/nhle/month-planner/tests/testutil"
)

func task(id int, title string, cat model.Category, start, end int) model.Task {
	return model.Task{ID: id, Title: title, Category: cat, Start: testutil.Day(start), End: testutil.Day(end)}
}

func fixture() []model.Task {
	return []model.Task{
		task(0, "Draft report", model.CategoryReview, 5, 7),
		task(1, "Plan sprint", model.CategoryToDo, 8, 8),
		task(2, "Write DRAFT notes", model.CategoryInProgress, 15, 18),
		task(3, "Retro", model.CategoryCompleted, 22, 22),
	}
}

func ids(tasks []model.Task) []int {
	out := make([]int, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestApplyCategory(t *testing.T) {
	var c Criteria
	c.ToggleCategory(model.CategoryReview)
	assert.Equal(t, []int{0}, ids(Apply(fixture(), c)))

	c.ToggleCategory(model.CategoryToDo)
	assert.Equal(t, []int{0, 1}, ids(Apply(fixture(), c)))

	c.ToggleCategory(model.CategoryReview)
	c.ToggleCategory(model.CategoryToDo)
	assert.False(t, c.Active())
	assert.Equal(t, []int{0, 1, 2, 3}, ids(Apply(fixture(), c)))
}

func TestApplyTimeWindowUsesDayOfMonth(t *testing.T) {
	tests := []struct {
		window TimeWindow
		want   []int
	}{
		{AllTime, []int{0, 1, 2, 3}},
		{OneWeek, []int{0}},
		{TwoWeeks, []int{0, 1}},
		{ThreeWeeks, []int{0, 1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.window.Label(), func(t *testing.T) {
			got := Apply(fixture(), Criteria{Window: tt.window})
			assert.Equal(t, tt.want, ids(got))
		})
	}

	// Month boundaries are ignored: the 3rd of the next month passes.
	nextMonth := []model.Task{task(9, "later", model.CategoryToDo, 33, 33)}
	assert.Len(t, Apply(nextMonth, Criteria{Window: OneWeek}), 1)
}

func TestApplySearchIsCaseInsensitive(t *testing.T) {
	assert.Equal(t, []int{0, 2}, ids(Apply(fixture(), Criteria{Search: "draft"})))
	assert.Empty(t, Apply(fixture(), Criteria{Search: "xyz"}))
}

func TestApplyCombinesFilters(t *testing.T) {
	c := Criteria{Window: TwoWeeks, Search: "DRAFT"}
	c.ToggleCategory(model.CategoryReview)
	c.ToggleCategory(model.CategoryInProgress)

	assert.Equal(t, []int{0}, ids(Apply(fixture(), c)))
}

func TestApplyIsIdempotentAndPure(t *testing.T) {
	in := fixture()
	c := Criteria{Window: ThreeWeeks, Search: "r"}
	c.ToggleCategory(model.CategoryToDo)
	c.ToggleCategory(model.CategoryInProgress)

	once := Apply(in, c)
	twice := Apply(once, c)
	assert.Equal(t, once, twice)
	assert.Equal(t, fixture(), in)
}

func TestDraftSpecScenario(t *testing.T) {
	s, _ := testutil.NewTestStore(t)
	created := testutil.MustCreate(t, s, "Draft report", model.CategoryReview, 5, 7)

	review := Criteria{}
	review.ToggleCategory(model.CategoryReview)
	assert.Equal(t, []model.Task{created}, Apply(s.Tasks(), review))

	todo := Criteria{}
	todo.ToggleCategory(model.CategoryToDo)
	assert.Empty(t, Apply(s.Tasks(), todo))
}

func TestWindowCycleAndParse(t *testing.T) {
	w := AllTime
	seen := []TimeWindow{w}
	for i := 0; i < 4; i++ {
		w = w.Next()
		seen = append(seen, w)
	}
	assert.Equal(t, []TimeWindow{AllTime, OneWeek, TwoWeeks, ThreeWeeks, AllTime}, seen)

	got, err := ParseWindow("2")
	assert.NoError(t, err)
	assert.Equal(t, TwoWeeks, got)
	_, err = ParseWindow("5")
	assert.Error(t, err)
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "", Criteria{}.Summary())

	c := Criteria{Window: OneWeek, Search: "draft"}
	c.ToggleCategory(model.CategoryReview)
	c.ToggleCategory(model.CategoryToDo)
	assert.Equal(t, `category: To Do, Review | within 1 week | search: "draft"`, c.Summary())

	c.Clear()
	assert.False(t, c.Active())
}
