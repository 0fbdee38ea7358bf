package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/month-planner/internal/model"
)

func TestDaysInViewPadsToWholeWeeks(t *testing.T) {
	tests := []struct {
		name      string
		month     Month
		weekStart time.Weekday
		wantFirst model.Day
		wantLast  model.Day
		wantLen   int
	}{
		{
			// Oct 1 2026 is a Thursday, Oct 31 a Saturday.
			name: "october sunday start", month: Month{2026, time.October}, weekStart: time.Sunday,
			wantFirst: model.NewDay(2026, time.September, 27), wantLast: model.NewDay(2026, time.October, 31), wantLen: 35,
		},
		{
			name: "october monday start", month: Month{2026, time.October}, weekStart: time.Monday,
			wantFirst: model.NewDay(2026, time.September, 28), wantLast: model.NewDay(2026, time.November, 1), wantLen: 35,
		},
		{
			// Feb 2026 starts on Sunday and has exactly four weeks.
			name: "february exact fit", month: Month{2026, time.February}, weekStart: time.Sunday,
			wantFirst: model.NewDay(2026, time.February, 1), wantLast: model.NewDay(2026, time.February, 28), wantLen: 28,
		},
		{
			// Aug 2026 starts on Saturday: six rows.
			name: "six rows", month: Month{2026, time.August}, weekStart: time.Sunday,
			wantFirst: model.NewDay(2026, time.July, 26), wantLast: model.NewDay(2026, time.September, 5), wantLen: 42,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days := NewMonthGrid(tt.weekStart).DaysInView(tt.month)
			require.Len(t, days, tt.wantLen)
			assert.Equal(t, tt.wantFirst, days[0])
			assert.Equal(t, tt.wantLast, days[len(days)-1])
			assert.Equal(t, tt.weekStart, days[0].Weekday())

			for i := 1; i < len(days); i++ {
				assert.Equal(t, 1, days[i-1].DaysUntil(days[i]), "days must be consecutive")
			}
		})
	}
}

func TestMonthNavigation(t *testing.T) {
	dec := Month{2026, time.December}

	assert.Equal(t, Month{2027, time.January}, dec.Next())
	assert.Equal(t, Month{2026, time.November}, dec.Prev())
	assert.Equal(t, Month{2026, time.February}, Month{2026, time.January}.Next())
	assert.Equal(t, model.NewDay(2026, time.February, 28), Month{2026, time.February}.Last())
	assert.Equal(t, "December 2026", dec.Title())
	assert.True(t, dec.Contains(model.NewDay(2026, time.December, 31)))
	assert.False(t, dec.Contains(model.NewDay(2027, time.January, 1)))
}

func TestWeekdays(t *testing.T) {
	assert.Equal(t,
		[]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"},
		NewMonthGrid(time.Monday).Weekdays())
	assert.Equal(t, "9", Format(model.NewDay(2026, time.May, 9)))
	assert.Equal(t, -1, Compare(model.NewDay(2026, time.May, 9), model.NewDay(2026, time.May, 10)))
}
