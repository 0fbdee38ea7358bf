package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	for _, c := range Categories() {
		got, err := ParseCategory(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	_, err := ParseCategory("Blocked")
	assert.ErrorIs(t, err, ErrUnknownCategory)
	assert.False(t, Category(0).Valid())
}

func TestTaskValidate(t *testing.T) {
	day := NewDay(2026, time.June, 10)
	base := Task{ID: 1, Title: "Draft report", Category: CategoryReview, Start: day, End: day.AddDays(2)}

	tests := []struct {
		name    string
		mutate  func(*Task)
		wantErr error
	}{
		{"valid", func(*Task) {}, nil},
		{"single day", func(t *Task) { t.End = t.Start }, nil},
		{"blank title", func(t *Task) { t.Title = "   " }, ErrEmptyTitle},
		{"bad category", func(t *Task) { t.Category = 99 }, ErrUnknownCategory},
		{"reversed", func(t *Task) { t.Start, t.End = t.End, t.Start }, ErrInvalidRange},
		{"missing end", func(t *Task) { t.End = Day{} }, ErrInvalidRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := base
			tt.mutate(&task)
			err := task.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTaskSpan(t *testing.T) {
	task := Task{Start: NewDay(2026, time.June, 2), End: NewDay(2026, time.June, 5)}

	assert.Equal(t, 3, task.Duration())
	assert.True(t, task.Covers(NewDay(2026, time.June, 4)))
	assert.False(t, task.Covers(NewDay(2026, time.June, 6)))
	assert.False(t, task.IsSingleDay())
}

func TestTaskSerializedForm(t *testing.T) {
	task := Task{
		ID:       7,
		Title:    "Draft report",
		Category: CategoryInProgress,
		Start:    NewDay(2026, time.June, 5),
		End:      NewDay(2026, time.June, 7),
	}

	data, err := json.Marshal(task)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"id":7,"title":"Draft report","category":"In Progress","start":"2026-06-05","end":"2026-06-07"}`,
		string(data))

	var back Task
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, task, back)
}
