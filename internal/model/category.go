package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownCategory is returned when a category label or value is not one
// of the fixed categories.
var ErrUnknownCategory = errors.New("unknown category")

// Category classifies a task. The set is closed.
type Category int

const (
	CategoryToDo Category = iota + 1
	CategoryInProgress
	CategoryReview
	CategoryCompleted
)

var categoryLabels = map[Category]string{
	CategoryToDo:       "To Do",
	CategoryInProgress: "In Progress",
	CategoryReview:     "Review",
	CategoryCompleted:  "Completed",
}

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{
		CategoryToDo,
		CategoryInProgress,
		CategoryReview,
		CategoryCompleted,
	}
}

// ParseCategory maps a persisted label back to its category.
func ParseCategory(label string) (Category, error) {
	for c, l := range categoryLabels {
		if l == label {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, label)
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// String returns the display label, which is also the persisted form.
func (c Category) String() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// MarshalJSON encodes the category as its label.
func (c Category) MarshalJSON() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCategory, int(c))
	}
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes a category label.
func (c *Category) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return fmt.Errorf("category must be a string: %w", err)
	}
	parsed, err := ParseCategory(label)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
