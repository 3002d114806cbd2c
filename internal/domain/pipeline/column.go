// Package pipeline implements the leaderboard view pipeline:
// filter, sort, group and paginate over an immutable record slice,
// driven by an explicit UI state value.
package pipeline

import "strings"

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Toggle flips the direction.
func (d Direction) Toggle() Direction {
	if d == Asc {
		return Desc
	}
	return Asc
}

// ParseDirection accepts "asc" or "desc" in any case.
func ParseDirection(s string) (Direction, bool) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case Asc:
		return Asc, true
	case Desc:
		return Desc, true
	}
	return "", false
}

// Kind decides how a column compares.
type Kind int

const (
	// Text columns compare with locale collation.
	Text Kind = iota
	// Number columns compare arithmetically.
	Number
)

// Column describes one sortable field of T.
type Column[T any] struct {
	Name string
	Kind Kind
	// Text extracts the value of a Text column.
	Text func(T) string
	// Number extracts the value of a Number column.
	Number func(T) float64
	// DefaultDirection applies when the column is first selected. Empty means Desc.
	DefaultDirection Direction
}

func (c Column[T]) initialDirection() Direction {
	if c.DefaultDirection == "" {
		return Desc
	}
	return c.DefaultDirection
}

// SortKey names a column and a direction.
type SortKey struct {
	Column    string    `json:"column"`
	Direction Direction `json:"direction"`
}

// Columns is an ordered column set.
type Columns[T any] []Column[T]

// Lookup finds a column by name.
func (cs Columns[T]) Lookup(name string) (Column[T], bool) {
	for _, c := range cs {
		if c.Name == name {
			return c, true
		}
	}
	return Column[T]{}, false
}
