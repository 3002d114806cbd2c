// Package render turns pipeline output into renderer-agnostic view models.
package render

import (
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/domain/pipeline"
)

// Empty-result messages.
const (
	MsgNoMatches = "Ничего не найдено"
	MsgNoData    = "Нет данных для отображения"
)

// EmptyMessage distinguishes a search without matches from an empty dataset.
func EmptyMessage(searchActive bool) string {
	if searchActive {
		return MsgNoMatches
	}
	return MsgNoData
}

// Align of a column.
type Align string

const (
	Left  Align = "left"
	Right Align = "right"
)

// Field describes how one column of T is displayed.
type Field[T any] struct {
	Column   string
	Label    string
	Align    Align
	Sortable bool
	// Value returns the raw value and its display text.
	Value func(T, Formatter) (any, string)
}

// Header is a rendered column header.
type Header struct {
	Column    string             `json:"column"`
	Label     string             `json:"label"`
	Align     Align              `json:"align"`
	Sortable  bool               `json:"sortable"`
	Active    bool               `json:"active,omitempty"`
	Direction pipeline.Direction `json:"direction,omitempty"`
}

// Cell is one rendered value.
type Cell struct {
	Column string `json:"column"`
	Raw    any    `json:"raw"`
	Text   string `json:"text"`
}

// Row is one rendered record. Rank is the 1-based position in the full sorted list.
type Row struct {
	Rank  int    `json:"rank"`
	Cells []Cell `json:"cells"`
}

// Table is a titled, rendered list.
type Table struct {
	Title   string   `json:"title,omitempty"`
	Label   string   `json:"label,omitempty"`
	Count   int      `json:"count"`
	Headers []Header `json:"headers"`
	Rows    []Row    `json:"rows"`
	Empty   string   `json:"empty,omitempty"`
}

// Headers renders the header row, marking the active sort column.
func Headers[T any](fields []Field[T], sort pipeline.SortKey) []Header {
	out := make([]Header, len(fields))
	for i, f := range fields {
		h := Header{Column: f.Column, Label: f.Label, Align: f.Align, Sortable: f.Sortable}
		if f.Sortable && f.Column == sort.Column {
			h.Active = true
			h.Direction = sort.Direction
		}
		if h.Align == "" {
			h.Align = Left
		}
		out[i] = h
	}
	return out
}

// Rows renders items; offset is the number of records before the first item.
func Rows[T any](fields []Field[T], items []T, offset int, f Formatter) []Row {
	out := make([]Row, len(items))
	for i, item := range items {
		cells := make([]Cell, len(fields))
		for j, fd := range fields {
			raw, text := fd.Value(item, f)
			cells[j] = Cell{Column: fd.Column, Raw: raw, Text: text}
		}
		out[i] = Row{Rank: offset + i + 1, Cells: cells}
	}
	return out
}

// NewTable renders a complete table. Tables without rows carry the empty message.
func NewTable[T any](title string, fields []Field[T], items []T, offset, count int, sort pipeline.SortKey, searchActive bool, f Formatter) Table {
	t := Table{
		Title:   title,
		Count:   count,
		Headers: Headers(fields, sort),
		Rows:    Rows(fields, items, offset, f),
	}
	if len(t.Rows) == 0 {
		t.Empty = EmptyMessage(searchActive)
	}
	return t
}
