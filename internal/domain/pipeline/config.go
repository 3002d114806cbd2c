package pipeline

import (
	"fmt"

	"golang.org/x/text/language"
)

// Config is the declarative description of one view. A single Config
// instance is shared by all requests for that view and must not be mutated.
type Config[T any] struct {
	Name    string
	Columns Columns[T]

	// SearchFields returns the text fields the search term is matched against.
	SearchFields func(T) []string
	// Predicates always apply, independent of the search term.
	Predicates []func(T) bool

	DefaultSort SortKey
	// TieBreak keys are consulted in order when the active sort key ties.
	TieBreak []SortKey

	// GroupBy and GroupOrder section the result into fixed-order buckets.
	// Grouped views are not paginated.
	GroupBy     func(T) string
	GroupOrder  []string
	EmptyGroups EmptyGroups

	// LevelOf scopes the records to State.Level before filtering, when set.
	LevelOf func(T) string

	// PageSize of zero or less disables pagination.
	PageSize int

	Locale language.Tag
}

// Validate checks that every referenced column exists.
func (c *Config[T]) Validate() error {
	keys := append([]SortKey{c.DefaultSort}, c.TieBreak...)
	for _, k := range keys {
		col, ok := c.Columns.Lookup(k.Column)
		if !ok {
			return fmt.Errorf("%w: view %s: %w: %q", ErrInvalidConfig, c.Name, ErrUnknownColumn, k.Column)
		}
		if (col.Kind == Number && col.Number == nil) || (col.Kind == Text && col.Text == nil) {
			return fmt.Errorf("%w: view %s: column %q has no accessor", ErrInvalidConfig, c.Name, col.Name)
		}
	}
	if c.GroupBy != nil && len(c.GroupOrder) == 0 {
		return fmt.Errorf("%w: view %s: grouping without an order", ErrInvalidConfig, c.Name)
	}
	return nil
}

// Initial returns the state a fresh view starts in.
func (c *Config[T]) Initial(level string) State {
	return State{Sort: c.DefaultSort, Page: 1, Level: level}
}

// ToggleSort applies a sort-header selection to s.
func (c *Config[T]) ToggleSort(s State, column string) (State, error) {
	col, ok := c.Columns.Lookup(column)
	if !ok {
		return s, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	return s.SetSort(column, col.initialDirection()), nil
}

// Result is the output of one pipeline run.
type Result[T any] struct {
	// State is the state the result was produced for. Its page may differ
	// from the requested one when that page no longer exists.
	State         State
	Groups        []Bucket[T]
	Items         []T
	Offset        int
	TotalPages    int
	TotalFiltered int
}

// Run executes scope, filter, sort, group and paginate for state.
func (c *Config[T]) Run(records []T, state State) (Result[T], error) {
	if state.Sort.Column == "" {
		state.Sort = c.DefaultSort
	}
	if state.Sort.Direction == "" {
		state.Sort.Direction = Desc
	}

	scoped := records
	if c.LevelOf != nil && state.Level != "" {
		scoped = Filter(records, "", nil, func(r T) bool { return c.LevelOf(r) == state.Level })
	}

	filtered := Filter(scoped, state.Search, c.SearchFields, c.Predicates...)
	sorted, err := Sort(filtered, c.Columns, state.Sort, c.TieBreak, c.Locale)
	if err != nil {
		return Result[T]{}, err
	}

	res := Result[T]{TotalFiltered: len(sorted), TotalPages: 1}
	if c.GroupBy != nil {
		state.Page = 1
		res.State = state
		res.Groups = Group(sorted, c.GroupBy, c.GroupOrder, c.EmptyGroups)
		// Records outside the group order are not shown and not counted.
		res.TotalFiltered = 0
		for _, g := range res.Groups {
			res.TotalFiltered += g.Count()
		}
		return res, nil
	}

	page, ok := Paginate(sorted, c.PageSize, state.Page)
	if !ok {
		state.Page = 1
		page, _ = Paginate(sorted, c.PageSize, 1)
	}
	res.State = state
	res.Items = page.Items
	res.Offset = page.Offset
	res.TotalPages = page.TotalPages
	return res, nil
}
