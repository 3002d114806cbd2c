package pipeline

// State is the UI state of one view. It is a value: every transition
// returns a new State and leaves the receiver untouched.
type State struct {
	Sort   SortKey `json:"sort"`
	Page   int     `json:"page"`
	Search string  `json:"search"`
	Level  string  `json:"level,omitempty"`
}

// SetSearch replaces the search term and returns to the first page.
func (s State) SetSearch(term string) State {
	s.Search = term
	s.Page = 1
	return s
}

// SetSort selects column. Selecting the active column toggles its direction;
// a new column starts in initial. The page resets to 1.
func (s State) SetSort(column string, initial Direction) State {
	if s.Sort.Column == column {
		s.Sort.Direction = s.Sort.Direction.Toggle()
	} else {
		s.Sort = SortKey{Column: column, Direction: initial}
	}
	s.Page = 1
	return s
}

// SetPage moves to page n. Out-of-range requests leave the state unchanged and report false.
func (s State) SetPage(n, totalPages int) (State, bool) {
	if n < 1 || n > totalPages {
		return s, false
	}
	s.Page = n
	return s, true
}

// SetLevel scopes the view to another level and returns to the first page.
func (s State) SetLevel(level string) State {
	s.Level = level
	s.Page = 1
	return s
}
