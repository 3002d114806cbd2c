package model

import "time"

// Bundle is every document loaded by one refresh. Ratings and Index may be
// nil when their documents were unavailable. A Bundle is never modified
// after it is published.
type Bundle struct {
	Roster      *Roster
	Ratings     *Ratings
	Index       *Index
	Tournaments map[int]*Tournament
	LoadedAt    time.Time
}

// Tournament returns the loaded detail document of tournament id.
func (b *Bundle) Tournament(id int) (*Tournament, bool) {
	t, ok := b.Tournaments[id]
	return t, ok && t != nil
}
