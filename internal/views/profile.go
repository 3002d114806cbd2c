package views

import (
	"fmt"

	"github.com/iq-capitalist/iq-capitalist.github.io/internal/domain/levels"
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/domain/model"
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/domain/stats"
)

// Profile is a player's page: the roster record and tournament history.
type Profile struct {
	Player     model.Player         `json:"player"`
	Range      string               `json:"range"`
	LastUpdate string               `json:"last_update,omitempty"`
	History    []stats.HistoryEntry `json:"history"`
	Series     stats.Series         `json:"series"`
}

// Profile finds a player by numeric id or username and collects their history.
func (r *Registry) Profile(b *model.Bundle, idOrName string) (Profile, error) {
	if b == nil || b.Roster == nil {
		return Profile{}, ErrUnavailable
	}
	p, ok := b.Roster.Find(idOrName)
	if !ok {
		return Profile{}, fmt.Errorf("%w: player %q", ErrNotFound, idOrName)
	}
	out := Profile{Player: p, Range: levels.RangeLabel(p.Level), LastUpdate: b.Roster.LastUpdate}
	if b.Index != nil {
		out.History = stats.PlayerHistory(p, b.Index.Tournaments, b.Tournaments)
	}
	out.Series = stats.BuildSeries(out.History)
	return out, nil
}
