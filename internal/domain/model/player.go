// Package model contains the records decoded from the published JSON snapshots.
package model

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Player is one participant's aggregate state from the players roster.
type Player struct {
	UserID            int64   `json:"user_id,omitempty"`
	Username          string  `json:"username"`
	Level             string  `json:"level"`
	Capital           float64 `json:"capital"`
	Wallet            float64 `json:"wallet"`
	AllQuestions      int     `json:"all_questions"`
	RemainingBoosters *int    `json:"remaining_boosters,omitempty"`
	Tickets           *int    `json:"tickets,omitempty"`
}

// Boosters returns remaining boosters, zero when absent.
func (p Player) Boosters() int {
	if p.RemainingBoosters == nil {
		return 0
	}
	return *p.RemainingBoosters
}

// Active reports whether the player has answered at least one question.
func (p Player) Active() bool { return p.AllQuestions > 0 }

// Roster is the players document (all_data.json).
type Roster struct {
	LastUpdate string   `json:"lastUpdate"`
	Players    []Player `json:"players"`
}

// DecodeRoster parses the players document.
func DecodeRoster(data []byte) (*Roster, error) {
	var r Roster
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: roster: %w", ErrMalformed, err)
	}
	if r.Players == nil {
		return nil, fmt.Errorf("%w: roster has no players array", ErrMalformed)
	}
	for i, p := range r.Players {
		if p.AllQuestions < 0 {
			return nil, fmt.Errorf("%w: player %q has negative all_questions", ErrMalformed, r.Players[i].Username)
		}
	}
	return &r, nil
}

// Find looks a player up by numeric user id, falling back to an exact username match.
func (r *Roster) Find(idOrName string) (Player, bool) {
	if id, err := strconv.ParseInt(idOrName, 10, 64); err == nil {
		for _, p := range r.Players {
			if p.UserID != 0 && p.UserID == id {
				return p, true
			}
		}
	}
	for _, p := range r.Players {
		if p.Username == idOrName {
			return p, true
		}
	}
	return Player{}, false
}
