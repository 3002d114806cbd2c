package model

import (
	"encoding/json"
	"fmt"
)

// Rating is one participant's entry in the current tournament rating table.
// Winnings is derived from the level's prize pool and never read from the document.
type Rating struct {
	Username            string  `json:"username"`
	Points              float64 `json:"points"`
	Capital             float64 `json:"capital"`
	Wallet              float64 `json:"wallet"`
	TournamentQuestions int     `json:"tournament_questions"`
	RemainingBoosters   int     `json:"remaining_boosters"`
	HasActiveBoosters   bool    `json:"has_active_boosters"`
	Winnings            int64   `json:"-"`
}

// Ratings is the rating document (data.json).
type Ratings struct {
	LastUpdate   string              `json:"lastUpdate"`
	PrizePoolAma *float64            `json:"prizePoolAma"`
	PrizePoolPro *float64            `json:"prizePoolPro"`
	Levels       map[string][]Rating `json:"ratings"`
}

// DecodeRatings parses the rating document.
func DecodeRatings(data []byte) (*Ratings, error) {
	var r Ratings
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: ratings: %w", ErrMalformed, err)
	}
	if r.Levels == nil {
		r.Levels = map[string][]Rating{}
	}
	return &r, nil
}
