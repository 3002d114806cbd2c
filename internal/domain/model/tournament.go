package model

import (
	"encoding/json"
	"fmt"
)

// StatusActive marks a tournament that is still running.
const StatusActive = "active"

// DefaultTotalQuestions is assumed for index entries that omit total_questions.
const DefaultTotalQuestions = 80

// Speed splits answers by how quickly they were given.
type Speed struct {
	Fast   int `json:"fast"`
	Medium int `json:"medium"`
	Slow   int `json:"slow"`
}

// Sum returns fast+medium+slow.
func (s Speed) Sum() int { return s.Fast + s.Medium + s.Slow }

// TournamentPlayer is one participant's result in a tournament detail document.
type TournamentPlayer struct {
	UserID         int64   `json:"user_id,omitempty"`
	Username       string  `json:"username"`
	Level          string  `json:"level"`
	CorrectAnswers *Speed  `json:"correct_answers,omitempty"`
	WrongAnswers   *Speed  `json:"wrong_answers,omitempty"`
	Timeouts       int     `json:"timeouts"`
	Answers        int     `json:"answers"`
	TotalPoints    float64 `json:"total_points"`
	Prize          float64 `json:"prize"`
}

// Correct returns the answers breakdown, zero when absent.
func (p TournamentPlayer) Correct() Speed {
	if p.CorrectAnswers == nil {
		return Speed{}
	}
	return *p.CorrectAnswers
}

// Wrong returns the wrong answers breakdown, zero when absent.
func (p TournamentPlayer) Wrong() Speed {
	if p.WrongAnswers == nil {
		return Speed{}
	}
	return *p.WrongAnswers
}

// TournamentInfo is the header block of a tournament detail document.
type TournamentInfo struct {
	ID             int    `json:"id"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	TotalQuestions int    `json:"total_questions"`
	Status         string `json:"status,omitempty"`
}

// TournamentStats aggregates a tournament detail document.
type TournamentStats struct {
	PlayersByLevel map[string]int     `json:"players_by_level"`
	TotalPlayers   int                `json:"total_players"`
	TotalPrizePool *float64           `json:"total_prize_pool,omitempty"`
	PrizeByLevel   map[string]float64 `json:"prize_by_level"`
}

// Tournament is the immutable export of one tournament ({id}.json).
type Tournament struct {
	Info    *TournamentInfo    `json:"tournament"`
	Players []TournamentPlayer `json:"players"`
	Stats   TournamentStats    `json:"stats"`
}

// DecodeTournament parses a tournament detail document.
func DecodeTournament(data []byte) (*Tournament, error) {
	var t Tournament
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%w: tournament: %w", ErrMalformed, err)
	}
	if t.Info == nil {
		return nil, fmt.Errorf("%w: tournament block is missing", ErrMalformed)
	}
	return &t, nil
}

// FindPlayer matches by user id first, then by username.
func (t *Tournament) FindPlayer(userID int64, username string) (TournamentPlayer, bool) {
	if userID != 0 {
		for _, p := range t.Players {
			if p.UserID == userID {
				return p, true
			}
		}
	}
	for _, p := range t.Players {
		if p.Username == username {
			return p, true
		}
	}
	return TournamentPlayer{}, false
}

// AnswerStats are the answer totals carried by an index entry.
type AnswerStats struct {
	CorrectAnswers *Speed `json:"correct_answers,omitempty"`
	WrongAnswers   *Speed `json:"wrong_answers,omitempty"`
	Timeouts       int    `json:"timeouts"`
}

// Correct sums the correct answers; an absent breakdown counts as zero.
func (a AnswerStats) Correct() int {
	if a.CorrectAnswers == nil {
		return 0
	}
	return a.CorrectAnswers.Sum()
}

// Wrong sums the wrong answers; an absent breakdown counts as zero.
func (a AnswerStats) Wrong() int {
	if a.WrongAnswers == nil {
		return 0
	}
	return a.WrongAnswers.Sum()
}

type IndexEntry struct {
	ID             int            `json:"id"`
	StartDate      string         `json:"start_date"`
	EndDate        string         `json:"end_date"`
	Status         string         `json:"status"`
	TotalPlayers   int            `json:"total_players"`
	TotalPrize     float64        `json:"total_prize"`
	TotalQuestions *int           `json:"total_questions,omitempty"`
	TotalAnswers   int            `json:"total_answers"`
	PlayersByLevel map[string]int `json:"players_by_level"`
	AnswersStats   *AnswerStats   `json:"answers_stats,omitempty"`
}

// Questions returns total_questions or the default when absent.
func (e IndexEntry) Questions() int {
	if e.TotalQuestions == nil {
		return DefaultTotalQuestions
	}
	return *e.TotalQuestions
}

// Active reports whether the tournament is still running.
func (e IndexEntry) Active() bool { return e.Status == StatusActive }

// Index is the tournaments index document.
type Index struct {
	Tournaments []IndexEntry `json:"tournaments"`
}

// DecodeIndex parses the tournaments index; the tournaments field must be an array.
func DecodeIndex(data []byte) (*Index, error) {
	var raw struct {
		Tournaments json.RawMessage `json:"tournaments"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: index: %w", ErrMalformed, err)
	}
	if len(raw.Tournaments) == 0 || raw.Tournaments[0] != '[' {
		return nil, fmt.Errorf("%w: index tournaments is not an array", ErrMalformed)
	}
	var idx Index
	if err := json.Unmarshal(raw.Tournaments, &idx.Tournaments); err != nil {
		return nil, fmt.Errorf("%w: index: %w", ErrMalformed, err)
	}
	return &idx, nil
}
