package stats

import (
	"cmp"
	"slices"

	"github.com/iq-capitalist/iq-capitalist.github.io/internal/domain/model"
)

// HistoryEntry is a player's result in one past tournament.
type HistoryEntry struct {
	TournamentID int         `json:"tournament_id"`
	StartDate    string      `json:"start_date"`
	EndDate      string      `json:"end_date"`
	Level        string      `json:"level"`
	Answers      int         `json:"answers"`
	TotalPoints  float64     `json:"total_points"`
	Prize        float64     `json:"prize"`
	Correct      model.Speed `json:"correct_answers"`
	Wrong        model.Speed `json:"wrong_answers"`
	Timeouts     int         `json:"timeouts"`
}

// PlayerHistory collects the tournaments player took part in, newest first.
// Active tournaments and tournaments without a loaded detail are skipped.
func PlayerHistory(player model.Player, index []model.IndexEntry, details map[int]*model.Tournament) []HistoryEntry {
	var out []HistoryEntry
	for _, e := range index {
		if e.Active() {
			continue
		}
		t, ok := details[e.ID]
		if !ok || t == nil {
			continue
		}
		p, ok := t.FindPlayer(player.UserID, player.Username)
		if !ok {
			continue
		}
		out = append(out, HistoryEntry{
			TournamentID: e.ID,
			StartDate:    e.StartDate,
			EndDate:      e.EndDate,
			Level:        p.Level,
			Answers:      p.Answers,
			TotalPoints:  p.TotalPoints,
			Prize:        p.Prize,
			Correct:      p.Correct(),
			Wrong:        p.Wrong(),
			Timeouts:     p.Timeouts,
		})
	}
	slices.SortStableFunc(out, func(a, b HistoryEntry) int { return cmp.Compare(b.TournamentID, a.TournamentID) })
	return out
}

// Series is chart data over a player's history in ascending tournament order.
type Series struct {
	Tournaments []int     `json:"tournaments"`
	Answers     []int     `json:"answers"`
	Points      []float64 `json:"points"`
	Prizes      []float64 `json:"prizes"`
	// Stacked answer breakdown; wrong answers are negative so they stack below zero.
	Timeouts      []int `json:"timeouts"`
	CorrectFast   []int `json:"correct_fast"`
	CorrectMedium []int `json:"correct_medium"`
	CorrectSlow   []int `json:"correct_slow"`
	WrongFast     []int `json:"wrong_fast"`
	WrongMedium   []int `json:"wrong_medium"`
	WrongSlow     []int `json:"wrong_slow"`
}

// BuildSeries turns a history into chart series.
func BuildSeries(history []HistoryEntry) Series {
	sorted := slices.Clone(history)
	slices.SortStableFunc(sorted, func(a, b HistoryEntry) int { return cmp.Compare(a.TournamentID, b.TournamentID) })

	var s Series
	for _, h := range sorted {
		s.Tournaments = append(s.Tournaments, h.TournamentID)
		s.Answers = append(s.Answers, h.Answers)
		s.Points = append(s.Points, h.TotalPoints)
		s.Prizes = append(s.Prizes, h.Prize)
		s.Timeouts = append(s.Timeouts, h.Timeouts)
		s.CorrectFast = append(s.CorrectFast, h.Correct.Fast)
		s.CorrectMedium = append(s.CorrectMedium, h.Correct.Medium)
		s.CorrectSlow = append(s.CorrectSlow, h.Correct.Slow)
		s.WrongFast = append(s.WrongFast, -h.Wrong.Fast)
		s.WrongMedium = append(s.WrongMedium, -h.Wrong.Medium)
		s.WrongSlow = append(s.WrongSlow, -h.Wrong.Slow)
	}
	return s
}
