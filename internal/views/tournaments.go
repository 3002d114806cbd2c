package views

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/iq-capitalist/iq-capitalist.github.io/internal/domain/levels"
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/domain/model"
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/domain/stats"
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/render"
)

// MsgNotAvailable marks a tournament figure missing from the document.
const MsgNotAvailable = "Н/Д"

// Badge is a level participant count on a tournament card.
type Badge struct {
	Level string `json:"level"`
	Count int    `json:"count"`
}

// TournamentCard summarises one index entry.
type TournamentCard struct {
	ID           int            `json:"id"`
	Title        string         `json:"title"`
	StartDate    string         `json:"start_date"`
	EndDate      string         `json:"end_date"`
	Status       string         `json:"status"`
	Active       bool           `json:"active"`
	Players      int            `json:"players"`
	PlayersText  string         `json:"players_text"`
	PrizeText    string         `json:"prize_text"`
	Questions    int            `json:"questions"`
	Answers      int            `json:"answers"`
	AnswersText  string         `json:"answers_text"`
	AnswersLabel string         `json:"answers_label"`
	Badges       []Badge        `json:"badges"`
	Totals       stats.Totals   `json:"totals"`
	Percents     stats.Percents `json:"percents"`
}

// TournamentDetail is the header and aggregate section of a tournament page.
type TournamentDetail struct {
	ID             int                `json:"id"`
	Title          string             `json:"title"`
	StartDate      string             `json:"start_date"`
	EndDate        string             `json:"end_date"`
	Status         string             `json:"status,omitempty"`
	QuestionsText  string             `json:"questions_text"`
	PlayersText    string             `json:"players_text"`
	PrizePoolText  string             `json:"prize_pool_text"`
	Distribution   []stats.LevelShare `json:"distribution"`
	Answers        stats.Totals       `json:"answers"`
	AnswerPercents stats.Percents     `json:"answer_percents"`
	Breakdown      []stats.Row        `json:"breakdown"`
}

func tournamentTitle(id int) string { return fmt.Sprintf("Турнир №%d", id) }

// Tournaments builds the history cards, newest start date first.
func (r *Registry) Tournaments(b *model.Bundle) ([]TournamentCard, error) {
	if b == nil || b.Index == nil {
		return nil, ErrUnavailable
	}
	entries := slices.Clone(b.Index.Tournaments)
	slices.SortStableFunc(entries, func(x, y model.IndexEntry) int {
		if c := cmp.Compare(y.StartDate, x.StartDate); c != 0 {
			return c
		}
		return cmp.Compare(y.ID, x.ID)
	})

	f := r.format
	cards := make([]TournamentCard, 0, len(entries))
	for _, e := range entries {
		totals, total := stats.IndexTotals(e)
		card := TournamentCard{
			ID:           e.ID,
			Title:        tournamentTitle(e.ID),
			StartDate:    e.StartDate,
			EndDate:      e.EndDate,
			Status:       e.Status,
			Active:       e.Active(),
			Players:      e.TotalPlayers,
			PlayersText:  f.Int(float64(e.TotalPlayers)),
			PrizeText:    f.Number(e.TotalPrize),
			Questions:    e.Questions(),
			Answers:      total,
			AnswersText:  f.Int(float64(total)),
			AnswersLabel: render.PluralizeAnswers(total),
			Totals:       totals,
			Percents:     stats.NormalizedPercents(totals, total),
		}
		for _, l := range levels.HistoryOrder {
			if n := e.PlayersByLevel[l]; n > 0 {
				card.Badges = append(card.Badges, Badge{Level: l, Count: n})
			}
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// Tournament builds the detail header of tournament id.
func (r *Registry) Tournament(b *model.Bundle, id int) (TournamentDetail, error) {
	if b == nil {
		return TournamentDetail{}, ErrUnavailable
	}
	t, err := tournamentOf(b, id)
	if err != nil {
		return TournamentDetail{}, err
	}
	f := r.format
	d := TournamentDetail{
		ID:            t.Info.ID,
		Title:         tournamentTitle(t.Info.ID),
		StartDate:     t.Info.StartDate,
		EndDate:       t.Info.EndDate,
		Status:        t.Info.Status,
		QuestionsText: MsgNotAvailable,
		PlayersText:   MsgNotAvailable,
		PrizePoolText: MsgNotAvailable,
		Distribution:  stats.Distribution(t.Stats.PlayersByLevel, levels.DistributionOrder, levels.Color),
		Answers:       stats.AnswerTotals(t.Players),
		Breakdown:     stats.Breakdown(t.Players),
	}
	if t.Info.TotalQuestions > 0 {
		d.QuestionsText = f.Int(float64(t.Info.TotalQuestions))
	}
	if t.Stats.TotalPlayers > 0 {
		d.PlayersText = f.Int(float64(t.Stats.TotalPlayers))
	}
	if p := t.Stats.TotalPrizePool; p != nil && *p > 0 {
		d.PrizePoolText = f.Number(*p) + " IQC"
	}
	d.AnswerPercents = stats.NormalizedPercents(d.Answers, d.Answers.Sum())
	return d, nil
}
