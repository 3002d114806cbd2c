// Package stats aggregates tournament answers and builds player histories.
package stats

import (
	"math"

	"github.com/iq-capitalist/iq-capitalist.github.io/internal/domain/model"
)

// Totals are correct, wrong and timed-out answers.
type Totals struct {
	Correct  int `json:"correct"`
	Wrong    int `json:"wrong"`
	Timeouts int `json:"timeouts"`
}

// Sum returns all answers.
func (t Totals) Sum() int { return t.Correct + t.Wrong + t.Timeouts }

// AnswerTotals sums the answers of players. Players without both breakdowns are skipped.
func AnswerTotals(players []model.TournamentPlayer) Totals {
	var t Totals
	for _, p := range players {
		if p.CorrectAnswers == nil || p.WrongAnswers == nil {
			continue
		}
		t.Correct += p.CorrectAnswers.Sum()
		t.Wrong += p.WrongAnswers.Sum()
		t.Timeouts += p.Timeouts
	}
	return t
}

// Row is one line of the detailed answer table.
type Row struct {
	Kind    string  `json:"kind"`
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Breakdown returns the answer counts by speed and outcome with their share of
// all answers, rounded to one decimal, followed by the total row. It is empty
// when there are no answers.
func Breakdown(players []model.TournamentPlayer) []Row {
	var correct, wrong model.Speed
	var timeouts int
	for _, p := range players {
		if p.CorrectAnswers == nil || p.WrongAnswers == nil {
			continue
		}
		correct.Fast += p.CorrectAnswers.Fast
		correct.Medium += p.CorrectAnswers.Medium
		correct.Slow += p.CorrectAnswers.Slow
		wrong.Fast += p.WrongAnswers.Fast
		wrong.Medium += p.WrongAnswers.Medium
		wrong.Slow += p.WrongAnswers.Slow
		timeouts += p.Timeouts
	}

	total := correct.Sum() + wrong.Sum() + timeouts
	if total == 0 {
		return nil
	}

	rows := []Row{
		{Kind: "fast-correct", Label: "Быстрые правильные", Count: correct.Fast},
		{Kind: "medium-correct", Label: "Средние правильные", Count: correct.Medium},
		{Kind: "slow-correct", Label: "Медленные правильные", Count: correct.Slow},
		{Kind: "fast-wrong", Label: "Быстрые неправильные", Count: wrong.Fast},
		{Kind: "medium-wrong", Label: "Средние неправильные", Count: wrong.Medium},
		{Kind: "slow-wrong", Label: "Медленные неправильные", Count: wrong.Slow},
		{Kind: "timeout", Label: "Таймауты", Count: timeouts},
	}
	for i := range rows {
		rows[i].Percent = round1(float64(rows[i].Count) / float64(total) * 100)
	}
	return append(rows, Row{Kind: "total", Label: "Всего", Count: total, Percent: 100})
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

// Percents are whole-number shares of Totals.
type Percents struct {
	Correct  int `json:"correct"`
	Wrong    int `json:"wrong"`
	Timeouts int `json:"timeouts"`
}

// NormalizedPercents rounds each share of total to a whole percent and then
// moves the rounding difference onto the largest share so the three add up
// to 100. A non-positive total gives all zeros.
func NormalizedPercents(t Totals, total int) Percents {
	if total <= 0 {
		return Percents{}
	}
	pct := func(n int) int { return int(math.Round(float64(n) / float64(total) * 100)) }
	p := Percents{Correct: pct(t.Correct), Wrong: pct(t.Wrong), Timeouts: pct(t.Timeouts)}

	diff := 100 - (p.Correct + p.Wrong + p.Timeouts)
	if diff == 0 {
		return p
	}
	switch {
	case p.Correct >= p.Wrong && p.Correct >= p.Timeouts:
		p.Correct += diff
	case p.Wrong >= p.Correct && p.Wrong >= p.Timeouts:
		p.Wrong += diff
	default:
		p.Timeouts += diff
	}
	return p
}

// IndexTotals reads the answer totals of an index entry. When the breakdown
// sums to zero the entry's total_answers is used as the denominator.
func IndexTotals(e model.IndexEntry) (Totals, int) {
	var t Totals
	if e.AnswersStats != nil {
		t = Totals{Correct: e.AnswersStats.Correct(), Wrong: e.AnswersStats.Wrong(), Timeouts: e.AnswersStats.Timeouts}
	}
	total := t.Sum()
	if total == 0 {
		total = e.TotalAnswers
	}
	return t, total
}

// LevelShare is one slice of the level distribution.
type LevelShare struct {
	Level   string `json:"level"`
	Count   int    `json:"count"`
	Percent int    `json:"percent"`
	Color   string `json:"color"`
}

// Distribution lists the levels of order present in byLevel with their rounded share.
func Distribution(byLevel map[string]int, order []string, color func(string) string) []LevelShare {
	var total int
	for _, l := range order {
		total += byLevel[l]
	}
	out := make([]LevelShare, 0, len(order))
	for _, l := range order {
		n, ok := byLevel[l]
		if !ok {
			continue
		}
		share := LevelShare{Level: l, Count: n, Color: color(l)}
		if total > 0 {
			share.Percent = int(math.Round(float64(n) / float64(total) * 100))
		}
		out = append(out, share)
	}
	return out
}
