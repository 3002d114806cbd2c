package views

import (
	"slices"

	"github.com/iq-capitalist/iq-capitalist.github.io/internal/domain/levels"
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/domain/model"
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/domain/pipeline"
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/domain/prize"
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/render"
)

// Documents referenced by degradation warnings.
const (
	DocRatings    = "ratings"
	DocTournament = "tournament"
)

// PoolForLevel returns the prize pool of a ratings level. The amateur pool
// covers Знаток; every other level shares the pro pool.
func PoolForLevel(r *model.Ratings, level string) (float64, string, bool) {
	field, pool := "prizePoolPro", r.PrizePoolPro
	if level == levels.Znatok {
		field, pool = "prizePoolAma", r.PrizePoolAma
	}
	if pool == nil {
		return 0, field, false
	}
	return *pool, field, true
}

// ratingLevels lists the levels of the ratings document, known tournament
// levels first and any others alphabetically after them.
func ratingLevels(r *model.Ratings) []string {
	var known, rest []string
	for _, l := range levels.TournamentOrder {
		if _, ok := r.Levels[l]; ok {
			known = append(known, l)
		}
	}
	for l := range r.Levels {
		if !levels.Known(levels.TournamentOrder, l) {
			rest = append(rest, l)
		}
	}
	slices.Sort(rest)
	return append(known, rest...)
}

func newRatingsView(f render.Formatter) Builder {
	return &tableView[model.Rating]{
		name:  Ratings,
		title: "Рейтинг турнира",
		cfg: &pipeline.Config[model.Rating]{
			Name: Ratings,
			Columns: pipeline.Columns[model.Rating]{
				{Name: "username", Kind: pipeline.Text, Text: func(r model.Rating) string { return r.Username }},
				{Name: "capital", Kind: pipeline.Number, Number: func(r model.Rating) float64 { return r.Capital }},
				{Name: "points", Kind: pipeline.Number, Number: func(r model.Rating) float64 { return r.Points }},
				{Name: "winnings", Kind: pipeline.Number, Number: func(r model.Rating) float64 { return float64(r.Winnings) }},
				{Name: "remaining_boosters", Kind: pipeline.Number, Number: func(r model.Rating) float64 { return float64(r.RemainingBoosters) }},
				{Name: "wallet", Kind: pipeline.Number, Number: func(r model.Rating) float64 { return r.Wallet }},
			},
			SearchFields: func(r model.Rating) []string { return []string{r.Username} },
			DefaultSort:  pipeline.SortKey{Column: "points", Direction: pipeline.Desc},
			PageSize:     20,
			Locale:       f.Tag(),
		},
		fields: []render.Field[model.Rating]{
			{Column: "username", Label: "Игрок", Sortable: true,
				Value: func(r model.Rating, _ render.Formatter) (any, string) { return r.Username, r.Username }},
			{Column: "capital", Label: "Капитал", Align: render.Right, Sortable: true,
				Value: func(r model.Rating, f render.Formatter) (any, string) { return r.Capital, f.Number(r.Capital) }},
			{Column: "points", Label: "Очки", Align: render.Right, Sortable: true,
				Value: func(r model.Rating, f render.Formatter) (any, string) { return r.Points, f.Points(r.Points) }},
			{Column: "winnings", Label: "Выигрыш", Align: render.Right, Sortable: true,
				Value: func(r model.Rating, f render.Formatter) (any, string) {
					return r.Winnings, f.Int(float64(r.Winnings))
				}},
			{Column: "remaining_boosters", Label: "Бустеры", Align: render.Right, Sortable: true,
				Value: func(r model.Rating, f render.Formatter) (any, string) {
					return r.RemainingBoosters, f.Int(float64(r.RemainingBoosters))
				}},
			{Column: "wallet", Label: "Кошелёк", Align: render.Right, Sortable: true,
				Value: func(r model.Rating, f render.Formatter) (any, string) { return r.Wallet, f.Number(r.Wallet) }},
		},
		window: render.WindowAll,
		format: f,
		defaultLevel: func(b *model.Bundle, _ Params) string {
			if b.Ratings == nil {
				return levels.Znatok
			}
			if _, ok := b.Ratings.Levels[levels.Znatok]; ok {
				return levels.Znatok
			}
			if ls := ratingLevels(b.Ratings); len(ls) > 0 {
				return ls[0]
			}
			return levels.Znatok
		},
		records: ratingRecords,
		decorate: func(b *model.Bundle, _ Params, res pipeline.Result[model.Rating], v *View) error {
			v.LastUpdate = b.Ratings.LastUpdate
			for _, l := range ratingLevels(b.Ratings) {
				n := len(b.Ratings.Levels[l])
				v.Tabs = append(v.Tabs, Tab{Level: l, Count: n, Active: l == res.State.Level, Empty: n == 0})
			}
			v.Tables[0].Title = res.State.Level
			v.Tables[0].Label = levels.RangeLabel(res.State.Level)
			pool, _, _ := PoolForLevel(b.Ratings, res.State.Level)
			v.LevelHeader = &LevelHeader{
				Level:        res.State.Level,
				Range:        levels.RangeLabel(res.State.Level),
				Participants: len(b.Ratings.Levels[res.State.Level]),
				PrizeFund:    pool,
				PrizeText:    f.Int(pool) + " IQC",
			}
			return nil
		},
	}
}

// ratingRecords returns the selected level with winnings computed over the
// whole level, so that a search never changes anyone's share.
func ratingRecords(b *model.Bundle, _ Params, s pipeline.State, v *View) ([]model.Rating, error) {
	if b.Ratings == nil {
		return nil, ErrUnavailable
	}
	entries, ok := b.Ratings.Levels[s.Level]
	if !ok {
		return nil, ErrUnknownLevel
	}
	pool, field, ok := PoolForLevel(b.Ratings, s.Level)
	if !ok {
		v.Warnings = append(v.Warnings, Warning{Document: DocRatings, Field: field})
	}
	return prize.Apply(entries, pool,
		func(r model.Rating) float64 { return r.Points },
		func(r *model.Rating, w int64) { r.Winnings = w },
	), nil
}
