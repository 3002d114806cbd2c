package views

import (
	"fmt"

	"github.com/iq-capitalist/iq-capitalist.github.io/internal/domain/levels"
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/domain/model"
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/domain/pipeline"
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/render"
)

func speedColumn(name string, pick func(model.TournamentPlayer) int) pipeline.Column[model.TournamentPlayer] {
	return pipeline.Column[model.TournamentPlayer]{
		Name: name, Kind: pipeline.Number,
		Number: func(p model.TournamentPlayer) float64 { return float64(pick(p)) },
	}
}

func speedField(name, label string, pick func(model.TournamentPlayer) int) render.Field[model.TournamentPlayer] {
	return render.Field[model.TournamentPlayer]{
		Column: name, Label: label, Align: render.Right, Sortable: true,
		Value: func(p model.TournamentPlayer, _ render.Formatter) (any, string) {
			n := pick(p)
			return n, fmt.Sprint(n)
		},
	}
}

var speedPicks = []struct {
	name, label string
	pick        func(model.TournamentPlayer) int
}{
	{"correct_answers.fast", "Правильные: быстро", func(p model.TournamentPlayer) int { return p.Correct().Fast }},
	{"correct_answers.medium", "Правильные: средне", func(p model.TournamentPlayer) int { return p.Correct().Medium }},
	{"correct_answers.slow", "Правильные: медленно", func(p model.TournamentPlayer) int { return p.Correct().Slow }},
	{"wrong_answers.fast", "Неправильные: быстро", func(p model.TournamentPlayer) int { return p.Wrong().Fast }},
	{"wrong_answers.medium", "Неправильные: средне", func(p model.TournamentPlayer) int { return p.Wrong().Medium }},
	{"wrong_answers.slow", "Неправильные: медленно", func(p model.TournamentPlayer) int { return p.Wrong().Slow }},
	{"timeouts", "X", func(p model.TournamentPlayer) int { return p.Timeouts }},
	{"answers", "Всего", func(p model.TournamentPlayer) int { return p.Answers }},
}

func newTournamentPlayersView(f render.Formatter) Builder {
	columns := pipeline.Columns[model.TournamentPlayer]{
		{Name: "username", Kind: pipeline.Text, Text: func(p model.TournamentPlayer) string { return p.Username }, DefaultDirection: pipeline.Asc},
		{Name: "total_points", Kind: pipeline.Number, Number: func(p model.TournamentPlayer) float64 { return p.TotalPoints }},
		{Name: "prize", Kind: pipeline.Number, Number: func(p model.TournamentPlayer) float64 { return p.Prize }},
	}
	fields := []render.Field[model.TournamentPlayer]{
		{Column: "username", Label: "Имя", Sortable: true,
			Value: func(p model.TournamentPlayer, _ render.Formatter) (any, string) { return p.Username, p.Username }},
	}
	for _, sp := range speedPicks {
		columns = append(columns, speedColumn(sp.name, sp.pick))
		fields = append(fields, speedField(sp.name, sp.label, sp.pick))
	}
	fields = append(fields,
		render.Field[model.TournamentPlayer]{Column: "total_points", Label: "Очки", Align: render.Right, Sortable: true,
			Value: func(p model.TournamentPlayer, f render.Formatter) (any, string) { return p.TotalPoints, f.Points(p.TotalPoints) }},
		render.Field[model.TournamentPlayer]{Column: "prize", Label: "Приз", Align: render.Right, Sortable: true,
			Value: func(p model.TournamentPlayer, f render.Formatter) (any, string) { return p.Prize, f.Int(p.Prize) }},
	)

	return &tableView[model.TournamentPlayer]{
		name:  TournamentPlayers,
		title: "Статистика игроков",
		cfg: &pipeline.Config[model.TournamentPlayer]{
			Name:         TournamentPlayers,
			Columns:      columns,
			SearchFields: func(p model.TournamentPlayer) []string { return []string{p.Username} },
			DefaultSort:  pipeline.SortKey{Column: "total_points", Direction: pipeline.Desc},
			LevelOf:      func(p model.TournamentPlayer) string { return p.Level },
			PageSize:     50,
			Locale:       f.Tag(),
		},
		fields:       fields,
		window:       render.WindowCentered,
		format:       f,
		defaultLevel: func(*model.Bundle, Params) string { return levels.Znatok },
		records: func(b *model.Bundle, p Params, s pipeline.State, _ *View) ([]model.TournamentPlayer, error) {
			if !levels.Known(levels.TournamentOrder, s.Level) {
				return nil, ErrUnknownLevel
			}
			t, err := tournamentOf(b, p.Tournament)
			if err != nil {
				return nil, err
			}
			return t.Players, nil
		},
		decorate: func(b *model.Bundle, p Params, res pipeline.Result[model.TournamentPlayer], v *View) error {
			t, err := tournamentOf(b, p.Tournament)
			if err != nil {
				return err
			}
			counts := map[string]int{}
			for _, pl := range t.Players {
				counts[pl.Level]++
			}
			for _, l := range levels.TournamentOrder {
				v.Tabs = append(v.Tabs, Tab{Level: l, Count: counts[l], Active: l == res.State.Level, Empty: counts[l] == 0})
			}

			level := res.State.Level
			fund, ok := t.Stats.PrizeByLevel[level]
			if !ok {
				v.Warnings = append(v.Warnings, Warning{Document: DocTournament, Field: "stats.prize_by_level." + level})
			}
			v.LevelHeader = &LevelHeader{
				Level:        level,
				Range:        levels.RangeLabel(level),
				Participants: counts[level],
				PrizeFund:    fund,
				PrizeText:    f.Int(fund) + " IQC",
			}
			v.Title = tournamentTitle(t.Info.ID)
			v.Tables[0].Title = level
			return nil
		},
	}
}

func tournamentOf(b *model.Bundle, id int) (*model.Tournament, error) {
	t, ok := b.Tournament(id)
	if !ok {
		return nil, fmt.Errorf("%w: tournament %d", ErrNotFound, id)
	}
	return t, nil
}
