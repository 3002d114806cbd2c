package views

import (
	"golang.org/x/text/language"

	"github.com/iq-capitalist/iq-capitalist.github.io/internal/domain/levels"
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/domain/model"
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/domain/pipeline"
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/render"
)

func playerColumns(usernameDefault pipeline.Direction) pipeline.Columns[model.Player] {
	return pipeline.Columns[model.Player]{
		{Name: "username", Kind: pipeline.Text, Text: func(p model.Player) string { return p.Username }, DefaultDirection: usernameDefault},
		{Name: "level", Kind: pipeline.Text, Text: func(p model.Player) string { return p.Level }},
		{Name: "capital", Kind: pipeline.Number, Number: func(p model.Player) float64 { return p.Capital }},
		{Name: "wallet", Kind: pipeline.Number, Number: func(p model.Player) float64 { return p.Wallet }},
		{Name: "all_questions", Kind: pipeline.Number, Number: func(p model.Player) float64 { return float64(p.AllQuestions) }},
	}
}

var (
	playerUsername = render.Field[model.Player]{Column: "username", Label: "Игрок", Sortable: true,
		Value: func(p model.Player, _ render.Formatter) (any, string) { return p.Username, p.Username }}
	playerLevel = render.Field[model.Player]{Column: "level", Label: "Уровень", Sortable: true,
		Value: func(p model.Player, _ render.Formatter) (any, string) { return p.Level, p.Level }}
	playerCapital = render.Field[model.Player]{Column: "capital", Label: "Капитал", Align: render.Right, Sortable: true,
		Value: func(p model.Player, f render.Formatter) (any, string) { return p.Capital, f.Number(p.Capital) }}
	playerWallet = render.Field[model.Player]{Column: "wallet", Label: "Кошелёк", Align: render.Right, Sortable: true,
		Value: func(p model.Player, f render.Formatter) (any, string) { return p.Wallet, f.Number(p.Wallet) }}
	playerAnswers = render.Field[model.Player]{Column: "all_questions", Label: "Ответы", Align: render.Right, Sortable: true,
		Value: func(p model.Player, f render.Formatter) (any, string) {
			return p.AllQuestions, f.Number(float64(p.AllQuestions))
		}}
)

func activePlayer(p model.Player) bool { return p.Active() }

func rosterRecords(b *model.Bundle, _ Params, _ pipeline.State, _ *View) ([]model.Player, error) {
	if b.Roster == nil {
		return nil, ErrUnavailable
	}
	return b.Roster.Players, nil
}

func withLastUpdate[T any](b *model.Bundle, _ Params, _ pipeline.Result[T], v *View) error {
	v.LastUpdate = b.Roster.LastUpdate
	return nil
}

// newPlayersView is the global players page: every active player grouped
// by level, top tier first, each level sorted independently.
func newPlayersView(f render.Formatter) Builder {
	return &tableView[model.Player]{
		name:  Players,
		title: "Игроки",
		cfg: &pipeline.Config[model.Player]{
			Name:         Players,
			Columns:      playerColumns(pipeline.Desc),
			SearchFields: func(p model.Player) []string { return []string{p.Username, p.Level} },
			Predicates:   []func(model.Player) bool{activePlayer},
			DefaultSort:  pipeline.SortKey{Column: "capital", Direction: pipeline.Desc},
			TieBreak:     []pipeline.SortKey{{Column: "username", Direction: pipeline.Asc}},
			GroupBy:      func(p model.Player) string { return p.Level },
			GroupOrder:   levels.PlayersOrder,
			EmptyGroups:  pipeline.OmitEmpty,
			Locale:       localeOf(f),
		},
		fields:   []render.Field[model.Player]{playerUsername, playerCapital, playerWallet, playerAnswers},
		format:   f,
		records:  rosterRecords,
		decorate: withLastUpdate[model.Player],
	}
}

// newZnatokiView is the entry-level table: active Знаток players by wallet.
func newZnatokiView(f render.Formatter) Builder {
	return &tableView[model.Player]{
		name:  Znatoki,
		title: "Знатоки",
		cfg: &pipeline.Config[model.Player]{
			Name:         Znatoki,
			Columns:      playerColumns(pipeline.Desc),
			SearchFields: func(p model.Player) []string { return []string{p.Username} },
			Predicates: []func(model.Player) bool{
				func(p model.Player) bool { return p.Level == levels.Znatok },
				activePlayer,
			},
			DefaultSort: pipeline.SortKey{Column: "wallet", Direction: pipeline.Desc},
			TieBreak:    []pipeline.SortKey{{Column: "username", Direction: pipeline.Asc}},
			PageSize:    50,
			Locale:      localeOf(f),
		},
		fields:  []render.Field[model.Player]{playerUsername, playerWallet, playerAnswers},
		window:  render.WindowEdges,
		format:  f,
		records: rosterRecords,
		decorate: func(b *model.Bundle, p Params, res pipeline.Result[model.Player], v *View) error {
			v.Tables[0].Label = levels.RangeLabel(levels.Znatok)
			return withLastUpdate(b, p, res, v)
		},
	}
}

// newCapitalView ranks every active player by capital in one paginated
// table; equal capital is ordered by wallet.
func newCapitalView(f render.Formatter) Builder {
	return &tableView[model.Player]{
		name:  Capital,
		title: "Рейтинг капитала",
		cfg: &pipeline.Config[model.Player]{
			Name:         Capital,
			Columns:      playerColumns(pipeline.Asc),
			SearchFields: func(p model.Player) []string { return []string{p.Username, p.Level} },
			Predicates:   []func(model.Player) bool{activePlayer},
			DefaultSort:  pipeline.SortKey{Column: "capital", Direction: pipeline.Desc},
			TieBreak:     []pipeline.SortKey{{Column: "wallet", Direction: pipeline.Desc}},
			PageSize:     50,
			Locale:       localeOf(f),
		},
		fields:   []render.Field[model.Player]{playerUsername, playerLevel, playerCapital, playerWallet, playerAnswers},
		window:   render.WindowCentered,
		format:   f,
		records:  rosterRecords,
		decorate: withLastUpdate[model.Player],
	}
}

func localeOf(f render.Formatter) language.Tag { return f.Tag() }
