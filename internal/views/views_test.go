package views

import (
	"errors"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/iq-capitalist/iq-capitalist.github.io/internal/domain/model"
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/domain/pipeline"
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/domain/stats"
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/render"
)

func fptr(v float64) *float64 { return &v }

func fixture() *model.Bundle {
	return &model.Bundle{
		Roster: &model.Roster{LastUpdate: "2024-05-08 12:00", Players: []model.Player{
			{UserID: 1, Username: "Ann", Level: "Знаток", Capital: 100, Wallet: 50, AllQuestions: 3},
			{UserID: 2, Username: "bob", Level: "Знаток", Capital: 100, Wallet: 80, AllQuestions: 5},
			{UserID: 3, Username: "Carl", Level: "Эксперт", Capital: 1500, Wallet: 10, AllQuestions: 2},
			{UserID: 4, Username: "dan", Level: "Гуру", Capital: 17000, Wallet: 5, AllQuestions: 0},
			{UserID: 5, Username: "eve", Level: "Гуру", Capital: 17000, Wallet: 9, AllQuestions: 1},
		}},
		Ratings: &model.Ratings{
			LastUpdate:   "2024-05-08",
			PrizePoolAma: fptr(100),
			Levels: map[string][]model.Rating{
				"Знаток":  {{Username: "x", Points: 10}, {Username: "y", Points: 0}, {Username: "z", Points: 30}},
				"Эксперт": {{Username: "w", Points: 5}},
				"Прочее":  {},
			},
		},
		Index: &model.Index{Tournaments: []model.IndexEntry{
			{ID: 7, StartDate: "2024-05-01", EndDate: "2024-05-07", Status: "completed", TotalPlayers: 3, TotalPrize: 1500,
				TotalAnswers: 10, PlayersByLevel: map[string]int{"Знаток": 2, "Эксперт": 1, "Мастер": 0},
				AnswersStats: &model.AnswerStats{CorrectAnswers: &model.Speed{Fast: 5}, WrongAnswers: &model.Speed{Slow: 4}, Timeouts: 1}},
			{ID: 8, StartDate: "2024-05-15", EndDate: "2024-05-21", Status: "active"},
		}},
		Tournaments: map[int]*model.Tournament{
			7: {
				Info: &model.TournamentInfo{ID: 7, StartDate: "2024-05-01", EndDate: "2024-05-07"},
				Players: []model.TournamentPlayer{
					{UserID: 1, Username: "Ann", Level: "Знаток", TotalPoints: 10, Answers: 4,
						CorrectAnswers: &model.Speed{Fast: 3}, WrongAnswers: &model.Speed{Medium: 1}},
					{UserID: 2, Username: "bob", Level: "Знаток", TotalPoints: 20, Answers: 5,
						CorrectAnswers: &model.Speed{Fast: 2, Slow: 2}, WrongAnswers: &model.Speed{}, Timeouts: 1},
					{UserID: 3, Username: "Carl", Level: "Эксперт", TotalPoints: 5},
				},
				Stats: model.TournamentStats{
					TotalPlayers:   3,
					PlayersByLevel: map[string]int{"Знаток": 2, "Эксперт": 1},
					PrizeByLevel:   map[string]float64{"Знаток": 500},
				},
			},
		},
	}
}

func newTestRegistry() *Registry {
	r, err := NewRegistry(render.NewFormatter("ru"))
	So(err, ShouldBeNil)
	return r
}

func build(r *Registry, b *model.Bundle, name string, p Params, mutate func(pipeline.State) pipeline.State) (View, error) {
	builder, err := r.Get(name)
	So(err, ShouldBeNil)
	s, err := builder.Initial(b, p)
	So(err, ShouldBeNil)
	if mutate != nil {
		s = mutate(s)
	}
	return builder.Build(b, p, s)
}

func column(t render.Table, row int, col string) render.Cell {
	for _, c := range t.Rows[row].Cells {
		if c.Column == col {
			return c
		}
	}
	return render.Cell{}
}

func TestRegistry(t *testing.T) {
	Convey("Given a registry", t, func() {
		r := newTestRegistry()

		Convey("it lists every view", func() {
			So(r.Names(), ShouldResemble, []string{Capital, Players, Ratings, TournamentPlayers, Znatoki})
		})

		Convey("unknown views are rejected", func() {
			_, err := r.Get("nope")
			So(errors.Is(err, ErrUnknownView), ShouldBeTrue)
		})

		Convey("a nil bundle is unavailable", func() {
			b, _ := r.Get(Players)
			_, err := b.Build(nil, Params{}, pipeline.State{})
			So(errors.Is(err, ErrUnavailable), ShouldBeTrue)
		})
	})
}

func TestPlayersViews(t *testing.T) {
	Convey("Given the roster", t, func() {
		r := newTestRegistry()
		b := fixture()

		Convey("players are grouped top tier first without empty or unlisted levels", func() {
			v, err := build(r, b, Players, Params{}, nil)
			So(err, ShouldBeNil)
			So(v.LastUpdate, ShouldEqual, "2024-05-08 12:00")
			So(v.Tables, ShouldHaveLength, 2)
			So(v.Tables[0].Title, ShouldEqual, "Гуру")
			So(v.Tables[0].Count, ShouldEqual, 1)
			So(column(v.Tables[0], 0, "username").Text, ShouldEqual, "eve")
			So(v.Tables[1].Title, ShouldEqual, "Эксперт")
			So(v.Pagination, ShouldBeNil)
			So(v.Empty, ShouldBeEmpty)
		})

		Convey("a search without matches reports it", func() {
			v, err := build(r, b, Players, Params{}, func(s pipeline.State) pipeline.State { return s.SetSearch("zzz") })
			So(err, ShouldBeNil)
			So(v.Tables, ShouldBeEmpty)
			So(v.Empty, ShouldEqual, render.MsgNoMatches)
		})

		Convey("znatoki are sorted by wallet and labelled with the range", func() {
			v, err := build(r, b, Znatoki, Params{}, nil)
			So(err, ShouldBeNil)
			So(v.Tables, ShouldHaveLength, 1)
			So(v.Tables[0].Label, ShouldEqual, "100")
			So(column(v.Tables[0], 0, "username").Text, ShouldEqual, "bob")
			So(column(v.Tables[0], 1, "username").Text, ShouldEqual, "Ann")
			So(v.Pagination.TotalPages, ShouldEqual, 1)
			So(v.Pagination.Items, ShouldBeEmpty)
		})

		Convey("capital breaks ties on wallet and skips inactive players", func() {
			v, err := build(r, b, Capital, Params{}, nil)
			So(err, ShouldBeNil)
			rows := v.Tables[0].Rows
			So(rows, ShouldHaveLength, 4)
			var names []string
			for i := range rows {
				names = append(names, column(v.Tables[0], i, "username").Text)
			}
			So(names, ShouldResemble, []string{"eve", "Carl", "bob", "Ann"})
			So(rows[3].Rank, ShouldEqual, 4)
		})

		Convey("searching capital by level matches case-insensitively", func() {
			v, err := build(r, b, Capital, Params{}, func(s pipeline.State) pipeline.State { return s.SetSearch("гуру") })
			So(err, ShouldBeNil)
			So(v.TotalFiltered, ShouldEqual, 1)
		})
	})
}

func TestRatingsView(t *testing.T) {
	Convey("Given a ratings document", t, func() {
		r := newTestRegistry()
		b := fixture()

		Convey("winnings are shared over the level and rows follow points", func() {
			v, err := build(r, b, Ratings, Params{}, nil)
			So(err, ShouldBeNil)
			So(v.State.Level, ShouldEqual, "Знаток")
			So(v.Warnings, ShouldBeEmpty)
			tbl := v.Tables[0]
			So(column(tbl, 0, "username").Text, ShouldEqual, "z")
			So(column(tbl, 0, "winnings").Raw, ShouldEqual, int64(75))
			So(column(tbl, 1, "winnings").Raw, ShouldEqual, int64(25))
			So(column(tbl, 2, "winnings").Raw, ShouldEqual, int64(0))
			So(column(tbl, 0, "points").Text, ShouldContainSubstring, "30")
			So(v.LevelHeader.PrizeFund, ShouldEqual, 100)
			So(v.LevelHeader.Participants, ShouldEqual, 3)
		})

		Convey("a search keeps each player's share", func() {
			v, err := build(r, b, Ratings, Params{}, func(s pipeline.State) pipeline.State { return s.SetSearch("x") })
			So(err, ShouldBeNil)
			So(v.Tables[0].Rows, ShouldHaveLength, 1)
			So(column(v.Tables[0], 0, "winnings").Raw, ShouldEqual, int64(25))
		})

		Convey("tabs put known levels first", func() {
			v, err := build(r, b, Ratings, Params{}, nil)
			So(err, ShouldBeNil)
			So(v.Tabs, ShouldHaveLength, 3)
			So(v.Tabs[0], ShouldResemble, Tab{Level: "Знаток", Count: 3, Active: true})
			So(v.Tabs[1].Level, ShouldEqual, "Эксперт")
			So(v.Tabs[2], ShouldResemble, Tab{Level: "Прочее", Empty: true})
		})

		Convey("a missing pool degrades to zero with a warning", func() {
			v, err := build(r, b, Ratings, Params{}, func(s pipeline.State) pipeline.State { return s.SetLevel("Эксперт") })
			So(err, ShouldBeNil)
			So(v.Warnings, ShouldResemble, []Warning{{Document: DocRatings, Field: "prizePoolPro"}})
			So(column(v.Tables[0], 0, "winnings").Raw, ShouldEqual, int64(0))
		})

		Convey("an unknown level is rejected", func() {
			_, err := build(r, b, Ratings, Params{}, func(s pipeline.State) pipeline.State { return s.SetLevel("Нет") })
			So(errors.Is(err, ErrUnknownLevel), ShouldBeTrue)
		})

		Convey("without ratings the view is unavailable", func() {
			b.Ratings = nil
			_, err := build(r, b, Ratings, Params{}, nil)
			So(errors.Is(err, ErrUnavailable), ShouldBeTrue)
		})
	})
}

func TestTournamentPlayersView(t *testing.T) {
	Convey("Given a tournament detail", t, func() {
		r := newTestRegistry()
		b := fixture()
		p := Params{Tournament: 7}

		Convey("the first level is shown with header and tabs", func() {
			v, err := build(r, b, TournamentPlayers, p, nil)
			So(err, ShouldBeNil)
			So(v.Title, ShouldEqual, "Турнир №7")
			So(v.Tabs, ShouldHaveLength, 7)
			So(v.Tabs[0], ShouldResemble, Tab{Level: "Знаток", Count: 2, Active: true})
			So(v.Tabs[2].Empty, ShouldBeTrue)
			So(v.LevelHeader.Participants, ShouldEqual, 2)
			So(v.LevelHeader.PrizeFund, ShouldEqual, 500)
			So(v.LevelHeader.Range, ShouldEqual, "100")
			So(column(v.Tables[0], 0, "username").Text, ShouldEqual, "bob")
			So(column(v.Tables[0], 0, "total_points").Raw, ShouldEqual, 20.0)
		})

		Convey("username sorts ascending first", func() {
			builder, _ := r.Get(TournamentPlayers)
			s, _ := builder.Initial(b, p)
			s, err := builder.ToggleSort(s, "username")
			So(err, ShouldBeNil)
			So(s.Sort, ShouldResemble, pipeline.SortKey{Column: "username", Direction: pipeline.Asc})
			v, err := builder.Build(b, p, s)
			So(err, ShouldBeNil)
			So(column(v.Tables[0], 0, "username").Text, ShouldEqual, "Ann")
		})

		Convey("a level without a prize entry warns", func() {
			v, err := build(r, b, TournamentPlayers, p, func(s pipeline.State) pipeline.State { return s.SetLevel("Эксперт") })
			So(err, ShouldBeNil)
			So(v.LevelHeader.PrizeFund, ShouldEqual, 0)
			So(v.Warnings, ShouldHaveLength, 1)
		})

		Convey("an empty level renders the no-data message", func() {
			v, err := build(r, b, TournamentPlayers, p, func(s pipeline.State) pipeline.State { return s.SetLevel("Мастер") })
			So(err, ShouldBeNil)
			So(v.Tables[0].Empty, ShouldEqual, render.MsgNoData)
		})

		Convey("a missing tournament is not found", func() {
			_, err := build(r, b, TournamentPlayers, Params{Tournament: 99}, nil)
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestTournaments(t *testing.T) {
	Convey("Given the tournament index", t, func() {
		r := newTestRegistry()
		b := fixture()

		Convey("cards are newest first with normalised answer shares", func() {
			cards, err := r.Tournaments(b)
			So(err, ShouldBeNil)
			So(cards, ShouldHaveLength, 2)
			So(cards[0].ID, ShouldEqual, 8)
			So(cards[0].Active, ShouldBeTrue)
			So(cards[0].Questions, ShouldEqual, model.DefaultTotalQuestions)

			c := cards[1]
			So(c.Title, ShouldEqual, "Турнир №7")
			So(c.StartDate, ShouldEqual, "2024-05-01")
			So(c.Answers, ShouldEqual, 10)
			So(c.AnswersLabel, ShouldEqual, "ответов")
			So(c.Percents, ShouldResemble, stats.Percents{Correct: 50, Wrong: 40, Timeouts: 10})
			So(c.Badges, ShouldResemble, []Badge{{Level: "Знаток", Count: 2}, {Level: "Эксперт", Count: 1}})
		})

		Convey("the detail falls back to Н/Д", func() {
			d, err := r.Tournament(b, 7)
			So(err, ShouldBeNil)
			So(d.QuestionsText, ShouldEqual, MsgNotAvailable)
			So(d.PrizePoolText, ShouldEqual, MsgNotAvailable)
			So(d.PlayersText, ShouldEqual, "3")
			So(d.Answers.Sum(), ShouldEqual, 9)
			So(d.Breakdown, ShouldHaveLength, 8)
			So(d.Distribution, ShouldHaveLength, 2)

			_, err = r.Tournament(b, 8)
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		})

		Convey("no index means unavailable", func() {
			b.Index = nil
			_, err := r.Tournaments(b)
			So(errors.Is(err, ErrUnavailable), ShouldBeTrue)
		})
	})
}

func TestProfileAndExport(t *testing.T) {
	Convey("Given the roster and history", t, func() {
		r := newTestRegistry()
		b := fixture()

		Convey("a profile is found by id with its finished tournaments", func() {
			p, err := r.Profile(b, "1")
			So(err, ShouldBeNil)
			So(p.Player.Username, ShouldEqual, "Ann")
			So(p.Range, ShouldEqual, "100")
			So(p.History, ShouldHaveLength, 1)
			So(p.Series.Tournaments, ShouldResemble, []int{7})

			_, err = r.Profile(b, "ghost")
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		})

		Convey("the players export lists everyone", func() {
			now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
			e, err := r.Export(b, Players, now)
			So(err, ShouldBeNil)
			So(e.Filename, ShouldEqual, "igroki_2024-05-01.csv")
			lines := strings.Split(string(e.Data), "\n")
			So(lines, ShouldHaveLength, 6)
			So(lines[0], ShouldEqual, "Игрок,Уровень,Капитал,Кошелёк,Ответы")
			So(lines[1], ShouldEqual, `"Ann","Знаток",100,50,3`)
		})

		Convey("the znatoki export keeps only Знаток", func() {
			e, err := r.Export(b, Znatoki, time.Now())
			So(err, ShouldBeNil)
			So(e.Filename, ShouldStartWith, "znatoki_")
			So(strings.Split(string(e.Data), "\n"), ShouldHaveLength, 3)
		})

		Convey("download names are transliterated titles dated in UTC", func() {
			msk := time.FixedZone("MSK", 3*60*60)
			So(ExportFilename("Знатоки", time.Date(2024, 5, 2, 1, 30, 0, 0, msk)), ShouldEqual, "znatoki_2024-05-01.csv")
			So(ExportFilename("Игроки", time.Date(2024, 5, 1, 23, 0, 0, 0, time.UTC)), ShouldEqual, "igroki_2024-05-01.csv")
		})

		Convey("other views have no export", func() {
			_, err := r.Export(b, Capital, time.Now())
			So(errors.Is(err, ErrUnknownView), ShouldBeTrue)
		})
	})
}
