package stats

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/iq-capitalist/iq-capitalist.github.io/internal/domain/model"
)

func speed(f, m, s int) *model.Speed { return &model.Speed{Fast: f, Medium: m, Slow: s} }

func TestAnswerTotals(t *testing.T) {
	Convey("AnswerTotals skips players without breakdowns", t, func() {
		players := []model.TournamentPlayer{
			{Username: "a", CorrectAnswers: speed(1, 2, 3), WrongAnswers: speed(1, 0, 0), Timeouts: 2},
			{Username: "b", CorrectAnswers: speed(5, 0, 0), Timeouts: 9},
			{Username: "c", CorrectAnswers: speed(0, 1, 0), WrongAnswers: speed(0, 1, 1), Timeouts: 1},
		}
		got := AnswerTotals(players)
		So(got, ShouldResemble, Totals{Correct: 7, Wrong: 3, Timeouts: 3})
		So(got.Sum(), ShouldEqual, 13)
	})
}

func TestBreakdown(t *testing.T) {
	Convey("Breakdown", t, func() {
		Convey("reports each bucket with a one-decimal share", func() {
			rows := Breakdown([]model.TournamentPlayer{
				{CorrectAnswers: speed(1, 1, 0), WrongAnswers: speed(1, 0, 0), Timeouts: 0},
			})
			So(rows, ShouldHaveLength, 8)
			So(rows[0].Percent, ShouldEqual, 33.3)
			So(rows[3].Kind, ShouldEqual, "fast-wrong")
			So(rows[7], ShouldResemble, Row{Kind: "total", Label: "Всего", Count: 3, Percent: 100})
		})

		Convey("is empty without answers", func() {
			So(Breakdown(nil), ShouldBeEmpty)
			So(Breakdown([]model.TournamentPlayer{{CorrectAnswers: speed(0, 0, 0), WrongAnswers: speed(0, 0, 0)}}), ShouldBeEmpty)
		})
	})
}

func TestNormalizedPercents(t *testing.T) {
	Convey("NormalizedPercents always adds up to 100", t, func() {
		p := NormalizedPercents(Totals{Correct: 1, Wrong: 1, Timeouts: 1}, 3)
		So(p, ShouldResemble, Percents{Correct: 34, Wrong: 33, Timeouts: 33})

		p = NormalizedPercents(Totals{Correct: 1, Wrong: 5, Timeouts: 1}, 7)
		So(p.Correct+p.Wrong+p.Timeouts, ShouldEqual, 100)
		So(p.Wrong, ShouldEqual, 72)

		So(NormalizedPercents(Totals{}, 0), ShouldResemble, Percents{})
	})

	Convey("IndexTotals falls back to total_answers", t, func() {
		tot, n := IndexTotals(model.IndexEntry{TotalAnswers: 40})
		So(tot.Sum(), ShouldEqual, 0)
		So(n, ShouldEqual, 40)

		tot, n = IndexTotals(model.IndexEntry{TotalAnswers: 40, AnswersStats: &model.AnswerStats{CorrectAnswers: speed(1, 2, 3), WrongAnswers: speed(0, 3, 0), Timeouts: 1}})
		So(tot.Correct, ShouldEqual, 6)
		So(n, ShouldEqual, 10)
	})
}

func TestDistribution(t *testing.T) {
	Convey("Distribution keeps order and drops absent levels", t, func() {
		got := Distribution(map[string]int{"B": 1, "A": 3}, []string{"A", "X", "B"}, func(string) string { return "#fff" })
		So(got, ShouldResemble, []LevelShare{
			{Level: "A", Count: 3, Percent: 75, Color: "#fff"},
			{Level: "B", Count: 1, Percent: 25, Color: "#fff"},
		})
	})
}

func TestPlayerHistory(t *testing.T) {
	Convey("PlayerHistory", t, func() {
		index := []model.IndexEntry{
			{ID: 1, StartDate: "2024-01-01"},
			{ID: 3, StartDate: "2024-03-01"},
			{ID: 2, StartDate: "2024-02-01"},
			{ID: 4, Status: model.StatusActive},
			{ID: 5},
		}
		details := map[int]*model.Tournament{
			1: {Players: []model.TournamentPlayer{{UserID: 7, Username: "old", Answers: 10, TotalPoints: 1.5}}},
			2: {Players: []model.TournamentPlayer{{Username: "ann", Answers: 20, Prize: 100, WrongAnswers: speed(1, 2, 3)}}},
			3: {Players: []model.TournamentPlayer{{Username: "other"}}},
			4: {Players: []model.TournamentPlayer{{UserID: 7}}},
		}
		player := model.Player{UserID: 7, Username: "ann"}

		h := PlayerHistory(player, index, details)
		So(h, ShouldHaveLength, 2)
		So(h[0].TournamentID, ShouldEqual, 2)
		So(h[1].TournamentID, ShouldEqual, 1)
		So(h[1].StartDate, ShouldEqual, "2024-01-01")

		Convey("BuildSeries orders ascending and negates wrong answers", func() {
			s := BuildSeries(h)
			So(s.Tournaments, ShouldResemble, []int{1, 2})
			So(s.Answers, ShouldResemble, []int{10, 20})
			So(s.Prizes, ShouldResemble, []float64{0, 100})
			So(s.WrongSlow, ShouldResemble, []int{0, -3})
			So(h[0].TournamentID, ShouldEqual, 2)
		})
	})
}
