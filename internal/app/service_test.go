package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	service "github.com/iq-capitalist/iq-capitalist.github.io/internal/app"
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/adapters/repository"
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/adapters/session"
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/adapters/source"
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/domain/model"
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/domain/pipeline"
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/views"
	"github.com/iq-capitalist/iq-capitalist.github.io/pkg/logger"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(logger.WithLevel("error")); err != nil {
		panic(err)
	}
}

// docs is an in-memory document source safe for concurrent use.
type docs struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (d *docs) set(name string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.data[name] = b
}

func (d *docs) remove(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.data, name)
}

func (d *docs) Fetch(_ context.Context, name string) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	b, ok := d.data[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", source.ErrNotFound, name)
	}
	return b, nil
}

func fixtureDocs(players int) *docs {
	d := &docs{data: map[string][]byte{}}
	roster := model.Roster{LastUpdate: "2024-05-08 12:00"}
	for i := 1; i <= players; i++ {
		level := "Знаток"
		capital := 100.0
		if i%2 == 0 {
			level, capital = "Эксперт", 1500
		}
		roster.Players = append(roster.Players, model.Player{
			UserID: int64(i), Username: fmt.Sprintf("p%03d", i), Level: level,
			Capital: capital, Wallet: float64(i), AllQuestions: 1,
		})
	}
	d.set("all_data.json", roster)

	pool := 100.0
	d.set("data.json", model.Ratings{
		LastUpdate:   "2024-05-08",
		PrizePoolAma: &pool,
		Levels: map[string][]model.Rating{
			"Знаток":  {{Username: "p001", Points: 10}, {Username: "p003", Points: 30}},
			"Эксперт": {{Username: "p002", Points: 5}},
		},
	})
	d.set("tournaments-index.json", map[string]any{"tournaments": []model.IndexEntry{
		{ID: 1, StartDate: "2024-04-01", EndDate: "2024-04-07", Status: "completed"},
		{ID: 2, StartDate: "2024-05-01", EndDate: "2024-05-07", Status: "active"},
	}})
	d.set("1.json", model.Tournament{
		Info:    &model.TournamentInfo{ID: 1, StartDate: "2024-04-01", EndDate: "2024-04-07", TotalQuestions: 80},
		Players: []model.TournamentPlayer{{UserID: 1, Username: "p001", Level: "Знаток", TotalPoints: 12.5}},
		Stats:   model.TournamentStats{TotalPlayers: 1, PlayersByLevel: map[string]int{"Знаток": 1}},
	})
	return d
}

func newService(d *docs, opts ...service.Option) *service.Service {
	svc, err := service.New(append([]service.Option{service.WithFetcher(d), service.WithWorkers(2)}, opts...)...)
	So(err, ShouldBeNil)
	return svc
}

func TestService_New(t *testing.T) {
	Convey("Given no fetcher", t, func() {
		_, err := service.New()

		Convey("Then construction fails", func() {
			So(errors.Is(err, service.ErrNoFetcher), ShouldBeTrue)
		})
	})
}

func TestService_Refresh(t *testing.T) {
	Convey("Given a service over in-memory documents", t, func() {
		d := fixtureDocs(120)
		svc := newService(d)
		ctx := context.Background()

		Convey("Views are unavailable before the first load", func() {
			_, err := svc.View(ctx, service.ViewRequest{View: views.Capital})
			So(errors.Is(err, views.ErrUnavailable), ShouldBeTrue)
			So(errors.Is(err, repository.ErrNotLoaded), ShouldBeTrue)
		})

		Convey("When refreshed", func() {
			So(svc.Refresh(ctx), ShouldBeNil)

			Convey("Then the snapshot is served", func() {
				stats := svc.GetStats()
				So(stats["players"], ShouldEqual, 120)
				So(stats["tournaments"], ShouldEqual, 1)
				So(stats["refreshes"], ShouldEqual, 1)
			})

			Convey("Then a missing detail is skipped", func() {
				_, err := svc.Tournament(ctx, 1)
				So(err, ShouldBeNil)
				_, err = svc.Tournament(ctx, 2)
				So(errors.Is(err, views.ErrNotFound), ShouldBeTrue)

				cards, err := svc.Tournaments(ctx)
				So(err, ShouldBeNil)
				So(cards, ShouldHaveLength, 2)
			})

			Convey("Then a failed refresh keeps the previous snapshot", func() {
				d.remove("all_data.json")
				err := svc.Refresh(ctx)
				So(errors.Is(err, source.ErrRequiredDocument), ShouldBeTrue)

				v, err := svc.View(ctx, service.ViewRequest{View: views.Capital})
				So(err, ShouldBeNil)
				So(v.TotalFiltered, ShouldEqual, 120)
				So(svc.GetStats()["refreshFailures"], ShouldEqual, 1)
			})

			Convey("Then profiles include finished tournaments", func() {
				p, err := svc.Profile(ctx, "p001")
				So(err, ShouldBeNil)
				So(p.History, ShouldHaveLength, 1)
			})

			Convey("Then exports are named by view and date", func() {
				e, err := svc.Export(ctx, views.Znatoki)
				So(err, ShouldBeNil)
				So(e.Filename, ShouldStartWith, "znatoki_")
			})
		})
	})
}

func TestService_View(t *testing.T) {
	Convey("Given a loaded service", t, func() {
		svc := newService(fixtureDocs(120))
		ctx := context.Background()
		So(svc.Refresh(ctx), ShouldBeNil)

		Convey("A sort column starts in its own default direction", func() {
			v, err := svc.View(ctx, service.ViewRequest{View: views.Capital, Sort: "username"})
			So(err, ShouldBeNil)
			So(v.State.Sort, ShouldResemble, pipeline.SortKey{Column: "username", Direction: pipeline.Asc})
			So(v.Tables[0].Rows[0].Cells[0].Text, ShouldEqual, "p001")
		})

		Convey("An explicit direction wins", func() {
			v, err := svc.View(ctx, service.ViewRequest{View: views.Capital, Sort: "wallet", Direction: "asc", Page: 2})
			So(err, ShouldBeNil)
			So(v.State.Page, ShouldEqual, 2)
			So(v.Tables[0].Rows[0].Rank, ShouldEqual, 51)
		})

		Convey("An out-of-range page falls back to the first", func() {
			v, err := svc.View(ctx, service.ViewRequest{View: views.Capital, Page: 99})
			So(err, ShouldBeNil)
			So(v.State.Page, ShouldEqual, 1)
			So(v.Pagination.TotalPages, ShouldEqual, 3)
		})

		Convey("Bad requests are rejected", func() {
			_, err := svc.View(ctx, service.ViewRequest{View: "nope"})
			So(errors.Is(err, views.ErrUnknownView), ShouldBeTrue)
			_, err = svc.View(ctx, service.ViewRequest{View: views.Capital, Sort: "height"})
			So(errors.Is(err, pipeline.ErrUnknownColumn), ShouldBeTrue)
			_, err = svc.View(ctx, service.ViewRequest{View: views.Capital, Direction: "up"})
			So(errors.Is(err, service.ErrInvalidAction), ShouldBeTrue)
		})

		Convey("Ratings use the requested level", func() {
			v, err := svc.View(ctx, service.ViewRequest{View: views.Ratings, Level: "Эксперт"})
			So(err, ShouldBeNil)
			So(v.State.Level, ShouldEqual, "Эксперт")
			So(v.Warnings, ShouldHaveLength, 1)
		})
	})
}

func TestService_Sessions(t *testing.T) {
	Convey("Given an open capital session", t, func() {
		svc := newService(fixtureDocs(120))
		ctx := context.Background()
		So(svc.Refresh(ctx), ShouldBeNil)

		sess, v, err := svc.OpenSession(ctx, views.Capital, views.Params{}, "")
		So(err, ShouldBeNil)
		So(v.State.Page, ShouldEqual, 1)

		Convey("Page actions move within range only", func() {
			_, v, err := svc.Act(ctx, sess.ID, service.Action{Kind: service.ActionPage, Value: "3"})
			So(err, ShouldBeNil)
			So(v.State.Page, ShouldEqual, 3)

			s2, v, err := svc.Act(ctx, sess.ID, service.Action{Kind: service.ActionPage, Value: "9"})
			So(err, ShouldBeNil)
			So(v.State.Page, ShouldEqual, 3)
			So(s2.State.Page, ShouldEqual, 3)
		})

		Convey("Search and sort return to the first page", func() {
			_, _, err := svc.Act(ctx, sess.ID, service.Action{Kind: service.ActionPage, Value: "2"})
			So(err, ShouldBeNil)
			_, v, err := svc.Act(ctx, sess.ID, service.Action{Kind: service.ActionSearch, Value: "P1"})
			So(err, ShouldBeNil)
			So(v.State.Page, ShouldEqual, 1)
			So(v.State.Search, ShouldEqual, "P1")

			_, v, err = svc.Act(ctx, sess.ID, service.Action{Kind: service.ActionSort, Value: "capital"})
			So(err, ShouldBeNil)
			So(v.State.Sort, ShouldResemble, pipeline.SortKey{Column: "capital", Direction: pipeline.Asc})

			got, cur, err := svc.SessionView(ctx, sess.ID)
			So(err, ShouldBeNil)
			So(got.State, ShouldResemble, v.State)
			So(cur.TotalFiltered, ShouldEqual, v.TotalFiltered)
		})

		Convey("Invalid actions leave the state alone", func() {
			_, _, err := svc.Act(ctx, sess.ID, service.Action{Kind: "jump", Value: "1"})
			So(errors.Is(err, service.ErrUnknownAction), ShouldBeTrue)
			_, _, err = svc.Act(ctx, sess.ID, service.Action{Kind: service.ActionPage, Value: "x"})
			So(errors.Is(err, service.ErrInvalidAction), ShouldBeTrue)
			_, _, err = svc.Act(ctx, sess.ID, service.Action{Kind: service.ActionSort, Value: "height"})
			So(errors.Is(err, pipeline.ErrUnknownColumn), ShouldBeTrue)

			got, _, err := svc.SessionView(ctx, sess.ID)
			So(err, ShouldBeNil)
			So(got.State, ShouldResemble, sess.State)
		})

		Convey("Closed sessions are gone", func() {
			So(svc.CloseSession(ctx, sess.ID), ShouldBeNil)
			So(errors.Is(svc.CloseSession(ctx, sess.ID), session.ErrNotFound), ShouldBeTrue)
			_, _, err := svc.SessionView(ctx, sess.ID)
			So(errors.Is(err, session.ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestService_StartStop(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := newService(fixtureDocs(3), service.WithRefreshInterval(time.Hour), service.WithSessionTTL(time.Hour))
		defer svc.Stop()

		Convey("When starting the service", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			So(svc.Start(ctx), ShouldBeNil)

			Convey("Then it is started with a snapshot", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["players"], ShouldEqual, 3)
			})

			Convey("Then starting again is a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})

			Convey("Then stopping marks it stopped", func() {
				svc.Stop()
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})
	})

	Convey("Given a source that is down", t, func() {
		svc := newService(&docs{data: map[string][]byte{}}, service.WithRefreshInterval(time.Hour))
		defer svc.Stop()

		Convey("Start still succeeds and views stay unavailable", func() {
			So(svc.Start(context.Background()), ShouldBeNil)
			_, err := svc.View(context.Background(), service.ViewRequest{View: views.Players})
			So(errors.Is(err, views.ErrUnavailable), ShouldBeTrue)
			So(svc.GetStats()["lastError"], ShouldNotBeEmpty)
		})
	})
}
