// Package service loads the published leaderboard documents, keeps the
// latest snapshot and answers view requests for the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/iq-capitalist/iq-capitalist.github.io/internal/adapters/repository"
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/adapters/session"
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/adapters/source"
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/adapters/worker"
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/domain/model"
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/domain/pipeline"
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/render"
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/views"
	"github.com/iq-capitalist/iq-capitalist.github.io/pkg/logger"
	"github.com/iq-capitalist/iq-capitalist.github.io/pkg/metrics"
)

// Session actions.
const (
	ActionSearch = "search"
	ActionSort   = "sort"
	ActionPage   = "page"
	ActionLevel  = "level"
)

const minSweepInterval = time.Second

// ViewRequest is a stateless view query. Zero fields keep the view defaults.
type ViewRequest struct {
	View      string
	Params    views.Params
	Level     string
	Search    string
	Sort      string
	Direction string
	Page      int
}

// Action is one UI event applied to a session.
type Action struct {
	Kind  string `json:"action"`
	Value string `json:"value"`
}

// Service implements the API dependencies for the leaderboard site.
type Service struct {
	// mu guards the lifecycle, refreshMu serialises snapshot loads and
	// stateMu guards the refresh bookkeeping below.
	mu        sync.RWMutex
	refreshMu sync.Mutex
	stateMu   sync.RWMutex

	// Core components
	fetcher   source.Fetcher
	loader    *source.Loader
	pool      *worker.Pool
	store     repository.Store
	sessions  *session.Registry
	views     *views.Registry
	scheduler gocron.Scheduler

	// Configuration
	documents       Documents
	workers         int
	refreshInterval time.Duration
	sessionCapacity int
	sessionTTL      time.Duration
	locale          string
	now             func() time.Time

	// State
	started     bool
	lastRefresh time.Time
	lastError   string
	refreshes   int
	failures    int

	logger logger.Logger
}

// New constructs a Service. A fetcher is required.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		documents: Documents{
			Players: "all_data.json",
			Ratings: "data.json",
			Index:   "tournaments-index.json",
		},
		workers:         4,
		refreshInterval: 5 * time.Minute,
		sessionCapacity: 10_000,
		sessionTTL:      30 * time.Minute,
		locale:          "ru",
		now:             time.Now,
		logger:          logger.Get().Named("service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.fetcher == nil {
		return nil, ErrNoFetcher
	}

	registry, err := views.NewRegistry(render.NewFormatter(s.locale))
	if err != nil {
		return nil, err
	}
	s.views = registry
	s.loader = source.NewLoader(s.fetcher, source.WithLogger(s.logger.Named("source")))
	s.pool = worker.NewPool(s.loader, worker.WithSize(s.workers), worker.WithLogger(s.logger.Named("worker-pool")))
	s.store = repository.NewSnapshotStore(repository.WithClock(s.now))
	s.sessions = session.NewRegistry(
		session.WithCapacity(s.sessionCapacity),
		session.WithTTL(s.sessionTTL),
		session.WithClock(s.now),
	)
	return s, nil
}

// Start loads the first snapshot and schedules refreshes and session sweeps.
// A failing first load is logged; views answer unavailable until a refresh succeeds.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.logger.Info(ctx, "starting leaderboard service...")

	if err := s.Refresh(ctx); err != nil {
		s.logger.Error(ctx, "initial snapshot load failed", logger.Error(err))
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}
	if _, err := sched.NewJob(
		gocron.DurationJob(s.refreshInterval),
		gocron.NewTask(func() {
			if err := s.Refresh(context.Background()); err != nil {
				s.logger.Error(context.Background(), "scheduled refresh failed", logger.Error(err))
			}
		}),
		gocron.WithName("refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	); err != nil {
		return fmt.Errorf("schedule refresh: %w", err)
	}
	if _, err := sched.NewJob(
		gocron.DurationJob(max(s.sessionTTL/4, minSweepInterval)),
		gocron.NewTask(func() {
			if n := s.sessions.Sweep(s.now()); n > 0 {
				s.logger.Debug(context.Background(), "expired sessions swept", logger.Int("count", n))
			}
			s.recordSystemMetrics()
		}),
		gocron.WithName("session-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	); err != nil {
		return fmt.Errorf("schedule session sweep: %w", err)
	}
	sched.Start()
	s.scheduler = sched

	s.started = true
	s.logger.Info(ctx, "leaderboard service started",
		logger.Int("workers", s.workers),
		logger.Duration("refreshInterval", s.refreshInterval),
		logger.Int("sessionCapacity", s.sessionCapacity),
		logger.Duration("sessionTTL", s.sessionTTL),
	)
	return nil
}

// Stop shuts the scheduler down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.logger.Info(context.Background(), "stopping leaderboard service...")
	if s.scheduler != nil {
		if err := s.scheduler.Shutdown(); err != nil {
			s.logger.Warn(context.Background(), "scheduler shutdown", logger.Error(err))
		}
		s.scheduler = nil
	}
	s.started = false
	s.logger.Info(context.Background(), "leaderboard service stopped")
}

// Refresh reloads every document and publishes a new snapshot. The previous
// snapshot stays in place when the players roster cannot be loaded.
func (s *Service) Refresh(ctx context.Context) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	start := time.Now()
	b, err := s.load(ctx)
	if err == nil {
		err = s.store.Publish(ctx, b)
	}
	elapsed := float64(time.Since(start).Milliseconds())

	s.stateMu.Lock()
	s.refreshes++
	if err != nil {
		s.failures++
		s.lastError = err.Error()
	} else {
		s.lastRefresh = b.LoadedAt
		s.lastError = ""
	}
	s.stateMu.Unlock()

	if err != nil {
		metrics.RecordSnapshotRefresh(false, elapsed, 0)
		return err
	}
	metrics.RecordSnapshotRefresh(true, elapsed, b.LoadedAt.Unix())
	s.logger.Info(ctx, "snapshot published",
		logger.Int("players", len(b.Roster.Players)),
		logger.Int("tournaments", len(b.Tournaments)),
		logger.Float64("durationMs", elapsed),
	)
	return nil
}

func (s *Service) load(ctx context.Context) (*model.Bundle, error) {
	b := &model.Bundle{Tournaments: map[int]*model.Tournament{}}
	_, err := s.loader.Load(ctx,
		source.Document{Name: s.documents.Players, Required: true, Decode: func(data []byte) (err error) {
			b.Roster, err = model.DecodeRoster(data)
			return err
		}},
		source.Document{Name: s.documents.Ratings, Decode: func(data []byte) (err error) {
			b.Ratings, err = model.DecodeRatings(data)
			return err
		}},
		source.Document{Name: s.documents.Index, Decode: func(data []byte) (err error) {
			b.Index, err = model.DecodeIndex(data)
			return err
		}},
	)
	if err != nil {
		return nil, err
	}

	if b.Index != nil {
		ids := make([]int, 0, len(b.Index.Tournaments))
		for _, e := range b.Index.Tournaments {
			ids = append(ids, e.ID)
		}
		details, err := s.pool.Run(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("load tournament details: %w", err)
		}
		b.Tournaments = details
	}
	b.LoadedAt = s.now()
	return b, nil
}

func (s *Service) bundle(ctx context.Context) (*model.Bundle, error) {
	b, err := s.store.Load(ctx)
	if errors.Is(err, repository.ErrNotLoaded) {
		return nil, fmt.Errorf("%w: %w", views.ErrUnavailable, err)
	}
	return b, err
}

// ViewNames lists the paginated views.
func (s *Service) ViewNames() []string { return s.views.Names() }

// View runs the pipeline for a stateless request.
func (s *Service) View(ctx context.Context, req ViewRequest) (views.View, error) {
	b, err := s.bundle(ctx)
	if err != nil {
		return views.View{}, err
	}
	builder, err := s.views.Get(req.View)
	if err != nil {
		return views.View{}, err
	}

	st, err := builder.Initial(b, req.Params)
	if err != nil {
		return views.View{}, err
	}
	if req.Level != "" {
		st = st.SetLevel(req.Level)
	}
	if req.Search != "" {
		st = st.SetSearch(req.Search)
	}
	if req.Sort != "" {
		st.Sort = pipeline.SortKey{}
		if st, err = builder.ToggleSort(st, req.Sort); err != nil {
			return views.View{}, err
		}
	}
	if req.Direction != "" {
		dir, ok := pipeline.ParseDirection(req.Direction)
		if !ok {
			return views.View{}, fmt.Errorf("%w: direction %q", ErrInvalidAction, req.Direction)
		}
		st.Sort.Direction = dir
	}
	if req.Page > 0 {
		st.Page = req.Page
	}
	return s.build(ctx, builder, b, req.Params, st)
}

func (s *Service) build(ctx context.Context, builder views.Builder, b *model.Bundle, p views.Params, st pipeline.State) (views.View, error) {
	v, err := builder.Build(b, p, st)
	if err != nil {
		return views.View{}, err
	}
	for _, w := range v.Warnings {
		metrics.RecordDegradedField(w.Document, w.Field)
		s.logger.Warn(ctx, "degraded field replaced by zero",
			logger.String("view", v.Name),
			logger.String("document", w.Document),
			logger.String("field", w.Field),
		)
	}
	return v, nil
}

// OpenSession starts a view session in the view's initial state.
func (s *Service) OpenSession(ctx context.Context, name string, p views.Params, level string) (session.Session, views.View, error) {
	b, err := s.bundle(ctx)
	if err != nil {
		return session.Session{}, views.View{}, err
	}
	builder, err := s.views.Get(name)
	if err != nil {
		return session.Session{}, views.View{}, err
	}
	st, err := builder.Initial(b, p)
	if err != nil {
		return session.Session{}, views.View{}, err
	}
	if level != "" {
		st = st.SetLevel(level)
	}
	v, err := s.build(ctx, builder, b, p, st)
	if err != nil {
		return session.Session{}, views.View{}, err
	}
	sess := s.sessions.Create(ctx, name, p, v.State)
	return sess, v, nil
}

// SessionView renders a session's current state.
func (s *Service) SessionView(ctx context.Context, id string) (session.Session, views.View, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return session.Session{}, views.View{}, err
	}
	b, err := s.bundle(ctx)
	if err != nil {
		return session.Session{}, views.View{}, err
	}
	builder, err := s.views.Get(sess.View)
	if err != nil {
		return session.Session{}, views.View{}, err
	}
	v, err := s.build(ctx, builder, b, sess.Params, sess.State)
	return sess, v, err
}

// Act applies one UI event to a session. A page outside the current range
// leaves the state unchanged.
func (s *Service) Act(ctx context.Context, id string, a Action) (session.Session, views.View, error) {
	b, err := s.bundle(ctx)
	if err != nil {
		return session.Session{}, views.View{}, err
	}

	var out views.View
	sess, err := s.sessions.Update(ctx, id, func(sess session.Session) (session.Session, error) {
		builder, err := s.views.Get(sess.View)
		if err != nil {
			return sess, err
		}
		st := sess.State
		switch a.Kind {
		case ActionSearch:
			st = st.SetSearch(a.Value)
		case ActionSort:
			if st, err = builder.ToggleSort(st, a.Value); err != nil {
				return sess, err
			}
		case ActionLevel:
			st = st.SetLevel(a.Value)
		case ActionPage:
			n, err := strconv.Atoi(a.Value)
			if err != nil {
				return sess, fmt.Errorf("%w: page %q", ErrInvalidAction, a.Value)
			}
			current, err := builder.Build(b, sess.Params, st)
			if err != nil {
				return sess, err
			}
			total := 1
			if current.Pagination != nil {
				total = current.Pagination.TotalPages
			}
			st, _ = st.SetPage(n, total)
		default:
			return sess, fmt.Errorf("%w: %q", ErrUnknownAction, a.Kind)
		}

		v, err := s.build(ctx, builder, b, sess.Params, st)
		if err != nil {
			return sess, err
		}
		out = v
		sess.State = v.State
		return sess, nil
	})
	if err != nil {
		return session.Session{}, views.View{}, err
	}
	return sess, out, nil
}

// CloseSession ends a session.
func (s *Service) CloseSession(ctx context.Context, id string) error {
	if !s.sessions.Delete(ctx, id) {
		return fmt.Errorf("%w: %s", session.ErrNotFound, id)
	}
	return nil
}

// Tournaments returns the tournament history cards.
func (s *Service) Tournaments(ctx context.Context) ([]views.TournamentCard, error) {
	b, err := s.bundle(ctx)
	if err != nil {
		return nil, err
	}
	return s.views.Tournaments(b)
}

// Tournament returns the detail header of one tournament.
func (s *Service) Tournament(ctx context.Context, id int) (views.TournamentDetail, error) {
	b, err := s.bundle(ctx)
	if err != nil {
		return views.TournamentDetail{}, err
	}
	return s.views.Tournament(b, id)
}

// Profile returns a player's page.
func (s *Service) Profile(ctx context.Context, idOrName string) (views.Profile, error) {
	b, err := s.bundle(ctx)
	if err != nil {
		return views.Profile{}, err
	}
	return s.views.Profile(b, idOrName)
}

// Export renders the CSV download of a view.
func (s *Service) Export(ctx context.Context, name string) (views.Export, error) {
	b, err := s.bundle(ctx)
	if err != nil {
		return views.Export{}, err
	}
	return s.views.Export(b, name, s.now())
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()

	stats := map[string]any{
		"started":         started,
		"workers":         s.workers,
		"refreshInterval": s.refreshInterval.String(),
		"refreshes":       s.refreshes,
		"refreshFailures": s.failures,
		"snapshotVersion": s.store.Version(),
		"sessions":        s.sessions.Len(),
		"sessionCapacity": s.sessionCapacity,
	}
	if !s.lastRefresh.IsZero() {
		stats["lastRefresh"] = s.lastRefresh.UTC().Format(time.RFC3339)
	}
	if s.lastError != "" {
		stats["lastError"] = s.lastError
	}
	if b, err := s.store.Load(context.Background()); err == nil {
		stats["players"] = len(b.Roster.Players)
		stats["tournaments"] = len(b.Tournaments)
	}
	s.recordSystemMetrics()
	return stats
}

func (s *Service) recordSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
	metrics.UpdateSessionsActive(s.sessions.Len())
}
