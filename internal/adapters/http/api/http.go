// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	service "github.com/iq-capitalist/iq-capitalist.github.io/internal/app"
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/adapters/session"
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/views"
	"github.com/iq-capitalist/iq-capitalist.github.io/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	ViewNames() []string
	View(ctx context.Context, req service.ViewRequest) (views.View, error)

	OpenSession(ctx context.Context, name string, p views.Params, level string) (session.Session, views.View, error)
	SessionView(ctx context.Context, id string) (session.Session, views.View, error)
	Act(ctx context.Context, id string, a service.Action) (session.Session, views.View, error)
	CloseSession(ctx context.Context, id string) error

	Tournaments(ctx context.Context) ([]views.TournamentCard, error)
	Tournament(ctx context.Context, id int) (views.TournamentDetail, error)
	Profile(ctx context.Context, idOrName string) (views.Profile, error)
	Export(ctx context.Context, name string) (views.Export, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	viewsHandler      *ViewsHandler
	sessionsHandler   *SessionsHandler
	tournamentHandler *TournamentsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	o := options{logger: logger.Get().Named("api")}
	for _, opt := range opts {
		opt(&o)
	}
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		viewsHandler:      &ViewsHandler{deps: deps, log: o.logger},
		sessionsHandler:   &SessionsHandler{deps: deps, log: o.logger},
		tournamentHandler: &TournamentsHandler{deps: deps, log: o.logger},
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET /api/views", MetricsMiddleware(s.viewsHandler.HandleList, "views"))
	mux.HandleFunc("GET /api/views/{view}", MetricsMiddleware(s.viewsHandler.HandleView, "view"))
	mux.HandleFunc("GET /api/export/{file}", MetricsMiddleware(s.viewsHandler.HandleExport, "export"))

	mux.HandleFunc("POST /api/sessions", MetricsMiddleware(s.sessionsHandler.HandleOpen, "session_open"))
	mux.HandleFunc("GET /api/sessions/{id}", MetricsMiddleware(s.sessionsHandler.HandleGet, "session_get"))
	mux.HandleFunc("POST /api/sessions/{id}/actions", MetricsMiddleware(s.sessionsHandler.HandleAct, "session_act"))
	mux.HandleFunc("DELETE /api/sessions/{id}", MetricsMiddleware(s.sessionsHandler.HandleClose, "session_close"))

	mux.HandleFunc("GET /api/tournaments", MetricsMiddleware(s.tournamentHandler.HandleList, "tournaments"))
	mux.HandleFunc("GET /api/tournaments/{id}", MetricsMiddleware(s.tournamentHandler.HandleGet, "tournament"))
	mux.HandleFunc("GET /api/players/{id}", MetricsMiddleware(s.tournamentHandler.HandleProfile, "player"))
}

// Option configures the API server.
type Option func(*options)

type options struct {
	logger logger.Logger
}

// WithLogger sets the logger used for failed requests.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// retryAfter is the client hint sent while no snapshot has been loaded.
const retryAfter = 5 * time.Second

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	status, code := statusOf(err)
	if log != nil {
		fields := []logger.Field{
			logger.String("path", r.URL.Path),
			logger.String("requestId", RequestID(r.Context())),
			logger.Error(err),
		}
		switch {
		case status == http.StatusServiceUnavailable:
			log.Warn(r.Context(), "request failed", fields...)
		case status >= http.StatusInternalServerError:
			log.Error(r.Context(), "request failed", fields...)
		}
	}
	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter/time.Second)))
	}
	writeJSON(w, status, errorResponse{Code: code, Message: err.Error(), RequestID: RequestID(r.Context())})
}
