package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/iq-capitalist/iq-capitalist.github.io/internal/views"
	"github.com/iq-capitalist/iq-capitalist.github.io/pkg/logger"
)

// TournamentsHandler serves tournament history and player profiles.
type TournamentsHandler struct {
	deps Dependencies
	log  logger.Logger
}

type tournamentsResponse struct {
	Tournaments []views.TournamentCard `json:"tournaments"`
}

// HandleList handles GET /api/tournaments.
func (h *TournamentsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	cards, err := h.deps.Tournaments(r.Context())
	if err != nil {
		writeError(w, r, h.log, Wrap("api.list_tournaments", err))
		return
	}
	if cards == nil {
		cards = []views.TournamentCard{}
	}
	writeJSON(w, http.StatusOK, tournamentsResponse{Tournaments: cards})
}

// HandleGet handles GET /api/tournaments/{id}.
func (h *TournamentsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_tournament"
	raw := r.PathValue("id")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		writeError(w, r, h.log, WrapKind(op, ErrBadRequest, fmt.Errorf("invalid tournament id %q", raw)))
		return
	}
	d, err := h.deps.Tournament(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// HandleProfile handles GET /api/players/{id}; id is a numeric user id or a username.
func (h *TournamentsHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.deps.Profile(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.log, Wrap("api.get_player", err))
		return
	}
	writeJSON(w, http.StatusOK, p)
}
