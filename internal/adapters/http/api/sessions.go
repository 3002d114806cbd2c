package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	service "github.com/iq-capitalist/iq-capitalist.github.io/internal/app"
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/adapters/session"
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/views"
	"github.com/iq-capitalist/iq-capitalist.github.io/pkg/logger"
)

const maxBodyBytes = 1 << 16

// SessionsHandler serves server-side view sessions.
type SessionsHandler struct {
	deps Dependencies
	log  logger.Logger
}

// openSessionRequest mirrors the OpenAPI schema for POST /api/sessions.
type openSessionRequest struct {
	View       string `json:"view"`
	Level      string `json:"level"`
	Tournament int    `json:"tournament"`
}

type sessionResponse struct {
	Session session.Session `json:"session"`
	View    views.View      `json:"view"`
}

// HandleOpen handles POST /api/sessions.
func (h *SessionsHandler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	const op = "api.open_session"
	var req openSessionRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, h.log, WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.View) == "" {
		writeError(w, r, h.log, WrapKind(op, ErrBadRequest, errors.New("missing view")))
		return
	}
	sess, v, err := h.deps.OpenSession(r.Context(), req.View, views.Params{Tournament: req.Tournament}, req.Level)
	if err != nil {
		writeError(w, r, h.log, Wrap(op, err))
		return
	}
	w.Header().Set("Location", "/api/sessions/"+sess.ID)
	writeJSON(w, http.StatusCreated, sessionResponse{Session: sess, View: v})
}

// HandleGet handles GET /api/sessions/{id}.
func (h *SessionsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	sess, v, err := h.deps.SessionView(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.log, Wrap("api.get_session", err))
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Session: sess, View: v})
}

// HandleAct handles POST /api/sessions/{id}/actions.
func (h *SessionsHandler) HandleAct(w http.ResponseWriter, r *http.Request) {
	const op = "api.session_action"
	var a service.Action
	if err := decodeBody(w, r, &a); err != nil {
		writeError(w, r, h.log, WrapKind(op, ErrBadRequest, err))
		return
	}
	if a.Kind == "" {
		writeError(w, r, h.log, WrapKind(op, ErrBadRequest, errors.New("missing action")))
		return
	}
	sess, v, err := h.deps.Act(r.Context(), r.PathValue("id"), a)
	if err != nil {
		writeError(w, r, h.log, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Session: sess, View: v})
}

// HandleClose handles DELETE /api/sessions/{id}.
func (h *SessionsHandler) HandleClose(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.CloseSession(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, h.log, Wrap("api.close_session", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
