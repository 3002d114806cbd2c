package api

import (
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	service "github.com/iq-capitalist/iq-capitalist.github.io/internal/app"
	"github.com/iq-capitalist/iq-capitalist.github.io/pkg/logger"
)

// ViewsHandler serves stateless view runs and CSV exports.
type ViewsHandler struct {
	deps Dependencies
	log  logger.Logger
}

// HandleList handles GET /api/views.
func (h *ViewsHandler) HandleList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"views": h.deps.ViewNames()})
}

// HandleView handles GET /api/views/{view}?q=&sort=&dir=&page=&level=&tournament=.
func (h *ViewsHandler) HandleView(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_view"
	req, err := parseViewRequest(r.PathValue("view"), r.URL.Query())
	if err != nil {
		writeError(w, r, h.log, WrapKind(op, ErrBadRequest, err))
		return
	}
	v, err := h.deps.View(r.Context(), req)
	if err != nil {
		writeError(w, r, h.log, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// HandleExport handles GET /api/export/{view}.csv.
func (h *ViewsHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	const op = "api.export"
	name, ok := strings.CutSuffix(r.PathValue("file"), ".csv")
	if !ok || name == "" {
		writeError(w, r, h.log, NewKind(op, ErrNotFound))
		return
	}
	e, err := h.deps.Export(r.Context(), name)
	if err != nil {
		writeError(w, r, h.log, Wrap(op, err))
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": e.Filename}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(e.Data)
}

func parseViewRequest(name string, q url.Values) (service.ViewRequest, error) {
	req := service.ViewRequest{
		View:      name,
		Level:     q.Get("level"),
		Search:    q.Get("q"),
		Sort:      q.Get("sort"),
		Direction: q.Get("dir"),
	}
	var err error
	if req.Page, err = optionalInt(q, "page"); err != nil {
		return req, err
	}
	if req.Params.Tournament, err = optionalInt(q, "tournament"); err != nil {
		return req, err
	}
	return req, nil
}

func optionalInt(q url.Values, key string) (int, error) {
	raw := q.Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return n, nil
}

