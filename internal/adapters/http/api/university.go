// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/admitlab/admitboard/internal/domain/views"
)

// UniversityDependencies defines the interface for the institution
// drill-down view.
type UniversityDependencies interface {
	University(ctx context.Context, institution, metric string) (*views.UniversityResult, error)
}

// UniversityHandler handles institution drill-down requests.
type UniversityHandler struct {
	deps UniversityDependencies
}

// NewUniversityHandler creates a new university handler.
func NewUniversityHandler(deps UniversityDependencies) *UniversityHandler {
	return &UniversityHandler{deps: deps}
}

// HandleUniversity handles GET /api/university?institution=X&metric=Y
// requests. The institution is required; the metric defaults to the
// applicant count.
func (h *UniversityHandler) HandleUniversity(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_university"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	institution := strings.TrimSpace(q.Get("institution"))
	if institution == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	result, err := h.deps.University(r.Context(), institution, q.Get("metric"))
	respond(w, op, result, err)
}
