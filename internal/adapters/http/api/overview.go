// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/admitlab/admitboard/internal/domain/views"
)

// OverviewDependencies defines the interface for the overview view.
type OverviewDependencies interface {
	Overview(ctx context.Context, groupBy string, filter []string) (*views.OverviewResult, error)
}

// OverviewHandler handles overview requests.
type OverviewHandler struct {
	deps OverviewDependencies
}

// NewOverviewHandler creates a new overview handler.
func NewOverviewHandler(deps OverviewDependencies) *OverviewHandler {
	return &OverviewHandler{deps: deps}
}

// HandleOverview handles GET /api/overview?group_by=X&filter=A&filter=B
// requests. An absent group_by defaults to institutions; an absent filter
// selects all values.
func (h *OverviewHandler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_overview"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	result, err := h.deps.Overview(r.Context(), q.Get("group_by"), q["filter"])
	respond(w, op, result, err)
}
