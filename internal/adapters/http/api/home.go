// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/admitlab/admitboard/internal/domain/views"
)

// HomeDependencies defines the interface for the homepage view.
type HomeDependencies interface {
	Home(ctx context.Context) (*views.HomeResult, error)
}

// HomeHandler handles homepage requests.
type HomeHandler struct {
	deps HomeDependencies
}

// NewHomeHandler creates a new home handler.
func NewHomeHandler(deps HomeDependencies) *HomeHandler {
	return &HomeHandler{deps: deps}
}

// HandleHome handles GET /api/home requests.
func (h *HomeHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_home"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	result, err := h.deps.Home(r.Context())
	respond(w, op, result, err)
}
