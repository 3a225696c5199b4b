// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/admitlab/admitboard/internal/domain/views"
)

// TimingDependencies defines the interface for the choice timing view.
type TimingDependencies interface {
	Timing(ctx context.Context, municipality string) (*views.TimingResult, error)
	DefaultMunicipality() string
}

// TimingHandler handles choice timing requests.
type TimingHandler struct {
	deps TimingDependencies
}

// NewTimingHandler creates a new timing handler.
func NewTimingHandler(deps TimingDependencies) *TimingHandler {
	return &TimingHandler{deps: deps}
}

// HandleTiming handles GET /api/timing?municipality=X requests. An empty
// municipality falls back to the configured default.
func (h *TimingHandler) HandleTiming(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_timing"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	result, err := h.deps.Timing(r.Context(), r.URL.Query().Get("municipality"))
	respond(w, op, result, err)
}
