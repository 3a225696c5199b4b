// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/admitlab/admitboard/internal/domain/views"
)

// MunicipalityDependencies defines the interface for the municipality
// drill-down view.
type MunicipalityDependencies interface {
	Municipality(ctx context.Context, name string) (*views.MunicipalityResult, error)
}

// MunicipalityHandler handles municipality drill-down requests.
type MunicipalityHandler struct {
	deps MunicipalityDependencies
}

// NewMunicipalityHandler creates a new municipality handler.
func NewMunicipalityHandler(deps MunicipalityDependencies) *MunicipalityHandler {
	return &MunicipalityHandler{deps: deps}
}

// HandleMunicipality handles GET /api/municipality?name=X requests. An
// absent name selects the configured default municipality.
func (h *MunicipalityHandler) HandleMunicipality(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_municipality"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	result, err := h.deps.Municipality(r.Context(), r.URL.Query().Get("name"))
	respond(w, op, result, err)
}
