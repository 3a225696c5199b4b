// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"
)

// MetaDependencies defines the interface for metadata lookups used by
// filter controls and the map layer.
type MetaDependencies interface {
	Options(ctx context.Context, dimension string) ([]string, error)
	GeoJSON(ctx context.Context) ([]byte, error)
	DefaultMunicipality() string
}

// MetaHandler handles dimension option and boundary geometry requests.
type MetaHandler struct {
	deps MetaDependencies
}

// NewMetaHandler creates a new meta handler.
func NewMetaHandler(deps MetaDependencies) *MetaHandler {
	return &MetaHandler{deps: deps}
}

// optionsResponse carries the distinct values of one dimension plus the
// configured default selection when one applies.
type optionsResponse struct {
	Dimension string   `json:"dimension"`
	Values    []string `json:"values"`
	Default   string   `json:"default,omitempty"`
}

// HandleOptions handles GET /api/options?dimension=X requests.
func (h *MetaHandler) HandleOptions(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_options"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	dimension := strings.TrimSpace(r.URL.Query().Get("dimension"))
	if dimension == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	values, err := h.deps.Options(r.Context(), dimension)
	if err != nil {
		respond(w, op, nil, err)
		return
	}
	resp := optionsResponse{Dimension: dimension, Values: values}
	if dimension == "residence_municipality" {
		resp.Default = h.deps.DefaultMunicipality()
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleGeoJSON handles GET /api/geojson requests and serves the raw
// municipality boundary document.
func (h *MetaHandler) HandleGeoJSON(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_geojson"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	doc, err := h.deps.GeoJSON(r.Context())
	if err != nil {
		respond(w, op, nil, err)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	_, _ = w.Write(doc)
}
