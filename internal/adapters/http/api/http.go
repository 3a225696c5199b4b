// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	app "github.com/admitlab/admitboard/internal/app"
	"github.com/admitlab/admitboard/internal/domain/views"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Home(ctx context.Context) (*views.HomeResult, error)
	Overview(ctx context.Context, groupBy string, filter []string) (*views.OverviewResult, error)
	Municipality(ctx context.Context, name string) (*views.MunicipalityResult, error)
	University(ctx context.Context, institution, metric string) (*views.UniversityResult, error)
	Timing(ctx context.Context, municipality string) (*views.TimingResult, error)
	Options(ctx context.Context, dimension string) ([]string, error)
	GeoJSON(ctx context.Context) ([]byte, error)
	DefaultMunicipality() string
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler       *HealthHandler
	statsHandler        *StatsHandler
	homeHandler         *HomeHandler
	overviewHandler     *OverviewHandler
	municipalityHandler *MunicipalityHandler
	universityHandler   *UniversityHandler
	timingHandler       *TimingHandler
	metaHandler         *MetaHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:       NewHealthHandler(),
		statsHandler:        NewStatsHandler(statsProvider),
		homeHandler:         NewHomeHandler(deps),
		overviewHandler:     NewOverviewHandler(deps),
		municipalityHandler: NewMunicipalityHandler(deps),
		universityHandler:   NewUniversityHandler(deps),
		timingHandler:       NewTimingHandler(deps),
		metaHandler:         NewMetaHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/home", MetricsMiddleware(s.homeHandler.HandleHome, "home"))
	mux.HandleFunc("/api/overview", MetricsMiddleware(s.overviewHandler.HandleOverview, "overview"))
	mux.HandleFunc("/api/municipality", MetricsMiddleware(s.municipalityHandler.HandleMunicipality, "municipality"))
	mux.HandleFunc("/api/university", MetricsMiddleware(s.universityHandler.HandleUniversity, "university"))
	mux.HandleFunc("/api/timing", MetricsMiddleware(s.timingHandler.HandleTiming, "timing"))
	mux.HandleFunc("/api/options", MetricsMiddleware(s.metaHandler.HandleOptions, "options"))
	mux.HandleFunc("/api/geojson", MetricsMiddleware(s.metaHandler.HandleGeoJSON, "geojson"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// respond translates a view computation outcome to an HTTP response. View
// parameter errors map to 400; a service that has not finished loading
// maps to 503.
func respond(w http.ResponseWriter, op string, v any, err error) {
	if err == nil {
		writeJSON(w, http.StatusOK, v)
		return
	}
	switch {
	case isBadRequest(err):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	case isNotReady(err):
		writeError(w, http.StatusServiceUnavailable, "not_ready", Wrap(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}

// isBadRequest classifies view parameter errors.
func isBadRequest(err error) bool {
	return errors.Is(err, views.ErrUnknownDimension) ||
		errors.Is(err, views.ErrUnknownMetric) ||
		errors.Is(err, app.ErrUnknownDimension)
}

// isNotReady classifies requests that arrived before the dataset loaded.
func isNotReady(err error) bool {
	return errors.Is(err, app.ErrNotStarted)
}
