// Package app provides the core business service that implements the
// dependencies required by the HTTP API: it loads the dataset once at
// startup, runs the join-and-derive pipeline, and answers view queries
// against the read-only joined table.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/admitlab/admitboard/internal/adapters/storage"
	"github.com/admitlab/admitboard/internal/domain/dataset"
	"github.com/admitlab/admitboard/internal/domain/views"
	"github.com/admitlab/admitboard/pkg/logger"
	"github.com/admitlab/admitboard/pkg/metrics"
)

// Service implements the API dependencies for the dashboard.
type Service struct {
	// Configuration
	dataDir             string
	predicate           dataset.Predicate
	defaultMunicipality string
	sampleRows          int

	// Loaded once in Start, read-only afterwards. No locking needed: the
	// table is never mutated within a session.
	table        *dataset.Table
	docs         string
	geojson      []byte
	loadedAt     time.Time
	loadDuration time.Duration

	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDataDir sets the dataset directory.
func WithDataDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.dataDir = dir
		}
	}
}

// WithPredicate sets the fixed load-time filter.
func WithPredicate(p dataset.Predicate) Option {
	return func(s *Service) {
		s.predicate = p
	}
}

// WithDefaultMunicipality sets the municipality preselected on the
// drill-down view.
func WithDefaultMunicipality(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.defaultMunicipality = name
		}
	}
}

// WithSampleRows bounds the homepage dataset sample.
func WithSampleRows(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.sampleRows = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Service with the given options applied over defaults.
func New(opts ...Option) *Service {
	s := &Service{
		dataDir:             "admissions",
		predicate:           dataset.DefaultPredicate(),
		defaultMunicipality: "Vilniaus m. sav.",
		sampleRows:          20,
		logger:              logger.Get(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the three source tables, runs the join-and-derive pipeline
// and retains the result. Any read or schema failure is fatal: no partial
// dashboard is served.
func (s *Service) Start(ctx context.Context) error {
	if s.started {
		return ErrAlreadyStarted
	}

	begin := time.Now()
	loader := storage.NewLoader(s.dataDir)

	src, err := loader.Load(ctx)
	if err != nil {
		metrics.RecordDatasetLoadError()
		return fmt.Errorf("%w: %w", ErrLoad, err)
	}
	docs, err := loader.LoadDocs()
	if err != nil {
		metrics.RecordDatasetLoadError()
		return fmt.Errorf("%w: %w", ErrLoad, err)
	}
	geojson, err := loader.LoadGeoJSON()
	if err != nil {
		metrics.RecordDatasetLoadError()
		return fmt.Errorf("%w: %w", ErrLoad, err)
	}

	s.table = dataset.Build(src.Applications, src.Profiles, src.Programs, s.predicate)
	s.docs = docs
	s.geojson = geojson
	s.loadedAt = time.Now()
	s.loadDuration = time.Since(begin)
	s.started = true

	rows := s.table.Len()
	persons := s.table.DistinctPersons()
	metrics.ObserveDatasetLoad(float64(s.loadDuration.Milliseconds()), rows, persons)
	s.logger.Info(ctx, "dataset loaded",
		logger.Int("applications", len(src.Applications)),
		logger.Int("profiles", len(src.Profiles)),
		logger.Int("programs", len(src.Programs)),
		logger.Int("joined_rows", rows),
		logger.Int("persons", persons),
		logger.Duration("took", s.loadDuration),
	)
	return nil
}

// Stop releases the service. The dataset is plain memory; there is
// nothing to flush.
func (s *Service) Stop() {
	s.started = false
}

func (s *Service) ensureStarted() error {
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// Home answers the homepage view.
func (s *Service) Home(ctx context.Context) (*views.HomeResult, error) {
	if err := s.ensureStarted(); err != nil {
		return nil, err
	}
	return observe(ctx, s.logger, "home", func() (*views.HomeResult, error) {
		return views.Home(s.table, s.sampleRows, s.docs), nil
	})
}

// Overview answers the aggregate comparison view.
func (s *Service) Overview(ctx context.Context, groupBy string, filter []string) (*views.OverviewResult, error) {
	if err := s.ensureStarted(); err != nil {
		return nil, err
	}
	return observe(ctx, s.logger, "overview", func() (*views.OverviewResult, error) {
		return views.Overview(s.table, groupBy, filter)
	})
}

// Municipality answers the municipality drill-down view. An empty name
// selects the configured default.
func (s *Service) Municipality(ctx context.Context, name string) (*views.MunicipalityResult, error) {
	if err := s.ensureStarted(); err != nil {
		return nil, err
	}
	if name == "" {
		name = s.defaultMunicipality
	}
	return observe(ctx, s.logger, "municipality", func() (*views.MunicipalityResult, error) {
		return views.Municipality(s.table, name), nil
	})
}

// University answers the institution drill-down view.
func (s *Service) University(ctx context.Context, institution, metric string) (*views.UniversityResult, error) {
	if err := s.ensureStarted(); err != nil {
		return nil, err
	}
	return observe(ctx, s.logger, "university", func() (*views.UniversityResult, error) {
		return views.University(s.table, institution, metric)
	})
}

// Timing answers the application timing view. An empty municipality
// selects the configured default.
func (s *Service) Timing(ctx context.Context, municipality string) (*views.TimingResult, error) {
	if err := s.ensureStarted(); err != nil {
		return nil, err
	}
	if municipality == "" {
		municipality = s.defaultMunicipality
	}
	return observe(ctx, s.logger, "timing", func() (*views.TimingResult, error) {
		return views.Timing(s.table, municipality), nil
	})
}

// Options returns the distinct values of a dimension, ordered by
// distinct-person count descending, for the view selectors.
func (s *Service) Options(_ context.Context, dimension string) ([]string, error) {
	if err := s.ensureStarted(); err != nil {
		return nil, err
	}
	if !dataset.IsDimension(dimension) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDimension, dimension)
	}
	return s.table.UniqueValues(dimension), nil
}

// GeoJSON returns the municipality boundary polygons verbatim.
func (s *Service) GeoJSON(_ context.Context) ([]byte, error) {
	if err := s.ensureStarted(); err != nil {
		return nil, err
	}
	return s.geojson, nil
}

// DefaultMunicipality exposes the configured drill-down default.
func (s *Service) DefaultMunicipality() string {
	return s.defaultMunicipality
}

// GetStats returns service statistics for the stats endpoint and the
// metrics updater.
func (s *Service) GetStats() map[string]interface{} {
	stats := map[string]interface{}{
		"started": s.started,
	}
	if s.started {
		stats["rows"] = s.table.Len()
		stats["persons"] = s.table.DistinctPersons()
		stats["loadedAt"] = s.loadedAt.UTC().Format(time.RFC3339)
		stats["loadDurationMs"] = s.loadDuration.Milliseconds()
		stats["admissionStage"] = s.predicate.AdmissionStage
		stats["stageYear"] = s.predicate.StageYear
	}
	return stats
}

// observe wraps a view computation with request/duration/error metrics.
func observe[T any](ctx context.Context, log logger.Logger, view string, compute func() (T, error)) (T, error) {
	start := time.Now()
	metrics.RecordViewRequest(view)
	result, err := compute()
	metrics.RecordViewDuration(view, float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordViewError(view)
		log.Warn(ctx, "view computation rejected", logger.String("view", view), logger.Error(err))
	}
	return result, err
}
