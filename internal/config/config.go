// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8090".
	Addr string `koanf:"addr"`

	// DataDir is the directory holding applications.parquet,
	// profiles.parquet, programs.parquet, docs.md and
	// municipalities.geojson.
	DataDir string `koanf:"data_dir"`

	// AdmissionStage, StageYear and RequireCompetition form the fixed
	// load-time predicate applied to application rows before joining.
	// They are deployment constants, not user-adjustable view parameters.
	AdmissionStage     string `koanf:"admission_stage"`
	StageYear          int    `koanf:"stage_year"`
	RequireCompetition bool   `koanf:"require_competition"`

	// DefaultMunicipality preselects the municipality drill-down view.
	DefaultMunicipality string `koanf:"default_municipality"`

	// SampleRows bounds the homepage dataset sample.
	SampleRows int `koanf:"sample_rows"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use and currently
// unused.
func New(_ context.Context) *Config {
	c := &Config{
		LogLevel:            "info",
		Addr:                ":8090",
		DataDir:             "admissions",
		AdmissionStage:      "Main Admission",
		StageYear:           2024,
		RequireCompetition:  true,
		DefaultMunicipality: "Vilniaus m. sav.",
		SampleRows:          20,
	}
	return c
}
