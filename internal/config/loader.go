package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New(ctx))
//  2. file (YAML) if ADMITBOARD_CONFIG is set
//  3. env (prefix ADMITBOARD_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New(ctx)

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("ADMITBOARD_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: ADMITBOARD_ADDR, ADMITBOARD_DATA_DIR, ...
	// Map env keys like ADMITBOARD_STAGE_YEAR -> stage_year (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("ADMITBOARD_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "admitboard_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Basic validation
	switch {
	case cfg.Addr == "":
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case cfg.DataDir == "":
		return nil, fmt.Errorf("%w: data_dir must not be empty", ErrInvalidConfig)
	case cfg.AdmissionStage == "":
		return nil, fmt.Errorf("%w: admission_stage must not be empty", ErrInvalidConfig)
	case cfg.StageYear < 1900 || cfg.StageYear > 2200:
		return nil, fmt.Errorf("%w: stage_year %d out of range", ErrInvalidConfig, cfg.StageYear)
	case cfg.SampleRows < 1:
		return nil, fmt.Errorf("%w: sample_rows must be positive", ErrInvalidConfig)
	}
	return &cfg, nil
}
