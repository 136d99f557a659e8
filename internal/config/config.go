// Package config loads runtime settings from the environment.
package config

import (
	"runtime"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"gpcorr/domain/core"
)

// Settings are the runtime knobs read from GPCORR_* environment
// variables. Analysis options such as the statistic, the filter and
// the correction procedure are chosen in code; only operational
// concerns live here.
type Settings struct {
	// Workers bounds per-term concurrency. Zero selects NumCPU.
	Workers int `envconfig:"GPCORR_WORKERS" default:"0"`

	// LogLevel is a logrus level name.
	LogLevel string `envconfig:"GPCORR_LOG_LEVEL" default:"warn"`

	// LogFormat is "text" or "json".
	LogFormat string `envconfig:"GPCORR_LOG_FORMAT" default:"text"`

	// ClosureCacheSize bounds the per-direction ontology closure
	// caches.
	ClosureCacheSize int `envconfig:"GPCORR_CLOSURE_CACHE_SIZE" default:"8192"`
}

// Load reads settings from the environment and validates them.
// Invalid values fail here, before any analysis runs.
func Load() (*Settings, error) {
	// A .env file is optional; variables already set win.
	_ = godotenv.Load()

	var settings Settings
	if err := envconfig.Process("", &settings); err != nil {
		return nil, core.ConfigurationError("read GPCORR environment: %v", err)
	}
	if err := settings.validate(); err != nil {
		return nil, err
	}
	if settings.Workers == 0 {
		settings.Workers = runtime.NumCPU()
	}
	return &settings, nil
}

func (s *Settings) validate() error {
	if s.Workers < 0 {
		return core.ConfigurationError("GPCORR_WORKERS is %d, want a non-negative count", s.Workers)
	}
	if s.ClosureCacheSize < 1 {
		return core.ConfigurationError("GPCORR_CLOSURE_CACHE_SIZE is %d, want at least 1", s.ClosureCacheSize)
	}
	return nil
}
