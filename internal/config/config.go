package config

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all service settings, populated from FLI_-prefixed
// environment variables.
type Config struct {
	WorkbookPath string `envconfig:"WORKBOOK_PATH" required:"true"`
	IndexSheet   string `envconfig:"INDEX_SHEET" default:"AG_FLS_INDEX"`
	PctSheet     string `envconfig:"PCT_SHEET" default:"AG_FLS_PCT"`

	// Column headers mapped by the loader; the core never assumes fixed names.
	AreaColumn   string `envconfig:"AREA_COLUMN" default:"AREA"`
	PeriodColumn string `envconfig:"PERIOD_COLUMN" default:"TIME_PERIOD"`
	ValueColumn  string `envconfig:"VALUE_COLUMN" default:"OBS_VALUE"`

	SimilarityThreshold float64 `envconfig:"SIMILARITY_THRESHOLD" default:"0.8"`
	ForecastHorizon     int     `envconfig:"FORECAST_HORIZON" default:"5"`
	ResolverCacheSize   int     `envconfig:"RESOLVER_CACHE_SIZE" default:"1000"`

	// RefreshInterval re-materializes the snapshot periodically; zero runs
	// a single pass at startup.
	RefreshInterval time.Duration `envconfig:"REFRESH_INTERVAL" default:"0"`

	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat       string        `envconfig:"LOG_FORMAT" default:"json"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Load reads configuration from the environment, applying defaults where
// unset, and validates the tunables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("fli", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	// envconfig's required tag accepts a set-but-empty variable; an empty
	// path is just as unusable as a missing one.
	if c.WorkbookPath == "" {
		return errors.New("FLI_WORKBOOK_PATH is required")
	}
	if c.SimilarityThreshold <= 0 || c.SimilarityThreshold > 1 {
		return errors.New("FLI_SIMILARITY_THRESHOLD must be in (0, 1]")
	}
	if c.ForecastHorizon < 0 {
		return errors.New("FLI_FORECAST_HORIZON must be >= 0")
	}
	if c.ResolverCacheSize <= 0 {
		return errors.New("FLI_RESOLVER_CACHE_SIZE must be positive")
	}
	if c.RefreshInterval < 0 {
		return errors.New("FLI_REFRESH_INTERVAL must be >= 0")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("FLI_SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}
