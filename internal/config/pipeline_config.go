package config

import (
	"errors"
	"fmt"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
	"time"
)

type PipelineConfig struct {
	Schedule               string            `mapstructure:"schedule"`
	RunAtStart             bool              `mapstructure:"run_at_start"`
	HTTPTimeout            time.Duration     `mapstructure:"http_timeout"`
	RequestsPerSecond      float64           `mapstructure:"requests_per_second"`
	LocationCacheTTL       time.Duration     `mapstructure:"location_cache_ttl"`
	EnabledSources         []string          `mapstructure:"enabled_sources"`
	SourceCountries        map[string]string `mapstructure:"source_countries"`
	PlatsbankenKeywords    []string          `mapstructure:"platsbanken_keywords"`
	PlatsbankenLimit       int               `mapstructure:"platsbanken_limit"`
	PlatsbankenMaxKeywords int               `mapstructure:"platsbanken_max_keywords"`
}

func (config PipelineConfig) validate() error {
	var errs []error

	if _, err := cron.ParseStandard(config.Schedule); err != nil {
		errs = append(errs, fmt.Errorf("invalid schedule %q: %w", config.Schedule, err))
	}
	if config.HTTPTimeout <= 0 {
		errs = append(errs, fmt.Errorf("http_timeout must be positive"))
	}
	if config.RequestsPerSecond <= 0 {
		errs = append(errs, fmt.Errorf("requests_per_second must be positive"))
	}
	if config.PlatsbankenLimit < 1 || config.PlatsbankenLimit > 100 {
		errs = append(errs, fmt.Errorf("platsbanken_limit must be between 1 and 100"))
	}
	for source, country := range config.SourceCountries {
		if len(country) != 2 {
			errs = append(errs, fmt.Errorf("country of source %s must be an ISO-2 code, got %q", source, country))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}

// Keywords returns the Platsbanken search terms, capped at PlatsbankenMaxKeywords.
func (config PipelineConfig) Keywords() []string {
	if config.PlatsbankenMaxKeywords > 0 && len(config.PlatsbankenKeywords) > config.PlatsbankenMaxKeywords {
		return config.PlatsbankenKeywords[:config.PlatsbankenMaxKeywords]
	}
	return config.PlatsbankenKeywords
}

func (config PipelineConfig) bindEnvironmentVariables(v *viper.Viper) error {
	return bindAll(v, map[string]string{
		"pipeline.schedule":            "PIPELINE_SCHEDULE",
		"pipeline.run_at_start":        "PIPELINE_RUN_AT_START",
		"pipeline.requests_per_second": "PIPELINE_REQUESTS_PER_SECOND",
	})
}
