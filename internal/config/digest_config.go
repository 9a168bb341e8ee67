package config

import (
	"errors"
	"fmt"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
	"time"
)

type DigestConfig struct {
	Schedule        string `mapstructure:"schedule"`
	Timezone        string `mapstructure:"timezone"`
	RetentionDays   int    `mapstructure:"retention_days"`
	CleanupSchedule string `mapstructure:"cleanup_schedule"`
}

func (config DigestConfig) validate() error {
	var errs []error

	if _, err := cron.ParseStandard(config.Schedule); err != nil {
		errs = append(errs, fmt.Errorf("invalid schedule %q: %w", config.Schedule, err))
	}
	if _, err := cron.ParseStandard(config.CleanupSchedule); err != nil {
		errs = append(errs, fmt.Errorf("invalid cleanup_schedule %q: %w", config.CleanupSchedule, err))
	}
	if _, err := time.LoadLocation(config.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("invalid timezone %q: %w", config.Timezone, err))
	}
	if config.RetentionDays < 1 {
		errs = append(errs, fmt.Errorf("retention_days must be at least 1"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}

func (config DigestConfig) Location() *time.Location {
	location, err := time.LoadLocation(config.Timezone)
	if err != nil {
		return time.UTC
	}
	return location
}

func (config DigestConfig) bindEnvironmentVariables(v *viper.Viper) error {
	return bindAll(v, map[string]string{
		"digest.schedule":       "DIGEST_SCHEDULE",
		"digest.timezone":       "DIGEST_TIMEZONE",
		"digest.retention_days": "DIGEST_RETENTION_DAYS",
	})
}
