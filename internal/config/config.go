package config

import (
	"errors"
	"fmt"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"os"
)

type Config struct {
	Logger   LoggerConfig   `mapstructure:"logger"`
	DB       DBConfig       `mapstructure:"db"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Digest   DigestConfig   `mapstructure:"digest"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

var configFile = "./configs/config.yaml"

type section interface {
	validate() error
	bindEnvironmentVariables(v *viper.Viper) error
}

func Get() *Config {

	file := configFile
	if value, ok := os.LookupEnv("CONFIG_PATH"); ok && value != "" {
		file = value
	}

	config, err := loadConfig(file)
	if err != nil {
		log.Fatal(err)
	}

	return config
}

func loadConfig(file string) (*Config, error) {

	v := viper.New()
	v.SetConfigFile(file)
	v.AutomaticEnv()
	setDefaults(v)

	err := bindEnvironmentVariables(v)
	if err != nil {
		return nil, err
	}

	if err = v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := Config{}
	if err = v.Unmarshal(&config); err != nil {
		return nil, err
	}

	err = config.validate()
	if err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.log_level", LevelInfo)
	v.SetDefault("logger.output_file", "./logs/job-monitor.log")
	v.SetDefault("logger.app_name", "job-monitor")
	v.SetDefault("pipeline.schedule", "0 6 * * *")
	v.SetDefault("pipeline.http_timeout", "15s")
	v.SetDefault("pipeline.requests_per_second", 1.0)
	v.SetDefault("pipeline.location_cache_ttl", "6h")
	v.SetDefault("pipeline.platsbanken_limit", 50)
	v.SetDefault("pipeline.platsbanken_max_keywords", 10)
	v.SetDefault("digest.schedule", "0 7 * * *")
	v.SetDefault("digest.timezone", "Europe/Stockholm")
	v.SetDefault("digest.retention_days", 30)
	v.SetDefault("digest.cleanup_schedule", "30 3 * * *")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.mode", SMTPModeStartTLS)
	v.SetDefault("smtp.from_name", "Nordic Executive List")
	v.SetDefault("telegram.max_messages_per_second", 1.0)
	v.SetDefault("telegram.max_postings_per_message", 10)
	v.SetDefault("metrics.port", 8080)
}

func (config Config) sections() []struct {
	name string
	section
} {
	return []struct {
		name string
		section
	}{
		{"LoggerConfig", config.Logger},
		{"DBConfig", config.DB},
		{"PipelineConfig", config.Pipeline},
		{"DigestConfig", config.Digest},
		{"SMTPConfig", config.SMTP},
		{"TelegramConfig", config.Telegram},
		{"MetricsConfig", config.Metrics},
	}
}

func bindEnvironmentVariables(v *viper.Viper) error {
	var errs []error

	for _, s := range (Config{}).sections() {
		if err := s.bindEnvironmentVariables(v); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}

func (config Config) validate() error {
	var errs []error

	for _, s := range config.sections() {
		if err := s.validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}

func bindAll(v *viper.Viper, bindings map[string]string) error {
	var errs []error
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
