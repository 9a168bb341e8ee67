package config

import (
	"errors"
	"fmt"
	"github.com/spf13/viper"
)

type SMTPMode string

const (
	SMTPModeTLS      SMTPMode = "tls"
	SMTPModeStartTLS SMTPMode = "starttls"
	SMTPModeNone     SMTPMode = "none"
)

type SMTPConfig struct {
	Host     string   `mapstructure:"host"`
	Port     int      `mapstructure:"port"`
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
	From     string   `mapstructure:"from"`
	FromName string   `mapstructure:"from_name"`
	Mode     SMTPMode `mapstructure:"mode"`
}

func (config SMTPConfig) validate() error {
	var missingFields []string

	if config.Host == "" {
		missingFields = append(missingFields, "host")
	}
	if config.From == "" {
		missingFields = append(missingFields, "from")
	}

	var errs []error
	if len(missingFields) > 0 {
		errs = append(errs, fmt.Errorf("missing required variables: %v", missingFields))
	}
	if config.Port < 1 || config.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port %d", config.Port))
	}
	switch config.Mode {
	case SMTPModeTLS, SMTPModeStartTLS, SMTPModeNone:
	default:
		errs = append(errs, fmt.Errorf("invalid mode %q, expected tls, starttls or none", config.Mode))
	}

	return errors.Join(errs...)
}

func (config SMTPConfig) bindEnvironmentVariables(v *viper.Viper) error {
	return bindAll(v, map[string]string{
		"smtp.host":     "SMTP_HOST",
		"smtp.port":     "SMTP_PORT",
		"smtp.username": "SMTP_USERNAME",
		"smtp.password": "SMTP_PASSWORD",
		"smtp.from":     "SMTP_FROM",
		"smtp.mode":     "SMTP_MODE",
	})
}
