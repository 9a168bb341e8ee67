package config

import (
	"github.com/spf13/viper"
)

// TelegramConfig enables instant alerts when Token is set.
type TelegramConfig struct {
	Token                 string  `mapstructure:"token"`
	MaxMessagesPerSecond  float64 `mapstructure:"max_messages_per_second"`
	MaxPostingsPerMessage int     `mapstructure:"max_postings_per_message"`
}

func (config TelegramConfig) Enabled() bool {
	return config.Token != ""
}

func (config TelegramConfig) validate() error {
	return nil
}

func (config TelegramConfig) bindEnvironmentVariables(v *viper.Viper) error {
	return v.BindEnv("telegram.token", "TELEGRAM_TOKEN")
}
