// Package config loads runtime settings from the environment.
package config

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config holds all runtime configuration. Every field maps to a
// PANTRY_-prefixed environment variable.
type Config struct {
	DataFile         string        `mapstructure:"DATA_FILE"`
	LogFile          string        `mapstructure:"LOG_FILE"`
	LogLevel         string        `mapstructure:"LOG_LEVEL"`
	AutosaveInterval time.Duration `mapstructure:"AUTOSAVE_INTERVAL"`
	Seed             bool          `mapstructure:"SEED"` // seed example data on first run
	DefaultIcon      string        `mapstructure:"DEFAULT_ICON"`
}

// Load reads configuration from PANTRY_* environment variables. A .env
// file is not read here: main exports it into the environment first.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PANTRY")
	v.AutomaticEnv()

	v.SetDefault("DATA_FILE", "product_store.json")
	v.SetDefault("LOG_FILE", ".pantry-logs/pantry.log")
	v.SetDefault("LOG_LEVEL", "normal")
	v.SetDefault("AUTOSAVE_INTERVAL", 30*time.Second)
	v.SetDefault("SEED", true)
	v.SetDefault("DEFAULT_ICON", "cart")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	if cfg.AutosaveInterval < 0 {
		return nil, errors.Errorf("autosave interval must not be negative, got %s", cfg.AutosaveInterval)
	}
	return cfg, nil
}
