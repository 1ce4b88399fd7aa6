// Package config loads runtime settings from a config file and the
// environment, with sensible defaults for every knob.
package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/chen941008/ISMCTS-4tuple/game"
)

type Config struct {
	Simulations    int    `mapstructure:"simulations"`
	Selection      string `mapstructure:"selection"`
	CapturePruning bool   `mapstructure:"capture_pruning"`
	WeightsDir     string `mapstructure:"weights_dir"`
	WeightsID      int    `mapstructure:"weights_id"`
	LogLevel       string `mapstructure:"log_level"`
	Games          int    `mapstructure:"games"`
	Parallel       int    `mapstructure:"parallel"`
	ResultsDir     string `mapstructure:"results_dir"`
	Seed           uint64 `mapstructure:"seed"`
}

// Load reads settings from the optional config file at cfgPath, overlaid
// by GST_-prefixed environment variables.
func Load(cfgPath string) (*Config, error) {
	v := viper.New()
	v.SetDefault("simulations", 1000)
	v.SetDefault("selection", "argmax")
	v.SetDefault("capture_pruning", false)
	v.SetDefault("weights_dir", "data")
	v.SetDefault("weights_id", 0)
	v.SetDefault("log_level", "info")
	v.SetDefault("games", 30)
	v.SetDefault("parallel", 1)
	v.SetDefault("results_dir", "results")
	v.SetDefault("seed", 1)

	v.SetEnvPrefix("GST")
	v.AutomaticEnv()

	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", cfgPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if cfg.Simulations <= 0 {
		return nil, fmt.Errorf("config: simulations must be positive, got %d", cfg.Simulations)
	}
	if _, err := cfg.SelectionMode(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SelectionMode parses the configured greedy selection strategy.
func (c Config) SelectionMode() (game.SelectionMode, error) {
	switch strings.ToLower(c.Selection) {
	case "argmax":
		return game.Argmax, nil
	case "linear":
		return game.LinearWeighted, nil
	case "softmax":
		return game.Softmax, nil
	default:
		return game.Argmax, fmt.Errorf("config: unknown selection mode %q", c.Selection)
	}
}

// ZerologLevel parses the configured log level, defaulting to info.
func (c Config) ZerologLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
