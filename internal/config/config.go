// Package config loads runtime settings for the techtree CLI.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/napolitain/techtree/internal/models"
	"github.com/napolitain/techtree/internal/savegame"
)

// EnvPrefix is the prefix of environment overrides (TECHTREE_SEED, ...)
const EnvPrefix = "TECHTREE"

// Config holds all runtime configuration for a techtree session.
// Values are populated from .techtree.yaml, TECHTREE_* env vars, and CLI flags.
type Config struct {
	Catalog        string `mapstructure:"catalog"`
	Faction        string `mapstructure:"faction"`
	MaxTurns       int    `mapstructure:"max_turns"`
	Seed           uint64 `mapstructure:"seed"`
	Turns          int    `mapstructure:"turns"`
	ResearchOutput int    `mapstructure:"research_output"`
	Realms         int    `mapstructure:"realms"`
	SaveDB         string `mapstructure:"save_db"`
	Compression    string `mapstructure:"compression"`
	Verbose        bool   `mapstructure:"verbose"`
}

// Defaults applied when nothing else sets a key
var Defaults = map[string]any{
	"catalog":         "",
	"faction":         "terran",
	"max_turns":       0,
	"seed":            1,
	"turns":           100,
	"research_output": 60,
	"realms":          1,
	"save_db":         "techtree.db",
	"compression":     "zstd",
	"verbose":         false,
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	for k, v := range Defaults {
		viper.SetDefault(k, v)
	}
	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg.Faction = strings.ToLower(strings.TrimSpace(cfg.Faction))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges
func (c Config) Validate() error {
	switch {
	case c.Faction == "":
		return fmt.Errorf("config: faction must not be empty")
	case c.Turns < 0:
		return fmt.Errorf("config: turns must not be negative, got %d", c.Turns)
	case c.ResearchOutput < 0:
		return fmt.Errorf("config: research_output must not be negative, got %d", c.ResearchOutput)
	case c.Realms < 1:
		return fmt.Errorf("config: realms must be at least 1, got %d", c.Realms)
	case c.MaxTurns < 0:
		return fmt.Errorf("config: max_turns must not be negative, got %d", c.MaxTurns)
	}
	if _, err := savegame.ParseCompression(c.Compression); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// GameLength returns the cost bucket for the configured max turns
func (c Config) GameLength() models.GameLength {
	return models.GameLengthForTurns(c.MaxTurns)
}

// SaveCompression returns the parsed compression setting
func (c Config) SaveCompression() savegame.Compression {
	comp, _ := savegame.ParseCompression(c.Compression)
	return comp
}
