// Package config loads scenekit settings from the environment.
package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"

	"github.com/roach88/scenekit/internal/engine"
	"github.com/roach88/scenekit/internal/reducer"
)

// Config holds environment-provided settings. CLI flags override them.
type Config struct {
	HistoryCapacity  int                  `env:"SCENEKIT_HISTORY_CAPACITY" envDefault:"50"`
	RemovePolicy     reducer.RemovePolicy `env:"SCENEKIT_REMOVE_POLICY" envDefault:"orphan"`
	MaxDispatchDepth int                  `env:"SCENEKIT_MAX_DISPATCH_DEPTH" envDefault:"8"`
	DBPath           string               `env:"SCENEKIT_DB" envDefault:"scenekit.db"`
	LogLevel         slog.Level           `env:"SCENEKIT_LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the engine cannot run with.
func (c Config) Validate() error {
	if c.HistoryCapacity < 1 {
		return fmt.Errorf("SCENEKIT_HISTORY_CAPACITY must be at least 1, got %d", c.HistoryCapacity)
	}
	if c.MaxDispatchDepth < 1 {
		return fmt.Errorf("SCENEKIT_MAX_DISPATCH_DEPTH must be at least 1, got %d", c.MaxDispatchDepth)
	}
	if c.DBPath == "" {
		return fmt.Errorf("SCENEKIT_DB must not be empty")
	}
	return nil
}

// EngineOptions converts the settings into engine options.
func (c Config) EngineOptions() []engine.Option {
	return []engine.Option{
		engine.WithHistoryCapacity(c.HistoryCapacity),
		engine.WithRemovePolicy(c.RemovePolicy),
		engine.WithMaxDepth(c.MaxDispatchDepth),
	}
}
