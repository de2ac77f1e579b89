// Package config loads runtime settings from PIXELDUE_* environment
// variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

const (
	GeneratorStatic = "static"
	GeneratorGemini = "gemini"
)

type Config struct {
	// DBPath overrides the default database location (~/.pixeldue.db).
	DBPath string `env:"PIXELDUE_DB"`

	// Generator selects the companion backend: static or gemini.
	Generator string `env:"PIXELDUE_GENERATOR" envDefault:"static"`

	GCPProject  string `env:"PIXELDUE_GCP_PROJECT"`
	GCPLocation string `env:"PIXELDUE_GCP_LOCATION" envDefault:"us-central1"`
	Model       string `env:"PIXELDUE_MODEL"`

	LogLevel string `env:"PIXELDUE_LOG_LEVEL" envDefault:"warn"`
}

// Load parses the environment and validates the generator choice.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.Generator = strings.ToLower(cfg.Generator)
	switch cfg.Generator {
	case GeneratorStatic, GeneratorGemini:
	default:
		return Config{}, fmt.Errorf("unknown generator %q (want %s or %s)", cfg.Generator, GeneratorStatic, GeneratorGemini)
	}
	if cfg.Generator == GeneratorGemini && cfg.GCPProject == "" {
		return Config{}, fmt.Errorf("gemini generator requires PIXELDUE_GCP_PROJECT")
	}
	return cfg, nil
}

// SlogLevel maps the configured level name onto slog, defaulting to warn
// so the CLI stays quiet unless asked.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
