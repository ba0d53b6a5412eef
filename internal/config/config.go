package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/catalog.db"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	// Content-generation service (generative board variant).
	GenAPIURL    string        `env:"GEN_API_URL" envDefault:"https://api.anthropic.com/v1/messages"`
	GenAPIKey    string        `env:"GEN_API_KEY"`
	GenModel     string        `env:"GEN_MODEL" envDefault:"claude-3-5-sonnet-latest"`
	GenMaxTokens int           `env:"GEN_MAX_TOKENS" envDefault:"4096"`
	GenTimeout   time.Duration `env:"GEN_TIMEOUT" envDefault:"60s"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
