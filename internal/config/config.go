package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" yaml:"httpAddr"`
	DBDir    string     `env:"DB_DIR" yaml:"dbDir"`
	RedisURL string     `env:"REDIS_URL" yaml:"redisURL"`
	// LogLevel parses named levels ("DEBUG", "INFO") from the
	// environment only; YAML has no decoder for slog.Level.
	LogLevel slog.Level `env:"LOG_LEVEL" yaml:"-"`
	SPADir   string     `env:"SPA_DIR" yaml:"spaDir"`
}

// Load layers configuration: built-in defaults, then the optional YAML
// file, then environment variables. Environment always wins so a
// deployment can override a checked-in file without editing it.
func Load(path string) (*Config, error) {
	cfg := Config{
		HTTPAddr: ":8080",
		DBDir:    "data",
		LogLevel: slog.LevelInfo,
		SPADir:   "web/dist",
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
