package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port             int           `envconfig:"PORT" default:"8080"`
	StorePath        string        `envconfig:"STORE_PATH" default:"./data/canvas.db"`
	DocumentKey      string        `envconfig:"DOCUMENT_KEY" default:"canvas-document"`
	AssetDir         string        `envconfig:"ASSET_DIR" default:"./data/assets"`
	AllowedOrigins   []string      `envconfig:"ALLOWED_ORIGINS" default:"localhost:5173,localhost:3000"`
	SaveInterval     time.Duration `envconfig:"SAVE_INTERVAL" default:"2s"`
	HistoryLimit     int           `envconfig:"HISTORY_LIMIT" default:"0"`
	LogLevel         string        `envconfig:"LOG_LEVEL" default:"info"`
	ExportBackground string        `envconfig:"EXPORT_BACKGROUND" default:"#ffffff"`
	SampleDocument   bool          `envconfig:"SAMPLE_DOCUMENT" default:"false"`
	RemoteImages     bool          `envconfig:"REMOTE_IMAGES" default:"false"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.HistoryLimit < 0 {
		return nil, fmt.Errorf("HISTORY_LIMIT must be >= 0, got %d", cfg.HistoryLimit)
	}
	if cfg.SaveInterval <= 0 {
		return nil, fmt.Errorf("SAVE_INTERVAL must be positive, got %s", cfg.SaveInterval)
	}
	return &cfg, nil
}

// Level maps LOG_LEVEL to a slog level; unknown values mean info.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
