package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskcache/internal/config"
	"github.com/phrazzld/taskcache/internal/redact"
)

// loadAppConfig loads the application configuration from the optional file,
// environment variables and defaults.
func loadAppConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	slog.Debug("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"mongo_uri", redact.String(cfg.Mongo.URI),
		"mongo_database", cfg.Mongo.Database,
		"redis_url", redact.String(cfg.Redis.URL))

	return cfg, nil
}
