package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/phrazzld/taskcache/internal/config"
	"github.com/phrazzld/taskcache/internal/platform/logger"
)

// setupAppLogger configures and initializes the application logger based on config settings.
func setupAppLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	l, err := logger.SetupWithWriter(cfg.Server, w)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}
	return l, nil
}
