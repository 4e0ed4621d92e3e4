package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/taskcache/internal/config"
	"github.com/phrazzld/taskcache/internal/platform/mongodb"
	"github.com/phrazzld/taskcache/internal/platform/redis"
	"github.com/phrazzld/taskcache/internal/service"
	"github.com/phrazzld/taskcache/internal/service/auth"
	"go.mongodb.org/mongo-driver/mongo"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	mongo *mongo.Client
	cache *redis.UrgentCache

	taskService service.TaskService
}

// newApplication connects both stores and wires the task service.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	client, db, err := setupMongo(ctx, cfg.Mongo, logger)
	if err != nil {
		return nil, err
	}
	app.mongo = client

	app.cache, err = setupCache(ctx, cfg.Redis, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to set up urgency cache: %w", err)
	}

	app.taskService, err = service.NewTaskService(
		mongodb.NewMongoTaskStore(db, logger),
		mongodb.NewMongoUserStore(db, logger),
		app.cache,
		logger,
		service.WithPasswordHasher(auth.NewBcryptHasher(cfg.Auth.BcryptCost)),
	)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	logger.Info("application initialized",
		"mongo_database", cfg.Mongo.Database)
	return app, nil
}

// cleanup releases both store connections. Safe to call more than once.
func (app *application) cleanup() {
	if app.cache != nil {
		if err := app.cache.Close(); err != nil {
			app.logger.Error("error closing redis connection", "error", err)
		}
		app.cache = nil
	}

	if app.mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.mongo.Disconnect(ctx); err != nil {
			app.logger.Error("error disconnecting from mongodb", "error", err)
		}
		app.mongo = nil
	}
}
