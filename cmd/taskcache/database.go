package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskcache/internal/config"
	"github.com/phrazzld/taskcache/internal/platform/mongodb"
	"github.com/phrazzld/taskcache/internal/platform/redis"
	"go.mongodb.org/mongo-driver/mongo"
)

// setupMongo connects to MongoDB once; the client is shared for the life of
// the process.
func setupMongo(ctx context.Context, cfg config.MongoConfig, logger *slog.Logger) (*mongo.Client, *mongo.Database, error) {
	client, err := mongodb.Connect(ctx, cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	return client, client.Database(cfg.Database), nil
}

// setupCache builds the urgency cache. An unreachable Redis is logged but not
// fatal: cache writes are best-effort and the adapter reconnects on demand.
func setupCache(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (*redis.UrgentCache, error) {
	cache, err := redis.NewUrgentCache(cfg.URL, logger)
	if err != nil {
		return nil, err
	}
	if err := cache.EnsureConnected(ctx); err != nil {
		logger.Warn("redis not reachable at startup", "error", err)
	}
	return cache, nil
}
