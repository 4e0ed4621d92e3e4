package mongodb

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskcache/internal/config"
	"github.com/phrazzld/taskcache/internal/redact"
	"github.com/phrazzld/taskcache/internal/store"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names
const (
	UsersCollection = "users"
	TasksCollection = "tasks"
)

// Connect dials MongoDB and verifies the connection with a ping. It is meant
// to run once at startup; the returned client is shared by every store and
// released with Disconnect when the process exits.
func Connect(ctx context.Context, cfg config.MongoConfig, logger *slog.Logger) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ConnectTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to connect to mongodb: %w", store.ErrUnavailable, err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		// The client is useless without a reachable primary; release its pool.
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: failed to ping mongodb: %w", store.ErrUnavailable, err)
	}

	logger.Info("connected to mongodb",
		slog.String("uri", redact.String(cfg.URI)),
		slog.String("database", cfg.Database))

	return client, nil
}
