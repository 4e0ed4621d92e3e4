package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskcache/internal/domain"
	"github.com/phrazzld/taskcache/internal/platform/logger"
	"github.com/phrazzld/taskcache/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUserStore implements the store.UserStore interface
// using the "users" collection as the storage backend.
type MongoUserStore struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

// NewMongoUserStore creates a user store on the given database.
func NewMongoUserStore(db *mongo.Database, logger *slog.Logger) *MongoUserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &MongoUserStore{
		coll:   db.Collection(UsersCollection),
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure MongoUserStore implements store.UserStore interface
var _ store.UserStore = (*MongoUserStore)(nil)

// Create implements store.UserStore.Create
func (s *MongoUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	res, err := s.coll.InsertOne(ctx, user)
	if err != nil {
		log.Error("failed to insert user", slog.String("error", err.Error()))
		return store.NewStoreError("user", "create", "insert failed", MapError(err))
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return store.NewStoreError("user", "create",
			fmt.Sprintf("unexpected inserted ID type %T", res.InsertedID), store.ErrUnavailable)
	}
	user.ID = id

	log.Debug("user inserted", slog.String("user_id", id.Hex()))
	return nil
}

// Exists implements store.UserStore.Exists
func (s *MongoUserStore) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	opts := options.FindOne().SetProjection(bson.M{"_id": 1})
	err := s.coll.FindOne(ctx, bson.M{"_id": id}, opts).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return false, nil
	default:
		log.Error("failed to look up user",
			slog.String("error", err.Error()),
			slog.String("user_id", id.Hex()))
		return false, store.NewStoreError("user", "exists", "find failed", MapError(err))
	}
}
