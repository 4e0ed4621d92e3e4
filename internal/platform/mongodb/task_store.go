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
)

// MongoTaskStore implements the store.TaskStore interface
// using the "tasks" collection as the storage backend.
type MongoTaskStore struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

// NewMongoTaskStore creates a task store on the given database.
// If logger is nil, a default logger will be used.
func NewMongoTaskStore(db *mongo.Database, logger *slog.Logger) *MongoTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &MongoTaskStore{
		coll:   db.Collection(TasksCollection),
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure MongoTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*MongoTaskStore)(nil)

// Create implements store.TaskStore.Create
func (s *MongoTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	res, err := s.coll.InsertOne(ctx, task)
	if err != nil {
		log.Error("failed to insert task",
			slog.String("error", err.Error()),
			slog.String("assigned_user_id", task.AssignedUserID.Hex()))
		return store.NewStoreError("task", "create", "insert failed", MapError(err))
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return store.NewStoreError("task", "create",
			fmt.Sprintf("unexpected inserted ID type %T", res.InsertedID), store.ErrUnavailable)
	}
	task.ID = id

	log.Debug("task inserted", slog.String("task_id", id.Hex()))
	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *MongoTaskStore) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var task domain.Task
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			log.Debug("task not found", slog.String("task_id", id.Hex()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to read task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.Hex()))
		return nil, store.NewStoreError("task", "get", "find failed", MapError(err))
	}

	return &task, nil
}

// ListByUser implements store.TaskStore.ListByUser
func (s *MongoTaskStore) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cursor, err := s.coll.Find(ctx, bson.M{"assignedUserId": userID})
	if err != nil {
		log.Error("failed to query tasks for user",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.Hex()))
		return nil, store.NewStoreError("task", "list", "find failed", MapError(err))
	}

	tasks := make([]*domain.Task, 0)
	if err := cursor.All(ctx, &tasks); err != nil {
		log.Error("failed to decode tasks for user",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.Hex()))
		return nil, store.NewStoreError("task", "list", "decode failed", MapError(err))
	}

	return tasks, nil
}

// Delete implements store.TaskStore.Delete
func (s *MongoTaskStore) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.Hex()))
		return false, store.NewStoreError("task", "delete", "delete failed", MapError(err))
	}

	log.Debug("task delete executed",
		slog.String("task_id", id.Hex()),
		slog.Int64("deleted_count", res.DeletedCount))
	return res.DeletedCount == 1, nil
}

// MarkCompleted implements store.TaskStore.MarkCompleted
func (s *MongoTaskStore) MarkCompleted(ctx context.Context, id primitive.ObjectID) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"completed": true}},
	)
	if err != nil {
		log.Error("failed to mark task completed",
			slog.String("error", err.Error()),
			slog.String("task_id", id.Hex()))
		return false, store.NewStoreError("task", "complete", "update failed", MapError(err))
	}

	log.Debug("task completion executed",
		slog.String("task_id", id.Hex()),
		slog.Int64("matched_count", res.MatchedCount),
		slog.Int64("modified_count", res.ModifiedCount))
	return res.ModifiedCount == 1, nil
}
