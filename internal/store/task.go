package store

import (
	"context"

	"github.com/phrazzld/taskcache/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskStore defines the interface for the durable task store. It is the
// source of truth for every task.
type TaskStore interface {
	// Create saves a new task and sets task.ID to the store-generated identifier.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Task, error)

	// ListByUser returns every task assigned to the user, in no particular order.
	// An empty slice is returned when the user has no tasks.
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*domain.Task, error)

	// Delete removes a task and reports whether a record was removed.
	// A missing task is not an error.
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)

	// MarkCompleted sets the completion flag and reports whether the record
	// was modified. Missing or already-completed tasks report false.
	MarkCompleted(ctx context.Context, id primitive.ObjectID) (bool, error)
}
