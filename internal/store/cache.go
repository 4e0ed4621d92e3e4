package store

import (
	"context"

	"github.com/phrazzld/taskcache/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UrgentCache defines the interface for the volatile urgent-task mirror.
// Entries are snapshots that expire on their own; the cache is never the
// source of truth for a task.
//
// Implementations handle their own reconnection; callers never need to probe
// connectivity before an operation.
type UrgentCache interface {
	// Put stores a snapshot of the task, replacing any previous one and
	// resetting its expiry.
	Put(ctx context.Context, task *domain.Task) error

	// Delete removes the snapshot for the task. Deleting an absent entry is not an error.
	Delete(ctx context.Context, id primitive.ObjectID) error

	// List returns every snapshot currently held. An empty cache yields an
	// empty slice and no error.
	List(ctx context.Context) ([]*domain.Task, error)
}
