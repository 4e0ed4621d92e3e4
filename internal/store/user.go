package store

import (
	"context"

	"github.com/phrazzld/taskcache/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user and sets user.ID to the store-generated identifier.
	Create(ctx context.Context, user *domain.User) error

	// Exists reports whether a user with the given ID is stored.
	Exists(ctx context.Context, id primitive.ObjectID) (bool, error)
}
