package mongodb

import (
	"errors"
	"fmt"

	"github.com/phrazzld/taskcache/internal/store"
	"go.mongodb.org/mongo-driver/mongo"
)

// MapError maps a driver error onto the store error taxonomy, wrapping the
// original so errors.Is still sees driver sentinels.
//
// Anything that is neither a missing document nor a duplicate key is treated
// as the store being unavailable: network failures, timeouts, a disconnected
// client and server-side command errors all mean the operation did not take
// effect and the caller can only retry later.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%w: %w", store.ErrNotFound, err)
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %w", store.ErrDuplicate, err)
	default:
		return fmt.Errorf("%w: %w", store.ErrUnavailable, err)
	}
}
