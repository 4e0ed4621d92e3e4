package domain

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Common domain errors used across the application.
var (
	// ErrInvalidReference is returned when an identifier is malformed or does
	// not reference an existing record.
	ErrInvalidReference = errors.New("invalid reference")

	// ErrInvalidPriority is returned for a priority outside high/medium/low.
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrInvalidDueDate is returned when a due date is not YYYY-MM-DD.
	ErrInvalidDueDate = errors.New("invalid due date")
)

// ParseID converts a hex identifier supplied by a collaborator into an
// ObjectID. Malformed input wraps ErrInvalidReference.
func ParseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q is not a valid identifier", ErrInvalidReference, hex)
	}
	return id, nil
}
