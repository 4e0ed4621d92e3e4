package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a person tasks can be assigned to. Users are immutable once created.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name"          json:"name"`
	Email          string             `bson:"email"         json:"email"`
	Role           string             `bson:"role"          json:"role"`
	HashedPassword string             `bson:"password"      json:"-"` // Never expose password hash in JSON
	CreatedAt      time.Time          `bson:"createdAt"     json:"createdAt"`
}

// UserDraft is the structured input for creating a user. Password is
// plaintext and must be hashed before the user is stored.
type UserDraft struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Role     string `validate:"required"`
	Password string `validate:"required,min=4,max=72"`
}

// NewUser builds the record to persist from a validated draft and an
// already-hashed password.
func NewUser(draft UserDraft, hashedPassword string, now time.Time) *User {
	return &User{
		Name:           draft.Name,
		Email:          draft.Email,
		Role:           draft.Role,
		HashedPassword: hashedPassword,
		CreatedAt:      now.UTC(),
	}
}
