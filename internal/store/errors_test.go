package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntityNotFoundErrors(t *testing.T) {
	assert.True(t, IsNotFoundError(ErrTaskNotFound))
	assert.True(t, IsNotFoundError(fmt.Errorf("lookup: %w", ErrTaskNotFound)))
	assert.False(t, IsNotFoundError(ErrUnavailable))
}

func TestStoreError(t *testing.T) {
	cause := fmt.Errorf("%w: connection refused", ErrUnavailable)

	err := NewStoreError("urgent_task", "put", "failed to write snapshot", cause)

	assert.Equal(t,
		"put operation on urgent_task failed: failed to write snapshot: store unavailable: connection refused",
		err.Error())
	assert.True(t, IsUnavailableError(err))

	var se *StoreError
	assert.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &se))
	assert.Equal(t, "put", se.Operation)

	bare := NewStoreError("task", "delete", "no result", nil)
	assert.Equal(t, "delete operation on task failed: no result", bare.Error())
	assert.Nil(t, bare.Unwrap())
}
