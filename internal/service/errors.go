package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/taskcache/internal/domain"
)

// Common service errors - sentinel errors callers check with errors.Is().
//
// Error handling principles:
//  1. Input problems are detected before any store call and returned as
//     ErrInvalidReference or ErrInvalidInput, wrapped with detail.
//  2. Records that are simply absent are reported through boolean or empty
//     results, not errors.
//  3. Store failures are wrapped in TaskServiceError; errors.Is(err,
//     store.ErrUnavailable) still holds for connectivity failures.
var (
	// ErrInvalidReference indicates a malformed identifier, or one that does
	// not reference an existing record where one is required.
	ErrInvalidReference = domain.ErrInvalidReference

	// ErrInvalidInput indicates a draft that failed validation.
	ErrInvalidInput = errors.New("invalid input")
)

// TaskServiceError wraps errors from the task service with context.
type TaskServiceError struct {
	// Operation is the operation that failed (e.g., "create_task", "list_urgent_tasks")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// NewTaskServiceError creates a new TaskServiceError.
// Input errors are returned unchanged so callers see them directly.
func NewTaskServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrInvalidReference) || errors.Is(err, ErrInvalidInput) {
		return err
	}

	return &TaskServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

func invalidInput(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalidInput, err)
}
