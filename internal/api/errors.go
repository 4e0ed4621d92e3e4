package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/taskcache/internal/service"
	"github.com/phrazzld/taskcache/internal/store"
)

// UrgentTasksUnavailableMessage is returned when the urgency cache cannot be read.
const UrgentTasksUnavailableMessage = "Urgent tasks are temporarily unavailable"

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidReference),
		errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest

	case store.IsNotFoundError(err):
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	switch {
	case err == nil:
		return "An unexpected error occurred"

	case errors.Is(err, service.ErrInvalidReference):
		return "Invalid identifier"

	case errors.Is(err, service.ErrInvalidInput):
		return "Invalid input"

	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"

	case store.IsUnavailableError(err):
		return UrgentTasksUnavailableMessage

	default:
		return "An unexpected error occurred"
	}
}
