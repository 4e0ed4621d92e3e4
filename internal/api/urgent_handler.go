package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/taskcache/internal/api/shared"
	"github.com/phrazzld/taskcache/internal/platform/logger"
	"github.com/phrazzld/taskcache/internal/service"
)

// NoUrgentTasksMessage is the error body returned when the cache is empty.
const NoUrgentTasksMessage = "No urgent tasks stored"

// UrgentHandler serves the urgency cache over HTTP.
type UrgentHandler struct {
	query  service.UrgentTaskQuery
	logger *slog.Logger
}

// NewUrgentHandler creates a new UrgentHandler
func NewUrgentHandler(query service.UrgentTaskQuery, logger *slog.Logger) *UrgentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UrgentHandler{
		query:  query,
		logger: logger.With("component", "urgent_handler"),
	}
}

// ListUrgentTasks handles GET /urgent-tasks requests
func (h *UrgentHandler) ListUrgentTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	tasks, err := h.query.ListUrgentTasks(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	if len(tasks) == 0 {
		shared.RespondWithError(w, r, http.StatusNotFound, NoUrgentTasksMessage)
		return
	}

	log.Debug("serving urgent tasks", "count", len(tasks))
	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks))
}

// Health handles GET /health requests
func (h *UrgentHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		h.logger.Error("failed to write health check response", "error", err)
	}
}
