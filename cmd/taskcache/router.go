package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/taskcache/internal/api"
	apiMiddleware "github.com/phrazzld/taskcache/internal/api/middleware"
)

// setupRouter creates the read-only router over the urgency cache.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	urgentHandler := api.NewUrgentHandler(app.taskService, app.logger)

	r.Get("/urgent-tasks", urgentHandler.ListUrgentTasks)
	r.Get("/health", urgentHandler.Health)

	return r
}
