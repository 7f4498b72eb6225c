package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Route prefixes. The /api paths are the ones the firmware calls; the short
// paths are kept as aliases with identical behaviour.
const (
	apiTasksPath   = "/api/todos"
	apiStatsPath   = "/api/stats"
	shortTasksPath = "/tasks"
	shortStatsPath = "/stats"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeNotFound(w, "resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllow, "method not allowed")
	})

	// Open endpoints
	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)

	s.mountTaskRoutes(r, apiTasksPath, apiStatsPath)
	s.mountTaskRoutes(r, shortTasksPath, shortStatsPath)

	r.With(s.requireAPIKey).Get("/api/audit", s.handleListAudit)

	// The WebSocket handler checks the key itself so browsers can pass it
	// as a query parameter.
	r.Get("/api/ws", s.handleWebSocket)

	return r
}

// mountTaskRoutes registers the task and stats routes under the given paths.
// Every route except fetching a single task requires the API key.
func (s *Server) mountTaskRoutes(r chi.Router, tasksPath, statsPath string) {
	gated := r.With(s.requireAPIKey)

	gated.Get(tasksPath, s.handleListTasks)
	gated.Post(tasksPath, s.handleCreateTask)

	r.Get(tasksPath+"/{id}", s.handleGetTask)
	gated.Put(tasksPath+"/{id}", s.handleUpdateTask)
	gated.Delete(tasksPath+"/{id}", s.handleDeleteTask)
	gated.Post(tasksPath+"/{id}/complete", s.handleCompleteTask)
	gated.Post(tasksPath+"/{id}/uncomplete", s.handleUncompleteTask)

	gated.Get(statsPath, s.handleStats)
}
