package api

import (
	"net/http"
)

// indexMessage names the service in the GET / document.
const indexMessage = "TODO API Test Server"

// endpointDocs lists the routes shown by GET /. Only the /api paths are
// listed; the short aliases behave identically.
var endpointDocs = map[string]string{
	"GET /api/todos":                  "List all TODO items (status filter supported)",
	"GET /api/todos/<id>":             "Get a single TODO item (no API key required)",
	"POST /api/todos":                 "Create a TODO item",
	"PUT /api/todos/<id>":             "Update a TODO item",
	"DELETE /api/todos/<id>":          "Delete a TODO item",
	"POST /api/todos/<id>/complete":   "Mark a TODO item completed",
	"POST /api/todos/<id>/uncomplete": "Mark a TODO item not completed",
	"GET /api/stats":                  "Collection statistics",
	"GET /api/audit":                  "Mutation audit trail",
	"GET /api/ws":                     "WebSocket task event stream",
	"GET /health":                     "Liveness check",
}

// handleIndex describes the server and its endpoints.
func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   indexMessage,
		"version":   s.version,
		"endpoints": endpointDocs,
	})
}

// handleHealth returns a basic liveness response with the live task count.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"tasks":   s.store.Len(r.Context()),
	})
}
