package api

import "net/http"

// handleStats returns collection counts and the completion rate string,
// e.g. {"total":8,"completed":2,"pending":6,"completionRate":"25.0%"}.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Stats(r.Context()))
}
