package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/todo-mock/internal/task"
)

// listResponse is the envelope for GET {tasks}.
type listResponse struct {
	Value []task.Task `json:"value"`
	Count int         `json:"count"`
}

// deleteResponse is the body returned after a successful delete.
type deleteResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// handleListTasks returns every live task in insertion order.
//
// Query parameters:
//   - status: exact, case-sensitive status match
//   - limit: accepted and ignored; the firmware sends it
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	filter := task.Filter{Status: task.Status(r.URL.Query().Get("status"))}

	tasks := s.store.List(r.Context(), filter)
	writeJSON(w, http.StatusOK, listResponse{Value: tasks, Count: len(tasks)})
}

// handleGetTask returns a single task. This is the only task route open
// without the API key.
func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	t, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeTaskError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// handleCreateTask creates a task from a partial payload and returns it with 201.
func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}

	t, err := s.store.Create(r.Context(), in)
	if err != nil {
		s.writeTaskError(w, r, err)
		return
	}

	s.emit(r.Context(), task.EventCreated, t)
	writeJSON(w, http.StatusCreated, t)
}

// handleUpdateTask applies a partial payload to an existing task.
func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	// Unknown IDs are reported as 404 even when the body is malformed.
	if _, err := s.store.Get(r.Context(), id); err != nil {
		s.writeTaskError(w, r, err)
		return
	}

	in, ok := decodeInput(w, r)
	if !ok {
		return
	}

	t, err := s.store.Update(r.Context(), id, in)
	if err != nil {
		s.writeTaskError(w, r, err)
		return
	}

	s.emit(r.Context(), task.EventUpdated, t)
	writeJSON(w, http.StatusOK, t)
}

// handleDeleteTask removes a task.
func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	t, err := s.store.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeTaskError(w, r, err)
		return
	}

	s.emit(r.Context(), task.EventDeleted, t)
	writeJSON(w, http.StatusOK, deleteResponse{Message: "TODO deleted", ID: t.ID})
}

// handleCompleteTask marks a task completed.
func (s *Server) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	t, err := s.store.Complete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeTaskError(w, r, err)
		return
	}

	s.emit(r.Context(), task.EventCompleted, t)
	writeJSON(w, http.StatusOK, t)
}

// handleUncompleteTask resets a task to not started.
func (s *Server) handleUncompleteTask(w http.ResponseWriter, r *http.Request) {
	t, err := s.store.Uncomplete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeTaskError(w, r, err)
		return
	}

	s.emit(r.Context(), task.EventUncompleted, t)
	writeJSON(w, http.StatusOK, t)
}

// decodeInput reads a partial task payload. An empty body is an empty
// payload. On failure it writes the 400 response and returns false.
func decodeInput(w http.ResponseWriter, r *http.Request) (task.Input, bool) {
	var in task.Input

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, ErrCodeBadRequest, "request body too large")
			return in, false
		}
		writeBadRequest(w, "failed to read request body")
		return in, false
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return in, true
	}

	if err := json.Unmarshal(body, &in); err != nil {
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &typeErr) && typeErr.Field != "":
			writeBadRequest(w, fmt.Sprintf("invalid field type: %s must not be %s", typeErr.Field, typeErr.Value))
		case errors.As(err, &typeErr):
			writeBadRequest(w, "request body must be a JSON object")
		default:
			writeBadRequest(w, "invalid JSON: "+err.Error())
		}
		return task.Input{}, false
	}

	return in, true
}

// writeTaskError maps store errors to HTTP responses.
func (s *Server) writeTaskError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, task.ErrTaskNotFound) {
		writeNotFound(w, msgTaskNotFound)
		return
	}

	s.logger.Error("task operation failed",
		"error", err,
		"path", r.URL.Path,
		"request_id", requestIDFrom(r.Context()),
	)
	writeInternalError(w, "internal server error")
}
