package task

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Logger defines the logging interface used by the Store.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for created/modified timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDGenerator overrides how IDs are generated for created tasks.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		s.newID = gen
	}
}

// WithLogger sets the store logger.
func WithLogger(logger Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// Store holds the task collection in process memory.
//
// Tasks are indexed by ID and iterated in insertion order via a separate
// ordered ID slice. All public methods are thread-safe.
type Store struct {
	mu    sync.RWMutex
	order []string         // IDs in insertion order
	tasks map[string]*Task // live tasks by ID

	now    func() time.Time
	newID  func() string
	logger Logger
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		tasks:  make(map[string]*Task),
		now:    time.Now,
		newID:  uuid.NewString,
		logger: noopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seed appends preset tasks in the given order.
//
// Tasks keep their caller-chosen IDs. Zero timestamps are filled with the
// current time, and a LastModifiedDateTime earlier than CreatedDateTime is
// raised to match it. Seeding is all-or-nothing.
func (s *Store) Seed(_ context.Context, seed []Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(seed))
	for i := range seed {
		id := seed[i].ID
		if id == "" {
			return fmt.Errorf("%w: seed entry %d has no id", ErrInvalidID, i)
		}
		if _, ok := s.tasks[id]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateID, id)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateID, id)
		}
		seen[id] = struct{}{}
	}

	now := NewTimestamp(s.now())
	for i := range seed {
		t := seed[i]
		if t.CreatedDateTime.IsZero() {
			t.CreatedDateTime = now
		}
		if t.LastModifiedDateTime.Before(t.CreatedDateTime.Time) {
			t.LastModifiedDateTime = t.CreatedDateTime
		}
		s.tasks[t.ID] = &t
		s.order = append(s.order, t.ID)
	}

	s.logger.Info("task store seeded", "count", len(seed))
	return nil
}

// List returns the tasks matching filter in insertion order.
func (s *Store) List(_ context.Context, filter Filter) []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Task, 0, len(s.order))
	for _, id := range s.order {
		t := s.tasks[id]
		if filter.Matches(t) {
			out = append(out, *t)
		}
	}
	return out
}

// Get returns the task with the given ID.
// Returns ErrTaskNotFound if it does not exist.
func (s *Store) Get(_ context.Context, id string) (Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return Task{}, ErrTaskNotFound
	}
	return *t, nil
}

// Len returns the number of live tasks.
func (s *Store) Len(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Create materialises a new task from in and appends it to the collection.
//
// Absent fields take their defaults: empty title and body, StatusNotStarted,
// ImportanceNormal, not completed. Status and IsCompleted are stored as given,
// even when they disagree.
func (s *Store) Create(_ context.Context, in Input) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	for s.unusable(id) {
		id = s.newID()
	}

	now := NewTimestamp(s.now())
	t := &Task{
		ID:                   id,
		Status:               StatusNotStarted,
		Importance:           ImportanceNormal,
		CreatedDateTime:      now,
		LastModifiedDateTime: now,
	}
	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Body != nil {
		t.Body = *in.Body
	}
	if in.Status != nil {
		t.Status = *in.Status
	}
	if in.Importance != nil {
		t.Importance = *in.Importance
	}
	if in.IsCompleted != nil {
		t.IsCompleted = bool(*in.IsCompleted)
	}

	s.tasks[id] = t
	s.order = append(s.order, id)

	s.logger.Debug("task created", "id", id)
	return *t, nil
}

// Update applies the present fields of in to the task with the given ID.
//
// A truthy IsCompleted forces Status to StatusCompleted, overriding any
// Status supplied in the same Input. LastModifiedDateTime is refreshed even
// when in carries no fields.
func (s *Store) Update(_ context.Context, id string, in Input) (Task, error) {
	return s.mutate(id, func(t *Task) {
		if in.Title != nil {
			t.Title = *in.Title
		}
		if in.Body != nil {
			t.Body = *in.Body
		}
		if in.Status != nil {
			t.Status = *in.Status
		}
		if in.Importance != nil {
			t.Importance = *in.Importance
		}
		if in.IsCompleted != nil {
			t.IsCompleted = bool(*in.IsCompleted)
			if t.IsCompleted {
				t.Status = StatusCompleted
			}
		}
	})
}

// Complete marks the task completed.
func (s *Store) Complete(_ context.Context, id string) (Task, error) {
	return s.mutate(id, func(t *Task) {
		t.IsCompleted = true
		t.Status = StatusCompleted
	})
}

// Uncomplete resets the task to not started.
func (s *Store) Uncomplete(_ context.Context, id string) (Task, error) {
	return s.mutate(id, func(t *Task) {
		t.IsCompleted = false
		t.Status = StatusNotStarted
	})
}

// Delete removes the task with the given ID and returns the removed task.
// The order of the remaining tasks is unchanged.
func (s *Store) Delete(_ context.Context, id string) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return Task{}, ErrTaskNotFound
	}

	order := make([]string, 0, len(s.order))
	for _, existing := range s.order {
		if existing != id {
			order = append(order, existing)
		}
	}
	s.order = order
	delete(s.tasks, id)

	s.logger.Debug("task deleted", "id", id)
	return *t, nil
}

// unusable reports whether id is empty or already live. Caller holds mu.
func (s *Store) unusable(id string) bool {
	if id == "" {
		return true
	}
	_, taken := s.tasks[id]
	return taken
}

// mutate runs fn on the live task under the write lock and refreshes its
// modification time.
func (s *Store) mutate(id string, fn func(t *Task)) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return Task{}, ErrTaskNotFound
	}

	fn(t)
	t.LastModifiedDateTime = s.nextModified(t)

	return *t, nil
}

// nextModified returns a modification time strictly after the task's current
// one. A clock that has not advanced (or went backwards) is bumped by one
// microsecond, the wire precision.
func (s *Store) nextModified(t *Task) Timestamp {
	ts := NewTimestamp(s.now())
	if !ts.After(t.LastModifiedDateTime.Time) {
		ts = Timestamp{Time: t.LastModifiedDateTime.Add(time.Microsecond)}
	}
	return ts
}
