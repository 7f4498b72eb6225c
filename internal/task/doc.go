// Package task provides the in-memory task store behind the mock TODO API.
//
// The Store is the single owner of the task collection. It keeps tasks in
// insertion order and indexes them by ID for lookups. The HTTP layer receives
// a *Store at construction time; nothing in this package is global.
//
// # Key Types
//
//   - Task: a single TODO item, serialised with the field names the ESP32
//     firmware expects (id, title, body, status, importance, createdDateTime,
//     lastModifiedDateTime, isCompleted)
//   - Draft: optional fields accepted by Create
//   - Patch: optional fields accepted by Update
//   - Stats: derived totals and completion rate
//
// # Usage
//
//	store := task.NewStore(task.WithLogger(log))
//	if err := store.Seed(ctx, task.DefaultSeed()); err != nil {
//	    return err
//	}
//
//	t, _ := store.Create(ctx, task.Draft{Title: ptr("Buy solder")})
//	t, _ = store.Complete(ctx, t.ID)
//	stats := store.Stats(ctx) // {Total: 9, Completed: 3, ...}
//
// # Thread Safety
//
// All Store methods are safe for concurrent use. Mutations hold a write lock
// for the whole read-modify-write sequence; reads hold a read lock. Returned
// tasks are copies.
package task
