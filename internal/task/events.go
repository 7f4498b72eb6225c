package task

import "strings"

// Event names a successful mutation. They double as WebSocket channel names,
// MQTT topic suffixes and audit actions.
type Event string

// Mutation events.
const (
	EventCreated     Event = "task.created"
	EventUpdated     Event = "task.updated"
	EventDeleted     Event = "task.deleted"
	EventCompleted   Event = "task.completed"
	EventUncompleted Event = "task.uncompleted"
)

// Events lists every mutation event in a stable order.
func Events() []Event {
	return []Event{EventCreated, EventUpdated, EventDeleted, EventCompleted, EventUncompleted}
}

// Action returns the event name without the "task." prefix, e.g. "completed".
func (e Event) Action() string {
	return strings.TrimPrefix(string(e), "task.")
}
