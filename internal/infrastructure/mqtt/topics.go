package mqtt

import "fmt"

// DefaultTopicPrefix is used when Topics has no prefix.
const DefaultTopicPrefix = "todomock"

// Topics builds the topic names the mock publishes to.
//
//	topics := mqtt.Topics{Prefix: "bench"}
//	topics.TaskEvent("42", "completed") // "bench/tasks/42/completed"
type Topics struct {
	Prefix string
}

func (t Topics) prefix() string {
	if t.Prefix == "" {
		return DefaultTopicPrefix
	}
	return t.Prefix
}

// TaskEvent returns the topic for a single task lifecycle event.
//
// Example: todomock/tasks/42/created
func (t Topics) TaskEvent(taskID, action string) string {
	return fmt.Sprintf("%s/tasks/%s/%s", t.prefix(), taskID, action)
}

// Stats returns the retained collection statistics topic.
//
// Example: todomock/stats
func (t Topics) Stats() string {
	return fmt.Sprintf("%s/stats", t.prefix())
}

// SystemStatus returns the online/offline status topic.
//
// Example: todomock/system/status
func (t Topics) SystemStatus() string {
	return fmt.Sprintf("%s/system/status", t.prefix())
}

// AllTaskEvents returns a pattern matching every task event.
//
// Pattern: todomock/tasks/+/+
func (t Topics) AllTaskEvents() string {
	return fmt.Sprintf("%s/tasks/+/+", t.prefix())
}
