package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurement names.
const (
	MeasurementStats  = "todo_stats"
	MeasurementEvents = "todo_events"
)

// serviceTag identifies points written by the mock.
const serviceTag = "todomock"

// WriteTaskStats records a snapshot of the collection counters.
// ratio is completed/total in 0..1.
func (c *Client) WriteTaskStats(total, completed, pending int, ratio float64) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(newStatsPoint(total, completed, pending, ratio, time.Now()))
}

// WriteTaskEvent counts a single task mutation, tagged by action
// ("created", "completed", ...).
func (c *Client) WriteTaskEvent(action, taskID string) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(newEventPoint(action, taskID, time.Now()))
}

func newStatsPoint(total, completed, pending int, ratio float64, ts time.Time) *write.Point {
	return write.NewPoint(
		MeasurementStats,
		map[string]string{"service": serviceTag},
		map[string]any{
			"total":            total,
			"completed":        completed,
			"pending":          pending,
			"completion_ratio": ratio,
		},
		ts,
	)
}

// Task IDs are a field, not a tag, to keep series cardinality bounded.
func newEventPoint(action, taskID string, ts time.Time) *write.Point {
	return write.NewPoint(
		MeasurementEvents,
		map[string]string{"service": serviceTag, "action": action},
		map[string]any{"count": 1, "task_id": taskID},
		ts,
	)
}
