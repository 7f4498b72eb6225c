package task

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Status is the progress state of a task.
//
// Values are not validated; any string may be stored via Update. Complete
// and Uncomplete pin StatusCompleted and StatusNotStarted respectively.
type Status string

// Known status values.
const (
	StatusNotStarted Status = "notStarted"
	StatusInProgress Status = "inProgress"
	StatusCompleted  Status = "completed"
)

// Importance is the priority of a task. Any string is accepted.
type Importance string

// Known importance values.
const (
	ImportanceLow    Importance = "low"
	ImportanceNormal Importance = "normal"
	ImportanceHigh   Importance = "high"
)

// Task is a single TODO item.
//
// The JSON field names are the wire contract consumed by the firmware client
// and must not change.
type Task struct {
	ID                   string     `json:"id"`
	Title                string     `json:"title"`
	Body                 string     `json:"body"`
	Status               Status     `json:"status"`
	Importance           Importance `json:"importance"`
	CreatedDateTime      Timestamp  `json:"createdDateTime"`
	LastModifiedDateTime Timestamp  `json:"lastModifiedDateTime"`
	IsCompleted          bool       `json:"isCompleted"`
}

// Input is a partial task payload accepted by Create and Update.
// A nil field means the caller did not supply it.
type Input struct {
	Title       *string     `json:"title,omitempty"`
	Body        *string     `json:"body,omitempty"`
	Status      *Status     `json:"status,omitempty"`
	Importance  *Importance `json:"importance,omitempty"`
	IsCompleted *Flag       `json:"isCompleted,omitempty"`
}

// Filter narrows List results. Zero value matches every task.
type Filter struct {
	// Status, when non-empty, must equal the task status exactly (case-sensitive).
	Status Status
}

// Matches reports whether t passes the filter.
func (f Filter) Matches(t *Task) bool {
	return f.Status == "" || t.Status == f.Status
}

// Stats summarises the collection.
type Stats struct {
	Total          int    `json:"total"`
	Completed      int    `json:"completed"`
	Pending        int    `json:"pending"`
	CompletionRate string `json:"completionRate"`
}

// Timestamp layouts. The fraction is dropped when the sub-second part is zero,
// which is how the seeded sample data has always been rendered.
const (
	timestampLayout      = "2006-01-02T15:04:05Z"
	timestampLayoutMicro = "2006-01-02T15:04:05.000000Z"
)

// Timestamp is a UTC instant with microsecond precision that serialises as
// ISO-8601 with a literal Z suffix.
type Timestamp struct {
	time.Time
}

// NewTimestamp converts t to UTC and truncates it to microseconds.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC().Truncate(time.Microsecond)}
}

// ParseTimestamp parses an ISO-8601 UTC timestamp such as
// "2026-01-29T10:00:00Z" or "2026-01-29T10:00:00.123456Z".
func ParseTimestamp(s string) (Timestamp, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Timestamp{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return NewTimestamp(t), nil
}

// String renders the timestamp in wire format.
func (ts Timestamp) String() string {
	if ts.Nanosecond() == 0 {
		return ts.UTC().Format(timestampLayout)
	}
	return ts.UTC().Format(timestampLayoutMicro)
}

// MarshalJSON implements json.Marshaler.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(ts.String())), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}

// Flag is a boolean that decodes any JSON value by truthiness, so a client
// sending 1, "yes" or true for isCompleted gets the same result.
//
// Falsy: false, null, 0, "", [], {}. Everything else is truthy.
type Flag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Flag(truthy(v))
	return nil
}

// BoolPtr returns a *Flag for v. Convenient for building Input values.
func BoolPtr(v bool) *Flag {
	f := Flag(v)
	return &f
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		return x != ""
	case []any:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	default:
		return true
	}
}
