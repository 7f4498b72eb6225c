package task

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestTimestamp_MarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{
			name: "whole seconds omit fraction",
			in:   time.Date(2026, 1, 29, 10, 0, 0, 0, time.UTC),
			want: `"2026-01-29T10:00:00Z"`,
		},
		{
			name: "microseconds kept",
			in:   time.Date(2026, 1, 29, 10, 0, 0, 123456000, time.UTC),
			want: `"2026-01-29T10:00:00.123456Z"`,
		},
		{
			name: "nanoseconds truncated",
			in:   time.Date(2026, 1, 29, 10, 0, 0, 5000999, time.UTC),
			want: `"2026-01-29T10:00:00.005000Z"`,
		},
		{
			name: "non-UTC converted",
			in:   time.Date(2026, 1, 29, 18, 0, 0, 0, time.FixedZone("CST", 8*3600)),
			want: `"2026-01-29T10:00:00Z"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(NewTimestamp(tt.in))
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Marshal() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	var ts Timestamp
	if err := json.Unmarshal([]byte(`"2026-01-29T12:00:00.5Z"`), &ts); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !ts.Equal(time.Date(2026, 1, 29, 12, 0, 0, 500000000, time.UTC)) {
		t.Errorf("Unmarshal() = %v", ts.Time)
	}

	if err := json.Unmarshal([]byte(`42`), &ts); err == nil {
		t.Error("Unmarshal(number) expected error")
	}
	if err := json.Unmarshal([]byte(`"yesterday"`), &ts); err == nil {
		t.Error("Unmarshal(garbage) expected error")
	}
}

func TestTask_WireFieldNames(t *testing.T) {
	task := seedTask("1", "t", "b", StatusNotStarted, ImportanceHigh, "2026-01-29T10:00:00Z", "2026-01-29T10:00:00Z", false)

	data, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	want := []string{"id", "title", "body", "status", "importance", "createdDateTime", "lastModifiedDateTime", "isCompleted"}
	if len(fields) != len(want) {
		t.Errorf("got %d fields, want %d: %s", len(fields), len(want), data)
	}
	for _, name := range want {
		if _, ok := fields[name]; !ok {
			t.Errorf("missing field %q in %s", name, data)
		}
	}
	if fields["createdDateTime"] != "2026-01-29T10:00:00Z" {
		t.Errorf("createdDateTime = %v", fields["createdDateTime"])
	}
}

func TestInput_PermissiveIsCompleted(t *testing.T) {
	tests := []struct {
		body    string
		present bool
		want    bool
	}{
		{`{}`, false, false},
		{`{"isCompleted": null}`, false, false},
		{`{"isCompleted": true}`, true, true},
		{`{"isCompleted": false}`, true, false},
		{`{"isCompleted": 1}`, true, true},
		{`{"isCompleted": 0}`, true, false},
		{`{"isCompleted": "yes"}`, true, true},
		{`{"isCompleted": ""}`, true, false},
		{`{"isCompleted": []}`, true, false},
		{`{"isCompleted": {"a": 1}}`, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			var in Input
			if err := json.Unmarshal([]byte(tt.body), &in); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if (in.IsCompleted != nil) != tt.present {
				t.Fatalf("IsCompleted present = %v, want %v", in.IsCompleted != nil, tt.present)
			}
			if tt.present && bool(*in.IsCompleted) != tt.want {
				t.Errorf("IsCompleted = %v, want %v", *in.IsCompleted, tt.want)
			}
		})
	}
}

func TestInput_IgnoresServerFields(t *testing.T) {
	var in Input
	body := `{"id": "hijack", "createdDateTime": "1999-01-01T00:00:00Z", "title": "ok"}`
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if in.Title == nil || *in.Title != "ok" {
		t.Errorf("Title = %v", in.Title)
	}
}

func TestLoadSeedFile(t *testing.T) {
	content := `
tasks:
  - id: "a"
    title: "Solder header"
    importance: high
    createdDateTime: "2026-01-30T08:00:00Z"
  - id: "b"
    title: "Ship it"
    status: completed
    isCompleted: true
`
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write seed file: %v", err)
	}

	tasks, err := LoadSeedFile(path)
	if err != nil {
		t.Fatalf("LoadSeedFile() error = %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(tasks))
	}

	a := tasks[0]
	if a.ID != "a" || a.Status != StatusNotStarted || a.Importance != ImportanceHigh {
		t.Errorf("task a = %+v", a)
	}
	if a.CreatedDateTime.String() != "2026-01-30T08:00:00Z" {
		t.Errorf("task a created = %s", a.CreatedDateTime)
	}

	b := tasks[1]
	if b.Status != StatusCompleted || !b.IsCompleted || b.Importance != ImportanceNormal {
		t.Errorf("task b = %+v", b)
	}
	if !b.CreatedDateTime.IsZero() {
		t.Errorf("task b created = %s, want zero", b.CreatedDateTime)
	}
}

func TestLoadSeedFile_Errors(t *testing.T) {
	if _, err := LoadSeedFile("/nonexistent/seed.yaml"); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	content := "tasks:\n  - id: x\n    createdDateTime: not-a-time\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write seed file: %v", err)
	}
	_, err := LoadSeedFile(path)
	if err == nil || !strings.Contains(err.Error(), "seed entry 0") {
		t.Errorf("LoadSeedFile() error = %v, want seed entry 0 error", err)
	}
}

func TestDefaultSeed(t *testing.T) {
	seed := DefaultSeed()
	if len(seed) != 8 {
		t.Fatalf("len = %d, want 8", len(seed))
	}
	completed := 0
	for _, task := range seed {
		if task.IsCompleted != (task.Status == StatusCompleted) {
			t.Errorf("task %s: isCompleted=%v status=%q disagree", task.ID, task.IsCompleted, task.Status)
		}
		if task.LastModifiedDateTime.Before(task.CreatedDateTime.Time) {
			t.Errorf("task %s modified before created", task.ID)
		}
		if task.IsCompleted {
			completed++
		}
	}
	if completed != 2 {
		t.Errorf("completed = %d, want 2", completed)
	}

	if seed[0].Title != "完成ESP32项目" || seed[0].Body != "实现TODO列表显示功能" {
		t.Errorf("task 1 = %q / %q", seed[0].Title, seed[0].Body)
	}
	if seed[7].Title != "测试滚动功能" {
		t.Errorf("task 8 title = %q", seed[7].Title)
	}
}
