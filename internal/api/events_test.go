package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/nerrad567/todo-mock/internal/infrastructure/mqtt"
	"github.com/nerrad567/todo-mock/internal/task"
)

func TestEmit_PublishesTaskEventAndStats(t *testing.T) {
	pub := &mockPublisher{topics: mqtt.Topics{Prefix: "bench"}}
	stats := &mockStats{}
	srv := testServer(t, func(d *Deps) {
		d.MQTT = pub
		d.Stats = stats
	})

	w := doRequest(t, srv.buildRouter(), http.MethodPost, "/api/todos/1/complete", "", true)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	msgs := pub.messages()
	if len(msgs) != 2 {
		t.Fatalf("published %d messages, want 2", len(msgs))
	}

	if msgs[0].topic != "bench/tasks/1/completed" || msgs[0].retained {
		t.Errorf("event message = %s retained=%v", msgs[0].topic, msgs[0].retained)
	}
	var tk task.Task
	if err := json.Unmarshal(msgs[0].payload, &tk); err != nil {
		t.Fatalf("unmarshal task payload: %v", err)
	}
	if tk.ID != "1" || !tk.IsCompleted {
		t.Errorf("event payload = %+v", tk)
	}

	if msgs[1].topic != "bench/stats" || !msgs[1].retained {
		t.Errorf("stats message = %s retained=%v", msgs[1].topic, msgs[1].retained)
	}
	var st task.Stats
	if err := json.Unmarshal(msgs[1].payload, &st); err != nil {
		t.Fatalf("unmarshal stats payload: %v", err)
	}
	if st.Completed != 3 || st.CompletionRate != "37.5%" {
		t.Errorf("stats payload = %+v", st)
	}

	if len(stats.events) != 1 || stats.events[0] != "completed:1" {
		t.Errorf("stats events = %v", stats.events)
	}
	if len(stats.totals) != 1 || stats.totals[0] != 8 || stats.ratios[0] != 0.375 {
		t.Errorf("stats totals=%v ratios=%v", stats.totals, stats.ratios)
	}
}

func TestEmit_EveryMutation(t *testing.T) {
	pub := &mockPublisher{topics: mqtt.Topics{Prefix: "todomock"}}
	srv := testServer(t, func(d *Deps) { d.MQTT = pub })
	router := srv.buildRouter()

	created := decodeJSON[task.Task](t, doRequest(t, router, http.MethodPost, "/api/todos", `{"title":"x"}`, true))
	doRequest(t, router, http.MethodPut, "/api/todos/"+created.ID, `{"title":"y"}`, true)
	doRequest(t, router, http.MethodPost, "/api/todos/"+created.ID+"/complete", "", true)
	doRequest(t, router, http.MethodPost, "/api/todos/"+created.ID+"/uncomplete", "", true)
	doRequest(t, router, http.MethodDelete, "/api/todos/"+created.ID, "", true)

	var topics []string
	for _, m := range pub.messages() {
		if !m.retained {
			topics = append(topics, m.topic)
		}
	}

	prefix := "todomock/tasks/" + created.ID + "/"
	want := []string{prefix + "created", prefix + "updated", prefix + "completed", prefix + "uncompleted", prefix + "deleted"}
	if len(topics) != len(want) {
		t.Fatalf("topics = %v, want %v", topics, want)
	}
	for i := range want {
		if topics[i] != want[i] {
			t.Errorf("topic[%d] = %s, want %s", i, topics[i], want[i])
		}
	}
}

func TestEmit_ReadsAndFailuresDoNotPublish(t *testing.T) {
	pub := &mockPublisher{topics: mqtt.Topics{}}
	srv := testServer(t, func(d *Deps) { d.MQTT = pub })
	router := srv.buildRouter()

	doRequest(t, router, http.MethodGet, "/api/todos", "", true)
	doRequest(t, router, http.MethodGet, "/api/todos/1", "", false)
	doRequest(t, router, http.MethodGet, "/api/stats", "", true)
	doRequest(t, router, http.MethodDelete, "/api/todos/999", "", true)
	doRequest(t, router, http.MethodPost, "/api/todos", "{bad", true)
	doRequest(t, router, http.MethodPost, "/api/todos", "{}", false)

	if n := len(pub.messages()); n != 0 {
		t.Errorf("published %d messages for non-mutating requests", n)
	}
}

func TestEmit_PublishFailureKeepsResponse(t *testing.T) {
	pub := &mockPublisher{err: errors.New("broker down")}
	srv := testServer(t, func(d *Deps) { d.MQTT = pub })

	w := doRequest(t, srv.buildRouter(), http.MethodPost, "/api/todos", `{"title":"still works"}`, true)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
	if tk := decodeJSON[task.Task](t, w); tk.Title != "still works" {
		t.Errorf("task = %+v", tk)
	}
}
