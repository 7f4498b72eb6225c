package task

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeClock returns a fixed instant until advanced.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// sequentialIDs yields "id-1", "id-2", ...
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestStore(t *testing.T, opts ...Option) (*Store, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	opts = append([]Option{WithClock(clock.Now)}, opts...)
	return NewStore(opts...), clock
}

func strPtr(s string) *string { return &s }

func statusPtr(s Status) *Status { return &s }

func importancePtr(i Importance) *Importance { return &i }

func ids(tasks []Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

// ─── Create ────────────────────────────────────────────────────────

func TestCreate_EmptyInputDefaults(t *testing.T) {
	store, clock := newTestStore(t)
	ctx := context.Background()

	got, err := store.Create(ctx, Input{})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if got.ID == "" {
		t.Error("Create() returned empty ID")
	}
	if got.Title != "" || got.Body != "" {
		t.Errorf("title/body = %q/%q, want empty", got.Title, got.Body)
	}
	if got.Status != StatusNotStarted {
		t.Errorf("Status = %q, want %q", got.Status, StatusNotStarted)
	}
	if got.Importance != ImportanceNormal {
		t.Errorf("Importance = %q, want %q", got.Importance, ImportanceNormal)
	}
	if got.IsCompleted {
		t.Error("IsCompleted = true, want false")
	}
	if !got.CreatedDateTime.Equal(clock.Now()) || !got.LastModifiedDateTime.Equal(clock.Now()) {
		t.Errorf("timestamps = %v/%v, want %v", got.CreatedDateTime, got.LastModifiedDateTime, clock.Now())
	}
}

func TestCreate_UsesSuppliedFields(t *testing.T) {
	store, _ := newTestStore(t)

	got, err := store.Create(context.Background(), Input{
		Title:       strPtr("Flash firmware"),
		Body:        strPtr("idf.py flash"),
		Status:      statusPtr(StatusInProgress),
		Importance:  importancePtr("urgent"),
		IsCompleted: BoolPtr(true),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if got.Title != "Flash firmware" || got.Body != "idf.py flash" {
		t.Errorf("title/body = %q/%q", got.Title, got.Body)
	}
	// Inconsistent status/isCompleted pairs are stored as supplied.
	if got.Status != StatusInProgress {
		t.Errorf("Status = %q, want %q", got.Status, StatusInProgress)
	}
	if !got.IsCompleted {
		t.Error("IsCompleted = false, want true")
	}
	if got.Importance != "urgent" {
		t.Errorf("Importance = %q, want unvalidated %q", got.Importance, "urgent")
	}
}

func TestCreate_AppendsInOrder(t *testing.T) {
	store, _ := newTestStore(t, WithIDGenerator(sequentialIDs()))
	ctx := context.Background()

	if err := store.Seed(ctx, DefaultSeed()); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := store.Create(ctx, Input{}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	got := ids(store.List(ctx, Filter{}))
	want := []string{"1", "2", "3", "4", "5", "6", "7", "8", "id-1", "id-2", "id-3"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("List order = %v, want %v", got, want)
	}
}

func TestCreate_UniqueIDs(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		created, err := store.Create(ctx, Input{})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if seen[created.ID] {
			t.Fatalf("duplicate id %q", created.ID)
		}
		seen[created.ID] = true
	}
}

func TestCreate_RegeneratesCollidingID(t *testing.T) {
	// The generator first returns a seeded ID, then an empty one, then a fresh one.
	queue := []string{"1", "", "fresh"}
	gen := func() string {
		id := queue[0]
		queue = queue[1:]
		return id
	}
	store, _ := newTestStore(t, WithIDGenerator(gen))
	ctx := context.Background()
	if err := store.Seed(ctx, DefaultSeed()); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	got, err := store.Create(ctx, Input{})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if got.ID != "fresh" {
		t.Errorf("ID = %q, want %q", got.ID, "fresh")
	}
	if store.Len(ctx) != 9 {
		t.Errorf("Len() = %d, want 9", store.Len(ctx))
	}
}

// ─── Get / List ────────────────────────────────────────────────────

func TestGet(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	if err := store.Seed(ctx, DefaultSeed()); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	got, err := store.Get(ctx, "3")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Status != StatusCompleted || !got.IsCompleted {
		t.Errorf("Get(3) = %+v, want completed task", got)
	}

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrTaskNotFound", err)
	}
}

func TestGet_ReturnsCopy(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	if err := store.Seed(ctx, DefaultSeed()); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	got, _ := store.Get(ctx, "1")
	got.Title = "mutated"

	again, _ := store.Get(ctx, "1")
	if again.Title == "mutated" {
		t.Error("mutating a returned task changed the store")
	}
}

func TestList_StatusFilter(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	if err := store.Seed(ctx, DefaultSeed()); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"no filter", Filter{}, []string{"1", "2", "3", "4", "5", "6", "7", "8"}},
		{"notStarted", Filter{Status: StatusNotStarted}, []string{"1", "4", "5", "8"}},
		{"inProgress", Filter{Status: StatusInProgress}, []string{"2", "7"}},
		{"completed", Filter{Status: StatusCompleted}, []string{"3", "6"}},
		{"case sensitive", Filter{Status: "Completed"}, []string{}},
		{"unknown", Filter{Status: "blocked"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(store.List(ctx, tt.filter))
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("List(%+v) = %v, want %v", tt.filter, got, tt.want)
			}
		})
	}
}

// ─── Update ────────────────────────────────────────────────────────

func TestUpdate_PartialPatch(t *testing.T) {
	store, clock := newTestStore(t)
	ctx := context.Background()
	if err := store.Seed(ctx, DefaultSeed()); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	before, _ := store.Get(ctx, "2")

	clock.Advance(time.Minute)
	got, err := store.Update(ctx, "2", Input{Title: strPtr("Learn LVGL 9")})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if got.Title != "Learn LVGL 9" {
		t.Errorf("Title = %q", got.Title)
	}
	if got.Body != before.Body || got.Status != before.Status || got.Importance != before.Importance || got.IsCompleted != before.IsCompleted {
		t.Errorf("untouched fields changed: before %+v, after %+v", before, got)
	}
	if !got.CreatedDateTime.Equal(before.CreatedDateTime.Time) {
		t.Error("CreatedDateTime changed on update")
	}
	if !got.LastModifiedDateTime.Equal(clock.Now()) {
		t.Errorf("LastModifiedDateTime = %v, want %v", got.LastModifiedDateTime, clock.Now())
	}
}

func TestUpdate_IsCompletedOverridesStatus(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	if err := store.Seed(ctx, DefaultSeed()); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	got, err := store.Update(ctx, "1", Input{
		IsCompleted: BoolPtr(true),
		Status:      statusPtr(StatusInProgress),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.Status != StatusCompleted {
		t.Errorf("Status = %q, want %q", got.Status, StatusCompleted)
	}
	if !got.IsCompleted {
		t.Error("IsCompleted = false, want true")
	}
}

func TestUpdate_FalseIsCompletedKeepsStatus(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	if err := store.Seed(ctx, DefaultSeed()); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	got, err := store.Update(ctx, "3", Input{IsCompleted: BoolPtr(false)})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.IsCompleted {
		t.Error("IsCompleted = true, want false")
	}
	if got.Status != StatusCompleted {
		t.Errorf("Status = %q, want unchanged %q", got.Status, StatusCompleted)
	}
}

func TestUpdate_AnyStatusTransition(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	if err := store.Seed(ctx, DefaultSeed()); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	for _, s := range []Status{StatusCompleted, StatusInProgress, StatusNotStarted, "archived"} {
		got, err := store.Update(ctx, "4", Input{Status: statusPtr(s)})
		if err != nil {
			t.Fatalf("Update(%q) error = %v", s, err)
		}
		if got.Status != s {
			t.Errorf("Status = %q, want %q", got.Status, s)
		}
	}
}

func TestUpdate_NotFound(t *testing.T) {
	store, _ := newTestStore(t)
	if _, err := store.Update(context.Background(), "nope", Input{}); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Update() error = %v, want ErrTaskNotFound", err)
	}
}

// ─── Complete / Uncomplete ─────────────────────────────────────────

func TestCompleteUncomplete_RoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, Input{Status: statusPtr(StatusInProgress)})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// The clock never advances: the store must still move the timestamp forward.
	done, err := store.Complete(ctx, created.ID)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if !done.IsCompleted || done.Status != StatusCompleted {
		t.Errorf("after Complete: isCompleted=%v status=%q", done.IsCompleted, done.Status)
	}
	if !done.LastModifiedDateTime.After(created.LastModifiedDateTime.Time) {
		t.Errorf("Complete did not advance lastModified: %v -> %v", created.LastModifiedDateTime, done.LastModifiedDateTime)
	}

	undone, err := store.Uncomplete(ctx, created.ID)
	if err != nil {
		t.Fatalf("Uncomplete() error = %v", err)
	}
	if undone.IsCompleted || undone.Status != StatusNotStarted {
		t.Errorf("after Uncomplete: isCompleted=%v status=%q", undone.IsCompleted, undone.Status)
	}
	if !undone.LastModifiedDateTime.After(done.LastModifiedDateTime.Time) {
		t.Errorf("Uncomplete did not advance lastModified: %v -> %v", done.LastModifiedDateTime, undone.LastModifiedDateTime)
	}
	if !undone.CreatedDateTime.Equal(created.CreatedDateTime.Time) {
		t.Error("CreatedDateTime changed")
	}
}

func TestComplete_ClockBehindSeedTimestamp(t *testing.T) {
	// Seeded tasks may carry timestamps later than the process clock.
	store, _ := newTestStore(t, WithClock(func() time.Time {
		return time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	}))
	ctx := context.Background()
	if err := store.Seed(ctx, DefaultSeed()); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	before, _ := store.Get(ctx, "6")

	got, err := store.Uncomplete(ctx, "6")
	if err != nil {
		t.Fatalf("Uncomplete() error = %v", err)
	}
	if !got.LastModifiedDateTime.After(before.LastModifiedDateTime.Time) {
		t.Errorf("lastModified went backwards: %v -> %v", before.LastModifiedDateTime, got.LastModifiedDateTime)
	}
}

func TestCompleteUncomplete_NotFound(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Complete(ctx, "ghost"); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Complete() error = %v, want ErrTaskNotFound", err)
	}
	if _, err := store.Uncomplete(ctx, "ghost"); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Uncomplete() error = %v, want ErrTaskNotFound", err)
	}
}

// ─── Delete ────────────────────────────────────────────────────────

func TestDelete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	if err := store.Seed(ctx, DefaultSeed()); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	before := store.List(ctx, Filter{})

	deleted, err := store.Delete(ctx, "4")
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if deleted.ID != "4" {
		t.Errorf("Delete() returned %q, want %q", deleted.ID, "4")
	}

	after := store.List(ctx, Filter{})
	if len(after) != len(before)-1 {
		t.Errorf("count = %d, want %d", len(after), len(before)-1)
	}
	want := []string{"1", "2", "3", "5", "6", "7", "8"}
	if fmt.Sprint(ids(after)) != fmt.Sprint(want) {
		t.Errorf("order after delete = %v, want %v", ids(after), want)
	}
	if _, err := store.Get(ctx, "4"); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Get(deleted) error = %v, want ErrTaskNotFound", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	if err := store.Seed(ctx, DefaultSeed()); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	if _, err := store.Delete(ctx, "99"); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Delete() error = %v, want ErrTaskNotFound", err)
	}
	if store.Len(ctx) != 8 {
		t.Errorf("Len() = %d, want 8", store.Len(ctx))
	}
}

// ─── Seed ──────────────────────────────────────────────────────────

func TestSeed_Errors(t *testing.T) {
	tests := []struct {
		name    string
		seed    []Task
		wantErr error
	}{
		{"empty id", []Task{{ID: ""}}, ErrInvalidID},
		{"duplicate in batch", []Task{{ID: "a"}, {ID: "a"}}, ErrDuplicateID},
		{"duplicate of live task", []Task{{ID: "1"}}, ErrDuplicateID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _ := newTestStore(t)
			ctx := context.Background()
			if err := store.Seed(ctx, DefaultSeed()); err != nil {
				t.Fatalf("Seed(default) error = %v", err)
			}

			err := store.Seed(ctx, tt.seed)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Seed() error = %v, want %v", err, tt.wantErr)
			}
			if store.Len(ctx) != 8 {
				t.Errorf("failed seed changed collection: Len() = %d", store.Len(ctx))
			}
		})
	}
}

func TestSeed_FillsZeroTimestamps(t *testing.T) {
	store, clock := newTestStore(t)
	ctx := context.Background()

	if err := store.Seed(ctx, []Task{{ID: "x", Status: StatusNotStarted}}); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	got, _ := store.Get(ctx, "x")
	if !got.CreatedDateTime.Equal(clock.Now()) || !got.LastModifiedDateTime.Equal(clock.Now()) {
		t.Errorf("timestamps = %v/%v, want %v", got.CreatedDateTime, got.LastModifiedDateTime, clock.Now())
	}
}

// ─── Concurrency ───────────────────────────────────────────────────

func TestStore_ConcurrentMutations(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	if err := store.Seed(ctx, DefaultSeed()); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	const workers = 16
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			created, err := store.Create(ctx, Input{Title: strPtr(fmt.Sprintf("w%d", i))})
			if err != nil {
				t.Errorf("Create() error = %v", err)
				return
			}
			_, _ = store.Complete(ctx, created.ID)
			_, _ = store.Uncomplete(ctx, "1")
			_ = store.Stats(ctx)
			_ = store.List(ctx, Filter{Status: StatusCompleted})
		}(i)
	}
	wg.Wait()

	if got := store.Len(ctx); got != 8+workers {
		t.Errorf("Len() = %d, want %d", got, 8+workers)
	}
}
