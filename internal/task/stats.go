package task

import (
	"context"
	"fmt"
)

// zeroCompletionRate is reported for an empty collection instead of dividing by zero.
const zeroCompletionRate = "0%"

// Stats computes totals over the live collection.
func (s *Store) Stats(_ context.Context) Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	completed := 0
	for _, id := range s.order {
		if s.tasks[id].IsCompleted {
			completed++
		}
	}
	return NewStats(len(s.order), completed)
}

// NewStats builds Stats from a total and a completed count.
func NewStats(total, completed int) Stats {
	return Stats{
		Total:          total,
		Completed:      completed,
		Pending:        total - completed,
		CompletionRate: CompletionRate(total, completed),
	}
}

// CompletionRate formats completed/total as a percentage with one decimal
// place, e.g. "25.0%". An empty collection yields "0%".
func CompletionRate(total, completed int) string {
	if total == 0 {
		return zeroCompletionRate
	}
	return fmt.Sprintf("%.1f%%", float64(completed)/float64(total)*100)
}

// Ratio returns completed/total in [0,1], or 0 for an empty collection.
func (st Stats) Ratio() float64 {
	if st.Total == 0 {
		return 0
	}
	return float64(st.Completed) / float64(st.Total)
}
