package api

import (
	"context"

	"github.com/nerrad567/todo-mock/internal/task"
)

// ChannelStats is the WebSocket channel carrying the collection stats after
// every mutation. Task events use the task.Event names as channels.
const ChannelStats = "stats.updated"

// emit fans a successful mutation out to the optional side channels.
//
// Side channels never affect the HTTP response: failures are logged at warn
// and the request carries on.
func (s *Server) emit(ctx context.Context, event task.Event, t task.Task) {
	stats := s.store.Stats(ctx)

	if s.hub != nil {
		s.hub.Broadcast(string(event), t)
		s.hub.Broadcast(ChannelStats, stats)
	}

	if s.mqtt != nil {
		topics := s.mqtt.Topics()
		if err := s.mqtt.PublishJSON(topics.TaskEvent(t.ID, event.Action()), t, false); err != nil {
			s.logger.Warn("publishing task event failed",
				"event", string(event),
				"task_id", t.ID,
				"error", err,
			)
		}
		if err := s.mqtt.PublishJSON(topics.Stats(), stats, true); err != nil {
			s.logger.Warn("publishing task stats failed", "error", err)
		}
	}

	if s.stats != nil {
		s.stats.WriteTaskEvent(event.Action(), t.ID)
		s.stats.WriteTaskStats(stats.Total, stats.Completed, stats.Pending, stats.Ratio())
	}

	s.auditLog(ctx, event, t)
}
