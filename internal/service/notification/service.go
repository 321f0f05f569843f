package notification

import (
	"context"
	"log/slog"

	"github.com/schoolhub/shiftops-backend-go/internal/domain/notification"
	"github.com/schoolhub/shiftops-backend-go/internal/pkg/sse"
)

// sseSink fans notifications out to the user's live SSE subscriptions.
// Delivery is best-effort; a user with no open stream simply misses the event.
type sseSink struct {
	hub    *sse.Hub
	logger *slog.Logger
}

func NewSSESink(hub *sse.Hub, logger *slog.Logger) notification.Sink {
	return &sseSink{hub: hub, logger: logger}
}

// Notify implements notification.Sink.
func (s *sseSink) Notify(ctx context.Context, userID string, eventType string, payload map[string]interface{}) {
	s.hub.Publish(userID, sse.Event{
		UserID: userID,
		Event:  eventType,
		Data:   payload,
	})

	s.logger.DebugContext(ctx, "notification published",
		slog.String("user_id", userID),
		slog.String("event", eventType),
		slog.Int("subscribers", s.hub.SubscriberCount(userID)),
	)
}
