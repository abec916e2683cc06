package analytics

import (
	"context"
	"log/slog"
	"time"

	"asha-backend/internal/messaging"

	"github.com/google/uuid"
)

// Event types recorded by the API layer.
const (
	EventQuery          = "query"
	EventAmbiguity      = "ambiguity_detected"
	EventBias           = "bias_detected"
	EventNoResults      = "no_results"
	EventError          = "error"
	EventSearch         = "search"
	EventFeedback       = "feedback"
	EventSessionStarted = "session_started"
)

// Recorder publishes analytics events without blocking or failing the
// request that produced them.
type Recorder struct {
	publisher messaging.Publisher
}

func NewRecorder(publisher messaging.Publisher) *Recorder {
	return &Recorder{publisher: publisher}
}

// Record publishes the event and logs (rather than returns) any failure.
// Analytics loss must never fail a user request.
func (r *Recorder) Record(ctx context.Context, eventType string, sessionID uuid.UUID, details map[string]any) {
	if r == nil || r.publisher == nil {
		return
	}
	payload := messaging.AnalyticsEventPayload{
		EventType:  eventType,
		SessionID:  sessionID,
		Details:    details,
		OccurredAt: time.Now().UTC(),
	}
	if err := r.publisher.PublishAnalyticsEvent(ctx, payload); err != nil {
		slog.Error("failed to publish analytics event", "event_type", eventType, "error", err)
	}
}
