package messaging

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	AnalyticsQueue  = "analytics_queue"
	RetryDelay      = 5 * time.Second
	MaxConnectRetry = 5
)

type Task interface {
	Type() string

	Payload() []byte

	Ack() error

	Nack() error

	Reject() error
}

// AnalyticsEventPayload records one usage event (a chat turn, a search, a
// feedback submission) for asynchronous persistence.
type AnalyticsEventPayload struct {
	EventType  string
	SessionID  uuid.UUID
	Details    map[string]any
	OccurredAt time.Time
}

type Publisher interface {
	PublishAnalyticsEvent(ctx context.Context, payload AnalyticsEventPayload) error

	Close()
}

type Reciever interface {
	Tasks() <-chan Task

	Close()
}
