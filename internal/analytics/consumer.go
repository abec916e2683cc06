package analytics

import (
	"context"
	"encoding/json"
	"log/slog"

	"asha-backend/internal/database"
	"asha-backend/internal/messaging"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Consumer drains analytics tasks off the queue and persists them.
type Consumer struct {
	db       *gorm.DB
	receiver messaging.Reciever
}

func NewConsumer(db *gorm.DB, receiver messaging.Reciever) *Consumer {
	return &Consumer{db: db, receiver: receiver}
}

// Start processes tasks until the receiver's channel closes. Run it in its
// own goroutine.
func (c *Consumer) Start() {
	for task := range c.receiver.Tasks() {
		if err := c.process(task); err != nil {
			slog.Error("failed to process analytics task", "error", err)
			if err := task.Reject(); err != nil {
				slog.Error("failed to reject analytics task", "error", err)
			}
			continue
		}
		if err := task.Ack(); err != nil {
			slog.Error("failed to ack analytics task", "error", err)
		}
	}
	slog.Info("analytics consumer stopped")
}

func (c *Consumer) process(task messaging.Task) error {
	var payload messaging.AnalyticsEventPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	var details datatypes.JSON = nil
	if payload.Details != nil {
		b, err := json.Marshal(payload.Details)
		if err != nil {
			return err
		}
		details = datatypes.JSON(b)
	}

	sessionID := ""
	if payload.SessionID != uuid.Nil {
		sessionID = payload.SessionID.String()
	}

	return database.SaveAnalyticsEvent(context.Background(), c.db, &database.AnalyticsEvent{
		EventType: payload.EventType,
		SessionID: sessionID,
		Details:   details,
		Timestamp: payload.OccurredAt,
	})
}
