package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func TouchSession(ctx context.Context, db *gorm.DB, sessionID uuid.UUID) error {
	if err := db.WithContext(ctx).
		Model(&ChatSession{ID: sessionID}).
		Update("last_active_at", time.Now().UTC()).Error; err != nil {
		slog.Error("error updating session last active time", "session_id", sessionID, "error", err)
		return err
	}
	return nil
}

// DeleteIdleSessions removes sessions (and their messages) whose last
// activity is older than the cutoff. Returns the number of sessions removed.
func DeleteIdleSessions(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	var ids []uuid.UUID
	if err := db.WithContext(ctx).
		Model(&ChatSession{}).
		Where("last_active_at < ?", cutoff).
		Pluck("id", &ids).Error; err != nil {
		return 0, fmt.Errorf("could not list idle sessions: %w", err)
	}

	if len(ids) == 0 {
		return 0, nil
	}

	if err := db.WithContext(ctx).Delete(&ChatMessage{}, "session_id IN ?", ids).Error; err != nil {
		return 0, fmt.Errorf("could not delete idle session messages: %w", err)
	}
	res := db.WithContext(ctx).Delete(&ChatSession{}, "id IN ?", ids)
	if res.Error != nil {
		return 0, fmt.Errorf("could not delete idle sessions: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func SaveAnalyticsEvent(ctx context.Context, db *gorm.DB, event *AnalyticsEvent) error {
	if err := db.WithContext(ctx).Create(event).Error; err != nil {
		slog.Error("error saving analytics event", "event_type", event.EventType, "error", err)
		return err
	}
	return nil
}
