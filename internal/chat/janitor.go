package chat

import (
	"context"
	"log/slog"
	"time"

	"asha-backend/internal/database"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const janitorSchedule = "@every 10m"

// Janitor periodically deletes sessions idle longer than the TTL, together
// with their messages.
type Janitor struct {
	db   *gorm.DB
	ttl  time.Duration
	cron *cron.Cron
}

func NewJanitor(db *gorm.DB, ttl time.Duration) *Janitor {
	return &Janitor{db: db, ttl: ttl, cron: cron.New()}
}

func (j *Janitor) Start() error {
	if _, err := j.cron.AddFunc(janitorSchedule, j.sweep); err != nil {
		return err
	}
	j.cron.Start()
	slog.Info("session janitor started", "ttl", j.ttl, "schedule", janitorSchedule)
	return nil
}

func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
}

func (j *Janitor) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	dbMutex.Lock()
	defer dbMutex.Unlock()

	removed, err := database.DeleteIdleSessions(ctx, j.db, time.Now().UTC().Add(-j.ttl))
	if err != nil {
		slog.Error("session sweep failed", "error", err)
		return
	}
	if removed > 0 {
		slog.Info("removed idle sessions", "count", removed)
	}
}
