package database

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ChatSession struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	LastActiveAt time.Time `gorm:"index" json:"last_active_at"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ChatMessage struct {
	ID        uint      `gorm:"primaryKey"`
	SessionID uuid.UUID `gorm:"type:uuid;index"`
	Role      string    `gorm:"size:20;not null"` // 'user' or 'assistant'
	Content   string
	Timestamp time.Time      `gorm:"autoCreateTime"`
	Metadata  datatypes.JSON `gorm:"type:jsonb"`
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"not null"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	CreatedAt    time.Time
}

type Feedback struct {
	ID        uint `gorm:"primaryKey"`
	SessionID string
	Rating    string `gorm:"size:20;not null"`
	Comments  string
	Timestamp time.Time `gorm:"autoCreateTime"`
}

type AnalyticsEvent struct {
	ID        uint   `gorm:"primaryKey"`
	EventType string `gorm:"size:40;index;not null"`
	SessionID string
	Details   datatypes.JSON `gorm:"type:jsonb"`
	Timestamp time.Time      `gorm:"autoCreateTime"`
}

// JobListing rows come from the curated dataset import (cmd/seed).
type JobListing struct {
	ID          uint `gorm:"primaryKey"`
	Title       string
	Company     string
	Location    string
	Description string
	Skills      string
	URL         string
}

type MentorSession struct {
	ID          uint `gorm:"primaryKey"`
	Title       string
	Date        string
	Description string
	Link        string
}
