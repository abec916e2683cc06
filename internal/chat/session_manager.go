package chat

import (
	"time"

	"asha-backend/internal/database"
	"asha-backend/internal/llm"
	"asha-backend/internal/retrieval"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultSessionTitle = "New Chat"

// ChatSessionManager creates sessions and hands out cached ChatSession
// workers bound to the shared completer and retriever.
type ChatSessionManager struct {
	db        *gorm.DB
	completer llm.Completer
	retriever *retrieval.Retriever
	cache     *SessionCache
}

func NewChatSessionManager(db *gorm.DB, completer llm.Completer, retriever *retrieval.Retriever, cacheSize int) *ChatSessionManager {
	return &ChatSessionManager{
		db:        db,
		completer: completer,
		retriever: retriever,
		cache:     NewSessionCache(cacheSize),
	}
}

// StartSession creates a new persisted session. An empty title gets the
// placeholder, which is later replaced by the first user message.
func (manager *ChatSessionManager) StartSession(title string) (database.ChatSession, error) {
	if title == "" {
		title = defaultSessionTitle
	}
	now := time.Now().UTC()
	record := database.ChatSession{
		ID:           uuid.New(),
		Title:        title,
		CreatedAt:    now,
		LastActiveAt: now,
	}
	if err := CreateSession(manager.db, &record); err != nil {
		return database.ChatSession{}, err
	}
	return record, nil
}

// GetSession returns the cached worker for an existing session, verifying
// the session row still exists first.
func (manager *ChatSessionManager) GetSession(sessionID uuid.UUID) (*ChatSession, error) {
	if _, err := GetSession(manager.db, sessionID); err != nil {
		return nil, err
	}
	return manager.cache.Get(sessionID, func() *ChatSession {
		return NewChatSession(manager.db, sessionID, manager.completer, manager.retriever)
	}), nil
}

// Evict drops a session's cached worker, if any. Called on delete.
func (manager *ChatSessionManager) Evict(sessionID uuid.UUID) {
	manager.cache.Evict(sessionID)
}
