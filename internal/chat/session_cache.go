package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type sessionEntry struct {
	session      *ChatSession
	lastAccessed time.Time
}

// SessionCache bounds the number of live ChatSession workers, evicting the
// least recently used entry when full. Session state lives in the database,
// so eviction only costs the per-session lock.
type SessionCache struct {
	lock     sync.Mutex
	sessions map[uuid.UUID]*sessionEntry
	maxSize  int
}

func NewSessionCache(maxSize int) *SessionCache {
	return &SessionCache{
		sessions: make(map[uuid.UUID]*sessionEntry, maxSize),
		maxSize:  maxSize,
	}
}

func (cache *SessionCache) Get(sessionID uuid.UUID, create func() *ChatSession) *ChatSession {
	cache.lock.Lock()
	defer cache.lock.Unlock()

	if entry, exists := cache.sessions[sessionID]; exists {
		entry.lastAccessed = time.Now()
		return entry.session
	}

	if len(cache.sessions) >= cache.maxSize {
		oldestSessionID := uuid.Nil
		var oldestTime time.Time
		for id, entry := range cache.sessions {
			if oldestSessionID == uuid.Nil || entry.lastAccessed.Before(oldestTime) {
				oldestSessionID = id
				oldestTime = entry.lastAccessed
			}
		}
		delete(cache.sessions, oldestSessionID)
	}

	session := create()
	cache.sessions[sessionID] = &sessionEntry{
		session:      session,
		lastAccessed: time.Now(),
	}
	return session
}

func (cache *SessionCache) Evict(sessionID uuid.UUID) {
	cache.lock.Lock()
	defer cache.lock.Unlock()
	delete(cache.sessions, sessionID)
}
