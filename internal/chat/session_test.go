package chat

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"asha-backend/internal/database"
	"asha-backend/internal/llm"
	"asha-backend/internal/retrieval"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubCompleter struct {
	reply      string
	err        error
	lastSystem string
	history    []llm.Message
	calls      int
}

func (s *stubCompleter) Complete(ctx context.Context, system string, history []llm.Message) (string, error) {
	s.calls++
	s.lastSystem = system
	s.history = history
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func newChatTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "chat.db"))
	require.NoError(t, err)
	return db
}

func newTestManager(t *testing.T, db *gorm.DB, completer llm.Completer, jobs retrieval.JobSource) *ChatSessionManager {
	t.Helper()
	retriever := retrieval.NewRetriever(retrieval.NewExpander(), retrieval.NewLocalStore(db), jobs, nil)
	return NewChatSessionManager(db, completer, retriever, 10)
}

func startSession(t *testing.T, manager *ChatSessionManager) *ChatSession {
	t.Helper()
	record, err := manager.StartSession("")
	require.NoError(t, err)
	session, err := manager.GetSession(record.ID)
	require.NoError(t, err)
	return session
}

func TestChatGeneratesGroundedReply(t *testing.T) {
	db := newChatTestDB(t)
	require.NoError(t, db.Create(&database.JobListing{
		Title: "Software Engineer", Company: "Acme", Location: "Mumbai", Description: "Backend work",
	}).Error)

	completer := &stubCompleter{reply: "Here are some roles that match!"}
	manager := newTestManager(t, db, completer, nil)
	session := startSession(t, manager)

	outcome, err := session.Chat(context.Background(), "software jobs in Mumbai", "")
	require.NoError(t, err)

	assert.Equal(t, "Here are some roles that match!", outcome.Reply)
	assert.False(t, outcome.Degraded)
	assert.False(t, outcome.RequiresClarification)
	assert.False(t, outcome.BiasDetected)

	assert.Contains(t, completer.lastSystem, "Local Job Opportunities")
	assert.Contains(t, completer.lastSystem, "Software Engineer")
	assert.Contains(t, completer.lastSystem, "under 150 words")

	history, err := GetChatHistory(db, session.sessionID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, database.RoleUser, history[0].Role)
	assert.Equal(t, database.RoleAssistant, history[1].Role)
}

func TestChatSetsTitleFromFirstMessage(t *testing.T) {
	db := newChatTestDB(t)
	require.NoError(t, db.Create(&database.JobListing{Title: "Software Engineer", Description: "software"}).Error)

	manager := newTestManager(t, db, &stubCompleter{reply: "ok"}, nil)
	session := startSession(t, manager)

	_, err := session.Chat(context.Background(), "software jobs please", "")
	require.NoError(t, err)

	record, err := GetSession(db, session.sessionID)
	require.NoError(t, err)
	assert.Equal(t, "software jobs please", record.Title)

	_, err = session.Chat(context.Background(), "more software jobs", "")
	require.NoError(t, err)

	record, err = GetSession(db, session.sessionID)
	require.NoError(t, err)
	assert.Equal(t, "software jobs please", record.Title, "title only set on first message")
}

func TestStartSessionWithTitle(t *testing.T) {
	db := newChatTestDB(t)
	require.NoError(t, db.Create(&database.JobListing{Title: "Software Engineer", Description: "software"}).Error)

	manager := newTestManager(t, db, &stubCompleter{reply: "ok"}, nil)
	record, err := manager.StartSession("My Job Hunt")
	require.NoError(t, err)
	assert.Equal(t, "My Job Hunt", record.Title)

	session, err := manager.GetSession(record.ID)
	require.NoError(t, err)
	_, err = session.Chat(context.Background(), "software jobs please", "")
	require.NoError(t, err)

	record, err = GetSession(db, record.ID)
	require.NoError(t, err)
	assert.Equal(t, "My Job Hunt", record.Title, "a chosen title is not overwritten by the first message")
}

func TestChatAmbiguityShortCircuits(t *testing.T) {
	db := newChatTestDB(t)
	completer := &stubCompleter{reply: "should not be called"}
	manager := newTestManager(t, db, completer, nil)
	session := startSession(t, manager)

	outcome, err := session.Chat(context.Background(), "I want python work", "")
	require.NoError(t, err)

	assert.True(t, outcome.RequiresClarification)
	assert.Contains(t, outcome.Reply, "Did you mean")
	assert.Zero(t, completer.calls)
}

func TestChatBiasShortCircuits(t *testing.T) {
	db := newChatTestDB(t)
	completer := &stubCompleter{reply: "should not be called"}
	manager := newTestManager(t, db, completer, nil)
	session := startSession(t, manager)

	outcome, err := session.Chat(context.Background(), "men only engineering roles", "")
	require.NoError(t, err)

	assert.True(t, outcome.BiasDetected)
	assert.Equal(t, "gender_exclusionary", outcome.BiasType)
	assert.Contains(t, outcome.Reply, "equal opportunities")
	assert.Zero(t, completer.calls)
}

func TestChatNoResults(t *testing.T) {
	db := newChatTestDB(t)
	completer := &stubCompleter{reply: "should not be called"}
	manager := newTestManager(t, db, completer, nil)
	session := startSession(t, manager)

	outcome, err := session.Chat(context.Background(), "underwater basket weaving", "")
	require.NoError(t, err)

	assert.True(t, outcome.NoResults)
	assert.Equal(t, noResultsReply, outcome.Reply)
	assert.Zero(t, completer.calls)
}

func TestChatDegradesOnCompleterFailure(t *testing.T) {
	db := newChatTestDB(t)
	require.NoError(t, db.Create(&database.JobListing{Title: "Software Engineer", Description: "software"}).Error)

	completer := &stubCompleter{err: fmt.Errorf("groq unavailable")}
	manager := newTestManager(t, db, completer, nil)
	session := startSession(t, manager)

	outcome, err := session.Chat(context.Background(), "software jobs", "")
	require.NoError(t, err, "model failure must not error the turn")

	assert.True(t, outcome.Degraded)
	assert.Equal(t, degradedReply, outcome.Reply)

	history, err := GetChatHistory(db, session.sessionID)
	require.NoError(t, err)
	require.Len(t, history, 2, "degraded replies are still persisted")
}

func TestChatDegradesWithoutCompleter(t *testing.T) {
	db := newChatTestDB(t)
	require.NoError(t, db.Create(&database.JobListing{Title: "Software Engineer", Description: "software"}).Error)

	manager := newTestManager(t, db, nil, nil)
	session := startSession(t, manager)

	outcome, err := session.Chat(context.Background(), "software jobs", "")
	require.NoError(t, err)
	assert.True(t, outcome.Degraded)
}

func TestChatHistoryWindow(t *testing.T) {
	db := newChatTestDB(t)
	require.NoError(t, db.Create(&database.JobListing{Title: "Software Engineer", Description: "software"}).Error)

	completer := &stubCompleter{reply: "ok"}
	manager := newTestManager(t, db, completer, nil)
	session := startSession(t, manager)

	for i := 0; i < 4; i++ {
		_, err := session.Chat(context.Background(), fmt.Sprintf("software request %d", i), "")
		require.NoError(t, err)
	}

	assert.Len(t, completer.history, historyWindow, "only the recent window is sent to the model")
}

func TestSessionCacheEvictsLRU(t *testing.T) {
	cache := NewSessionCache(2)
	db := newChatTestDB(t)

	a, b, c := uuid.New(), uuid.New(), uuid.New()

	created := 0
	create := func() *ChatSession {
		created++
		return NewChatSession(db, a, nil, nil)
	}

	cache.Get(a, create)
	cache.Get(b, create)
	cache.Get(a, create) // refresh a
	cache.Get(c, create) // evicts b
	cache.Get(a, create) // still cached

	assert.Equal(t, 3, created)

	cache.Get(b, create) // recreated after eviction
	assert.Equal(t, 4, created)
}
