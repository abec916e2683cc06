package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"asha-backend/internal/database"
	"asha-backend/internal/ethics"
	"asha-backend/internal/llm"
	"asha-backend/internal/retrieval"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	// Number of most recent messages sent to the model alongside the system
	// prompt.
	historyWindow = 4

	maxTitleLength = 50

	noResultsReply = "I couldn't find relevant opportunities. Would you like to try different search terms?"
	degradedReply  = "I'm having technical difficulties. Please try again later."
)

const systemPromptFormat = `You are Asha, a supportive career assistant helping women discover jobs, community events, and mentorship sessions.

Use ONLY the opportunities listed below when recommending jobs, events, or sessions. Do not invent listings.

%s

Rules:
- Respond in markdown.
- Keep the response under 150 words.
- End with one short follow-up question.`

// Outcome describes how a chat turn was resolved so the API layer can
// surface it without re-parsing the reply text.
type Outcome struct {
	Reply                 string
	RequiresClarification bool
	BiasDetected          bool
	BiasType              string
	NoResults             bool
	Degraded              bool
}

type ChatSession struct {
	mu        sync.Mutex
	db        *gorm.DB
	sessionID uuid.UUID
	completer llm.Completer
	retriever *retrieval.Retriever
}

func NewChatSession(db *gorm.DB, sessionID uuid.UUID, completer llm.Completer, retriever *retrieval.Retriever) *ChatSession {
	return &ChatSession{
		db:        db,
		sessionID: sessionID,
		completer: completer,
		retriever: retriever,
	}
}

// Chat runs one full turn: persist the user message, short-circuit on
// ambiguous or biased input, retrieve grounding context, and generate the
// assistant reply. Live-source or model failures produce a degraded reply
// instead of an error; only database failures propagate.
func (session *ChatSession) Chat(ctx context.Context, message, location string) (Outcome, error) {
	session.mu.Lock()
	defer session.mu.Unlock()

	if err := session.saveMessage(database.RoleUser, message, nil); err != nil {
		return Outcome{}, err
	}
	if err := session.maybeSetTitle(message); err != nil {
		slog.Error("failed to set session title", "session_id", session.sessionID, "error", err)
	}

	if clarification := session.retriever.Expander().DetectAmbiguity(message); clarification != "" {
		outcome := Outcome{Reply: clarification, RequiresClarification: true}
		return outcome, session.finishTurn(ctx, outcome.Reply, map[string]string{"type": "clarification"})
	}

	if analysis := ethics.Analyze(message); analysis.Biased {
		outcome := Outcome{Reply: analysis.Response, BiasDetected: true, BiasType: analysis.BiasType}
		return outcome, session.finishTurn(ctx, outcome.Reply, map[string]string{
			"type":      "bias",
			"bias_type": analysis.BiasType,
		})
	}

	if location == "" {
		location = retrieval.ExtractLocation(message)
	}

	grounding, err := session.retriever.Context(ctx, message, location)
	if err != nil {
		slog.Error("retrieval failed", "session_id", session.sessionID, "error", err)
		outcome := Outcome{Reply: degradedReply, Degraded: true}
		return outcome, session.finishTurn(ctx, outcome.Reply, map[string]string{"type": "degraded"})
	}

	if grounding == "" {
		outcome := Outcome{Reply: noResultsReply, NoResults: true}
		return outcome, session.finishTurn(ctx, outcome.Reply, map[string]string{"type": "no_results"})
	}

	reply, err := session.generateReply(ctx, grounding)
	if err != nil {
		slog.Error("completion failed", "session_id", session.sessionID, "error", err)
		outcome := Outcome{Reply: degradedReply, Degraded: true}
		return outcome, session.finishTurn(ctx, outcome.Reply, map[string]string{"type": "degraded"})
	}

	outcome := Outcome{Reply: reply}
	return outcome, session.finishTurn(ctx, reply, nil)
}

func (session *ChatSession) generateReply(ctx context.Context, grounding string) (string, error) {
	if session.completer == nil {
		return "", fmt.Errorf("no completion client configured")
	}

	history, err := GetChatHistory(session.db, session.sessionID)
	if err != nil {
		return "", fmt.Errorf("error loading chat history: %w", err)
	}
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}

	window := make([]llm.Message, 0, len(history))
	for _, msg := range history {
		window = append(window, llm.Message{Role: msg.Role, Content: msg.Content})
	}

	system := fmt.Sprintf(systemPromptFormat, grounding)
	return session.completer.Complete(ctx, system, window)
}

// finishTurn persists the assistant reply and bumps the session's activity
// timestamp.
func (session *ChatSession) finishTurn(ctx context.Context, reply string, metadata map[string]string) error {
	if err := session.saveMessage(database.RoleAssistant, reply, metadata); err != nil {
		return err
	}
	return database.TouchSession(ctx, session.db, session.sessionID)
}

func (session *ChatSession) saveMessage(role, content string, metadata map[string]string) error {
	var metadataJSON datatypes.JSON = nil
	if metadata != nil {
		b, err := json.Marshal(metadata)
		if err != nil {
			return fmt.Errorf("could not marshal metadata: %v", err)
		}
		metadataJSON = datatypes.JSON(b)
	}

	return SaveChatMessage(session.db, &database.ChatMessage{
		SessionID: session.sessionID,
		Role:      role,
		Content:   content,
		Metadata:  metadataJSON,
	})
}

// maybeSetTitle names the session after its first user message, unless the
// caller already chose a title at creation.
func (session *ChatSession) maybeSetTitle(message string) error {
	var count int64
	if err := session.db.Model(&database.ChatMessage{}).Where("session_id = ?", session.sessionID).Count(&count).Error; err != nil {
		return err
	}
	if count != 1 {
		return nil
	}
	record, err := GetSession(session.db, session.sessionID)
	if err != nil {
		return err
	}
	if record.Title != defaultSessionTitle {
		return nil
	}
	return UpdateSessionTitle(session.db, session.sessionID, retrieval.Truncate(message, maxTitleLength))
}
