package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"asha-backend/internal/analytics"
	"asha-backend/internal/chat"
	"asha-backend/pkg/api"
)

const timestampFormat = "2006-01-02 15:04:05"

type ChatService struct {
	db       *gorm.DB
	manager  *chat.ChatSessionManager
	recorder *analytics.Recorder
}

func NewChatService(db *gorm.DB, manager *chat.ChatSessionManager, recorder *analytics.Recorder) *ChatService {
	return &ChatService{
		db:       db,
		manager:  manager,
		recorder: recorder,
	}
}

func (s *ChatService) AddRoutes(r chi.Router) {
	r.Route("/chat", func(r chi.Router) {
		r.Get("/sessions", RestHandler(s.GetSessions))
		r.Post("/sessions", RestHandler(s.StartSession))
		r.Get("/sessions/{session_id}", RestHandler(s.GetSession))
		r.Post("/sessions/{session_id}/rename", RestHandler(s.RenameSession))
		r.Delete("/sessions/{session_id}", RestHandler(s.DeleteSession))
		r.Post("/sessions/{session_id}/messages", RestHandler(s.SendMessage))
		r.Get("/sessions/{session_id}/history", RestHandler(s.GetHistory))
	})
}

func (s *ChatService) GetSessions(r *http.Request) (any, error) {
	sessions, err := chat.GetSessions(s.db)
	if err != nil {
		return nil, err
	}

	resp := api.GetSessionsResponse{Sessions: make([]api.ChatSessionMetadata, 0, len(sessions))}
	for _, session := range sessions {
		resp.Sessions = append(resp.Sessions, api.ChatSessionMetadata{
			ID:           session.ID,
			Title:        session.Title,
			CreatedAt:    session.CreatedAt.Format(timestampFormat),
			LastActiveAt: session.LastActiveAt.Format(timestampFormat),
		})
	}
	return resp, nil
}

func (s *ChatService) StartSession(r *http.Request) (any, error) {
	var req api.StartSessionRequest
	if r.ContentLength != 0 {
		var err error
		if req, err = ParseRequest[api.StartSessionRequest](r); err != nil {
			return nil, err
		}
	}

	session, err := s.manager.StartSession(strings.TrimSpace(req.Title))
	if err != nil {
		return nil, err
	}

	s.recorder.Record(r.Context(), analytics.EventSessionStarted, session.ID, nil)

	return api.StartSessionResponse{SessionID: session.ID.String()}, nil
}

func (s *ChatService) GetSession(r *http.Request) (any, error) {
	sessionID, err := URLParamUUID(r, "session_id")
	if err != nil {
		return nil, err
	}

	session, err := chat.GetSession(s.db, sessionID)
	if err != nil {
		return nil, sessionLookupError(sessionID, err)
	}

	return api.ChatSessionMetadata{
		ID:           session.ID,
		Title:        session.Title,
		CreatedAt:    session.CreatedAt.Format(timestampFormat),
		LastActiveAt: session.LastActiveAt.Format(timestampFormat),
	}, nil
}

func (s *ChatService) RenameSession(r *http.Request) (any, error) {
	sessionID, err := URLParamUUID(r, "session_id")
	if err != nil {
		return nil, err
	}
	req, err := ParseRequest[api.RenameSessionRequest](r)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "session title cannot be empty")
	}

	if _, err := chat.GetSession(s.db, sessionID); err != nil {
		return nil, sessionLookupError(sessionID, err)
	}

	if err := chat.UpdateSessionTitle(s.db, sessionID, req.Title); err != nil {
		return nil, err
	}

	return nil, nil
}

func (s *ChatService) DeleteSession(r *http.Request) (any, error) {
	sessionID, err := URLParamUUID(r, "session_id")
	if err != nil {
		return nil, err
	}

	if _, err := chat.GetSession(s.db, sessionID); err != nil {
		return nil, sessionLookupError(sessionID, err)
	}

	if err := chat.DeleteSession(s.db, sessionID); err != nil {
		return nil, err
	}
	s.manager.Evict(sessionID)

	return nil, nil
}

func (s *ChatService) SendMessage(r *http.Request) (any, error) {
	sessionID, err := URLParamUUID(r, "session_id")
	if err != nil {
		return nil, err
	}

	req, err := ParseRequest[api.ChatRequest](r)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "message cannot be empty")
	}

	session, err := s.manager.GetSession(sessionID)
	if err != nil {
		return nil, sessionLookupError(sessionID, err)
	}

	outcome, err := session.Chat(r.Context(), req.Message, req.Location)
	if err != nil {
		return nil, err
	}

	eventType := analytics.EventQuery
	switch {
	case outcome.RequiresClarification:
		eventType = analytics.EventAmbiguity
	case outcome.BiasDetected:
		eventType = analytics.EventBias
	case outcome.Degraded:
		eventType = analytics.EventError
	case outcome.NoResults:
		eventType = analytics.EventNoResults
	}
	s.recorder.Record(r.Context(), eventType, sessionID, map[string]any{
		"message_length": len(req.Message),
	})

	history, err := s.historyItems(sessionID)
	if err != nil {
		return nil, err
	}

	return api.ChatResponse{
		Reply:                 outcome.Reply,
		RequiresClarification: outcome.RequiresClarification,
		BiasDetected:          outcome.BiasDetected,
		Degraded:              outcome.Degraded,
		History:               history,
	}, nil
}

func (s *ChatService) GetHistory(r *http.Request) (any, error) {
	sessionID, err := URLParamUUID(r, "session_id")
	if err != nil {
		return nil, err
	}

	if _, err := chat.GetSession(s.db, sessionID); err != nil {
		return nil, sessionLookupError(sessionID, err)
	}

	return s.historyItems(sessionID)
}

func (s *ChatService) historyItems(sessionID uuid.UUID) ([]api.ChatHistoryItem, error) {
	history, err := chat.GetChatHistory(s.db, sessionID)
	if err != nil {
		return nil, err
	}

	items := make([]api.ChatHistoryItem, 0, len(history))
	for _, msg := range history {
		items = append(items, api.ChatHistoryItem{
			Role:      msg.Role,
			Content:   msg.Content,
			Timestamp: msg.Timestamp.Format(timestampFormat),
			Metadata:  msg.Metadata,
		})
	}
	return items, nil
}

func sessionLookupError(sessionID uuid.UUID, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return CodedErrorf(http.StatusNotFound, "session %v not found", sessionID)
	}
	return err
}
