package api

import "github.com/google/uuid"

type StartSessionRequest struct {
	Title string `json:"title"`
}

type StartSessionResponse struct {
	SessionID string `json:"session_id"`
}

type ChatSessionMetadata struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    string    `json:"created_at"`
	LastActiveAt string    `json:"last_active_at"`
}

type GetSessionsResponse struct {
	Sessions []ChatSessionMetadata `json:"sessions"`
}

type RenameSessionRequest struct {
	Title string `json:"title"`
}

type ChatRequest struct {
	Message  string `json:"message"`
	Location string `json:"location,omitempty"`
}

type ChatResponse struct {
	Reply                 string            `json:"reply"`
	RequiresClarification bool              `json:"requires_clarification,omitempty"`
	BiasDetected          bool              `json:"bias_detected,omitempty"`
	Degraded              bool              `json:"degraded,omitempty"`
	History               []ChatHistoryItem `json:"history"`
}

type ChatHistoryItem struct {
	Role      string `json:"role"` // "user" or "assistant"
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
	Metadata  any    `json:"metadata,omitempty"`
}
