package llm

import "context"

type Message struct {
	Role    string // "user" or "assistant"
	Content string
}

// Completer produces an assistant reply from a system prompt and the recent
// conversation window.
type Completer interface {
	Complete(ctx context.Context, system string, history []Message) (string, error)
}
