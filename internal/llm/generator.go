package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Generator runs one-shot prompts (no conversation state) against an
// OpenAI-compatible endpoint. Used for offline-style tasks such as the
// feedback-insights summary.
type Generator struct {
	client openai.Client
	model  string
	temp   float64
}

func NewGenerator(apiKey, baseURL, model string, temp float64) *Generator {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Generator{
		client: openai.NewClient(opts...),
		model:  model,
		temp:   temp,
	}
}

func (g *Generator) Generate(ctx context.Context, systemPrompt, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 50*time.Second)
	defer cancel()

	var messages []openai.ChatCompletionMessageParamUnion
	if systemPrompt != "" {
		messages = append(messages, openai.SystemMessage(systemPrompt))
	}
	messages = append(messages, openai.UserMessage(prompt))

	res, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       g.model,
		Messages:    messages,
		Temperature: openai.Float(g.temp),
	})
	if err != nil {
		slog.Error("generation call failed", "error", err)
		return "", fmt.Errorf("generation failed: %w", err)
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("generation returned no choices")
	}

	return res.Choices[0].Message.Content, nil
}
