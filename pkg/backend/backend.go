// Package backend abstracts the two interchangeable text-generation
// strategies: a locally hosted Ollama service and a remote
// OpenAI-compatible API. Callers pick one at startup; nothing else in
// the codebase branches on which one is active.
package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pawtalk/pkg/history"
)

const (
	ModeOllama = "ollama"
	ModeAPI    = "api"
)

var (
	ErrInvalidResponse = errors.New("invalid backend response")
	ErrMissingAPIKey   = errors.New("api key is required for api mode")
)

// Generation knobs shared by both strategies, matching what the pet
// replies were tuned with: short, slightly creative output.
const (
	maxReplyTokens = 100
	numPredict     = 500
)

var stopSequences = []string{"\n\n", "。。"}

// Chatter is the single contract the orchestrator talks to.
type Chatter interface {
	// Chat sends one turn and returns the raw generated text. No
	// script normalization and no fallback copy happens here.
	Chat(ctx context.Context, systemPrompt, userInput string, turns []history.Turn) (string, error)
	// Describe identifies the strategy and model for operator logs.
	Describe() string
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// buildMessages produces the wire-order both strategies share: system
// first, then each history turn as user/assistant (oldest first), then
// the new user message.
func buildMessages(systemPrompt, userInput string, turns []history.Turn) []Message {
	messages := make([]Message, 0, len(turns)*2+2)
	messages = append(messages, Message{Role: "system", Content: systemPrompt})
	for _, turn := range turns {
		messages = append(messages, Message{Role: history.RoleUser, Content: turn.User})
		messages = append(messages, Message{Role: history.RoleAssistant, Content: turn.Assistant})
	}
	messages = append(messages, Message{Role: history.RoleUser, Content: userInput})
	return messages
}

type Config struct {
	Mode        string
	OllamaURL   string
	OllamaModel string
	APIBaseURL  string
	APIKey      string
	APIModel    string
	Temperature float64
	TopP        float64
	Timeout     time.Duration
}

// New is the single construction site for backend selection.
func New(cfg Config) (Chatter, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Mode)) {
	case "", ModeOllama:
		return NewOllamaClient(cfg), nil
	case ModeAPI:
		return NewQwenClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported backend mode: %q", cfg.Mode)
	}
}
