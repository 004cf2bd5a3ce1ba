package backend

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"pawtalk/pkg/history"
)

// QwenClient calls a hosted OpenAI-compatible chat API (Qwen via the
// DashScope compatible endpoint by default).
type QwenClient struct {
	client  openai.Client
	model   string
	temp    float64
	topP    float64
	timeout time.Duration
}

func NewQwenClient(cfg Config) (*QwenClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	model := strings.TrimSpace(cfg.APIModel)
	if model == "" {
		model = "qwen-flash"
	}
	timeout := cfg.Timeout
	if timeout <= 0 || timeout > 30*time.Second {
		timeout = 30 * time.Second
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if baseURL := strings.TrimSpace(cfg.APIBaseURL); baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &QwenClient{
		client:  openai.NewClient(opts...),
		model:   model,
		temp:    cfg.Temperature,
		topP:    cfg.TopP,
		timeout: timeout,
	}, nil
}

func (c *QwenClient) Describe() string {
	return ModeAPI + "/" + c.model
}

func (c *QwenClient) Chat(ctx context.Context, systemPrompt, userInput string, turns []history.Turn) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	messages := buildMessages(systemPrompt, userInput, turns)
	chatMessages := make([]openai.ChatCompletionMessageParamUnion, len(messages))
	for i, msg := range messages {
		switch msg.Role {
		case "system":
			chatMessages[i] = openai.SystemMessage(msg.Content)
		case history.RoleAssistant:
			chatMessages[i] = openai.AssistantMessage(msg.Content)
		default:
			chatMessages[i] = openai.UserMessage(msg.Content)
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(c.model),
		Messages:    chatMessages,
		Temperature: openai.Float(c.temp),
		TopP:        openai.Float(c.topP),
		MaxTokens:   openai.Int(maxReplyTokens),
		Stop: openai.ChatCompletionNewParamsStopUnion{
			OfStringArray: stopSequences,
		},
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat api request failed: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", ErrInvalidResponse
	}
	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	if reply == "" {
		return "", ErrInvalidResponse
	}
	return reply, nil
}
