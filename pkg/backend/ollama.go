package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pawtalk/pkg/history"
)

// APIError captures non-200 responses so callers can inspect the
// status code.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api status %d: %s", e.StatusCode, e.Body)
}

// OllamaClient talks to a locally reachable Ollama instance over its
// /api/chat endpoint.
type OllamaClient struct {
	baseURL string
	model   string
	temp    float64
	topP    float64
	client  *http.Client
}

func NewOllamaClient(cfg Config) *OllamaClient {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.OllamaURL), "/")
	if baseURL == "" {
		baseURL = "http://127.0.0.1:11434"
	}
	model := strings.TrimSpace(cfg.OllamaModel)
	if model == "" {
		model = "qwen:7b"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OllamaClient{
		baseURL: baseURL,
		model:   model,
		temp:    cfg.Temperature,
		topP:    cfg.TopP,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *OllamaClient) Describe() string {
	return ModeOllama + "/" + c.model
}

type ollamaRequest struct {
	Model    string        `json:"model"`
	Messages []Message     `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	NumPredict  int      `json:"num_predict"`
	Temperature float64  `json:"temperature"`
	TopP        float64  `json:"top_p"`
	Stop        []string `json:"stop"`
}

type ollamaResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

func (c *OllamaClient) Chat(ctx context.Context, systemPrompt, userInput string, turns []history.Turn) (string, error) {
	reqBody := ollamaRequest{
		Model:    c.model,
		Messages: buildMessages(systemPrompt, userInput, turns),
		Stream:   false,
		Options: ollamaOptions{
			NumPredict:  numPredict,
			Temperature: c.temp,
			TopP:        c.topP,
			Stop:        stopSequences,
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	var parsed ollamaResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	reply := strings.TrimSpace(parsed.Message.Content)
	if reply == "" {
		return "", ErrInvalidResponse
	}
	return reply, nil
}

// Ping checks that the Ollama service answers at all; used by the
// health endpoint.
func (c *OllamaClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode}
	}
	return nil
}
