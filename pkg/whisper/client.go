// Package whisper fetches the "pet whisper" supplementary content from
// the companion web service.
package whisper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var ErrNoWhisper = errors.New("no whisper available")

type Whisper struct {
	Text     string
	ImageURL string
}

type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *Client) Random(ctx context.Context, petID string) (*Whisper, error) {
	endpoint := fmt.Sprintf("%s/api/pet-whisper/random?pet_id=%s", c.baseURL, url.QueryEscape(petID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("whisper request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("whisper api status %d", resp.StatusCode)
	}

	var parsed struct {
		Success bool `json:"success"`
		Data    struct {
			Whisper struct {
				Content string `json:"content"`
			} `json:"whisper"`
			PetImage string `json:"pet_image"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode whisper response: %w", err)
	}

	text := strings.TrimSpace(parsed.Data.Whisper.Content)
	if !parsed.Success || text == "" {
		return nil, ErrNoWhisper
	}

	return &Whisper{Text: text, ImageURL: strings.TrimSpace(parsed.Data.PetImage)}, nil
}
