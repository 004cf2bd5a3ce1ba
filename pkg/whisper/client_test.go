package whisper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandom(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/pet-whisper/random", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("pet_id"))
		w.Write([]byte(`{"success":true,"data":{"whisper":{"content":"主人今天也要加油喔"},"pet_image":"https://cdn.example.com/7.png"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	got, err := client.Random(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, "主人今天也要加油喔", got.Text)
	assert.Equal(t, "https://cdn.example.com/7.png", got.ImageURL)
}

func TestRandom_NoContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.Random(context.Background(), "7")
	assert.ErrorIs(t, err, ErrNoWhisper)
}

func TestRandom_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.Random(context.Background(), "7")
	assert.Error(t, err)
}
