package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoHandler struct {
	lastUser string
	lastText string
}

func (e *echoHandler) HandleInboundMessage(ctx context.Context, userID, text string) string {
	e.lastUser = userID
	e.lastText = text
	return "汪！收到：" + text
}

func newTestServer() (*Server, *echoHandler) {
	echo := &echoHandler{}
	return NewServer(echo, "ollama", "qwen3:8b"), echo
}

func TestRoot(t *testing.T) {
	server, _ := newTestServer()
	rec := httptest.NewRecorder()
	server.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "pawtalk", body["service"])
	assert.Equal(t, "ollama", body["mode"])
	assert.Equal(t, "qwen3:8b", body["model"])
}

func TestHealthzAllOK(t *testing.T) {
	server, _ := newTestServer()
	server.AddCheck("redis", func(ctx context.Context) error { return nil })
	server.AddCheck("backend", func(ctx context.Context) error { return nil })

	rec := httptest.NewRecorder()
	server.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "ok", body.Checks["redis"])
	assert.Equal(t, "ok", body.Checks["backend"])
}

func TestHealthzDegraded(t *testing.T) {
	server, _ := newTestServer()
	server.AddCheck("redis", func(ctx context.Context) error { return nil })
	server.AddCheck("backend", func(ctx context.Context) error { return errors.New("connection refused") })

	rec := httptest.NewRecorder()
	server.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "ok", body.Checks["redis"])
	assert.Equal(t, "connection refused", body.Checks["backend"])
}

func TestMessageRelay(t *testing.T) {
	server, echo := newTestServer()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/messages",
		strings.NewReader(`{"user_id":"U123","text":"你好"}`))
	server.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body messageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "汪！收到：你好", body.Reply)
	assert.Equal(t, "U123", echo.lastUser)
	assert.Equal(t, "你好", echo.lastText)
}

func TestMessageValidation(t *testing.T) {
	server, _ := newTestServer()
	routes := server.Routes()

	cases := []struct {
		name string
		body string
	}{
		{"missing user", `{"text":"你好"}`},
		{"missing text", `{"user_id":"U123"}`},
		{"blank text", `{"user_id":"U123","text":"   "}`},
		{"bad json", `{not json`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			routes.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/messages", strings.NewReader(tc.body)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/messages", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRootRejectsUnknownPath(t *testing.T) {
	server, _ := newTestServer()
	rec := httptest.NewRecorder()
	server.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
