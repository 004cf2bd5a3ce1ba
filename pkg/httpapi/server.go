// Package httpapi exposes the small HTTP surface the hosting platform
// talks to: liveness, dependency health, and the message relay endpoint
// the external transport posts inbound texts to.
package httpapi

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"
)

const checkTimeout = 5 * time.Second

// MessageHandler is the conversation entry point; pkg/bot provides it.
type MessageHandler interface {
	HandleInboundMessage(ctx context.Context, userID, text string) string
}

// Check probes one dependency. A nil error means healthy.
type Check struct {
	Name  string
	Probe func(ctx context.Context) error
}

type Server struct {
	messages MessageHandler
	mode     string
	model    string
	checks   []Check
}

func NewServer(messages MessageHandler, mode, model string) *Server {
	return &Server{messages: messages, mode: mode, model: model}
}

func (s *Server) AddCheck(name string, probe func(ctx context.Context) error) {
	s.checks = append(s.checks, Check{Name: name, Probe: probe})
}

func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/test", s.handleTest)
	mux.HandleFunc("/v1/messages", s.handleMessage)
	return mux
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"service": "pawtalk",
		"status":  "running",
		"mode":    s.mode,
		"model":   s.model,
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	results := make(map[string]string, len(s.checks))
	healthy := true
	for _, check := range s.checks {
		if err := check.Probe(ctx); err != nil {
			results[check.Name] = err.Error()
			healthy = false
			continue
		}
		results[check.Name] = "ok"
	}

	status := "ok"
	if !healthy {
		status = "degraded"
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]interface{}{"status": status, "checks": results})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"status": status, "checks": results})
}

func (s *Server) handleTest(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("pawtalk is alive 🐾"))
}

type messageRequest struct {
	UserID string `json:"user_id"`
	Text   string `json:"text"`
}

type messageResponse struct {
	Reply string `json:"reply"`
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		http.Error(w, "user_id required", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		http.Error(w, "text required", http.StatusBadRequest)
		return
	}

	reply := s.messages.HandleInboundMessage(r.Context(), req.UserID, req.Text)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(messageResponse{Reply: reply})
}

// ListenAndServe blocks serving the API on addr.
func (s *Server) ListenAndServe(addr string) error {
	log.Printf("http api listening on %s", addr)
	return http.ListenAndServe(addr, s.Routes())
}
