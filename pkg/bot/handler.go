// Package bot classifies inbound messages and orchestrates one
// conversation turn: history in, prompt built, backend invoked, reply
// normalized, both sides persisted. It never surfaces an error to the
// transport; every failure path yields a short in-character string.
package bot

import (
	"context"
	"fmt"
	"log"
	"strings"

	"pawtalk/pkg/backend"
	"pawtalk/pkg/history"
	"pawtalk/pkg/persona"
	"pawtalk/pkg/whisper"
)

// Normalizer is the script-conversion step applied to raw backend
// output.
type Normalizer interface {
	Convert(text string, protected []string) (string, error)
}

// WhisperFetcher supplies the 愛寵小語 supplementary content.
type WhisperFetcher interface {
	Random(ctx context.Context, petID string) (*whisper.Whisper, error)
}

// FortuneSender generates and delivers the fortune card for a pet. An
// empty reply with nil error means the card was delivered out-of-band
// and no text follow-up is needed.
type FortuneSender interface {
	SendCard(ctx context.Context, userID, petID string) (string, error)
}

type Handler struct {
	repo       persona.Repository
	store      history.Store
	chatter    backend.Chatter
	normalizer Normalizer
	maxTurns   int

	whispers WhisperFetcher
	fortunes FortuneSender
	emotions EmotionClassifier
}

func NewHandler(repo persona.Repository, store history.Store, chatter backend.Chatter, normalizer Normalizer, maxTurns int) *Handler {
	if maxTurns <= 0 {
		maxTurns = 8
	}
	return &Handler{
		repo:       repo,
		store:      store,
		chatter:    chatter,
		normalizer: normalizer,
		maxTurns:   maxTurns,
	}
}

func (h *Handler) SetWhisperFetcher(w WhisperFetcher) { h.whispers = w }

func (h *Handler) SetFortuneSender(f FortuneSender) { h.fortunes = f }

func (h *Handler) SetEmotionClassifier(e EmotionClassifier) { h.emotions = e }

// HandleInboundMessage is the single entry point the transport layer
// calls per text message. The returned string is display-ready; it is
// empty only when a command was fully handled as a side effect.
func (h *Handler) HandleInboundMessage(ctx context.Context, userID, text string) string {
	message := strings.TrimSpace(text)
	command := classifyCommand(message)

	petID, bound, err := h.repo.ResolveBinding(ctx, userID)
	if err != nil {
		log.Printf("resolve binding failed for user %s: %v", userID, err)
		return personaApology
	}

	// Identity works for everyone; it is how an unbound user learns
	// the ID to hand to support.
	if command == CmdIdentity {
		return identityReply(userID, bound)
	}

	if !bound {
		return onboardingMessage
	}

	// The profile is re-read every turn: the guardian may have edited
	// it since the last message.
	profile, err := h.repo.LoadProfile(ctx, petID)
	if err != nil {
		log.Printf("load profile failed for pet %s: %v", petID, err)
		return personaApology
	}

	switch command {
	case CmdReset:
		if err := h.store.Clear(ctx, userID, petID); err != nil {
			log.Printf("clear history failed for user %s pet %s: %v", userID, petID, err)
		}
		return resetConfirmation
	case CmdHelp:
		return helpMessage
	case CmdFortune:
		return h.handleFortune(ctx, userID, petID)
	case CmdWhisper:
		return h.handleWhisper(ctx, petID, profile.Name)
	}

	return h.handleDialogue(ctx, userID, petID, profile, message)
}

func (h *Handler) handleFortune(ctx context.Context, userID, petID string) string {
	if h.fortunes == nil {
		return fortuneUnavailable
	}
	reply, err := h.fortunes.SendCard(ctx, userID, petID)
	if err != nil {
		log.Printf("fortune card failed for pet %s: %v", petID, err)
		return fortuneUnavailable
	}
	return reply
}

func (h *Handler) handleWhisper(ctx context.Context, petID, petName string) string {
	if h.whispers == nil {
		return whisperUnavailable
	}
	w, err := h.whispers.Random(ctx, petID)
	if err != nil {
		log.Printf("whisper fetch failed for pet %s: %v", petID, err)
		return whisperUnavailable
	}
	return fmt.Sprintf("%s：\n\n%s", petName, w.Text)
}

func (h *Handler) handleDialogue(ctx context.Context, userID, petID string, profile *persona.Profile, message string) string {
	systemPrompt, err := persona.BuildSystemPrompt(profile)
	if err != nil {
		log.Printf("build prompt failed for pet %s: %v", petID, err)
		return personaApology
	}

	if h.emotions != nil {
		if result, err := h.emotions.Detect(ctx, message); err != nil {
			log.Printf("emotion detection failed: %v", err)
		} else {
			systemPrompt = withEmotionContext(systemPrompt, result)
		}
	}

	turns, err := h.store.Recent(ctx, userID, petID, h.maxTurns)
	if err != nil {
		// A lost window degrades the chat, it does not end it.
		log.Printf("history read failed for user %s pet %s: %v", userID, petID, err)
		turns = nil
	}

	reply, err := h.chatter.Chat(ctx, systemPrompt, message, turns)
	if err != nil {
		log.Printf("backend %s failed for user %s: %v", h.chatter.Describe(), userID, err)
		return backendApology
	}

	normalized, err := h.normalizer.Convert(reply, []string{profile.Name})
	if err != nil {
		// Degraded but non-empty beats losing the reply.
		log.Printf("script conversion failed, returning raw reply: %v", err)
		normalized = reply
	}

	if err := h.store.Append(ctx, userID, petID, history.RoleUser, message); err != nil {
		log.Printf("history append (user) failed for user %s pet %s: %v", userID, petID, err)
	} else if err := h.store.Append(ctx, userID, petID, history.RoleAssistant, normalized); err != nil {
		log.Printf("history append (assistant) failed for user %s pet %s: %v", userID, petID, err)
	}

	if normalized == "" {
		return backendApology
	}
	return normalized
}
