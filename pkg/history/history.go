// Package history keeps the bounded conversation record for each
// (user, pet) pair. Only completed turns (a user message with its
// assistant reply) are ever handed to the prompt builder.
package history

import "context"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one completed exchange.
type Turn struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

type Store interface {
	// Recent returns up to limit completed turns, oldest first.
	Recent(ctx context.Context, userID, petID string, limit int) ([]Turn, error)
	// Append records one side of the exchange.
	Append(ctx context.Context, userID, petID, role, text string) error
	Clear(ctx context.Context, userID, petID string) error
}

type entry struct {
	Role      string `json:"role"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// pairTurns folds oldest-first raw entries into completed turns. A user
// message without a following assistant reply is dropped, which is what
// keeps half-written turns out of prompts. When more than limit turns
// complete, only the newest limit survive; order is never changed.
func pairTurns(entries []entry, limit int) []Turn {
	turns := make([]Turn, 0, len(entries)/2)
	for i := 0; i < len(entries); i++ {
		if entries[i].Role != RoleUser {
			continue
		}
		if i+1 < len(entries) && entries[i+1].Role == RoleAssistant {
			turns = append(turns, Turn{User: entries[i].Text, Assistant: entries[i+1].Text})
			i++
		}
	}
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	return turns
}
