package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPairTurns_CompletePairs(t *testing.T) {
	entries := []entry{
		{Role: RoleUser, Text: "早安"},
		{Role: RoleAssistant, Text: "汪汪！早安主人"},
		{Role: RoleUser, Text: "吃飯了嗎"},
		{Role: RoleAssistant, Text: "還沒吃，好餓嗚嗚"},
	}

	turns := pairTurns(entries, 8)
	assert.Equal(t, []Turn{
		{User: "早安", Assistant: "汪汪！早安主人"},
		{User: "吃飯了嗎", Assistant: "還沒吃，好餓嗚嗚"},
	}, turns)
}

func TestPairTurns_DropsTrailingHalfTurn(t *testing.T) {
	entries := []entry{
		{Role: RoleUser, Text: "早安"},
		{Role: RoleAssistant, Text: "汪汪"},
		{Role: RoleUser, Text: "還在嗎"},
	}

	turns := pairTurns(entries, 8)
	assert.Len(t, turns, 1)
	assert.Equal(t, "早安", turns[0].User)
}

func TestPairTurns_DropsOrphanAssistant(t *testing.T) {
	entries := []entry{
		{Role: RoleAssistant, Text: "汪？"},
		{Role: RoleUser, Text: "嗨"},
		{Role: RoleAssistant, Text: "汪汪"},
	}

	turns := pairTurns(entries, 8)
	assert.Equal(t, []Turn{{User: "嗨", Assistant: "汪汪"}}, turns)
}

func TestPairTurns_WindowTruncatesOldest(t *testing.T) {
	var entries []entry
	for i := 0; i < 12; i++ {
		entries = append(entries,
			entry{Role: RoleUser, Text: string(rune('a' + i))},
			entry{Role: RoleAssistant, Text: "r"},
		)
	}

	turns := pairTurns(entries, 8)
	assert.Len(t, turns, 8)
	// Oldest four were cut; order of the rest is untouched.
	assert.Equal(t, "e", turns[0].User)
	assert.Equal(t, "l", turns[7].User)
}

func TestPairTurns_Empty(t *testing.T) {
	assert.Empty(t, pairTurns(nil, 8))
}

func TestRedisStoreKey(t *testing.T) {
	s := &RedisStore{prefix: "pawtalk"}
	assert.Equal(t, "pawtalk:chat:U123:7", s.key("U123", "7"))

	bare := &RedisStore{}
	assert.Equal(t, "chat:U123:7", bare.key("U123", "7"))
}
