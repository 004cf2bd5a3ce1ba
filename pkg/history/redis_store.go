package history

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const historyTTL = 7 * 24 * time.Hour

// RedisStore keeps each conversation as a Redis list, newest entry
// first, trimmed to a retention cap so an active chat cannot grow
// without bound.
type RedisStore struct {
	client    *redis.Client
	prefix    string
	retention int
}

// NewRedisStore connects and pings within 5s. retention is the number
// of raw entries (user and assistant rows both count) kept per pair.
func NewRedisStore(url, prefix string, retention int) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if retention < 2 {
		retention = 2
	}

	return &RedisStore{client: client, prefix: prefix, retention: retention}, nil
}

func (s *RedisStore) key(userID, petID string) string {
	parts := []string{"chat", userID, petID}
	if s.prefix != "" {
		parts = append([]string{s.prefix}, parts...)
	}
	return strings.Join(parts, ":")
}

func (s *RedisStore) Append(ctx context.Context, userID, petID, role, text string) error {
	data, err := json.Marshal(entry{Role: role, Text: text, Timestamp: time.Now().UnixNano()})
	if err != nil {
		return fmt.Errorf("failed to marshal history entry: %w", err)
	}

	key := s.key(userID, petID)
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, key, string(data))
	pipe.LTrim(ctx, key, 0, int64(s.retention*2-1))
	pipe.Expire(ctx, key, historyTTL)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Recent(ctx context.Context, userID, petID string, limit int) ([]Turn, error) {
	// One extra row covers a trailing user message whose reply has not
	// landed yet.
	raw, err := s.client.LRange(ctx, s.key(userID, petID), 0, int64(limit*2)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]entry, 0, len(raw))
	// LPush stores newest first; walk backwards to restore creation order.
	for i := len(raw) - 1; i >= 0; i-- {
		var e entry
		if err := json.Unmarshal([]byte(raw[i]), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}

	return pairTurns(entries, limit), nil
}

func (s *RedisStore) Clear(ctx context.Context, userID, petID string) error {
	return s.client.Del(ctx, s.key(userID, petID)).Err()
}

// Ping reports whether the Redis connection is still usable.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
