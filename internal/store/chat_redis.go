package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type redisChatStore struct {
	client *redis.Client
}

func NewRedisChatStore(client *redis.Client) ChatStore {
	return &redisChatStore{client: client}
}

func (s *redisChatStore) Append(ctx context.Context, space string, payload []byte) error {
	if err := s.client.RPush(ctx, chatKey(space), payload).Err(); err != nil {
		return fmt.Errorf("appending chat for %q: %w", space, err)
	}
	return nil
}

func (s *redisChatStore) History(ctx context.Context, space string, limit int64) ([][]byte, error) {
	if limit <= 0 {
		limit = 100
	}
	raw, err := s.client.LRange(ctx, chatKey(space), -limit, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("reading chat for %q: %w", space, err)
	}
	out := make([][]byte, len(raw))
	for i, m := range raw {
		out[i] = []byte(m)
	}
	return out, nil
}
