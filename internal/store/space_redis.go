package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"tessera.app/spaced/internal/model"
)

const (
	spaceKeyPrefix = "space:"
	chatKeyPrefix  = "chat:"
	spaceIndexKey  = "spaces"
)

func spaceKey(name string) string { return spaceKeyPrefix + name }
func chatKey(name string) string  { return chatKeyPrefix + name }

type redisSpaceStore struct {
	client *redis.Client
}

func NewRedisSpaceStore(client *redis.Client) SpaceStore {
	return &redisSpaceStore{client: client}
}

func (s *redisSpaceStore) Get(ctx context.Context, name string) (*model.Space, error) {
	raw, err := s.client.Get(ctx, spaceKey(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting space %q: %w", name, err)
	}

	var space model.Space
	if err := json.Unmarshal(raw, &space); err != nil {
		return nil, fmt.Errorf("decoding space %q: %w", name, err)
	}
	return &space, nil
}

func (s *redisSpaceStore) Create(ctx context.Context, space *model.Space) error {
	raw, err := json.Marshal(space)
	if err != nil {
		return fmt.Errorf("encoding space %q: %w", space.Name, err)
	}

	ok, err := s.client.SetNX(ctx, spaceKey(space.Name), raw, 0).Result()
	if err != nil {
		return fmt.Errorf("creating space %q: %w", space.Name, err)
	}
	if !ok {
		return ErrConflict
	}

	if err := s.client.SAdd(ctx, spaceIndexKey, space.Name).Err(); err != nil {
		return fmt.Errorf("indexing space %q: %w", space.Name, err)
	}
	return nil
}

func (s *redisSpaceStore) Save(ctx context.Context, space *model.Space) error {
	raw, err := json.Marshal(space)
	if err != nil {
		return fmt.Errorf("encoding space %q: %w", space.Name, err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, spaceKey(space.Name), raw, 0)
	pipe.SAdd(ctx, spaceIndexKey, space.Name)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("saving space %q: %w", space.Name, err)
	}
	return nil
}

func (s *redisSpaceStore) Delete(ctx context.Context, name string) error {
	// Cascade: live record and chat history go together; the usage ledger
	// lives in a different store and is deliberately untouched.
	pipe := s.client.Pipeline()
	pipe.Del(ctx, spaceKey(name), chatKey(name))
	pipe.SRem(ctx, spaceIndexKey, name)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("deleting space %q: %w", name, err)
	}
	return nil
}

func (s *redisSpaceStore) Exists(ctx context.Context, name string) (bool, error) {
	n, err := s.client.Exists(ctx, spaceKey(name)).Result()
	if err != nil {
		return false, fmt.Errorf("checking space %q: %w", name, err)
	}
	return n > 0, nil
}

func (s *redisSpaceStore) ListNames(ctx context.Context) ([]string, error) {
	names, err := s.client.SMembers(ctx, spaceIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("listing spaces: %w", err)
	}
	return names, nil
}
