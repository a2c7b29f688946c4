// Package bus emits control signals for clients over a Redis stream. A
// transport layer outside this service fans them out to the right connection.
package bus

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

const SignalReInit = "re_init"

// Signal asks a client to act; re_init tells a participant the store lost its
// record and it should run the normal join path again.
type Signal struct {
	Kind          string
	Space         string
	ParticipantID string
}

type Producer interface {
	Emit(ctx context.Context, sig Signal) error
	Close() error
}

type redisProducer struct {
	client *redis.Client
	stream string
}

func NewRedisProducer(client *redis.Client, stream string) Producer {
	return &redisProducer{client: client, stream: stream}
}

func (p *redisProducer) Emit(ctx context.Context, sig Signal) error {
	fields := map[string]any{
		"kind":           sig.Kind,
		"space":          sig.Space,
		"participant_id": sig.ParticipantID,
	}

	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: fields,
	}).Err(); err != nil {
		return fmt.Errorf("emitting %s signal: %w", sig.Kind, err)
	}

	slog.InfoContext(ctx, "signal emitted", "kind", sig.Kind, "space", sig.Space, "participant_id", sig.ParticipantID)
	return nil
}

func (p *redisProducer) Close() error {
	return p.client.Close()
}
