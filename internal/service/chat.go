package service

import (
	"context"
	"fmt"

	"tessera.app/spaced/internal/store"
)

// ChatService keeps the history that rides along with a space; real-time
// message fan-out lives outside this service, which only records and replays.
type ChatService interface {
	Post(ctx context.Context, space string, payload []byte) error
	History(ctx context.Context, space string, limit int64) ([][]byte, error)
}

type chatService struct {
	chat store.ChatStore
}

func NewChatService(chat store.ChatStore) ChatService {
	return &chatService{chat: chat}
}

func (s *chatService) Post(ctx context.Context, space string, payload []byte) error {
	if err := s.chat.Append(ctx, space, payload); err != nil {
		return fmt.Errorf("appending chat message: %w", err)
	}
	return nil
}

func (s *chatService) History(ctx context.Context, space string, limit int64) ([][]byte, error) {
	msgs, err := s.chat.History(ctx, space, limit)
	if err != nil {
		return nil, fmt.Errorf("loading chat history: %w", err)
	}
	return msgs, nil
}
