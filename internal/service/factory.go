package service

import (
	"tessera.app/spaced/internal/store"
)

type Services struct {
	spaces store.SpaceStore
	usage  store.UsageStore
	chat   store.ChatStore
}

func NewServices(spaces store.SpaceStore, usage store.UsageStore, chat store.ChatStore) *Services {
	return &Services{
		spaces: spaces,
		usage:  usage,
		chat:   chat,
	}
}

func (s *Services) Spaces() SpaceService {
	return NewSpaceService(s.spaces, s.usage)
}

func (s *Services) Participants() ParticipantService {
	return NewParticipantService(s.spaces, s.usage)
}

func (s *Services) Rooms() RoomService {
	return NewRoomService(s.spaces)
}

func (s *Services) Chat() ChatService {
	return NewChatService(s.chat)
}
