package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tessera.app/spaced/internal/model"
	"tessera.app/spaced/internal/store"
)

// RoomService is the child-room allocator. Every operation loads the full
// space, mutates in memory, and writes the whole blob back; there are no
// partial-field updates.
type RoomService interface {
	Create(ctx context.Context, space, room, ownerID string, private bool) error
	Rename(ctx context.Context, space, oldName, newName string) error
	Delete(ctx context.Context, space, room string) error
	SetPrivacy(ctx context.Context, space, room string, private bool) error
	Join(ctx context.Context, space, room, participantID string) error
	Leave(ctx context.Context, space, room, participantID string) error
	// EnterPairing joins under the one-assistant-one-customer policy and
	// returns the room actually joined, which may differ from the target when
	// a customer is redirected to another assistant's idle room.
	EnterPairing(ctx context.Context, space, room, participantID string) (string, error)
}

type roomService struct {
	spaces store.SpaceStore
}

func NewRoomService(spaces store.SpaceStore) RoomService {
	return &roomService{spaces: spaces}
}

func (s *roomService) load(ctx context.Context, space string) (*model.Space, error) {
	sp, err := s.spaces.Get(ctx, space)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrSpaceNotFound
	} else if err != nil {
		return nil, fmt.Errorf("loading space: %w", err)
	}
	return sp, nil
}

func (s *roomService) save(ctx context.Context, sp *model.Space) error {
	ensureOwner(sp)
	return s.spaces.Save(ctx, sp)
}

func (s *roomService) Create(ctx context.Context, space, room, ownerID string, private bool) error {
	sp, err := s.load(ctx, space)
	if err != nil {
		return err
	}
	if _, exists := sp.Rooms[room]; exists {
		return ErrRoomExists
	}
	if _, ok := sp.Participants[ownerID]; !ok {
		return ErrParticipantNotFound
	}

	sp.Rooms[room] = model.NewChildRoom(room, ownerID, private)
	if err := s.save(ctx, sp); err != nil {
		return err
	}
	slog.InfoContext(ctx, "room created", "space", space, "room", room, "owner", ownerID, "private", private)
	return nil
}

func (s *roomService) Rename(ctx context.Context, space, oldName, newName string) error {
	sp, err := s.load(ctx, space)
	if err != nil {
		return err
	}
	room, ok := sp.Rooms[oldName]
	if !ok {
		return ErrRoomNotFound
	}
	if _, taken := sp.Rooms[newName]; taken {
		return ErrRoomExists
	}

	delete(sp.Rooms, oldName)
	room.Name = newName
	sp.Rooms[newName] = room
	if err := s.save(ctx, sp); err != nil {
		return err
	}
	slog.InfoContext(ctx, "room renamed", "space", space, "room", newName, "previous", oldName)
	return nil
}

func (s *roomService) Delete(ctx context.Context, space, room string) error {
	sp, err := s.load(ctx, space)
	if err != nil {
		return err
	}
	if _, ok := sp.Rooms[room]; !ok {
		return ErrRoomNotFound
	}

	delete(sp.Rooms, room)
	if err := s.save(ctx, sp); err != nil {
		return err
	}
	slog.InfoContext(ctx, "room deleted", "space", space, "room", room)
	return nil
}

func (s *roomService) SetPrivacy(ctx context.Context, space, room string, private bool) error {
	sp, err := s.load(ctx, space)
	if err != nil {
		return err
	}
	r, ok := sp.Rooms[room]
	if !ok {
		return ErrRoomNotFound
	}

	r.Private = private
	if err := s.save(ctx, sp); err != nil {
		return err
	}
	slog.InfoContext(ctx, "room privacy set", "space", space, "room", room, "private", private)
	return nil
}

// Join is the non-pairing mode: unconditional join-or-create. It does not
// evict the participant from a prior room; that is the caller's call.
func (s *roomService) Join(ctx context.Context, space, room, participantID string) error {
	sp, err := s.load(ctx, space)
	if err != nil {
		return err
	}
	if _, ok := sp.Participants[participantID]; !ok {
		return ErrParticipantNotFound
	}

	r, ok := sp.Rooms[room]
	if !ok {
		r = model.NewChildRoom(room, participantID, false)
		sp.Rooms[room] = r
	}
	r.Add(participantID)

	if err := s.save(ctx, sp); err != nil {
		return err
	}
	slog.InfoContext(ctx, "room joined", "space", space, "room", room, "participant_id", participantID)
	return nil
}

func (s *roomService) Leave(ctx context.Context, space, room, participantID string) error {
	sp, err := s.load(ctx, space)
	if err != nil {
		return err
	}
	r, ok := sp.Rooms[room]
	if !ok {
		return ErrRoomNotFound
	}
	if !r.Has(participantID) {
		return ErrParticipantNotFound
	}

	r.Remove(participantID)
	if err := s.save(ctx, sp); err != nil {
		return err
	}
	slog.InfoContext(ctx, "room left", "space", space, "room", room, "participant_id", participantID)
	return nil
}

func (s *roomService) EnterPairing(ctx context.Context, space, room, participantID string) (string, error) {
	sp, err := s.load(ctx, space)
	if err != nil {
		return "", err
	}
	p, ok := sp.Participants[participantID]
	if !ok {
		return "", ErrParticipantNotFound
	}

	var joined string
	switch p.Identity {
	case model.IdentityCustomer, model.IdentityGuest:
		joined, err = enterAsCustomer(sp, room, participantID)
	default:
		joined = enterAsAssistant(sp, room, participantID)
	}
	if err != nil {
		return "", err
	}

	// Pairing moves are authoritative: leave any other room so the one-room
	// invariant holds after the write.
	for name, r := range sp.Rooms {
		if name != joined {
			r.Remove(participantID)
		}
	}

	if err := s.save(ctx, sp); err != nil {
		return "", err
	}
	slog.InfoContext(ctx, "pairing room entered",
		"space", space,
		"room", joined,
		"target", room,
		"participant_id", participantID,
		"identity", p.Identity,
	)
	return joined, nil
}

// enterAsAssistant claims the target room for this assistant. A leftover
// occupant from an earlier pairing is evicted by resetting the member set.
func enterAsAssistant(sp *model.Space, room, assistantID string) string {
	r, ok := sp.Rooms[room]
	if !ok {
		r = model.NewChildRoom(room, assistantID, true)
		r.Add(assistantID)
		sp.Rooms[room] = r
		return room
	}

	if r.OwnerID == assistantID {
		if r.Occupancy() >= 1 {
			r.Members = map[string]struct{}{assistantID: {}}
			r.Private = true
		} else {
			r.Add(assistantID)
		}
		return room
	}

	// Target exists under another assistant's name. Claiming it would evict
	// their customer, so this degrades to a plain join.
	r.Add(assistantID)
	return room
}

// enterAsCustomer seats the customer with an assistant. Target full means scan
// for another assistant's idle private room; target absent means the assistant
// has not arrived yet. Both are retryable.
func enterAsCustomer(sp *model.Space, room, customerID string) (string, error) {
	r, ok := sp.Rooms[room]
	if !ok {
		return "", ErrRoomNotReady
	}

	if r.Occupancy() < 2 || r.Has(customerID) {
		r.Add(customerID)
		return room, nil
	}

	// Target is full. Any private room with exactly one occupant owned by a
	// different assistant is an idle pair slot; O(room count) is fine since
	// rooms are bounded by participants.
	for name, candidate := range sp.Rooms {
		if name == room || !candidate.Private {
			continue
		}
		if candidate.Occupancy() == 1 && candidate.OwnerID != r.OwnerID && candidate.Has(candidate.OwnerID) {
			candidate.Add(customerID)
			return name, nil
		}
	}

	return "", ErrRoomFull
}
