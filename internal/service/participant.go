package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"tessera.app/spaced/internal/model"
	"tessera.app/spaced/internal/store"
)

// RemoveOutcome distinguishes a plain removal from one that took the whole
// space with it.
type RemoveOutcome struct {
	SpaceCleared bool
}

// ParticipantService is the participant lifecycle manager. Request handlers
// and the reconciliation loop both go through it, so they share one
// consistency discipline.
type ParticipantService interface {
	Upsert(ctx context.Context, space, id string, patch model.ParticipantPatch, initialJoin bool) (*model.Participant, error)
	Remove(ctx context.Context, space, id string) (RemoveOutcome, error)
	TransferOwnership(ctx context.Context, space, newOwnerID string) (bool, error)
}

type participantService struct {
	spaces store.SpaceStore
	usage  store.UsageStore
}

func NewParticipantService(spaces store.SpaceStore, usage store.UsageStore) ParticipantService {
	return &participantService{spaces: spaces, usage: usage}
}

func (s *participantService) Upsert(ctx context.Context, spaceName, id string, patch model.ParticipantPatch, initialJoin bool) (*model.Participant, error) {
	// One retry: if two first joiners race on Create, the loser reloads the
	// winner's record and merges into it.
	for attempt := 0; ; attempt++ {
		p, err := s.upsertOnce(ctx, spaceName, id, patch, initialJoin)
		if errors.Is(err, store.ErrConflict) && attempt == 0 {
			continue
		}
		return p, err
	}
}

func (s *participantService) upsertOnce(ctx context.Context, spaceName, id string, patch model.ParticipantPatch, initialJoin bool) (*model.Participant, error) {
	created := false
	sp, err := s.spaces.Get(ctx, spaceName)
	if errors.Is(err, store.ErrNotFound) {
		sp = model.NewSpace(spaceName)
		created = true
	} else if err != nil {
		return nil, fmt.Errorf("loading space: %w", err)
	}

	p, known := sp.Participants[id]
	wasOnline := known && p.Online
	if !known {
		p = &model.Participant{
			ID:        id,
			Identity:  model.IdentityParticipant,
			Platform:  model.PlatformWeb,
			SessionID: uuid.NewString(),
			JoinedAt:  time.Now().UTC(),
		}
		sp.Participants[id] = p
	}

	patch.Apply(p)
	p.Online = true
	if p.Name == "" {
		p.Name = id
	}

	// Entry control: a new guest is turned away unless the space admits them.
	// The first joiner is exempt because it becomes the owner below.
	if !known && !created && !sp.AllowGuests && p.Identity == model.IdentityGuest {
		delete(sp.Participants, id)
		return nil, ErrGuestsNotAllowed
	}

	// The first joiner of an empty space, or whoever matches the persisted
	// owner id, is forced to owner regardless of patch contents.
	if created || sp.OwnerID == "" {
		sp.OwnerID = id
	}
	ensureOwner(sp)

	if initialJoin {
		if sp.PolicyFor(p.Identity).AutoRoom {
			s.provisionRoom(sp, p)
		}
	}

	if created {
		if err := s.spaces.Create(ctx, sp); err != nil {
			return nil, err
		}
	} else {
		if err := s.spaces.Save(ctx, sp); err != nil {
			return nil, err
		}
	}

	// Usage accounting must not fail the join; a missed window is a ledger
	// gap, not a session error.
	if created {
		if _, err := s.usage.OpenWindow(ctx, spaceName, ""); err != nil {
			slog.ErrorContext(ctx, "failed to open space usage window", "error", err, "space", spaceName)
		}
	}
	if !wasOnline {
		if _, err := s.usage.OpenWindow(ctx, spaceName, p.Name); err != nil {
			slog.ErrorContext(ctx, "failed to open participant usage window", "error", err, "space", spaceName, "participant", p.Name)
		}
	}

	slog.InfoContext(ctx, "participant upserted",
		"space", spaceName,
		"participant_id", id,
		"identity", p.Identity,
		"initial_join", initialJoin,
		"space_created", created,
	)
	return p, nil
}

// provisionRoom auto-creates the participant's private child room on initial
// join when the policy table says so.
func (s *participantService) provisionRoom(sp *model.Space, p *model.Participant) {
	name := p.Name + "'s Room"
	if _, exists := sp.Rooms[name]; exists {
		return
	}
	room := model.NewChildRoom(name, p.ID, true)
	room.Add(p.ID)
	sp.Rooms[name] = room
}

func (s *participantService) Remove(ctx context.Context, spaceName, id string) (RemoveOutcome, error) {
	sp, err := s.spaces.Get(ctx, spaceName)
	if errors.Is(err, store.ErrNotFound) {
		return RemoveOutcome{}, ErrSpaceNotFound
	} else if err != nil {
		return RemoveOutcome{}, fmt.Errorf("loading space: %w", err)
	}

	p, ok := sp.Participants[id]
	if !ok {
		return RemoveOutcome{}, ErrParticipantNotFound
	}

	// A participant belongs to at most one room, but scan them all: if the
	// invariant was violated by a racing write, removal is where it heals.
	for _, room := range sp.Rooms {
		room.Remove(id)
	}

	if err := s.usage.CloseWindow(ctx, spaceName, p.Name, time.Now().UTC()); err != nil {
		slog.ErrorContext(ctx, "failed to close participant usage window", "error", err, "space", spaceName, "participant", p.Name)
	}

	if sp.Persistent {
		if p.Authenticated() {
			p.Online = false
		} else {
			delete(sp.Participants, id)
		}
	} else {
		delete(sp.Participants, id)
	}

	if sp.Empty() {
		if err := s.clearSpace(ctx, sp); err != nil {
			return RemoveOutcome{}, err
		}
		slog.InfoContext(ctx, "participant removed, space cleared", "space", spaceName, "participant_id", id)
		return RemoveOutcome{SpaceCleared: true}, nil
	}

	// Ownership moves to an arbitrary remaining participant when the owner of
	// a non-persistent space leaves; ensureOwner picks it.
	ensureOwner(sp)

	if err := s.spaces.Save(ctx, sp); err != nil {
		return RemoveOutcome{}, err
	}

	slog.InfoContext(ctx, "participant removed", "space", spaceName, "participant_id", id)
	return RemoveOutcome{}, nil
}

func (s *participantService) clearSpace(ctx context.Context, sp *model.Space) error {
	if err := s.usage.CloseWindow(ctx, sp.Name, "", time.Now().UTC()); err != nil {
		slog.ErrorContext(ctx, "failed to close space usage window", "error", err, "space", sp.Name)
	}
	if err := s.spaces.Delete(ctx, sp.Name); err != nil {
		return fmt.Errorf("deleting cleared space: %w", err)
	}
	return nil
}

func (s *participantService) TransferOwnership(ctx context.Context, spaceName, newOwnerID string) (bool, error) {
	sp, err := s.spaces.Get(ctx, spaceName)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("loading space: %w", err)
	}

	oldOwner, oldOK := sp.Participants[sp.OwnerID]
	newOwner, newOK := sp.Participants[newOwnerID]
	if !oldOK || !newOK {
		return false, nil
	}
	if oldOwner.ID == newOwner.ID {
		return true, nil
	}

	oldOwner.Identity = oldOwner.Platform.DemotedIdentity()
	sp.OwnerID = newOwnerID
	ensureOwner(sp)

	if err := s.spaces.Save(ctx, sp); err != nil {
		return false, err
	}

	slog.InfoContext(ctx, "ownership transferred",
		"space", spaceName,
		"old_owner", oldOwner.ID,
		"new_owner", newOwnerID,
		"old_owner_role", oldOwner.Identity,
	)
	return true, nil
}
