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

// SpaceSeed is what an explicit create starts a space from. OwnerID is the
// participant record seeded as owner.
type SpaceSeed struct {
	OwnerID     string
	OwnerName   string
	Platform    model.Platform
	Persistent  bool
	AllowGuests bool
	Recording   bool
	Apps        []string
	Policies    map[model.Identity]model.Policy
}

// ListEntry is the compact listing: participant ids per space name.
type ListEntry struct {
	Name         string   `json:"name"`
	Participants []string `json:"participants"`
}

type SpaceService interface {
	Get(ctx context.Context, name string) (*model.Space, error)
	// List returns full records when detail is true, otherwise just the
	// participant ids per space.
	List(ctx context.Context, detail bool) ([]*model.Space, []ListEntry, error)
	// Create rejects an existing name with ErrSpaceExists; idempotent
	// creation is explicitly not offered.
	Create(ctx context.Context, name string, seed SpaceSeed) (*model.Space, error)
	// Delete removes the live record and chat history. The usage ledger is
	// closed, not removed; history stays queryable after deletion.
	Delete(ctx context.Context, name string) error
	PromoteManager(ctx context.Context, name, participantID string) error
	DemoteManager(ctx context.Context, name, participantID string) error
	UsageFor(ctx context.Context, name string) (*model.UsageLedger, error)
	UsageAll(ctx context.Context) ([]model.UsageLedger, error)
}

type spaceService struct {
	spaces store.SpaceStore
	usage  store.UsageStore
}

func NewSpaceService(spaces store.SpaceStore, usage store.UsageStore) SpaceService {
	return &spaceService{spaces: spaces, usage: usage}
}

func (s *spaceService) Get(ctx context.Context, name string) (*model.Space, error) {
	sp, err := s.spaces.Get(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrSpaceNotFound
	} else if err != nil {
		return nil, fmt.Errorf("loading space: %w", err)
	}
	return sp, nil
}

func (s *spaceService) List(ctx context.Context, detail bool) ([]*model.Space, []ListEntry, error) {
	names, err := s.spaces.ListNames(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("listing spaces: %w", err)
	}

	var full []*model.Space
	var entries []ListEntry
	for _, name := range names {
		sp, err := s.spaces.Get(ctx, name)
		if errors.Is(err, store.ErrNotFound) {
			// Index can lag a deletion; skip, the next delete resyncs it.
			continue
		} else if err != nil {
			return nil, nil, fmt.Errorf("loading space %q: %w", name, err)
		}
		if detail {
			full = append(full, sp)
			continue
		}
		ids := make([]string, 0, len(sp.Participants))
		for id := range sp.Participants {
			ids = append(ids, id)
		}
		entries = append(entries, ListEntry{Name: name, Participants: ids})
	}
	return full, entries, nil
}

func (s *spaceService) Create(ctx context.Context, name string, seed SpaceSeed) (*model.Space, error) {
	sp := model.NewSpace(name)
	sp.Persistent = seed.Persistent
	sp.AllowGuests = seed.AllowGuests
	sp.Recording = seed.Recording
	sp.Apps = seed.Apps
	if len(seed.Policies) > 0 {
		sp.Policies = seed.Policies
	}

	if seed.OwnerID != "" {
		owner := &model.Participant{
			ID:        seed.OwnerID,
			Name:      seed.OwnerName,
			Online:    true,
			Identity:  model.IdentityOwner,
			Platform:  seed.Platform,
			SessionID: uuid.NewString(),
			JoinedAt:  time.Now().UTC(),
		}
		if owner.Name == "" {
			owner.Name = owner.ID
		}
		sp.Participants[owner.ID] = owner
		sp.OwnerID = owner.ID
		ensureOwner(sp)
	}

	if err := s.spaces.Create(ctx, sp); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrSpaceExists
		}
		return nil, err
	}

	if _, err := s.usage.OpenWindow(ctx, name, ""); err != nil {
		slog.ErrorContext(ctx, "failed to open space usage window", "error", err, "space", name)
	}
	if seed.OwnerID != "" {
		if _, err := s.usage.OpenWindow(ctx, name, sp.Participants[seed.OwnerID].Name); err != nil {
			slog.ErrorContext(ctx, "failed to open owner usage window", "error", err, "space", name)
		}
	}

	slog.InfoContext(ctx, "space created", "space", name, "owner", seed.OwnerID, "persistent", seed.Persistent)
	return sp, nil
}

func (s *spaceService) Delete(ctx context.Context, name string) error {
	sp, err := s.spaces.Get(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return ErrSpaceNotFound
	} else if err != nil {
		return fmt.Errorf("loading space: %w", err)
	}

	now := time.Now().UTC()
	for _, p := range sp.Participants {
		if err := s.usage.CloseWindow(ctx, name, p.Name, now); err != nil {
			slog.ErrorContext(ctx, "failed to close participant usage window", "error", err, "space", name, "participant", p.Name)
		}
	}
	if err := s.usage.CloseWindow(ctx, name, "", now); err != nil {
		slog.ErrorContext(ctx, "failed to close space usage window", "error", err, "space", name)
	}

	if err := s.spaces.Delete(ctx, name); err != nil {
		return fmt.Errorf("deleting space: %w", err)
	}

	slog.InfoContext(ctx, "space deleted", "space", name)
	return nil
}

func (s *spaceService) PromoteManager(ctx context.Context, name, participantID string) error {
	sp, err := s.Get(ctx, name)
	if err != nil {
		return err
	}
	if _, ok := sp.Participants[participantID]; !ok {
		return ErrParticipantNotFound
	}
	if sp.AddManager(participantID) {
		sp.Participants[participantID].Identity = model.IdentityManager
	}
	ensureOwner(sp)
	return s.spaces.Save(ctx, sp)
}

func (s *spaceService) DemoteManager(ctx context.Context, name, participantID string) error {
	sp, err := s.Get(ctx, name)
	if err != nil {
		return err
	}
	p, ok := sp.Participants[participantID]
	if !ok {
		return ErrParticipantNotFound
	}
	sp.RemoveManager(participantID)
	if p.Identity == model.IdentityManager {
		p.Identity = p.Platform.DemotedIdentity()
	}
	ensureOwner(sp)
	return s.spaces.Save(ctx, sp)
}

func (s *spaceService) UsageFor(ctx context.Context, name string) (*model.UsageLedger, error) {
	ledger, err := s.usage.LedgerFor(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrSpaceNotFound
	} else if err != nil {
		return nil, fmt.Errorf("loading usage ledger: %w", err)
	}
	return ledger, nil
}

func (s *spaceService) UsageAll(ctx context.Context) ([]model.UsageLedger, error) {
	ledgers, err := s.usage.Ledgers(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading usage ledgers: %w", err)
	}
	return ledgers, nil
}
