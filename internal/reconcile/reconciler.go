// Package reconcile runs the periodic sweep that diffs the store against the
// roster the media backend reports, repairing drift in both directions.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tessera.app/spaced/common/logger"
	"tessera.app/spaced/core/config"
	"tessera.app/spaced/internal/bus"
	"tessera.app/spaced/internal/media"
	"tessera.app/spaced/internal/service"
	"tessera.app/spaced/internal/store"
)

type Reconciler struct {
	cfg          config.ReconcileConfig
	backend      media.Backend
	spaces       store.SpaceStore
	participants service.ParticipantService
	producer     bus.Producer

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func New(cfg config.ReconcileConfig, backend media.Backend, spaces store.SpaceStore, participants service.ParticipantService, producer bus.Producer) *Reconciler {
	return &Reconciler{
		cfg:          cfg,
		backend:      backend,
		spaces:       spaces,
		participants: participants,
		producer:     producer,
		stopCh:       make(chan struct{}),
		stoppedCh:    make(chan struct{}),
	}
}

// Run starts the sweep loop. Blocks until Stop() is called or ctx ends.
func (r *Reconciler) Run(ctx context.Context) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "spaced.reconcile",
	})

	defer close(r.stoppedCh)

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "reconciler started",
		"interval", r.cfg.Interval,
		"space_timeout", r.cfg.SpaceTimeout)

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopCh:
			slog.InfoContext(ctx, "reconciler stopping")
			return
		case <-ticker.C:
			if err := r.Sweep(ctx); err != nil {
				slog.ErrorContext(ctx, "sweep error", "error", err)
			}
		}
	}
}

// Stop signals the reconciler to stop gracefully.
func (r *Reconciler) Stop() {
	close(r.stopCh)
	<-r.stoppedCh
}

// Sweep performs one full reconciliation pass over every room the backend
// knows about. One room's failure is logged and skipped; it must not block
// the others.
func (r *Reconciler) Sweep(ctx context.Context) error {
	rooms, err := r.backend.ListRooms(ctx)
	if err != nil {
		return fmt.Errorf("listing rooms: %w", err)
	}

	for _, room := range rooms {
		roomCtx := ctx
		cancel := func() {}
		if r.cfg.SpaceTimeout > 0 {
			roomCtx, cancel = context.WithTimeout(ctx, r.cfg.SpaceTimeout)
		}
		if err := r.reconcileSpace(roomCtx, room.Name); err != nil {
			slog.ErrorContext(roomCtx, "failed to reconcile space", "error", err, "space", room.Name)
		}
		cancel()
	}
	return nil
}

func (r *Reconciler) reconcileSpace(ctx context.Context, name string) error {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Space: logger.Ptr(name)})

	roster, err := r.backend.ListParticipants(ctx, name)
	if err != nil {
		return fmt.Errorf("fetching roster: %w", err)
	}

	sp, err := r.spaces.Get(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		// The backend can host rooms from another environment; that is
		// tolerated, not repaired.
		return nil
	} else if err != nil {
		return fmt.Errorf("loading space: %w", err)
	}

	connected := make(map[string]struct{}, len(roster))
	for _, p := range roster {
		connected[p.Identity] = struct{}{}
	}

	// Store believes present, backend disagrees: a dropped connection that
	// never sent a clean leave. Persistent spaces keep offline participants,
	// so they are left alone.
	if !sp.Persistent {
		for id := range sp.Participants {
			if _, ok := connected[id]; ok {
				continue
			}
			// Removal goes through the lifecycle manager so ownership
			// transfer and space cleanup behave exactly like a clean leave.
			if _, err := r.participants.Remove(ctx, name, id); err != nil && !errors.Is(err, service.ErrParticipantNotFound) {
				slog.ErrorContext(ctx, "failed to remove stale participant", "error", err, "participant_id", id)
				continue
			}
			slog.InfoContext(ctx, "removed stale participant", "participant_id", id)
		}
	}

	// Backend has a live participant the store never learned about: the join
	// write failed or raced. Never repopulate the store directly; ask the
	// client to run the normal join path again.
	for id := range connected {
		if _, ok := sp.Participants[id]; ok {
			continue
		}
		sig := bus.Signal{Kind: bus.SignalReInit, Space: name, ParticipantID: id}
		if err := r.producer.Emit(ctx, sig); err != nil {
			slog.ErrorContext(ctx, "failed to emit re-init signal", "error", err, "participant_id", id)
			continue
		}
		slog.InfoContext(ctx, "requested re-init", "participant_id", id)
	}

	return nil
}
