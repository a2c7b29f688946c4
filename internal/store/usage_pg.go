package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tessera.app/spaced/common/id"
	"tessera.app/spaced/internal/model"
)

type pgUsageStore struct {
	pool *pgxpool.Pool
}

func NewPgUsageStore(pool *pgxpool.Pool) UsageStore {
	return &pgUsageStore{pool: pool}
}

func (s *pgUsageStore) OpenWindow(ctx context.Context, space, participant string) (int64, error) {
	windowID := id.New()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO usage_windows (id, space, participant, started_at) VALUES ($1, $2, $3, $4)`,
		windowID, space, participant, time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("opening usage window for %q/%q: %w", space, participant, err)
	}
	return windowID, nil
}

func (s *pgUsageStore) CloseWindow(ctx context.Context, space, participant string, at time.Time) error {
	// Closes every open window for the key. More than one open window means a
	// previous close was lost; sweeping them all is the self-heal.
	_, err := s.pool.Exec(ctx,
		`UPDATE usage_windows SET ended_at = $1 WHERE space = $2 AND participant = $3 AND ended_at IS NULL`,
		at.UTC(), space, participant,
	)
	if err != nil {
		return fmt.Errorf("closing usage window for %q/%q: %w", space, participant, err)
	}
	return nil
}

func (s *pgUsageStore) LedgerFor(ctx context.Context, space string) (*model.UsageLedger, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, space, participant, started_at, ended_at FROM usage_windows WHERE space = $1 ORDER BY started_at`,
		space,
	)
	if err != nil {
		return nil, fmt.Errorf("querying usage for %q: %w", space, err)
	}
	defer rows.Close()

	ledger := &model.UsageLedger{Space: space, Participants: make(map[string][]model.UsageWindow)}
	found := false
	for rows.Next() {
		w, err := scanWindow(rows)
		if err != nil {
			return nil, err
		}
		found = true
		if w.Participant == "" {
			ledger.Windows = append(ledger.Windows, w)
		} else {
			ledger.Participants[w.Participant] = append(ledger.Participants[w.Participant], w)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading usage for %q: %w", space, err)
	}
	if !found {
		return nil, ErrNotFound
	}
	return ledger, nil
}

func (s *pgUsageStore) Ledgers(ctx context.Context) ([]model.UsageLedger, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, space, participant, started_at, ended_at FROM usage_windows ORDER BY space, started_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying usage ledgers: %w", err)
	}
	defer rows.Close()

	bySpace := make(map[string]*model.UsageLedger)
	var order []string
	for rows.Next() {
		w, err := scanWindow(rows)
		if err != nil {
			return nil, err
		}
		ledger, ok := bySpace[w.Space]
		if !ok {
			ledger = &model.UsageLedger{Space: w.Space, Participants: make(map[string][]model.UsageWindow)}
			bySpace[w.Space] = ledger
			order = append(order, w.Space)
		}
		if w.Participant == "" {
			ledger.Windows = append(ledger.Windows, w)
		} else {
			ledger.Participants[w.Participant] = append(ledger.Participants[w.Participant], w)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading usage ledgers: %w", err)
	}

	out := make([]model.UsageLedger, 0, len(order))
	for _, space := range order {
		out = append(out, *bySpace[space])
	}
	return out, nil
}

func scanWindow(rows pgx.Rows) (model.UsageWindow, error) {
	var w model.UsageWindow
	var ended *time.Time
	if err := rows.Scan(&w.ID, &w.Space, &w.Participant, &w.StartedAt, &ended); err != nil {
		return model.UsageWindow{}, fmt.Errorf("scanning usage window: %w", err)
	}
	w.EndedAt = ended
	return w, nil
}
