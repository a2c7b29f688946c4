package store

import (
	"context"
	"errors"
	"time"

	"tessera.app/spaced/internal/model"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a record already exists under the target key
var ErrConflict = errors.New("already exists")

// SpaceStore is the contract for the live session records: one serialized
// Space blob per name, plus a name index. Writes are whole-blob; there is no
// partial-field update and no cross-call transaction.
type SpaceStore interface {
	Get(ctx context.Context, name string) (*model.Space, error)
	// Create writes the blob only if the name is free; ErrConflict otherwise.
	Create(ctx context.Context, space *model.Space) error
	// Save overwrites the blob unconditionally (last write wins) and keeps
	// the name index in step.
	Save(ctx context.Context, space *model.Space) error
	// Delete removes the blob, its chat history, and the index entry in one
	// pipelined call. Deleting an absent space is not an error.
	Delete(ctx context.Context, name string) error
	Exists(ctx context.Context, name string) (bool, error)
	ListNames(ctx context.Context) ([]string, error)
}

// ChatStore covers the chat-history keys that ride along with a space. Only
// the cascade matters to this service; message transport lives elsewhere.
type ChatStore interface {
	Append(ctx context.Context, space string, payload []byte) error
	History(ctx context.Context, space string, limit int64) ([][]byte, error)
}

// UsageStore is the usage-time ledger, persisted independently of the live
// record so history survives space deletion.
type UsageStore interface {
	// OpenWindow starts a window for the space (participant == "") or for a
	// participant display name within the space.
	OpenWindow(ctx context.Context, space, participant string) (int64, error)
	// CloseWindow ends every open window for the key at the given time.
	CloseWindow(ctx context.Context, space, participant string, at time.Time) error
	LedgerFor(ctx context.Context, space string) (*model.UsageLedger, error)
	Ledgers(ctx context.Context) ([]model.UsageLedger, error)
}
