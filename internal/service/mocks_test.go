package service_test

import (
	"context"
	"encoding/json"
	"time"

	"tessera.app/spaced/internal/model"
	"tessera.app/spaced/internal/store"
)

// fakeSpaceStore is a map-backed SpaceStore. Get returns a deep copy so the
// read-modify-write discipline of the services is exercised for real: nothing
// is visible until Save/Create writes the whole blob back.
type fakeSpaceStore struct {
	spaces  map[string][]byte
	saves   int
	deletes []string
}

func newFakeSpaceStore() *fakeSpaceStore {
	return &fakeSpaceStore{spaces: make(map[string][]byte)}
}

func (f *fakeSpaceStore) Get(_ context.Context, name string) (*model.Space, error) {
	raw, ok := f.spaces[name]
	if !ok {
		return nil, store.ErrNotFound
	}
	var sp model.Space
	if err := json.Unmarshal(raw, &sp); err != nil {
		return nil, err
	}
	return &sp, nil
}

func (f *fakeSpaceStore) Create(_ context.Context, sp *model.Space) error {
	if _, exists := f.spaces[sp.Name]; exists {
		return store.ErrConflict
	}
	raw, err := json.Marshal(sp)
	if err != nil {
		return err
	}
	f.spaces[sp.Name] = raw
	return nil
}

func (f *fakeSpaceStore) Save(_ context.Context, sp *model.Space) error {
	raw, err := json.Marshal(sp)
	if err != nil {
		return err
	}
	f.saves++
	f.spaces[sp.Name] = raw
	return nil
}

func (f *fakeSpaceStore) Delete(_ context.Context, name string) error {
	delete(f.spaces, name)
	f.deletes = append(f.deletes, name)
	return nil
}

func (f *fakeSpaceStore) Exists(_ context.Context, name string) (bool, error) {
	_, ok := f.spaces[name]
	return ok, nil
}

func (f *fakeSpaceStore) ListNames(_ context.Context) ([]string, error) {
	names := make([]string, 0, len(f.spaces))
	for name := range f.spaces {
		names = append(names, name)
	}
	return names, nil
}

// mustGet re-reads a space for assertions.
func (f *fakeSpaceStore) mustGet(name string) *model.Space {
	sp, err := f.Get(context.Background(), name)
	if err != nil {
		panic(err)
	}
	return sp
}

type usageCall struct {
	space       string
	participant string
}

// mockUsageStore records ledger calls; windows are never consulted by the
// services beyond open/close, so recording suffices.
type mockUsageStore struct {
	opened      []usageCall
	closed      []usageCall
	ledgerForFn func(ctx context.Context, space string) (*model.UsageLedger, error)
	ledgersFn   func(ctx context.Context) ([]model.UsageLedger, error)
}

func (m *mockUsageStore) OpenWindow(_ context.Context, space, participant string) (int64, error) {
	m.opened = append(m.opened, usageCall{space: space, participant: participant})
	return int64(len(m.opened)), nil
}

func (m *mockUsageStore) CloseWindow(_ context.Context, space, participant string, _ time.Time) error {
	m.closed = append(m.closed, usageCall{space: space, participant: participant})
	return nil
}

func (m *mockUsageStore) LedgerFor(ctx context.Context, space string) (*model.UsageLedger, error) {
	if m.ledgerForFn != nil {
		return m.ledgerForFn(ctx, space)
	}
	return &model.UsageLedger{Space: space}, nil
}

func (m *mockUsageStore) Ledgers(ctx context.Context) ([]model.UsageLedger, error) {
	if m.ledgersFn != nil {
		return m.ledgersFn(ctx)
	}
	return nil, nil
}
