package service

import (
	"context"
	"sort"
	"time"

	"github.com/iliyamo/bracelet-energy/internal/model"
	"github.com/iliyamo/bracelet-energy/internal/repository"
)

// fakeEnergyStore is an in-memory EnergyStore mirroring the SQL
// repository's contract: atomic append, ledger capacity, state
// overwrite, newest-first history.
type fakeEnergyStore struct {
	records []model.EnergyRecord
	state   map[string]model.EnergyState
	nextID  uint64
	cap     int
}

func newFakeEnergyStore() *fakeEnergyStore {
	return &fakeEnergyStore{state: make(map[string]model.EnergyState), cap: 100}
}

func (f *fakeEnergyStore) AppendRecord(_ context.Context, rec model.EnergyRecord) (model.EnergyRecord, error) {
	f.nextID++
	rec.ID = f.nextID
	f.records = append(f.records, rec)
	if f.cap > 0 && len(f.records) > f.cap {
		f.records = f.records[len(f.records)-f.cap:]
	}
	f.state[rec.BraceletID] = model.EnergyState{
		BraceletID:  rec.BraceletID,
		Level:       rec.EnergyLevel,
		LastUpdated: rec.Timestamp,
	}
	return rec, nil
}

func (f *fakeEnergyStore) History(_ context.Context, braceletID string, since time.Time) ([]model.EnergyRecord, error) {
	var out []model.EnergyRecord
	for i := len(f.records) - 1; i >= 0; i-- {
		rec := f.records[i]
		if rec.BraceletID == braceletID && !rec.Timestamp.Before(since) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeEnergyStore) State(_ context.Context, braceletID string) (model.EnergyState, bool, error) {
	st, ok := f.state[braceletID]
	return st, ok, nil
}

// fakeSessionStore is an in-memory SessionStore with the same
// single-open-session constraint the open_sessions primary key gives
// the SQL repository.
type fakeSessionStore struct {
	open   map[string]model.OpenSession
	closed []model.WearingSession
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{open: make(map[string]model.OpenSession)}
}

func (f *fakeSessionStore) CreateOpen(_ context.Context, s model.OpenSession) error {
	if _, exists := f.open[s.BraceletID]; exists {
		return repository.ErrSessionAlreadyOpen
	}
	f.open[s.BraceletID] = s
	return nil
}

func (f *fakeSessionStore) Open(_ context.Context, braceletID string) (model.OpenSession, bool, error) {
	s, ok := f.open[braceletID]
	return s, ok, nil
}

func (f *fakeSessionStore) DeleteOpen(_ context.Context, braceletID string) error {
	delete(f.open, braceletID)
	return nil
}

func (f *fakeSessionStore) AppendClosed(_ context.Context, s model.WearingSession) error {
	f.closed = append(f.closed, s)
	return nil
}

func (f *fakeSessionStore) Closed(_ context.Context, braceletID string, limit int) ([]model.WearingSession, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []model.WearingSession
	for i := len(f.closed) - 1; i >= 0 && len(out) < limit; i-- {
		if f.closed[i].BraceletID == braceletID {
			out = append(out, f.closed[i])
		}
	}
	return out, nil
}

// fakeMeritStore is an in-memory MeritStore.
type fakeMeritStore struct {
	records map[string]model.MeritRecord
}

func newFakeMeritStore() *fakeMeritStore {
	return &fakeMeritStore{records: make(map[string]model.MeritRecord)}
}

func (f *fakeMeritStore) Get(_ context.Context, braceletID string) (model.MeritRecord, bool, error) {
	rec, ok := f.records[braceletID]
	return rec, ok, nil
}

func (f *fakeMeritStore) Put(_ context.Context, rec model.MeritRecord) error {
	f.records[rec.BraceletID] = rec
	return nil
}

// fakeConsecrationStore is an in-memory ConsecrationStore listing
// newest ceremonies first, like the SQL repository.
type fakeConsecrationStore struct {
	records []model.ConsecrationRecord
}

func (f *fakeConsecrationStore) Append(_ context.Context, rec model.ConsecrationRecord) error {
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeConsecrationStore) List(_ context.Context, braceletID string) ([]model.ConsecrationRecord, error) {
	var out []model.ConsecrationRecord
	for _, rec := range f.records {
		if rec.BraceletID == braceletID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

// fixedClock returns a now func pinned to t.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
