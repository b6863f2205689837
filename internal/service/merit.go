package service

import (
	"context"
	"strings"
	"time"

	"github.com/iliyamo/bracelet-energy/internal/model"
)

// MeritStore is the persistence contract for the merit counters. One
// record per bracelet; the day-boundary arithmetic lives here in the
// service.
type MeritStore interface {
	Get(ctx context.Context, braceletID string) (model.MeritRecord, bool, error)
	Put(ctx context.Context, rec model.MeritRecord) error
}

// MeritUpdate is the result of a merit addition. IsNewDay tells the
// caller the write crossed a calendar-day boundary, e.g. to show a
// streak celebration.
type MeritUpdate struct {
	model.MeritRecord
	IsNewDay bool `json:"is_new_day"`
}

// MeritService maintains the lifetime, daily and distinct-day merit
// counters. Day boundaries compare the calendar date (year/month/day)
// in the configured location, not 24 elapsed hours.
type MeritService struct {
	store MeritStore
	locks *BraceletLocks
	now   func() time.Time
	loc   *time.Location
}

// NewMeritService returns a MeritService evaluating day boundaries in
// the given location. A nil location falls back to the local zone.
func NewMeritService(store MeritStore, locks *BraceletLocks, loc *time.Location) *MeritService {
	if loc == nil {
		loc = time.Local
	}
	return &MeritService{store: store, locks: locks, now: time.Now, loc: loc}
}

// Record returns the bracelet's merit counters, defaulting to zeros
// with a current timestamp for a bracelet that has never earned merit.
func (s *MeritService) Record(ctx context.Context, braceletID string) (model.MeritRecord, error) {
	if strings.TrimSpace(braceletID) == "" {
		return model.MeritRecord{}, ErrEmptyBraceletID
	}
	rec, ok, err := s.store.Get(ctx, braceletID)
	if err != nil {
		return model.MeritRecord{}, err
	}
	if !ok {
		return model.MeritRecord{
			BraceletID:  braceletID,
			LastUpdated: s.now().UTC(),
		}, nil
	}
	return rec, nil
}

// Add increases the bracelet's merit by amount and maintains the daily
// and distinct-day counters. The first merit a bracelet ever earns
// counts as a new day, so TotalDays equals the number of distinct days
// with at least one addition.
func (s *MeritService) Add(ctx context.Context, braceletID string, amount int) (MeritUpdate, error) {
	if strings.TrimSpace(braceletID) == "" {
		return MeritUpdate{}, ErrEmptyBraceletID
	}
	if amount <= 0 {
		return MeritUpdate{}, ErrInvalidAmount
	}
	unlock := s.locks.Lock(braceletID)
	defer unlock()

	cur, ok, err := s.store.Get(ctx, braceletID)
	if err != nil {
		return MeritUpdate{}, err
	}
	now := s.now()
	isNewDay := !ok || !sameCalendarDay(cur.LastUpdated, now, s.loc)

	updated := model.MeritRecord{
		BraceletID:  braceletID,
		Count:       cur.Count + amount,
		DailyCount:  cur.DailyCount + amount,
		TotalDays:   cur.TotalDays,
		LastUpdated: now.UTC(),
	}
	if isNewDay {
		updated.DailyCount = amount
		updated.TotalDays = cur.TotalDays + 1
	}
	if err := s.store.Put(ctx, updated); err != nil {
		return MeritUpdate{}, err
	}
	return MeritUpdate{MeritRecord: updated, IsNewDay: isNewDay}, nil
}

// sameCalendarDay reports whether a and b fall on the same calendar
// date in loc.
func sameCalendarDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
