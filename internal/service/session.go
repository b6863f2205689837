package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/bracelet-energy/internal/model"
)

const (
	// gainPerMinute is the base energy growth per worn minute before
	// the activity multiplier.
	gainPerMinute = 0.1

	// maxGainPerSession caps the energy a single session can add.
	maxGainPerSession = 20.0
)

// activityMultipliers scales the per-minute gain by how the bracelet
// was worn. Meditation and ceremony accrue faster than passive wear.
var activityMultipliers = map[model.SessionActivity]float64{
	model.SessionDaily:      1.0,
	model.SessionMeditation: 2.5,
	model.SessionWork:       0.8,
	model.SessionSleep:      0.5,
	model.SessionCeremony:   3.0,
}

// WearingEnergyGain converts worn minutes into an energy gain for the
// given activity, capped at maxGainPerSession.
func WearingEnergyGain(durationMin int, activity model.SessionActivity) float64 {
	m, ok := activityMultipliers[activity]
	if !ok {
		m = 1.0
	}
	return math.Min(float64(durationMin)*gainPerMinute*m, maxGainPerSession)
}

// SessionStore is the persistence contract for wearing sessions: the
// single open-session marker per bracelet plus the capped history of
// closed sessions.
type SessionStore interface {
	CreateOpen(ctx context.Context, s model.OpenSession) error
	Open(ctx context.Context, braceletID string) (model.OpenSession, bool, error)
	DeleteOpen(ctx context.Context, braceletID string) error
	AppendClosed(ctx context.Context, s model.WearingSession) error
	Closed(ctx context.Context, braceletID string, limit int) ([]model.WearingSession, error)
}

// SessionService tracks wearing intervals as a two-state machine per
// bracelet: Closed (no marker) and Open (one marker). Starting while
// open is rejected rather than silently replacing the earlier session.
type SessionService struct {
	store  SessionStore
	energy *EnergyService
	locks  *BraceletLocks
	now    func() time.Time
}

// NewSessionService returns a SessionService. The locks table must be
// the same instance the energy service uses so decay and session
// closes for one bracelet never interleave.
func NewSessionService(store SessionStore, energy *EnergyService, locks *BraceletLocks) *SessionService {
	return &SessionService{store: store, energy: energy, locks: locks, now: time.Now}
}

// Start opens a wearing session and returns its id. A second start
// while a session is open fails with repository.ErrSessionAlreadyOpen
// surfaced from the store.
func (s *SessionService) Start(ctx context.Context, braceletID string, activity model.SessionActivity, location *string) (string, error) {
	if strings.TrimSpace(braceletID) == "" {
		return "", ErrEmptyBraceletID
	}
	if !model.ValidSessionActivity(string(activity)) {
		return "", ErrUnknownActivity
	}
	unlock := s.locks.Lock(braceletID)
	defer unlock()

	open := model.OpenSession{
		BraceletID: braceletID,
		SessionID:  uuid.NewString(),
		Activity:   activity,
		Location:   location,
		StartedAt:  s.now().UTC(),
	}
	if err := s.store.CreateOpen(ctx, open); err != nil {
		return "", err
	}
	return open.SessionID, nil
}

// End closes the bracelet's open session: it computes the whole-minute
// duration and the activity-scaled energy gain, writes a wear-tagged
// energy change at the gained (clamped) level, appends the completed
// session to the history and clears the open marker. When no session
// is open it returns nil, nil — a documented non-result, not an error.
func (s *SessionService) End(ctx context.Context, braceletID string) (*model.WearingSession, error) {
	if strings.TrimSpace(braceletID) == "" {
		return nil, ErrEmptyBraceletID
	}
	unlock := s.locks.Lock(braceletID)
	defer unlock()

	open, ok, err := s.store.Open(ctx, braceletID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	now := s.now().UTC()
	durationMin := int(now.Sub(open.StartedAt) / time.Minute)
	if durationMin < 0 {
		durationMin = 0
	}
	gain := WearingEnergyGain(durationMin, open.Activity)

	current, err := s.energy.CurrentLevel(ctx, braceletID)
	if err != nil {
		return nil, err
	}
	notes := fmt.Sprintf("%s佩戴，获得%.1f能量", open.Activity, gain)
	if _, err := s.energy.RecordChange(ctx, braceletID, model.ActivityWear,
		math.Min(current+gain, maxEnergy),
		EnergyChangeOptions{Duration: &durationMin, Location: open.Location, Notes: &notes}); err != nil {
		return nil, err
	}

	completed := model.WearingSession{
		ID:          open.SessionID,
		BraceletID:  braceletID,
		StartTime:   open.StartedAt,
		EndTime:     now,
		DurationMin: durationMin,
		Activity:    open.Activity,
		EnergyGain:  gain,
		Location:    open.Location,
	}
	if err := s.store.AppendClosed(ctx, completed); err != nil {
		return nil, err
	}
	if err := s.store.DeleteOpen(ctx, braceletID); err != nil {
		return nil, err
	}
	return &completed, nil
}

// Current returns the bracelet's open session, if any.
func (s *SessionService) Current(ctx context.Context, braceletID string) (*model.OpenSession, error) {
	open, ok, err := s.store.Open(ctx, braceletID)
	if err != nil || !ok {
		return nil, err
	}
	return &open, nil
}

// History lists completed sessions, newest first.
func (s *SessionService) History(ctx context.Context, braceletID string, limit int) ([]model.WearingSession, error) {
	return s.store.Closed(ctx, braceletID, limit)
}
