package service

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/iliyamo/bracelet-energy/internal/model"
)

const (
	maxEnergy = 100.0 // upper clamp for every energy level
	minEnergy = 0.0   // lower clamp for every energy level

	// maxDecayPerCall caps how much energy a single decay pass may
	// remove no matter how long the bracelet went unobserved.
	maxDecayPerCall = 20.0

	// defaultHistoryDays is the window used when a caller does not
	// specify one.
	defaultHistoryDays = 30

	// decayFallbackAge stands in for the last-updated instant of a
	// bracelet that has never been written.
	decayFallbackAge = 24 * time.Hour
)

// RateSource yields the hourly decay rate for one decay pass. The
// production source draws uniformly from [0.5, 1.0) once per call;
// tests inject a fixed rate to make decay amounts exact.
type RateSource func() float64

// defaultRate draws the hourly decay rate from [0.5, 1.0).
func defaultRate() float64 { return 0.5 + rand.Float64()*0.5 }

// EnergyStore is the persistence contract the energy service needs.
// AppendRecord must atomically append to the ledger, enforce the
// ledger capacity and overwrite the current state.
type EnergyStore interface {
	AppendRecord(ctx context.Context, rec model.EnergyRecord) (model.EnergyRecord, error)
	History(ctx context.Context, braceletID string, since time.Time) ([]model.EnergyRecord, error)
	State(ctx context.Context, braceletID string) (model.EnergyState, bool, error)
}

// EnergyChangeOptions carries the optional context of an energy
// change. Duration is in minutes and accompanies wear and practice
// events.
type EnergyChangeOptions struct {
	Duration *int
	Location *string
	Notes    *string
}

// EnergyService owns the energy ledger and the lazy decay simulation.
// Decay is computed on read rather than by a background scheduler, so
// the service stays correct for intermittently running deployments.
type EnergyService struct {
	store EnergyStore
	locks *BraceletLocks
	rate  RateSource
	now   func() time.Time
}

// NewEnergyService returns an EnergyService using the production rate
// source and wall clock. The locks table must be shared with every
// service that mutates the same bracelet-scoped state.
func NewEnergyService(store EnergyStore, locks *BraceletLocks) *EnergyService {
	return &EnergyService{store: store, locks: locks, rate: defaultRate, now: time.Now}
}

// clampEnergy bounds a level to [0, 100].
func clampEnergy(level float64) float64 {
	return math.Min(math.Max(level, minEnergy), maxEnergy)
}

// RecordChange appends one ledger entry with the given resulting level
// and overwrites the bracelet's current state. The level is clamped
// defensively; callers are still expected to pass a value already in
// range. The write is durable before the call returns.
func (s *EnergyService) RecordChange(ctx context.Context, braceletID string, activity model.Activity, level float64, opts EnergyChangeOptions) (model.EnergyRecord, error) {
	if strings.TrimSpace(braceletID) == "" {
		return model.EnergyRecord{}, ErrEmptyBraceletID
	}
	if !model.ValidActivity(string(activity)) {
		return model.EnergyRecord{}, ErrUnknownActivity
	}
	rec := model.EnergyRecord{
		BraceletID:  braceletID,
		Timestamp:   s.now().UTC(),
		EnergyLevel: clampEnergy(level),
		Activity:    activity,
		Duration:    opts.Duration,
		Location:    opts.Location,
		Notes:       opts.Notes,
	}
	return s.store.AppendRecord(ctx, rec)
}

// CurrentLevel returns the bracelet's cached energy level. A bracelet
// that has never been written reads as full energy.
func (s *EnergyService) CurrentLevel(ctx context.Context, braceletID string) (float64, error) {
	st, ok, err := s.store.State(ctx, braceletID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return maxEnergy, nil
	}
	return st.Level, nil
}

// History returns ledger entries within the last days days, newest
// first. Non-positive days falls back to the default window.
func (s *EnergyService) History(ctx context.Context, braceletID string, days int) ([]model.EnergyRecord, error) {
	if days <= 0 {
		days = defaultHistoryDays
	}
	since := s.now().UTC().Add(-time.Duration(days) * 24 * time.Hour)
	return s.store.History(ctx, braceletID, since)
}

// SimulateDecay applies the time-based energy loss accrued since the
// last observation and returns the (possibly updated) current level.
// Less than one whole elapsed hour is a no-op. The decay amount is
// elapsed hours times one rate drawn for the whole call, capped at
// maxDecayPerCall, and the level never drops below zero. When the
// level changes, a wear-tagged ledger entry documents the loss.
func (s *EnergyService) SimulateDecay(ctx context.Context, braceletID string) (float64, error) {
	if strings.TrimSpace(braceletID) == "" {
		return 0, ErrEmptyBraceletID
	}
	unlock := s.locks.Lock(braceletID)
	defer unlock()

	now := s.now().UTC()
	st, ok, err := s.store.State(ctx, braceletID)
	if err != nil {
		return 0, err
	}
	level := maxEnergy
	lastUpdated := now.Add(-decayFallbackAge)
	if ok {
		level = st.Level
		lastUpdated = st.LastUpdated
	}

	hours := int(now.Sub(lastUpdated) / time.Hour)
	if hours < 1 {
		return level, nil
	}

	decay := math.Min(float64(hours)*s.rate(), maxDecayPerCall)
	next := math.Max(level-decay, minEnergy)
	if next == level {
		return level, nil
	}

	notes := fmt.Sprintf("自然消耗 %.1f 能量 (%d小时)", level-next, hours)
	rec := model.EnergyRecord{
		BraceletID:  braceletID,
		Timestamp:   now,
		EnergyLevel: next,
		Activity:    model.ActivityWear,
		Notes:       &notes,
	}
	if _, err := s.store.AppendRecord(ctx, rec); err != nil {
		return level, err
	}
	return next, nil
}
