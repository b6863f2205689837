package service

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/iliyamo/bracelet-energy/internal/model"
	"github.com/iliyamo/bracelet-energy/internal/repository"
)

func newTestSessionService(energyStore *fakeEnergyStore, sessionStore *fakeSessionStore, now time.Time) (*SessionService, *EnergyService) {
	locks := NewBraceletLocks()
	energy := NewEnergyService(energyStore, locks)
	energy.now = fixedClock(now)
	svc := NewSessionService(sessionStore, energy, locks)
	svc.now = fixedClock(now)
	return svc, energy
}

func TestWearingEnergyGain(t *testing.T) {
	cases := []struct {
		minutes  int
		activity model.SessionActivity
		want     float64
	}{
		{60, model.SessionDaily, 6},
		{60, model.SessionMeditation, 15},
		{60, model.SessionWork, 4.8},
		{60, model.SessionSleep, 3},
		{60, model.SessionCeremony, 18},
		{300, model.SessionCeremony, 20}, // capped
		{0, model.SessionDaily, 0},
	}
	for _, tc := range cases {
		// Multiplier products like 60*0.1*0.8 carry float64 rounding
		// error, so compare within an epsilon rather than exactly.
		if got := WearingEnergyGain(tc.minutes, tc.activity); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("WearingEnergyGain(%d, %s) = %v, want %v", tc.minutes, tc.activity, got, tc.want)
		}
	}
}

func TestEndWithoutOpenSession(t *testing.T) {
	svc, _ := newTestSessionService(newFakeEnergyStore(), newFakeSessionStore(), time.Now().UTC())

	completed, err := svc.End(context.Background(), "b-1")
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	if completed != nil {
		t.Fatalf("End without open session = %+v, want nil", completed)
	}
}

func TestStartWhileOpenIsRejected(t *testing.T) {
	svc, _ := newTestSessionService(newFakeEnergyStore(), newFakeSessionStore(), time.Now().UTC())
	ctx := context.Background()

	if _, err := svc.Start(ctx, "b-1", model.SessionDaily, nil); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	if _, err := svc.Start(ctx, "b-1", model.SessionMeditation, nil); err != repository.ErrSessionAlreadyOpen {
		t.Fatalf("second Start err = %v, want ErrSessionAlreadyOpen", err)
	}
}

func TestStartValidation(t *testing.T) {
	svc, _ := newTestSessionService(newFakeEnergyStore(), newFakeSessionStore(), time.Now().UTC())
	ctx := context.Background()

	if _, err := svc.Start(ctx, "", model.SessionDaily, nil); err != ErrEmptyBraceletID {
		t.Fatalf("blank id err = %v, want ErrEmptyBraceletID", err)
	}
	if _, err := svc.Start(ctx, "b-1", model.SessionActivity("flying"), nil); err != ErrUnknownActivity {
		t.Fatalf("unknown activity err = %v, want ErrUnknownActivity", err)
	}
}

func TestEndComputesDurationAndGain(t *testing.T) {
	start := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	energyStore := newFakeEnergyStore()
	energyStore.state["b-1"] = model.EnergyState{BraceletID: "b-1", Level: 50, LastUpdated: start}
	sessionStore := newFakeSessionStore()
	svc, _ := newTestSessionService(energyStore, sessionStore, start)
	ctx := context.Background()

	id, err := svc.Start(ctx, "b-1", model.SessionMeditation, nil)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	// End one hour later.
	end := start.Add(time.Hour)
	svc.now = fixedClock(end)

	completed, err := svc.End(ctx, "b-1")
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	if completed == nil {
		t.Fatal("End returned nil for an open session")
	}
	if completed.ID != id {
		t.Fatalf("completed id = %q, want %q", completed.ID, id)
	}
	if completed.DurationMin != 60 {
		t.Fatalf("duration = %d, want 60", completed.DurationMin)
	}
	if completed.EnergyGain != 15 { // 60min * 0.1 * 2.5
		t.Fatalf("gain = %v, want 15", completed.EnergyGain)
	}

	// Energy ledger reflects the gain.
	level, err := NewEnergyService(energyStore, NewBraceletLocks()).CurrentLevel(ctx, "b-1")
	if err != nil {
		t.Fatalf("CurrentLevel: %v", err)
	}
	if level != 65 {
		t.Fatalf("level after session = %v, want 65", level)
	}
	if len(energyStore.records) != 1 {
		t.Fatalf("ledger has %d records, want 1", len(energyStore.records))
	}
	if got := energyStore.records[0]; got.Activity != model.ActivityWear || got.Duration == nil || *got.Duration != 60 {
		t.Fatalf("ledger record = %+v, want wear with duration 60", got)
	}

	// The open marker is gone and history holds the session.
	if _, open, _ := sessionStore.Open(ctx, "b-1"); open {
		t.Fatal("open session still present after End")
	}
	history, err := svc.History(ctx, "b-1", 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 1 || history[0].ID != id {
		t.Fatalf("history = %+v, want the completed session", history)
	}
}

func TestEndClampsEnergyAtFull(t *testing.T) {
	start := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	energyStore := newFakeEnergyStore()
	energyStore.state["b-1"] = model.EnergyState{BraceletID: "b-1", Level: 95, LastUpdated: start}
	svc, _ := newTestSessionService(energyStore, newFakeSessionStore(), start)
	ctx := context.Background()

	if _, err := svc.Start(ctx, "b-1", model.SessionCeremony, nil); err != nil {
		t.Fatalf("Start: %v", err)
	}
	svc.now = fixedClock(start.Add(5 * time.Hour)) // gain capped at 20

	completed, err := svc.End(ctx, "b-1")
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	if completed.EnergyGain != 20 {
		t.Fatalf("gain = %v, want 20", completed.EnergyGain)
	}
	if got := energyStore.state["b-1"].Level; got != 100 {
		t.Fatalf("level = %v, want clamp at 100", got)
	}
}

func TestCurrentReportsOpenSession(t *testing.T) {
	svc, _ := newTestSessionService(newFakeEnergyStore(), newFakeSessionStore(), time.Now().UTC())
	ctx := context.Background()

	open, err := svc.Current(ctx, "b-1")
	if err != nil || open != nil {
		t.Fatalf("Current with no session = (%+v, %v), want (nil, nil)", open, err)
	}

	id, err := svc.Start(ctx, "b-1", model.SessionDaily, nil)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	open, err = svc.Current(ctx, "b-1")
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if open == nil || open.SessionID != id {
		t.Fatalf("Current = %+v, want session %q", open, id)
	}
}
