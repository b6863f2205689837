package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/iliyamo/bracelet-energy/internal/model"
	"github.com/iliyamo/bracelet-energy/internal/queue"
)

func newTestConsecrationService(energyStore *fakeEnergyStore, store *fakeConsecrationStore, pub ConsecratedPublisher, now time.Time) (*ConsecrationService, *EnergyService) {
	locks := NewBraceletLocks()
	energy := NewEnergyService(energyStore, locks)
	energy.now = fixedClock(now)
	svc := NewConsecrationService(store, energy, pub)
	svc.now = fixedClock(now)
	return svc, energy
}

func TestConsecrationRechargesToFull(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	energyStore := newFakeEnergyStore()
	energyStore.state["b-1"] = model.EnergyState{BraceletID: "b-1", Level: 40, LastUpdated: now.Add(-time.Hour)}
	store := &fakeConsecrationStore{}
	svc, _ := newTestConsecrationService(energyStore, store, nil, now)

	rec, err := svc.Record(context.Background(), ConsecrationInput{
		BraceletID:  "b-1",
		Temple:      "灵隐寺",
		Master:      "慧明",
		Ceremony:    "开光大典",
		EnergyBoost: 60,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if rec.ID == "" {
		t.Fatal("record has no id")
	}
	if !rec.Date.Equal(now) {
		t.Fatalf("zero date not defaulted: %v", rec.Date)
	}
	if got := energyStore.state["b-1"].Level; got != 100 {
		t.Fatalf("level after consecration = %v, want 100", got)
	}
	if len(energyStore.records) != 1 || energyStore.records[0].Activity != model.ActivityConsecration {
		t.Fatalf("ledger = %+v, want one consecration record", energyStore.records)
	}
	if len(store.records) != 1 {
		t.Fatalf("log has %d ceremonies, want 1", len(store.records))
	}
}

func TestConsecrationPublishesEvent(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	var published []queue.BraceletConsecratedEvent
	pub := PublisherFunc(func(_ context.Context, ev queue.BraceletConsecratedEvent) error {
		published = append(published, ev)
		return nil
	})
	svc, _ := newTestConsecrationService(newFakeEnergyStore(), &fakeConsecrationStore{}, pub, now)

	rec, err := svc.Record(context.Background(), ConsecrationInput{BraceletID: "b-1", Master: "慧明"})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if len(published) != 1 {
		t.Fatalf("published %d events, want 1", len(published))
	}
	if published[0].BraceletID != "b-1" || published[0].RecordID != rec.ID {
		t.Fatalf("event = %+v, want bracelet b-1 and record %s", published[0], rec.ID)
	}
}

func TestConsecrationSurvivesPublisherFailure(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	pub := PublisherFunc(func(context.Context, queue.BraceletConsecratedEvent) error {
		return errors.New("broker down")
	})
	energyStore := newFakeEnergyStore()
	svc, _ := newTestConsecrationService(energyStore, &fakeConsecrationStore{}, pub, now)

	if _, err := svc.Record(context.Background(), ConsecrationInput{BraceletID: "b-1"}); err != nil {
		t.Fatalf("Record failed on publisher error: %v", err)
	}
	if got := energyStore.state["b-1"].Level; got != 100 {
		t.Fatalf("level = %v, want 100 despite publish failure", got)
	}
}

func TestValidateWithoutRecordIsInvalid(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestConsecrationService(newFakeEnergyStore(), &fakeConsecrationStore{}, nil, now)

	status, err := svc.Validate(context.Background(), "b-1")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if status.IsValid {
		t.Fatal("bracelet without ceremonies validated as consecrated")
	}
	if status.Recommendation == "" {
		t.Fatal("missing recommendation for unconsecrated bracelet")
	}
}

func TestValidateAgeAndEnergyBands(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		ageDays   int
		energy    float64
		wantValid bool
		wantRec   string // substring; empty means no recommendation
	}{
		{"expired after a year", 400, 80, false, "重新开光"},
		{"low energy advisory", 10, 20, true, "能量较低"},
		{"half-year staleness", 200, 80, true, "超过半年"},
		{"fresh and healthy", 10, 80, true, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			energyStore := newFakeEnergyStore()
			energyStore.state["b-1"] = model.EnergyState{BraceletID: "b-1", Level: tc.energy, LastUpdated: now}
			store := &fakeConsecrationStore{}
			store.records = append(store.records, model.ConsecrationRecord{
				ID:         "c-1",
				BraceletID: "b-1",
				Date:       now.Add(-time.Duration(tc.ageDays) * 24 * time.Hour),
			})
			svc, _ := newTestConsecrationService(energyStore, store, nil, now)

			status, err := svc.Validate(context.Background(), "b-1")
			if err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if status.IsValid != tc.wantValid {
				t.Fatalf("IsValid = %v, want %v", status.IsValid, tc.wantValid)
			}
			if tc.wantRec == "" && status.Recommendation != "" {
				t.Fatalf("unexpected recommendation %q", status.Recommendation)
			}
			if tc.wantRec != "" && !strings.Contains(status.Recommendation, tc.wantRec) {
				t.Fatalf("recommendation %q does not mention %q", status.Recommendation, tc.wantRec)
			}
			if status.DaysAge != tc.ageDays {
				t.Fatalf("DaysAge = %d, want %d", status.DaysAge, tc.ageDays)
			}
		})
	}
}

func TestLatestPicksNewestCeremony(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	store := &fakeConsecrationStore{}
	store.records = append(store.records,
		model.ConsecrationRecord{ID: "old", BraceletID: "b-1", Date: now.Add(-48 * time.Hour)},
		model.ConsecrationRecord{ID: "new", BraceletID: "b-1", Date: now.Add(-time.Hour)},
	)
	svc, _ := newTestConsecrationService(newFakeEnergyStore(), store, nil, now)

	latest, err := svc.Latest(context.Background(), "b-1")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest == nil || latest.ID != "new" {
		t.Fatalf("Latest = %+v, want the newest ceremony", latest)
	}
}
