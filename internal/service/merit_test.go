package service

import (
	"context"
	"testing"
	"time"
)

func newTestMeritService(store *fakeMeritStore, now time.Time) *MeritService {
	svc := NewMeritService(store, NewBraceletLocks(), time.UTC)
	svc.now = fixedClock(now)
	return svc
}

func TestMeritRecordDefaultsToZero(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	svc := newTestMeritService(newFakeMeritStore(), now)

	rec, err := svc.Record(context.Background(), "b-1")
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if rec.Count != 0 || rec.DailyCount != 0 || rec.TotalDays != 0 {
		t.Fatalf("fresh record = %+v, want all zero counters", rec)
	}
}

func TestMeritFirstAddStartsFirstDay(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	svc := newTestMeritService(newFakeMeritStore(), now)

	update, err := svc.Add(context.Background(), "b-1", 3)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !update.IsNewDay {
		t.Fatal("first add should count as a new day")
	}
	if update.Count != 3 || update.DailyCount != 3 || update.TotalDays != 1 {
		t.Fatalf("after first add = %+v, want count=3 daily=3 days=1", update.MeritRecord)
	}
}

func TestMeritSameDayAccumulates(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	svc := newTestMeritService(newFakeMeritStore(), now)
	ctx := context.Background()

	if _, err := svc.Add(ctx, "b-1", 2); err != nil {
		t.Fatalf("Add: %v", err)
	}
	svc.now = fixedClock(now.Add(10 * time.Hour)) // same calendar day

	update, err := svc.Add(ctx, "b-1", 5)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if update.IsNewDay {
		t.Fatal("same-day add flagged as new day")
	}
	if update.Count != 7 || update.DailyCount != 7 || update.TotalDays != 1 {
		t.Fatalf("after same-day adds = %+v, want count=7 daily=7 days=1", update.MeritRecord)
	}
}

func TestMeritDayBoundaryIsCalendarBased(t *testing.T) {
	// 23:30 to 00:30 next day is only one hour apart but crosses the
	// calendar boundary: the daily count resets and the day total grows.
	night := time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC)
	svc := newTestMeritService(newFakeMeritStore(), night)
	ctx := context.Background()

	if _, err := svc.Add(ctx, "b-1", 4); err != nil {
		t.Fatalf("Add: %v", err)
	}
	svc.now = fixedClock(night.Add(time.Hour))

	update, err := svc.Add(ctx, "b-1", 1)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !update.IsNewDay {
		t.Fatal("midnight crossing not flagged as new day")
	}
	if update.Count != 5 || update.DailyCount != 1 || update.TotalDays != 2 {
		t.Fatalf("after boundary add = %+v, want count=5 daily=1 days=2", update.MeritRecord)
	}
}

func TestMeritDistinctDayCount(t *testing.T) {
	day := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := newTestMeritService(newFakeMeritStore(), day)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		svc.now = fixedClock(day.Add(time.Duration(i) * 24 * time.Hour))
		if _, err := svc.Add(ctx, "b-1", 1); err != nil {
			t.Fatalf("Add day %d: %v", i, err)
		}
	}

	rec, err := svc.Record(ctx, "b-1")
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if rec.TotalDays != 5 {
		t.Fatalf("TotalDays = %d, want 5", rec.TotalDays)
	}
	if rec.Count != 5 || rec.DailyCount != 1 {
		t.Fatalf("record = %+v, want count=5 daily=1", rec)
	}
}

func TestMeritAddValidation(t *testing.T) {
	svc := newTestMeritService(newFakeMeritStore(), time.Now().UTC())
	ctx := context.Background()

	if _, err := svc.Add(ctx, " ", 1); err != ErrEmptyBraceletID {
		t.Fatalf("blank id err = %v, want ErrEmptyBraceletID", err)
	}
	if _, err := svc.Add(ctx, "b-1", 0); err != ErrInvalidAmount {
		t.Fatalf("zero amount err = %v, want ErrInvalidAmount", err)
	}
	if _, err := svc.Add(ctx, "b-1", -3); err != ErrInvalidAmount {
		t.Fatalf("negative amount err = %v, want ErrInvalidAmount", err)
	}
}
