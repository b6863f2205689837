package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/iliyamo/bracelet-energy/internal/model"
)

// seedHistory appends wear records oldest first; the store serves them
// newest first, like the SQL repository.
func seedHistory(store *fakeEnergyStore, braceletID string, now time.Time, levels ...float64) {
	for i, level := range levels {
		age := time.Duration(len(levels)-i) * time.Hour
		store.AppendRecord(context.Background(), model.EnergyRecord{
			BraceletID:  braceletID,
			Timestamp:   now.Add(-age),
			EnergyLevel: level,
			Activity:    model.ActivityWear,
		})
	}
}

func newTestAnalyzer(store *fakeEnergyStore, now time.Time) *AnalyzerService {
	locks := NewBraceletLocks()
	energy := NewEnergyService(store, locks)
	energy.now = fixedClock(now)
	consecrations := NewConsecrationService(&fakeConsecrationStore{}, energy, nil)
	consecrations.now = fixedClock(now)
	return NewAnalyzerService(energy, consecrations)
}

func TestTrendWithInsufficientData(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	store := newFakeEnergyStore()
	store.state["b-1"] = model.EnergyState{BraceletID: "b-1", Level: 72, LastUpdated: now}
	analyzer := newTestAnalyzer(store, now)

	report, err := analyzer.Trend(context.Background(), "b-1", 7)
	if err != nil {
		t.Fatalf("Trend: %v", err)
	}
	if report.Trend != TrendStable {
		t.Fatalf("trend = %q, want stable", report.Trend)
	}
	if report.AverageLevel != 72 {
		t.Fatalf("average = %v, want current level 72", report.AverageLevel)
	}
	if len(report.Recommendations) == 0 {
		t.Fatal("no recommendation for sparse history")
	}
}

func TestTrendIncreasing(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	store := newFakeEnergyStore()
	seedHistory(store, "b-1", now, 60, 60, 90, 90)
	analyzer := newTestAnalyzer(store, now)

	report, err := analyzer.Trend(context.Background(), "b-1", 7)
	if err != nil {
		t.Fatalf("Trend: %v", err)
	}
	if report.Trend != TrendIncreasing {
		t.Fatalf("trend = %q, want increasing", report.Trend)
	}
	if report.AverageLevel != 75 {
		t.Fatalf("average = %v, want 75", report.AverageLevel)
	}
}

func TestTrendDecreasingAddsWarning(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	store := newFakeEnergyStore()
	seedHistory(store, "b-1", now, 90, 90, 60, 60)
	analyzer := newTestAnalyzer(store, now)

	report, err := analyzer.Trend(context.Background(), "b-1", 7)
	if err != nil {
		t.Fatalf("Trend: %v", err)
	}
	if report.Trend != TrendDecreasing {
		t.Fatalf("trend = %q, want decreasing", report.Trend)
	}
	found := false
	for _, rec := range report.Recommendations {
		if strings.Contains(rec, "下降") {
			found = true
		}
	}
	if !found {
		t.Fatalf("recommendations %v lack a decreasing-trend warning", report.Recommendations)
	}
}

func TestTrendStableWithinThreshold(t *testing.T) {
	// Recent [80] vs older [75, 75]: the 5-point gap does not exceed
	// the threshold, so the trend stays stable.
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	store := newFakeEnergyStore()
	seedHistory(store, "b-1", now, 75, 75, 80)
	analyzer := newTestAnalyzer(store, now)

	report, err := analyzer.Trend(context.Background(), "b-1", 7)
	if err != nil {
		t.Fatalf("Trend: %v", err)
	}
	if report.Trend != TrendStable {
		t.Fatalf("trend = %q, want stable", report.Trend)
	}
	if report.AverageLevel != 76.7 { // 230/3 rounded to one decimal
		t.Fatalf("average = %v, want 76.7", report.AverageLevel)
	}
}

func TestTrendLowAverageRecommendations(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	store := newFakeEnergyStore()
	seedHistory(store, "b-1", now, 40, 40, 40, 40)
	analyzer := newTestAnalyzer(store, now)

	report, err := analyzer.Trend(context.Background(), "b-1", 7)
	if err != nil {
		t.Fatalf("Trend: %v", err)
	}
	if len(report.Recommendations) != 2 {
		t.Fatalf("low-average recommendations = %v, want two", report.Recommendations)
	}
}

func TestPersonalizedAdviceOrdering(t *testing.T) {
	// High current level, decreasing trend, no consecration on file:
	// level band first, trend note second, consecration advice last.
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	store := newFakeEnergyStore()
	seedHistory(store, "b-1", now, 100, 100, 60, 60)
	store.state["b-1"] = model.EnergyState{BraceletID: "b-1", Level: 95, LastUpdated: now}
	analyzer := newTestAnalyzer(store, now)

	advice, err := analyzer.PersonalizedAdvice(context.Background(), "b-1")
	if err != nil {
		t.Fatalf("PersonalizedAdvice: %v", err)
	}
	if len(advice) != 3 {
		t.Fatalf("advice = %v, want three entries", advice)
	}
	if !strings.HasPrefix(advice[0], "✨") {
		t.Fatalf("first advice %q, want the high-energy band", advice[0])
	}
	if !strings.HasPrefix(advice[1], "📉") {
		t.Fatalf("second advice %q, want the decreasing-trend note", advice[1])
	}
	if !strings.HasPrefix(advice[2], "🏛️") {
		t.Fatalf("third advice %q, want the consecration recommendation", advice[2])
	}
}
