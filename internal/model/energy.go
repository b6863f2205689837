package model

import "time"

// Activity tags the cause of an energy change.  The set of values is
// fixed; records written with any other tag are rejected by the
// service layer.
type Activity string

const (
	ActivityWear         Activity = "wear"         // gained or lost while wearing the bracelet
	ActivityCharge       Activity = "charge"       // manual energy recharge
	ActivityPractice     Activity = "practice"     // sutra or meditation practice completion
	ActivityConsecration Activity = "consecration" // temple consecration ceremony
	ActivityBlessing     Activity = "blessing"     // blessing received from a master
)

// ValidActivity reports whether s names a known activity tag.
func ValidActivity(s string) bool {
	switch Activity(s) {
	case ActivityWear, ActivityCharge, ActivityPractice, ActivityConsecration, ActivityBlessing:
		return true
	}
	return false
}

// EnergyRecord is one entry in a bracelet's append-only energy ledger.
// EnergyLevel holds the level that resulted from the event, not a
// delta, and is always within [0, 100].  Entries are never mutated;
// the ledger is truncated from the oldest end once it exceeds its
// capacity.
//
// Fields:
//  ID          – primary key identifier assigned at write time.
//  BraceletID  – bracelet the record belongs to.
//  Timestamp   – instant of the event (UTC).
//  EnergyLevel – resulting level after the event, clamped to [0, 100].
//  Activity    – cause of the change.
//  Duration    – minutes, present for wear/practice events (nullable).
//  Location    – free-form context (nullable).
//  Notes       – free-form context (nullable).
type EnergyRecord struct {
	ID          uint64    `json:"id"`           // energy_records.id
	BraceletID  string    `json:"bracelet_id"`  // energy_records.bracelet_id
	Timestamp   time.Time `json:"timestamp"`    // energy_records.created_at
	EnergyLevel float64   `json:"energy_level"` // energy_records.energy_level
	Activity    Activity  `json:"activity"`     // energy_records.activity
	Duration    *int      `json:"duration,omitempty"` // energy_records.duration_min (nullable)
	Location    *string   `json:"location,omitempty"` // energy_records.location (nullable)
	Notes       *string   `json:"notes,omitempty"`    // energy_records.notes (nullable)
}

// EnergyState is the cached current level of one bracelet.  It always
// mirrors the most recent EnergyRecord's level and is what the decay
// simulation reads and rewrites.  A bracelet that has never been seen
// has no state row and reads as full energy.
type EnergyState struct {
	BraceletID  string    `json:"bracelet_id"`  // energy_state.bracelet_id
	Level       float64   `json:"level"`        // energy_state.level
	LastUpdated time.Time `json:"last_updated"` // energy_state.last_updated
}
