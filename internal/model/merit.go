package model

import "time"

// MeritRecord is the cumulative merit counter of one bracelet.  Count
// only ever grows.  DailyCount resets when the calendar day of
// LastUpdated differs from the day of the write; TotalDays counts the
// distinct calendar days on which merit was earned.
//
// Fields:
//  BraceletID  – bracelet the counters belong to.
//  Count       – lifetime merit total.
//  DailyCount  – merit earned on the current calendar day.
//  TotalDays   – number of distinct days with at least one merit.
//  LastUpdated – instant of the last write (UTC).
type MeritRecord struct {
	BraceletID  string    `json:"bracelet_id"`  // merit_records.bracelet_id
	Count       int       `json:"count"`        // merit_records.count
	DailyCount  int       `json:"daily_count"`  // merit_records.daily_count
	TotalDays   int       `json:"total_days"`   // merit_records.total_days
	LastUpdated time.Time `json:"last_updated"` // merit_records.last_updated
}

// MeritLevel is the named tier derived from a merit count.  It is
// computed, never persisted.  Progress is the 0–100 percentage toward
// the next tier; in the open-ended top tier it is always 100 and
// NextLevelAt holds the tier's own lower bound.
type MeritLevel struct {
	Level       string `json:"level"`         // tier label
	Color       string `json:"color"`         // display color
	NextLevelAt int    `json:"next_level_at"` // merit count of the next tier
	Progress    int    `json:"progress"`      // 0–100 toward the next tier
}

// MeritTier is one row of the fixed leveling table.  MaxCount is -1
// for the unbounded top tier.
type MeritTier struct {
	Level    string `json:"level"`     // tier label
	Color    string `json:"color"`     // display color
	MinCount int    `json:"min_count"` // inclusive lower bound
	MaxCount int    `json:"max_count"` // inclusive upper bound, -1 = unbounded
}
