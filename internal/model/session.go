package model

import "time"

// SessionActivity declares what the wearer was doing during a wearing
// session.  Each activity has its own energy-gain multiplier in the
// service layer.
type SessionActivity string

const (
	SessionDaily      SessionActivity = "daily"      // ordinary daily wear
	SessionMeditation SessionActivity = "meditation" // meditation practice
	SessionWork       SessionActivity = "work"       // wear during work
	SessionSleep      SessionActivity = "sleep"      // wear while sleeping
	SessionCeremony   SessionActivity = "ceremony"   // temple or ritual ceremony
)

// ValidSessionActivity reports whether s names a known session activity.
func ValidSessionActivity(s string) bool {
	switch SessionActivity(s) {
	case SessionDaily, SessionMeditation, SessionWork, SessionSleep, SessionCeremony:
		return true
	}
	return false
}

// OpenSession marks a wearing session that has started but not yet
// ended.  At most one open session exists per bracelet; the
// bracelet_id primary key enforces this in the database.
//
// Fields:
//  BraceletID – bracelet being worn.
//  SessionID  – identifier carried over to the closed session.
//  Activity   – declared wearing activity.
//  Location   – free-form context (nullable).
//  StartedAt  – when the session was opened (UTC).
type OpenSession struct {
	BraceletID string          `json:"bracelet_id"` // open_sessions.bracelet_id
	SessionID  string          `json:"session_id"`  // open_sessions.session_id
	Activity   SessionActivity `json:"activity"`    // open_sessions.activity
	Location   *string         `json:"location,omitempty"` // open_sessions.location (nullable)
	StartedAt  time.Time       `json:"started_at"`  // open_sessions.started_at
}

// WearingSession is a completed, immutable wearing interval.  Duration
// and EnergyGain are computed once at close and never change.  The
// per-bracelet history is truncated from the oldest end at its
// capacity.
//
// Fields:
//  ID          – session identifier (UUID).
//  BraceletID  – bracelet that was worn.
//  StartTime   – when the session was opened (UTC).
//  EndTime     – when the session was closed (UTC).
//  DurationMin – whole minutes between start and end.
//  Activity    – declared wearing activity.
//  EnergyGain  – energy gained by this session, capped per session.
//  Location    – free-form context (nullable).
type WearingSession struct {
	ID          string          `json:"id"`           // wearing_sessions.id
	BraceletID  string          `json:"bracelet_id"`  // wearing_sessions.bracelet_id
	StartTime   time.Time       `json:"start_time"`   // wearing_sessions.started_at
	EndTime     time.Time       `json:"end_time"`     // wearing_sessions.ended_at
	DurationMin int             `json:"duration"`     // wearing_sessions.duration_min
	Activity    SessionActivity `json:"activity"`     // wearing_sessions.activity
	EnergyGain  float64         `json:"energy_gain"`  // wearing_sessions.energy_gain
	Location    *string         `json:"location,omitempty"` // wearing_sessions.location (nullable)
}
