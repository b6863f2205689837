package model

import "time"

// ConsecrationRecord is one entry in a bracelet's append-only
// consecration log.  Recording a consecration always forces the
// bracelet's current energy to full as a side effect.
//
// Fields:
//  ID          – record identifier (UUID).
//  BraceletID  – bracelet that was consecrated.
//  Date        – when the ceremony was held (UTC).
//  Temple      – temple where the ceremony took place.
//  Master      – presiding master.
//  Ceremony    – name of the ceremony.
//  Witnesses   – optional witness names.
//  VideoURL    – optional ceremony recording.
//  ImageURLs   – optional ceremony photos.
//  Blessing    – blessing text spoken at the ceremony.
//  EnergyBoost – declared boost magnitude of the ceremony.
//  CreatedAt   – when the record was written (UTC).
type ConsecrationRecord struct {
	ID          string    `json:"id"`           // consecration_records.id
	BraceletID  string    `json:"bracelet_id"`  // consecration_records.bracelet_id
	Date        time.Time `json:"date"`         // consecration_records.held_at
	Temple      string    `json:"temple"`       // consecration_records.temple
	Master      string    `json:"master"`       // consecration_records.master
	Ceremony    string    `json:"ceremony"`     // consecration_records.ceremony
	Witnesses   []string  `json:"witnesses,omitempty"`  // consecration_records.witnesses (JSON, nullable)
	VideoURL    string    `json:"video_url,omitempty"`  // consecration_records.video_url (nullable)
	ImageURLs   []string  `json:"image_urls,omitempty"` // consecration_records.image_urls (JSON, nullable)
	Blessing    string    `json:"blessing"`     // consecration_records.blessing
	EnergyBoost float64   `json:"energy_boost"` // consecration_records.energy_boost
	CreatedAt   time.Time `json:"created_at"`   // consecration_records.created_at
}

// ConsecrationStatus is the validity evaluation of a bracelet's latest
// consecration.  Recommendation is advisory and may be set even when
// the consecration is still valid.
type ConsecrationStatus struct {
	IsValid        bool    `json:"is_valid"`       // false when absent or older than a year
	DaysAge        int     `json:"days_age"`       // whole days since the latest ceremony
	EnergyLevel    float64 `json:"energy_level"`   // bracelet's current energy
	Recommendation string  `json:"recommendation,omitempty"` // display-ready advice, empty when none
}
