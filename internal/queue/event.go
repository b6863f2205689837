// Package queue defines message payloads exchanged over the message broker.
package queue

// BraceletConsecratedEvent is published when a consecration ceremony is
// recorded. It carries enough information for downstream consumers to
// log or notify without querying the primary database.
type BraceletConsecratedEvent struct {
	BraceletID  string  `json:"bracelet_id"`
	RecordID    string  `json:"record_id"`
	Temple      string  `json:"temple"`
	Master      string  `json:"master"`
	Ceremony    string  `json:"ceremony"`
	EnergyBoost float64 `json:"energy_boost"`
	HeldAt      string  `json:"held_at"`
	RecordedAt  string  `json:"recorded_at"`
}
