package model

// BraceletInfo is the metadata returned by the external bracelet-info
// API for a verified bracelet.  The service never stores it; the
// client fills absent fields with display defaults.
type BraceletInfo struct {
	ID                 string `json:"id"`
	Owner              string `json:"owner"`
	ChipID             string `json:"chip_id"`
	Material           string `json:"material"`
	BeadCount          string `json:"bead_count"`
	Level              string `json:"level"`
	ImageURL           string `json:"image_url,omitempty"`
	ConsecrationDate   string `json:"consecration_date,omitempty"`
	ConsecrationTemple string `json:"consecration_temple,omitempty"`
	ConsecrationHall   string `json:"consecration_hall,omitempty"`
	ConsecrationMaster string `json:"consecration_master,omitempty"`
	ConsecrationVideo  string `json:"consecration_video,omitempty"`
	LampOfferingVideo  string `json:"lamp_offering_video,omitempty"`
	Description        string `json:"description,omitempty"`
	EnergyLevel        float64 `json:"energy_level"`
	IsActive           bool   `json:"is_active"`
}

// BraceletStatus reports the connectivity probe result for a bracelet.
type BraceletStatus string

const (
	StatusConnected    BraceletStatus = "connected"
	StatusDisconnected BraceletStatus = "disconnected"
)
