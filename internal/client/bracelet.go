// Package client talks to the external bracelet-info API. The core
// subsystem only needs a valid bracelet id string to operate; this
// client exists so handlers can proxy metadata lookups and the
// connectivity probe for the UI.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/iliyamo/bracelet-energy/internal/model"
)

// DefaultBaseURL is the production bracelet-info endpoint.
const DefaultBaseURL = "https://bless.top/wp-json/bracelet-info/v1"

// BraceletClient fetches bracelet metadata over HTTP.
type BraceletClient struct {
	base string
	http *http.Client
}

// NewBraceletClient returns a client against the given base URL. An
// empty base falls back to DefaultBaseURL.
func NewBraceletClient(base string) *BraceletClient {
	if base == "" {
		base = DefaultBaseURL
	}
	return &BraceletClient{
		base: base,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// infoPayload mirrors the remote API's response shape. Fields absent
// from the payload decode to zero values and are defaulted in Info.
type infoPayload struct {
	Owner              string  `json:"owner"`
	ChipID             string  `json:"chipId"`
	Material           string  `json:"material"`
	BeadCount          string  `json:"beadCount"`
	Level              string  `json:"level"`
	ImageURL           string  `json:"imageUrl"`
	ConsecrationDate   string  `json:"consecrationDate"`
	ConsecrationTemple string  `json:"consecrationTemple"`
	ConsecrationHall   string  `json:"consecrationHall"`
	ConsecrationMaster string  `json:"consecrationMaster"`
	ConsecrationVideo  string  `json:"consecrationVideo"`
	LampOfferingVideo  string  `json:"lampOfferingVideo"`
	Description        string  `json:"description"`
	EnergyLevel        float64 `json:"energyLevel"`
	IsActive           *bool   `json:"isActive"`
}

// Info fetches the metadata of one bracelet. Absent payload fields are
// filled with display defaults so callers always receive a complete
// record.
func (c *BraceletClient) Info(ctx context.Context, braceletID string) (model.BraceletInfo, error) {
	url := fmt.Sprintf("%s/bracelet/%s", c.base, braceletID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return model.BraceletInfo{}, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return model.BraceletInfo{}, fmt.Errorf("bracelet info request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.BraceletInfo{}, fmt.Errorf("bracelet info request: status %d", resp.StatusCode)
	}

	var p infoPayload
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return model.BraceletInfo{}, fmt.Errorf("bracelet info decode: %w", err)
	}

	info := model.BraceletInfo{
		ID:                 braceletID,
		Owner:              defaultStr(p.Owner, "未知主人"),
		ChipID:             defaultStr(p.ChipID, braceletID),
		Material:           defaultStr(p.Material, "天然材质"),
		BeadCount:          defaultStr(p.BeadCount, "108"),
		Level:              defaultStr(p.Level, "初级"),
		ImageURL:           p.ImageURL,
		ConsecrationDate:   p.ConsecrationDate,
		ConsecrationTemple: p.ConsecrationTemple,
		ConsecrationHall:   p.ConsecrationHall,
		ConsecrationMaster: p.ConsecrationMaster,
		ConsecrationVideo:  p.ConsecrationVideo,
		LampOfferingVideo:  p.LampOfferingVideo,
		Description:        p.Description,
		EnergyLevel:        p.EnergyLevel,
		IsActive:           p.IsActive == nil || *p.IsActive,
	}
	if info.EnergyLevel == 0 {
		info.EnergyLevel = 100
	}
	return info, nil
}

// Verify reports whether the bracelet id resolves against the remote
// API. Any lookup failure reads as invalid.
func (c *BraceletClient) Verify(ctx context.Context, braceletID string) bool {
	_, err := c.Info(ctx, braceletID)
	return err == nil
}

// Status probes the bracelet's connectivity. Hardware-level NFC or
// Bluetooth probing lives in the mobile layer; from the service's
// perspective a bracelet that verifies is reachable.
func (c *BraceletClient) Status(ctx context.Context, braceletID string) model.BraceletStatus {
	if c.Verify(ctx, braceletID) {
		return model.StatusConnected
	}
	return model.StatusDisconnected
}

// defaultStr returns s or def when s is empty.
func defaultStr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
