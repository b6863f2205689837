package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/bracelet-energy/internal/model"
	"github.com/iliyamo/bracelet-energy/internal/queue"
)

const (
	// consecrationExpiryDays is the age past which a consecration no
	// longer counts as valid.
	consecrationExpiryDays = 365

	// consecrationStaleDays is the age past which a softer renewal
	// nudge is given while the consecration stays valid.
	consecrationStaleDays = 180

	// lowEnergyThreshold triggers the low-energy advisory during
	// validity checks.
	lowEnergyThreshold = 30.0
)

// ConsecrationStore is the persistence contract for the append-only
// ceremony log.
type ConsecrationStore interface {
	Append(ctx context.Context, rec model.ConsecrationRecord) error
	List(ctx context.Context, braceletID string) ([]model.ConsecrationRecord, error)
}

// ConsecratedPublisher publishes the consecrated event to the message
// broker so downstream consumers (logging, notifications) can react
// without being called directly.
type ConsecratedPublisher interface {
	PublishConsecrated(ctx context.Context, ev queue.BraceletConsecratedEvent) error
}

// PublisherFunc adapts a plain function to the ConsecratedPublisher
// interface.
type PublisherFunc func(ctx context.Context, ev queue.BraceletConsecratedEvent) error

// PublishConsecrated calls f.
func (f PublisherFunc) PublishConsecrated(ctx context.Context, ev queue.BraceletConsecratedEvent) error {
	return f(ctx, ev)
}

// ConsecrationInput carries the caller-supplied fields of a ceremony;
// the record id and creation time are assigned at write time.
type ConsecrationInput struct {
	BraceletID  string
	Date        time.Time
	Temple      string
	Master      string
	Ceremony    string
	Witnesses   []string
	VideoURL    string
	ImageURLs   []string
	Blessing    string
	EnergyBoost float64
}

// ConsecrationService owns the ceremony log and its validity
// evaluation. Recording a ceremony always recharges the bracelet to
// full energy synchronously; the published event is for downstream
// effects only and its failure never fails the recording.
type ConsecrationService struct {
	store  ConsecrationStore
	energy *EnergyService
	pub    ConsecratedPublisher
	now    func() time.Time
}

// NewConsecrationService returns a ConsecrationService. pub may be nil
// when no broker is configured.
func NewConsecrationService(store ConsecrationStore, energy *EnergyService, pub ConsecratedPublisher) *ConsecrationService {
	return &ConsecrationService{store: store, energy: energy, pub: pub, now: time.Now}
}

// Record appends a ceremony to the log, forces the bracelet's energy
// to full with a consecration-tagged ledger entry, and publishes the
// consecrated event best-effort.
func (s *ConsecrationService) Record(ctx context.Context, in ConsecrationInput) (model.ConsecrationRecord, error) {
	if strings.TrimSpace(in.BraceletID) == "" {
		return model.ConsecrationRecord{}, ErrEmptyBraceletID
	}
	now := s.now().UTC()
	rec := model.ConsecrationRecord{
		ID:          uuid.NewString(),
		BraceletID:  in.BraceletID,
		Date:        in.Date,
		Temple:      in.Temple,
		Master:      in.Master,
		Ceremony:    in.Ceremony,
		Witnesses:   in.Witnesses,
		VideoURL:    in.VideoURL,
		ImageURLs:   in.ImageURLs,
		Blessing:    in.Blessing,
		EnergyBoost: in.EnergyBoost,
		CreatedAt:   now,
	}
	if rec.Date.IsZero() {
		rec.Date = now
	}
	if err := s.store.Append(ctx, rec); err != nil {
		return model.ConsecrationRecord{}, err
	}

	// A consecration always fully recharges.
	notes := fmt.Sprintf("%s法师主持开光仪式，能量提升%.0f点", rec.Master, rec.EnergyBoost)
	if _, err := s.energy.RecordChange(ctx, rec.BraceletID, model.ActivityConsecration, maxEnergy,
		EnergyChangeOptions{Location: &rec.Temple, Notes: &notes}); err != nil {
		return model.ConsecrationRecord{}, err
	}

	if s.pub != nil {
		ev := queue.BraceletConsecratedEvent{
			BraceletID:  rec.BraceletID,
			RecordID:    rec.ID,
			Temple:      rec.Temple,
			Master:      rec.Master,
			Ceremony:    rec.Ceremony,
			EnergyBoost: rec.EnergyBoost,
			HeldAt:      rec.Date.Format(time.RFC3339),
			RecordedAt:  rec.CreatedAt.Format(time.RFC3339),
		}
		if err := s.pub.PublishConsecrated(ctx, ev); err != nil {
			log.Printf("consecration: publish event failed: %v", err)
		}
	}
	return rec, nil
}

// Records lists a bracelet's ceremonies, newest first.
func (s *ConsecrationService) Records(ctx context.Context, braceletID string) ([]model.ConsecrationRecord, error) {
	if strings.TrimSpace(braceletID) == "" {
		return nil, ErrEmptyBraceletID
	}
	return s.store.List(ctx, braceletID)
}

// Latest returns the most recent ceremony, or nil when none exists.
func (s *ConsecrationService) Latest(ctx context.Context, braceletID string) (*model.ConsecrationRecord, error) {
	records, err := s.Records(ctx, braceletID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

// Validate evaluates the bracelet's latest consecration. No record or
// one older than a year is invalid; otherwise the result is valid but
// may carry an advisory recommendation for low energy or half-year
// staleness.
func (s *ConsecrationService) Validate(ctx context.Context, braceletID string) (model.ConsecrationStatus, error) {
	latest, err := s.Latest(ctx, braceletID)
	if err != nil {
		return model.ConsecrationStatus{}, err
	}
	if latest == nil {
		return model.ConsecrationStatus{
			IsValid:        false,
			Recommendation: "建议进行开光仪式以激活法宝能量",
		}, nil
	}

	daysAge := int(s.now().UTC().Sub(latest.Date) / (24 * time.Hour))
	energy, err := s.energy.CurrentLevel(ctx, braceletID)
	if err != nil {
		return model.ConsecrationStatus{}, err
	}

	status := model.ConsecrationStatus{IsValid: true, DaysAge: daysAge, EnergyLevel: energy}
	switch {
	case daysAge > consecrationExpiryDays:
		status.IsValid = false
		status.Recommendation = "开光已超过一年，建议重新开光以恢复最佳效果"
	case energy < lowEnergyThreshold:
		status.Recommendation = "能量较低，建议增加佩戴时间或进行能量充值"
	case daysAge > consecrationStaleDays:
		status.Recommendation = "开光已超过半年，可考虑进行能量加持仪式"
	}
	return status, nil
}
