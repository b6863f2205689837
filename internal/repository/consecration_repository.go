package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/iliyamo/bracelet-energy/internal/model"
)

// ConsecrationRepo provides data access to the append-only
// consecration_records table. Witness names and image URLs are stored
// as JSON columns since they are opaque display lists.
type ConsecrationRepo struct {
	db *sql.DB
}

// NewConsecrationRepo returns a new ConsecrationRepo bound to the
// provided database.
func NewConsecrationRepo(db *sql.DB) *ConsecrationRepo { return &ConsecrationRepo{db: db} }

// Append inserts one consecration record. Records are never updated or
// deleted afterwards.
func (r *ConsecrationRepo) Append(ctx context.Context, rec model.ConsecrationRecord) error {
	witnesses, err := marshalList(rec.Witnesses)
	if err != nil {
		return err
	}
	images, err := marshalList(rec.ImageURLs)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO consecration_records
		   (id, bracelet_id, held_at, temple, master, ceremony, witnesses, video_url, image_urls, blessing, energy_boost, created_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		rec.ID, rec.BraceletID, rec.Date, rec.Temple, rec.Master, rec.Ceremony,
		witnesses, nullable(rec.VideoURL), images, rec.Blessing, rec.EnergyBoost, rec.CreatedAt)
	return err
}

// List returns all consecration records of a bracelet, newest ceremony
// first. An unknown bracelet yields an empty slice.
func (r *ConsecrationRepo) List(ctx context.Context, braceletID string) ([]model.ConsecrationRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, bracelet_id, held_at, temple, master, ceremony, witnesses, video_url, image_urls, blessing, energy_boost, created_at
		 FROM consecration_records
		 WHERE bracelet_id=?
		 ORDER BY held_at DESC, created_at DESC`,
		braceletID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.ConsecrationRecord, 0)
	for rows.Next() {
		var (
			rec       model.ConsecrationRecord
			witnesses sql.NullString
			videoURL  sql.NullString
			images    sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.BraceletID, &rec.Date, &rec.Temple, &rec.Master,
			&rec.Ceremony, &witnesses, &videoURL, &images, &rec.Blessing, &rec.EnergyBoost, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if witnesses.Valid {
			if err := json.Unmarshal([]byte(witnesses.String), &rec.Witnesses); err != nil {
				return nil, err
			}
		}
		if images.Valid {
			if err := json.Unmarshal([]byte(images.String), &rec.ImageURLs); err != nil {
				return nil, err
			}
		}
		if videoURL.Valid {
			rec.VideoURL = videoURL.String
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// marshalList encodes a string list as JSON, mapping empty lists to
// SQL NULL.
func marshalList(list []string) (any, error) {
	if len(list) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(list)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// nullable maps empty strings to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
