package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/bracelet-energy/internal/model"
)

// MeritRepo provides data access to the merit_records table. One row
// per bracelet holds the lifetime count, the current day's count and
// the distinct-day total; the day-boundary arithmetic lives in the
// service layer.
type MeritRepo struct {
	db *sql.DB
}

// NewMeritRepo returns a new MeritRepo bound to the provided database.
func NewMeritRepo(db *sql.DB) *MeritRepo { return &MeritRepo{db: db} }

// Get returns the bracelet's merit counters. The second return value
// is false when the bracelet has never earned merit, which the service
// layer resolves to all-zero defaults.
func (r *MeritRepo) Get(ctx context.Context, braceletID string) (model.MeritRecord, bool, error) {
	var rec model.MeritRecord
	err := r.db.QueryRowContext(ctx,
		`SELECT bracelet_id, count, daily_count, total_days, last_updated
		 FROM merit_records WHERE bracelet_id=? LIMIT 1`,
		braceletID).Scan(&rec.BraceletID, &rec.Count, &rec.DailyCount, &rec.TotalDays, &rec.LastUpdated)
	if err == sql.ErrNoRows {
		return model.MeritRecord{}, false, nil
	}
	if err != nil {
		return model.MeritRecord{}, false, err
	}
	return rec, true, nil
}

// Put upserts the bracelet's merit counters. The write is durable
// before the call returns.
func (r *MeritRepo) Put(ctx context.Context, rec model.MeritRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO merit_records (bracelet_id, count, daily_count, total_days, last_updated)
		 VALUES (?,?,?,?,?)
		 ON DUPLICATE KEY UPDATE count=VALUES(count), daily_count=VALUES(daily_count),
		   total_days=VALUES(total_days), last_updated=VALUES(last_updated)`,
		rec.BraceletID, rec.Count, rec.DailyCount, rec.TotalDays, rec.LastUpdated)
	return err
}
