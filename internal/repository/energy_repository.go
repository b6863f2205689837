package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/bracelet-energy/internal/model"
)

// energyHistoryCap bounds the per-bracelet energy ledger. Inserts trim
// the oldest rows beyond this bound inside the same transaction.
const energyHistoryCap = 100

// EnergyRepo provides data access to the energy_records ledger and the
// energy_state table holding each bracelet's cached current level.
// All timestamps are stored and compared in UTC.
type EnergyRepo struct {
	db *sql.DB
}

// NewEnergyRepo returns a new EnergyRepo bound to the provided database.
func NewEnergyRepo(db *sql.DB) *EnergyRepo { return &EnergyRepo{db: db} }

// AppendRecord inserts one ledger entry, trims the ledger to its
// capacity, and overwrites the bracelet's current state, all inside a
// single transaction so the state row never disagrees with the ledger.
// The assigned id is returned on the record. The write is durable
// before the call returns.
func (r *EnergyRepo) AppendRecord(ctx context.Context, rec model.EnergyRecord) (model.EnergyRecord, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.EnergyRecord{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO energy_records (bracelet_id, activity, energy_level, duration_min, location, notes, created_at)
		 VALUES (?,?,?,?,?,?,?)`,
		rec.BraceletID, string(rec.Activity), rec.EnergyLevel, rec.Duration, rec.Location, rec.Notes, rec.Timestamp)
	if err != nil {
		return model.EnergyRecord{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.EnergyRecord{}, err
	}
	rec.ID = uint64(id)

	// Drop everything older than the newest energyHistoryCap rows.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM energy_records
		 WHERE bracelet_id=? AND id <= COALESCE(
		   (SELECT id FROM (
		      SELECT id FROM energy_records WHERE bracelet_id=? ORDER BY id DESC LIMIT 1 OFFSET ?
		    ) cutoff), 0)`,
		rec.BraceletID, rec.BraceletID, energyHistoryCap); err != nil {
		return model.EnergyRecord{}, err
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO energy_state (bracelet_id, level, last_updated) VALUES (?,?,?)
		 ON DUPLICATE KEY UPDATE level=VALUES(level), last_updated=VALUES(last_updated)`,
		rec.BraceletID, rec.EnergyLevel, rec.Timestamp); err != nil {
		return model.EnergyRecord{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.EnergyRecord{}, err
	}
	committed = true
	return rec, nil
}

// History returns the bracelet's ledger entries at or after since,
// newest first. An unknown bracelet yields an empty slice, not an
// error.
func (r *EnergyRepo) History(ctx context.Context, braceletID string, since time.Time) ([]model.EnergyRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, bracelet_id, activity, energy_level, duration_min, location, notes, created_at
		 FROM energy_records
		 WHERE bracelet_id=? AND created_at >= ?
		 ORDER BY created_at DESC, id DESC`,
		braceletID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.EnergyRecord, 0)
	for rows.Next() {
		var (
			rec      model.EnergyRecord
			activity string
		)
		if err := rows.Scan(&rec.ID, &rec.BraceletID, &activity, &rec.EnergyLevel,
			&rec.Duration, &rec.Location, &rec.Notes, &rec.Timestamp); err != nil {
			return nil, err
		}
		rec.Activity = model.Activity(activity)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// State returns the bracelet's cached current level. The second return
// value is false when the bracelet has never been written, which the
// service layer resolves to the documented full-energy default.
func (r *EnergyRepo) State(ctx context.Context, braceletID string) (model.EnergyState, bool, error) {
	var st model.EnergyState
	err := r.db.QueryRowContext(ctx,
		`SELECT bracelet_id, level, last_updated FROM energy_state WHERE bracelet_id=? LIMIT 1`,
		braceletID).Scan(&st.BraceletID, &st.Level, &st.LastUpdated)
	if err == sql.ErrNoRows {
		return model.EnergyState{}, false, nil
	}
	if err != nil {
		return model.EnergyState{}, false, err
	}
	return st, true, nil
}
