package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/bracelet-energy/internal/model"
)

// sessionHistoryCap bounds the per-bracelet closed-session history.
const sessionHistoryCap = 50

// SessionRepo provides data access to the open_sessions marker table
// and the wearing_sessions history. The open_sessions primary key on
// bracelet_id guarantees at most one open session per bracelet; a
// duplicate insert surfaces as ErrSessionAlreadyOpen instead of
// silently replacing the earlier session.
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo returns a new SessionRepo bound to the provided database.
func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

// CreateOpen writes the open-session marker for a bracelet. It returns
// ErrSessionAlreadyOpen when a marker already exists.
func (r *SessionRepo) CreateOpen(ctx context.Context, s model.OpenSession) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO open_sessions (bracelet_id, session_id, activity, location, started_at)
		 VALUES (?,?,?,?,?)`,
		s.BraceletID, s.SessionID, string(s.Activity), s.Location, s.StartedAt)
	if err != nil {
		// MySQL duplicate-entry error on the bracelet_id primary key.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrSessionAlreadyOpen
		}
		return err
	}
	return nil
}

// Open returns the bracelet's open-session marker. The second return
// value is false when no session is open.
func (r *SessionRepo) Open(ctx context.Context, braceletID string) (model.OpenSession, bool, error) {
	var (
		s        model.OpenSession
		activity string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT bracelet_id, session_id, activity, location, started_at
		 FROM open_sessions WHERE bracelet_id=? LIMIT 1`,
		braceletID).Scan(&s.BraceletID, &s.SessionID, &activity, &s.Location, &s.StartedAt)
	if err == sql.ErrNoRows {
		return model.OpenSession{}, false, nil
	}
	if err != nil {
		return model.OpenSession{}, false, err
	}
	s.Activity = model.SessionActivity(activity)
	return s, true, nil
}

// DeleteOpen removes the bracelet's open-session marker. Deleting an
// absent marker is not an error.
func (r *SessionRepo) DeleteOpen(ctx context.Context, braceletID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM open_sessions WHERE bracelet_id=?`, braceletID)
	return err
}

// AppendClosed appends a completed session to the history and trims
// the history to its capacity inside one transaction. Closed sessions
// are immutable once written.
func (r *SessionRepo) AppendClosed(ctx context.Context, s model.WearingSession) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO wearing_sessions (id, bracelet_id, started_at, ended_at, duration_min, activity, energy_gain, location)
		 VALUES (?,?,?,?,?,?,?,?)`,
		s.ID, s.BraceletID, s.StartTime, s.EndTime, s.DurationMin, string(s.Activity), s.EnergyGain, s.Location); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM wearing_sessions
		 WHERE bracelet_id=? AND seq <= COALESCE(
		   (SELECT seq FROM (
		      SELECT seq FROM wearing_sessions WHERE bracelet_id=? ORDER BY seq DESC LIMIT 1 OFFSET ?
		    ) cutoff), 0)`,
		s.BraceletID, s.BraceletID, sessionHistoryCap); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Closed lists completed sessions for a bracelet, newest first, up to
// limit entries. A non-positive limit returns the full retained
// history.
func (r *SessionRepo) Closed(ctx context.Context, braceletID string, limit int) ([]model.WearingSession, error) {
	if limit <= 0 || limit > sessionHistoryCap {
		limit = sessionHistoryCap
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, bracelet_id, started_at, ended_at, duration_min, activity, energy_gain, location
		 FROM wearing_sessions
		 WHERE bracelet_id=?
		 ORDER BY seq DESC
		 LIMIT ?`,
		braceletID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.WearingSession, 0, limit)
	for rows.Next() {
		var (
			s        model.WearingSession
			activity string
		)
		if err := rows.Scan(&s.ID, &s.BraceletID, &s.StartTime, &s.EndTime,
			&s.DurationMin, &activity, &s.EnergyGain, &s.Location); err != nil {
			return nil, err
		}
		s.Activity = model.SessionActivity(activity)
		out = append(out, s)
	}
	return out, rows.Err()
}
