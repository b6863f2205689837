package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/bracelet-energy/internal/utils"
)

// User mirrors the 'users' table. Accounts exist solely to protect the
// bracelet endpoints; there is no role distinction.
type User struct {
	ID           uint64
	Email        string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRepo provides data access to the users table.
type UserRepo struct{ db *sql.DB }

// NewUserRepo returns a new UserRepo bound to the provided database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// Create hashes the password, inserts the user and returns its ID. A
// duplicate email surfaces as ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, email, password string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (email, password_hash) VALUES (?,?)", email, hash)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u User
	err := r.db.QueryRowContext(ctx,
		"SELECT id,email,password_hash,is_active,created_at,updated_at FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (User, error) {
	var u User
	err := r.db.QueryRowContext(ctx,
		"SELECT id,email,password_hash,is_active,created_at,updated_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
