package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// schema holds the DDL for every table the service uses. Statements
// are idempotent so Migrate can run on every startup.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS energy_records (
		id           BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		bracelet_id  VARCHAR(64)  NOT NULL,
		activity     VARCHAR(16)  NOT NULL,
		energy_level DOUBLE       NOT NULL,
		duration_min INT          NULL,
		location     VARCHAR(255) NULL,
		notes        VARCHAR(512) NULL,
		created_at   DATETIME     NOT NULL,
		PRIMARY KEY (id),
		KEY idx_energy_records_bracelet (bracelet_id, created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS energy_state (
		bracelet_id  VARCHAR(64) NOT NULL,
		level        DOUBLE      NOT NULL,
		last_updated DATETIME    NOT NULL,
		PRIMARY KEY (bracelet_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS open_sessions (
		bracelet_id VARCHAR(64)  NOT NULL,
		session_id  CHAR(36)     NOT NULL,
		activity    VARCHAR(16)  NOT NULL,
		location    VARCHAR(255) NULL,
		started_at  DATETIME     NOT NULL,
		PRIMARY KEY (bracelet_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS wearing_sessions (
		seq          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		id           CHAR(36)     NOT NULL,
		bracelet_id  VARCHAR(64)  NOT NULL,
		started_at   DATETIME     NOT NULL,
		ended_at     DATETIME     NOT NULL,
		duration_min INT          NOT NULL,
		activity     VARCHAR(16)  NOT NULL,
		energy_gain  DOUBLE       NOT NULL,
		location     VARCHAR(255) NULL,
		PRIMARY KEY (seq),
		UNIQUE KEY uq_wearing_sessions_id (id),
		KEY idx_wearing_sessions_bracelet (bracelet_id, seq)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS merit_records (
		bracelet_id  VARCHAR(64) NOT NULL,
		count        INT         NOT NULL DEFAULT 0,
		daily_count  INT         NOT NULL DEFAULT 0,
		total_days   INT         NOT NULL DEFAULT 0,
		last_updated DATETIME    NOT NULL,
		PRIMARY KEY (bracelet_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS consecration_records (
		id           CHAR(36)     NOT NULL,
		bracelet_id  VARCHAR(64)  NOT NULL,
		held_at      DATETIME     NOT NULL,
		temple       VARCHAR(255) NOT NULL,
		master       VARCHAR(255) NOT NULL,
		ceremony     VARCHAR(255) NOT NULL,
		witnesses    JSON         NULL,
		video_url    VARCHAR(512) NULL,
		image_urls   JSON         NULL,
		blessing     TEXT         NOT NULL,
		energy_boost DOUBLE       NOT NULL DEFAULT 0,
		created_at   DATETIME     NOT NULL,
		PRIMARY KEY (id),
		KEY idx_consecration_records_bracelet (bracelet_id, held_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		email         VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		is_active     TINYINT(1)   NOT NULL DEFAULT 1,
		created_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id    BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64)  NOT NULL,
		expires_at DATETIME  NOT NULL,
		revoked_at DATETIME  NULL,
		created_at DATETIME  NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_refresh_tokens_hash (token_hash),
		KEY idx_refresh_tokens_user (user_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates any missing tables. It runs at startup so a fresh
// database needs no manual schema step.
func Migrate(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
