package records

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS agents (
		user_id TEXT NOT NULL PRIMARY KEY,
		matricule INTEGER NOT NULL UNIQUE,
		game_id TEXT NOT NULL UNIQUE,
		case_file_channel_id TEXT NOT NULL DEFAULT '',
		salary INTEGER NOT NULL DEFAULT 0,
		registered_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS agent_entries (
		id TEXT NOT NULL PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES agents(user_id) ON DELETE CASCADE,
		kind TEXT NOT NULL,
		reason TEXT NOT NULL,
		issued_by TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS shifts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL REFERENCES agents(user_id) ON DELETE CASCADE,
		started_at INTEGER NOT NULL,
		ended_at INTEGER
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_shifts_one_open ON shifts(user_id) WHERE ended_at IS NULL`,
	`CREATE INDEX IF NOT EXISTS idx_shifts_user ON shifts(user_id, started_at)`,
	`CREATE TABLE IF NOT EXISTS absences (
		id TEXT NOT NULL PRIMARY KEY,
		requester_id TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		reason TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		decided_by TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL,
		decided_at INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS infractions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		guild_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		at_ms INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_infractions_subject ON infractions(guild_id, user_id, at_ms)`,
	`CREATE TABLE IF NOT EXISTS whitelist_domains (domain TEXT NOT NULL PRIMARY KEY)`,
	`CREATE TABLE IF NOT EXISTS whitelist_channels (channel_id TEXT NOT NULL PRIMARY KEY)`,
	`CREATE TABLE IF NOT EXISTS settings (key TEXT NOT NULL PRIMARY KEY, value TEXT NOT NULL)`,
	`CREATE TABLE IF NOT EXISTS bans (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		guild_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		reason TEXT NOT NULL,
		violations INTEGER NOT NULL,
		status TEXT NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		at_ms INTEGER NOT NULL
	)`,
}

// Repository is the roster's backing store. Every mutating method is a
// single transaction, so concurrent events never interleave inside one entity.
type Repository struct {
	db *sqlx.DB
}

// Init opens (creating if needed) the sqlite database at dbPath and ensures
// all tables exist.
func Init(dbPath string) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sqlx.Connect("sqlite3", dbPath+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	// sqlite allows one writer; a single connection keeps transactions serialized.
	db.SetMaxOpenConns(1)

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// inTx runs fn in a transaction, committing when fn returns nil.
func (r *Repository) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// uniqueViolation returns the "table.column" named by a unique constraint
// failure, or "" when err is something else.
func uniqueViolation(err error) string {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return ""
	}
	if sqliteErr.ExtendedCode != sqlite3.ErrConstraintUnique && sqliteErr.ExtendedCode != sqlite3.ErrConstraintPrimaryKey {
		return ""
	}
	msg := sqliteErr.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}

func isForeignKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
}

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
