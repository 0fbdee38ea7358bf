package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// tasksKey is the kv row holding the serialized task list.
const tasksKey = "tasks"

// SQLiteBackend implements Backend on a local SQLite database with a
// single key-value table.
type SQLiteBackend struct {
	db *sqlx.DB
}

// NewSQLiteBackend opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
// Use ":memory:" for a throwaway database.
func NewSQLiteBackend(dbPath string) (*SQLiteBackend, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// An in-memory database lives per connection.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	b := &SQLiteBackend{db: db}
	if err := b.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return b, nil
}

// Close closes the underlying database connection.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (b *SQLiteBackend) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := b.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = b.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := b.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// Load returns the stored task payload.
func (b *SQLiteBackend) Load(ctx context.Context) ([]byte, error) {
	var value string
	err := b.db.GetContext(ctx, &value, "SELECT value FROM kv WHERE key = ?", tasksKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoPayload
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", tasksKey, err)
	}
	return []byte(value), nil
}

// Save upserts the task payload and bumps its revision.
func (b *SQLiteBackend) Save(ctx context.Context, payload []byte) error {
	_, err := b.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at, revision) VALUES (?, ?, ?, 1)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at,
			revision = kv.revision + 1`,
		tasksKey, string(payload), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving %s: %w", tasksKey, err)
	}
	return nil
}

// Revision returns how many times the task payload has been saved.
func (b *SQLiteBackend) Revision(ctx context.Context) (int, error) {
	var rev int
	err := b.db.GetContext(ctx, &rev, "SELECT revision FROM kv WHERE key = ?", tasksKey)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading revision: %w", err)
	}
	return rev, nil
}
