package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// clientListKey is the blob key the client registry is stored under.
const clientListKey = "invoiceClients"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadClientList implements clients.ListStore. A missing blob is an
// empty list, not an error; a corrupt blob is reported so the caller can
// log it and start over.
func (r *SQLiteRepository) LoadClientList(ctx context.Context) ([]string, error) {
	var raw string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM blobs WHERE key = ?`, clientListKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read blob %q: %w", clientListKey, err)
	}

	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return nil, fmt.Errorf("decode blob %q: %w", clientListKey, err)
	}
	return names, nil
}

// SaveClientList implements clients.ListStore by overwriting the full
// list blob. Last write wins.
func (r *SQLiteRepository) SaveClientList(ctx context.Context, names []string) error {
	raw, err := json.Marshal(names)
	if err != nil {
		return fmt.Errorf("encode client list: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO blobs (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		clientListKey, string(raw), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("write blob %q: %w", clientListKey, err)
	}
	return nil
}

// ActivityEntry is one audited event as stored by the worker.
type ActivityEntry struct {
	ID         int64
	Kind       string
	Detail     string
	OccurredAt time.Time
}

// RecordActivity appends an event to the audit trail.
func (r *SQLiteRepository) RecordActivity(ctx context.Context, kind, detail string, occurredAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO activity_log (kind, detail, occurred_at) VALUES (?, ?, ?)`,
		kind, detail, occurredAt.UTC())
	if err != nil {
		return fmt.Errorf("record activity %q: %w", kind, err)
	}
	return nil
}

// ListRecentActivity returns the newest entries first, up to limit.
func (r *SQLiteRepository) ListRecentActivity(ctx context.Context, limit int) ([]ActivityEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, kind, detail, occurred_at FROM activity_log
		 ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	defer rows.Close()

	var entries []ActivityEntry
	for rows.Next() {
		var e ActivityEntry
		if err := rows.Scan(&e.ID, &e.Kind, &e.Detail, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan activity row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity rows: %w", err)
	}
	return entries, nil
}
