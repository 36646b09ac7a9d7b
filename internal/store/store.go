// Package store persists request outcomes and caches responses.
//
// DESIGN: Two small storage concerns live here:
//   - AuditStore (sqlite): append-only trail of terminal outcomes, written
//     by the built-in audit cleanup hook. Cleanup hooks cannot fail the
//     request, so write errors are the caller's to log and swallow.
//   - Cache (memory): TTL cache used by the built-in cache hook for
//     before-phase early responses (see cache.go).
//
// For multi-instance deployments, implement AuditStore/Cache against a
// shared backend (Postgres, Redis) instead.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// OutcomeRecord is one audited terminal outcome.
type OutcomeRecord struct {
	RequestID string
	Route     string
	Method    string
	Kind      string
	Success   bool
	Status    int
	Error     string
	Duration  time.Duration
	CreatedAt time.Time
}

// AuditStore records terminal outcomes.
type AuditStore interface {
	// RecordOutcome appends one outcome to the trail.
	RecordOutcome(rec OutcomeRecord) error

	// RecentOutcomes returns up to limit outcomes, newest first.
	RecentOutcomes(limit int) ([]OutcomeRecord, error)

	// Close releases the underlying database.
	Close() error
}

// SQLiteStore is the sqlite-backed AuditStore.
type SQLiteStore struct {
	db *sql.DB
}

const outcomesSchema = `
CREATE TABLE IF NOT EXISTS outcomes (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	request_id  TEXT NOT NULL,
	route       TEXT NOT NULL,
	method      TEXT NOT NULL,
	kind        TEXT NOT NULL,
	success     INTEGER NOT NULL,
	status      INTEGER NOT NULL,
	error       TEXT NOT NULL DEFAULT '',
	duration_ms INTEGER NOT NULL,
	created_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_outcomes_route ON outcomes(route);
CREATE INDEX IF NOT EXISTS idx_outcomes_created ON outcomes(created_at);
`

// NewSQLiteStore opens (or creates) the audit database at path.
// Use ":memory:" for tests.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("audit store path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit store '%s': %w", path, err)
	}
	// Single connection keeps sqlite happy under concurrent cleanup hooks.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if _, err := db.Exec(outcomesSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create outcomes table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// RecordOutcome appends one outcome to the trail.
func (s *SQLiteStore) RecordOutcome(rec OutcomeRecord) error {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := s.db.Exec(
		`INSERT INTO outcomes (request_id, route, method, kind, success, status, error, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RequestID, rec.Route, rec.Method, rec.Kind,
		boolToInt(rec.Success), rec.Status, rec.Error,
		rec.Duration.Milliseconds(), createdAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to record outcome: %w", err)
	}
	return nil
}

// RecentOutcomes returns up to limit outcomes, newest first.
func (s *SQLiteStore) RecentOutcomes(limit int) ([]OutcomeRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT request_id, route, method, kind, success, status, error, duration_ms, created_at
		 FROM outcomes ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query outcomes: %w", err)
	}
	defer rows.Close()

	var recs []OutcomeRecord
	for rows.Next() {
		var rec OutcomeRecord
		var success int
		var durationMs int64
		var createdAt string
		if err := rows.Scan(&rec.RequestID, &rec.Route, &rec.Method, &rec.Kind,
			&success, &rec.Status, &rec.Error, &durationMs, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan outcome: %w", err)
		}
		rec.Success = success != 0
		rec.Duration = time.Duration(durationMs) * time.Millisecond
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// Close releases the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Ensure SQLiteStore implements AuditStore
var _ AuditStore = (*SQLiteStore)(nil)
