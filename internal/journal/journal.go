// Package journal keeps a best-effort SQLite record of backend
// invocations. The queue directory remains the single source of truth
// for job handoff; the journal only feeds operator tooling, so every
// write is allowed to fail without affecting the job outcome.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store manages journal persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS invocations (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    invocation_id TEXT NOT NULL,
    job_id        TEXT NOT NULL,
    user          TEXT NOT NULL,
    title         TEXT NOT NULL,
    format        TEXT NOT NULL,
    bytes         INTEGER NOT NULL,
    document_path TEXT NOT NULL,
    outcome       TEXT NOT NULL,
    created_at    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_invocations_created_at
    ON invocations(created_at);
`

// Open initializes or connects to the journal database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply journal schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Entry is one recorded invocation.
type Entry struct {
	InvocationID string
	JobID        string
	User         string
	Title        string
	Format       string
	Bytes        int64
	DocumentPath string
	Outcome      string
	CreatedAt    time.Time
}

// Outcome values recorded per invocation.
const (
	OutcomeQueued = "queued"
	OutcomeFailed = "failed"
)

// Record inserts an invocation entry.
func (s *Store) Record(ctx context.Context, e Entry) error {
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO invocations (
            invocation_id, job_id, user, title, format,
            bytes, document_path, outcome, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.InvocationID,
		e.JobID,
		e.User,
		e.Title,
		e.Format,
		e.Bytes,
		e.DocumentPath,
		e.Outcome,
		createdAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert invocation: %w", err)
	}
	return nil
}

// Recent returns the newest entries, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT invocation_id, job_id, user, title, format,
		        bytes, document_path, outcome, created_at
		 FROM invocations
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query invocations: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var createdAt string
		if err := rows.Scan(
			&e.InvocationID, &e.JobID, &e.User, &e.Title, &e.Format,
			&e.Bytes, &e.DocumentPath, &e.Outcome, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan invocation: %w", err)
		}
		if ts, parseErr := time.Parse(time.RFC3339Nano, createdAt); parseErr == nil {
			e.CreatedAt = ts
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invocations: %w", err)
	}
	return entries, nil
}
