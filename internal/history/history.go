// Package history persists which tasks have executed and when.
//
// Records are keyed by the task's source filename. That key is
// load-bearing: renaming a task file orphans its history, so a
// run-once task under a new name runs again.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Record is one task's execution history entry.
type Record struct {
	Name        string    `json:"name"`
	Tag         string    `json:"tag,omitempty"`
	Description string    `json:"description,omitempty"`
	Priority    int       `json:"priority"`
	Type        string    `json:"type"`
	ExecutedAt  time.Time `json:"executed_at"`
}

// Run is one engine invocation's outcome, kept for auditing.
type Run struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Executed   int       `json:"executed"`
	Skipped    int       `json:"skipped"`
	Errored    int       `json:"errored"`
}

// Store wraps the SQLite database holding execution history.
type Store struct {
	conn *sql.DB
}

// Open opens (creating if necessary) the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to migrate history database: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS executions (
		name TEXT PRIMARY KEY,
		tag TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		priority INTEGER NOT NULL DEFAULT 0,
		type TEXT NOT NULL DEFAULT 'once',
		executed_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL,
		executed INTEGER NOT NULL DEFAULT 0,
		skipped INTEGER NOT NULL DEFAULT 0,
		errored INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	`

	_, err := s.conn.Exec(schema)
	return err
}

// HasExecuted reports whether a record exists for the named task.
func (s *Store) HasExecuted(name string) (bool, error) {
	var n int
	err := s.conn.QueryRow("SELECT COUNT(1) FROM executions WHERE name = ?", name).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// LastExecuted returns when the named task last completed, or nil when
// it never has.
func (s *Store) LastExecuted(name string) (*time.Time, error) {
	var at time.Time
	err := s.conn.QueryRow("SELECT executed_at FROM executions WHERE name = ?", name).Scan(&at)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &at, nil
}

// MarkExecuted upserts the execution record for rec.Name. Records are
// never deleted by the engine.
func (s *Store) MarkExecuted(rec Record) error {
	if rec.ExecutedAt.IsZero() {
		rec.ExecutedAt = time.Now()
	}
	_, err := s.conn.Exec(`
		INSERT INTO executions (name, tag, description, priority, type, executed_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			tag = excluded.tag,
			description = excluded.description,
			priority = excluded.priority,
			type = excluded.type,
			executed_at = excluded.executed_at
	`, rec.Name, rec.Tag, rec.Description, rec.Priority, rec.Type, rec.ExecutedAt)
	return err
}

// List returns all execution records, ordered by name.
func (s *Store) List() ([]Record, error) {
	rows, err := s.conn.Query(`
		SELECT name, tag, description, priority, type, executed_at
		FROM executions ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.Name, &rec.Tag, &rec.Description, &rec.Priority, &rec.Type, &rec.ExecutedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// RecordRun stores the outcome of one engine invocation. A missing ID
// is filled in with a fresh UUID.
func (s *Store) RecordRun(run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	_, err := s.conn.Exec(`
		INSERT INTO runs (id, started_at, finished_at, executed, skipped, errored)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, run.StartedAt, run.FinishedAt, run.Executed, run.Skipped, run.Errored)
	if err != nil {
		return "", err
	}
	return run.ID, nil
}

// Runs returns the most recent engine invocations, newest first.
func (s *Store) Runs(limit int) ([]Run, error) {
	rows, err := s.conn.Query(`
		SELECT id, started_at, finished_at, executed, skipped, errored
		FROM runs ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.StartedAt, &run.FinishedAt, &run.Executed, &run.Skipped, &run.Errored); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
