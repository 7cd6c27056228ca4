// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package runlog records harvest run outcomes in a local SQLite database.
// It logs what each run did (counts, status, error); the article dataset
// itself lives only in the snapshot and is not indexed here.
package runlog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pubmed-sync/internal/pipeline"
)

// Store manages the run-history SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the run log at dbPath and ensures the schema exists.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening run log: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating run log schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at TEXT NOT NULL,
		query TEXT NOT NULL,
		status TEXT NOT NULL,
		fetched INTEGER NOT NULL,
		skipped INTEGER NOT NULL,
		added INTEGER NOT NULL,
		updated INTEGER NOT NULL,
		total INTEGER NOT NULL,
		error TEXT
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Entry is one recorded run.
type Entry struct {
	ID        int64
	StartedAt time.Time
	Query     string
	Status    string
	Summary   pipeline.RunSummary
	Error     string
}

// Record inserts one run outcome. runErr may be nil for a successful run.
func (s *Store) Record(ctx context.Context, startedAt time.Time, query string, summary pipeline.RunSummary, runErr error) error {
	status := "ok"
	errText := ""
	if runErr != nil {
		status = "failed"
		errText = runErr.Error()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (started_at, query, status, fetched, skipped, added, updated, total, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		startedAt.UTC().Format(time.RFC3339), query, status,
		summary.Fetched, summary.Skipped, summary.New, summary.Updated, summary.Total, errText,
	)
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

// List returns the most recent runs, newest first. limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	q := `SELECT id, started_at, query, status, fetched, skipped, added, updated, total, error
	      FROM runs ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var started string
		if err := rows.Scan(&e.ID, &started, &e.Query, &e.Status,
			&e.Summary.Fetched, &e.Summary.Skipped, &e.Summary.New,
			&e.Summary.Updated, &e.Summary.Total, &e.Error); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, started); err == nil {
			e.StartedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
