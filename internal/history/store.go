// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history records completed digest runs in a local SQLite database
// so repeated digests can tell which papers were already featured.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/arxiv-digest/pkg/types"
)

// Store manages the run-history SQLite database.
type Store struct {
	db *sql.DB
}

// Run is one completed digest generation.
type Run struct {
	ID          int64     `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Fingerprint string    `json:"fingerprint"`
	Fetched     int       `json:"fetched"`
	Selected    int       `json:"selected"`
	AvgScore    float64   `json:"avg_score"`
}

// Open opens or creates the history database at path, creating the schema
// if it does not exist.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at TEXT NOT NULL,
			fingerprint TEXT NOT NULL,
			fetched INTEGER NOT NULL,
			selected INTEGER NOT NULL,
			avg_score REAL NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS run_papers (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			paper_id TEXT NOT NULL,
			title TEXT,
			score REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_run_papers_paper_id ON run_papers(paper_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores a completed run and its selected papers, returning the run ID.
func (s *Store) Record(ctx context.Context, run Run, papers []types.Paper) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (created_at, fingerprint, fetched, selected, avg_score) VALUES (?, ?, ?, ?, ?)`,
		run.CreatedAt.UTC().Format(time.RFC3339), run.Fingerprint, run.Fetched, run.Selected, run.AvgScore)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	for _, p := range papers {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_papers (run_id, paper_id, title, score) VALUES (?, ?, ?, ?)`,
			runID, p.ID, p.Title, p.Score); err != nil {
			return 0, fmt.Errorf("inserting run paper %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// Runs returns the most recent runs, newest first, up to limit.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, fingerprint, fetched, selected, avg_score
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var createdAt string
		if err := rows.Scan(&r.ID, &createdAt, &r.Fingerprint, &r.Fetched, &r.Selected, &r.AvgScore); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if t, parseErr := time.Parse(time.RFC3339, createdAt); parseErr == nil {
			r.CreatedAt = t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// SeenBefore reports which of the given paper IDs appeared in a run other
// than excludeRunID.
func (s *Store) SeenBefore(ctx context.Context, ids []string, excludeRunID int64) (map[string]bool, error) {
	seen := make(map[string]bool)
	if len(ids) == 0 {
		return seen, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids)+1)
	for _, id := range ids {
		args = append(args, id)
	}
	args = append(args, excludeRunID)

	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT paper_id FROM run_papers WHERE paper_id IN (`+placeholders+`) AND run_id != ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying seen papers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning paper id: %w", err)
		}
		seen[id] = true
	}
	return seen, rows.Err()
}
