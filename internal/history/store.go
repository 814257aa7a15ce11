// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists summaries of past pipeline runs in SQLite.
// The store keeps run metadata and the generated BibTeX so earlier results
// can be listed and re-exported; citation records themselves stay transient.
package history

import (
	"crypto/sha256"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const dbFile = "citation-engine.db"

// Run is one recorded pipeline invocation.
type Run struct {
	ID          int64
	CreatedAt   time.Time
	InputDigest string
	Style       string
	Mode        string
	Records     int
	Verified    int
	BibTeX      string
	Warning     string
}

// Store manages the run-history SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database under dir, creating the schema
// if it does not exist.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
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
		created_at TEXT NOT NULL,
		input_digest TEXT NOT NULL,
		style TEXT NOT NULL,
		mode TEXT NOT NULL,
		records INTEGER NOT NULL,
		verified INTEGER NOT NULL,
		bibtex TEXT,
		warning TEXT
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Digest returns a short hex digest identifying the raw input of a run.
func Digest(rawText string) string {
	sum := sha256.Sum256([]byte(rawText))
	return fmt.Sprintf("%x", sum[:8])
}

// SaveRun inserts a run record and returns its id. A zero CreatedAt is
// filled with the current time.
func (s *Store) SaveRun(run Run) (int64, error) {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.Exec(
		`INSERT INTO runs (created_at, input_digest, style, mode, records, verified, bibtex, warning)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.CreatedAt.Format(time.RFC3339), run.InputDigest, run.Style, run.Mode,
		run.Records, run.Verified, run.BibTeX, run.Warning,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	return res.LastInsertId()
}

// ListRuns returns the most recent runs, newest first, up to limit
// (default 20 when limit <= 0).
func (s *Store) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, created_at, input_digest, style, mode, records, verified, bibtex, warning
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun returns the run with the given id, or sql.ErrNoRows when absent.
func (s *Store) GetRun(id int64) (Run, error) {
	row := s.db.QueryRow(
		`SELECT id, created_at, input_digest, style, mode, records, verified, bibtex, warning
		 FROM runs WHERE id = ?`, id)
	return scanRun(row)
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var run Run
	var created string
	if err := sc.Scan(&run.ID, &created, &run.InputDigest, &run.Style, &run.Mode,
		&run.Records, &run.Verified, &run.BibTeX, &run.Warning); err != nil {
		return Run{}, err
	}
	if t, err := time.Parse(time.RFC3339, created); err == nil {
		run.CreatedAt = t
	}
	return run, nil
}
