// Package history persists a record of completed analyses.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS analyses (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	repo        TEXT NOT NULL DEFAULT '',
	root        TEXT NOT NULL,
	started_at  INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	file_count  INTEGER NOT NULL,
	edge_count  INTEGER NOT NULL,
	cycle_count INTEGER NOT NULL
);
`

// Record is one completed analysis.
type Record struct {
	ID         int64         `json:"id"`
	Repo       string        `json:"repo,omitempty"`
	Root       string        `json:"root"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration"`
	FileCount  int           `json:"file_count"`
	EdgeCount  int           `json:"edge_count"`
	CycleCount int           `json:"cycle_count"`
}

// Store is the SQLite-backed analysis history.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Append writes one record and returns it with its assigned ID.
func (s *Store) Append(record Record) (Record, error) {
	result, err := s.db.Exec(
		`INSERT INTO analyses (repo, root, started_at, duration_ms, file_count, edge_count, cycle_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.Repo,
		record.Root,
		record.StartedAt.UnixMilli(),
		record.Duration.Milliseconds(),
		record.FileCount,
		record.EdgeCount,
		record.CycleCount,
	)
	if err != nil {
		return Record{}, fmt.Errorf("failed to record analysis: %w", err)
	}

	record.ID, err = result.LastInsertId()
	if err != nil {
		return Record{}, fmt.Errorf("failed to read inserted id: %w", err)
	}
	return record, nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, repo, root, started_at, duration_ms, file_count, edge_count, cycle_count
		 FROM analyses ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var startedAt, durationMS int64
		if err := rows.Scan(&r.ID, &r.Repo, &r.Root, &startedAt, &durationMS, &r.FileCount, &r.EdgeCount, &r.CycleCount); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		r.StartedAt = time.UnixMilli(startedAt)
		r.Duration = time.Duration(durationMS) * time.Millisecond
		records = append(records, r)
	}
	return records, rows.Err()
}

// Count returns the total number of recorded analyses.
func (s *Store) Count() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM analyses`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count history: %w", err)
	}
	return count, nil
}
