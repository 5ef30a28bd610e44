package runstore

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Run records one completed manifest generation
type Run struct {
	ID        string
	Format    string
	Records   int
	Path      string
	Bytes     int64
	Duration  time.Duration
	CreatedAt time.Time
}

// Store provides SQLite-backed generation history
type Store struct {
	db *sql.DB
}

// New creates a new Store with the given database path
func New(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun inserts a generation run. A missing ID or CreatedAt is
// filled in before the insert.
func (s *Store) RecordRun(run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	_, err := s.db.Exec(`
		INSERT INTO runs (id, format, records, path, bytes, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Format,
		run.Records,
		run.Path,
		run.Bytes,
		run.Duration.Milliseconds(),
		run.CreatedAt,
	)
	return err
}

// GetRun retrieves a run by ID
func (s *Store) GetRun(id string) (*Run, error) {
	row := s.db.QueryRow(`
		SELECT id, format, records, path, bytes, duration_ms, created_at
		FROM runs WHERE id = ?
	`, id)

	return scanRun(row)
}

// ListOptions specifies filters for listing runs
type ListOptions struct {
	Format string
	Limit  int
}

// ListRuns returns runs matching the given options, newest first
func (s *Store) ListRuns(opts ListOptions) ([]*Run, error) {
	query := `SELECT id, format, records, path, bytes, duration_ms, created_at FROM runs WHERE 1=1`
	var args []interface{}

	if opts.Format != "" {
		query += " AND format = ?"
		args = append(args, opts.Format)
	}

	query += " ORDER BY created_at DESC, id"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRunRows(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func scanRun(row *sql.Row) (*Run, error) {
	var run Run
	var durationMS int64

	err := row.Scan(&run.ID, &run.Format, &run.Records, &run.Path, &run.Bytes, &durationMS, &run.CreatedAt)
	if err != nil {
		return nil, err
	}

	run.Duration = time.Duration(durationMS) * time.Millisecond
	return &run, nil
}

func scanRunRows(rows *sql.Rows) (*Run, error) {
	var run Run
	var durationMS int64

	err := rows.Scan(&run.ID, &run.Format, &run.Records, &run.Path, &run.Bytes, &durationMS, &run.CreatedAt)
	if err != nil {
		return nil, err
	}

	run.Duration = time.Duration(durationMS) * time.Millisecond
	return &run, nil
}
