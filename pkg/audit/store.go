package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

// ErrRunNotFound is returned when a run ID has no audit row.
var ErrRunNotFound = errors.New("audit: run not found")

// Config contains configuration for the audit store.
type Config struct {
	// Path is the database file path.
	Path string

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds.
	BusyTimeout time.Duration

	// WALMode enables Write-Ahead Logging for better concurrency.
	// Default: true.
	WALMode bool
}

// DefaultConfig returns the default audit store configuration.
func DefaultConfig(path string) *Config {
	return &Config{
		Path:        path,
		BusyTimeout: 5 * time.Second,
		WALMode:     true,
	}
}

// SkippedDataset records one dataset omitted from a run's registry.
type SkippedDataset struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// RunRecord is one resolution run's audit row.
type RunRecord struct {
	// RunID is the resolution run's UUID.
	RunID string

	// StartedAt is when the run began.
	StartedAt time.Time

	// Duration is the full pipeline duration.
	Duration time.Duration

	// RootPath is the root configuration document.
	RootPath string

	// DatasetNames are the descriptors built, in declaration order.
	DatasetNames []string

	// Skipped are the dataset entries omitted for validation errors.
	Skipped []SkippedDataset
}

// Store is the SQLite-backed audit trail.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

const schema = `
CREATE TABLE IF NOT EXISTS resolution_runs (
	run_id           TEXT PRIMARY KEY,
	started_at       TEXT NOT NULL,
	duration_ms      INTEGER NOT NULL,
	root_path        TEXT NOT NULL,
	datasets_built   INTEGER NOT NULL,
	datasets_skipped INTEGER NOT NULL,
	dataset_names    TEXT NOT NULL,
	skipped          TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_resolution_runs_started
	ON resolution_runs(started_at);
`

// Open opens (and if needed initializes) the audit database.
func Open(cfg *Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("audit: nil config")
	}
	busyTimeout := cfg.BusyTimeout
	if busyTimeout <= 0 {
		busyTimeout = 5 * time.Second
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open audit database %q: %w", cfg.Path, err)
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", busyTimeout.Milliseconds())); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	if cfg.WALMode {
		if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize audit schema: %w", err)
	}

	return &Store{
		db:     db,
		logger: slog.Default().With("component", "audit"),
	}, nil
}

// RecordRun appends one resolution run to the trail.
func (s *Store) RecordRun(ctx context.Context, rec *RunRecord) error {
	names, err := json.Marshal(rec.DatasetNames)
	if err != nil {
		return fmt.Errorf("encode dataset names: %w", err)
	}
	skipped, err := json.Marshal(rec.Skipped)
	if err != nil {
		return fmt.Errorf("encode skipped datasets: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO resolution_runs
			(run_id, started_at, duration_ms, root_path,
			 datasets_built, datasets_skipped, dataset_names, skipped)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID,
		rec.StartedAt.UTC().Format(time.RFC3339Nano),
		rec.Duration.Milliseconds(),
		rec.RootPath,
		len(rec.DatasetNames),
		len(rec.Skipped),
		string(names),
		string(skipped),
	)
	if err != nil {
		return fmt.Errorf("record run %q: %w", rec.RunID, err)
	}

	s.logger.Debug("recorded resolution run",
		"run_id", rec.RunID,
		"datasets_built", len(rec.DatasetNames),
		"datasets_skipped", len(rec.Skipped),
	)
	return nil
}

// GetRun fetches one run by ID.
func (s *Store) GetRun(ctx context.Context, runID string) (*RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT run_id, started_at, duration_ms, root_path, dataset_names, skipped
		FROM resolution_runs WHERE run_id = ?`, runID)
	rec, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	return rec, err
}

// RecentRuns fetches the most recent runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]*RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, started_at, duration_ms, root_path, dataset_names, skipped
		FROM resolution_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent runs: %w", err)
	}
	defer rows.Close()

	var out []*RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*RunRecord, error) {
	var (
		rec        RunRecord
		startedAt  string
		durationMS int64
		names      string
		skipped    string
	)
	if err := row.Scan(&rec.RunID, &startedAt, &durationMS, &rec.RootPath, &names, &skipped); err != nil {
		return nil, err
	}

	ts, err := time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return nil, fmt.Errorf("parse started_at %q: %w", startedAt, err)
	}
	rec.StartedAt = ts
	rec.Duration = time.Duration(durationMS) * time.Millisecond

	if err := json.Unmarshal([]byte(names), &rec.DatasetNames); err != nil {
		return nil, fmt.Errorf("decode dataset names: %w", err)
	}
	if err := json.Unmarshal([]byte(skipped), &rec.Skipped); err != nil {
		return nil, fmt.Errorf("decode skipped datasets: %w", err)
	}
	return &rec, nil
}
