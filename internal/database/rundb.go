package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/crawlbound/crawlbound/internal/model"
)

// dbFileName is the SQLite file created under the configured directory.
const dbFileName = "crawlbound.db"

// ErrRunNotFound is returned by GetRun when no run has the given ID.
var ErrRunNotFound = errors.New("run not found")

// RunDB stores finalized run manifests for later listing and display.
//
// Design decision: One database for all runs rather than a file per run.
// The point of the index is cross-run queries ("what did I crawl last
// week"), which a per-run file would make needlessly awkward.
type RunDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures RunDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file when
	// missing. Read-only consumers (the runs command) leave it false to
	// avoid creating an empty database on a typoed path.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging. Recommended; concurrent
	// readers stay unblocked while a run is being inserted.
	EnableWAL bool
}

// DefaultOptions returns the options used by the crawl command.
func DefaultOptions() Options {
	return Options{CreateIfNotExists: true, EnableWAL: true}
}

// Open opens or creates the run database in dbDir.
func Open(dbDir string, opts Options) (*RunDB, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if opts.CreateIfNotExists {
		if err := os.MkdirAll(dbDir, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	} else {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("check database path: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to forbid creating new files and
	// mode=rwc to allow it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite supports a single writer; more connections only add lock
	// contention for this write-light workload.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &RunDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return rdb, nil
}

// Close closes the database connection.
func (rdb *RunDB) Close() error {
	return rdb.db.Close()
}

// createTables creates the schema if it doesn't exist.
func (rdb *RunDB) createTables() error {
	schema := `
	-- One row per finalized crawl run. The manifest JSON is the full
	-- record; the remaining columns exist for listing and filtering
	-- without decoding every manifest.
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		seeds TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL,
		pages_ok INTEGER NOT NULL,
		pages_failed INTEGER NOT NULL,
		total_bytes INTEGER NOT NULL,
		termination_reason TEXT NOT NULL,
		manifest_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`
	_, err := rdb.db.ExecContext(context.Background(), schema)
	return err
}

// RunRecord is the listing row for one stored run.
type RunRecord struct {
	RunID             string
	Seeds             []string
	StartedAt         time.Time
	FinishedAt        time.Time
	PagesOK           int
	PagesFailed       int
	TotalBytes        int64
	TerminationReason model.TerminationReason
}

// InsertRun stores a finalized manifest.
// Re-inserting the same run ID replaces the row; run IDs are unique per
// run, so this only matters if a caller retries after a partial failure.
func (rdb *RunDB) InsertRun(ctx context.Context, m *model.RunManifest) error {
	seedsJSON, err := json.Marshal(m.Seeds)
	if err != nil {
		return fmt.Errorf("encode seeds: %w", err)
	}
	manifestJSON, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	query := `
	INSERT INTO runs (run_id, seeds, started_at, finished_at, pages_ok,
		pages_failed, total_bytes, termination_reason, manifest_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(run_id) DO UPDATE SET
		seeds = excluded.seeds,
		started_at = excluded.started_at,
		finished_at = excluded.finished_at,
		pages_ok = excluded.pages_ok,
		pages_failed = excluded.pages_failed,
		total_bytes = excluded.total_bytes,
		termination_reason = excluded.termination_reason,
		manifest_json = excluded.manifest_json
	`
	_, err = rdb.db.ExecContext(ctx, query,
		m.RunID, string(seedsJSON), m.StartedAt, m.FinishedAt,
		m.PagesOK, m.PagesFailed, m.TotalBytes,
		string(m.TerminationReason), string(manifestJSON))
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// GetRun loads the full manifest of one stored run.
func (rdb *RunDB) GetRun(ctx context.Context, runID string) (*model.RunManifest, error) {
	var manifestJSON string
	err := rdb.db.QueryRowContext(ctx,
		"SELECT manifest_json FROM runs WHERE run_id = ?", runID).Scan(&manifestJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}

	var m model.RunManifest
	if err := json.Unmarshal([]byte(manifestJSON), &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &m, nil
}

// ListRuns returns stored runs, most recent first.
// A limit of 0 or less returns all runs.
func (rdb *RunDB) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `
	SELECT run_id, seeds, started_at, finished_at, pages_ok, pages_failed,
		total_bytes, termination_reason
	FROM runs ORDER BY started_at DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := rdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	records := make([]RunRecord, 0)
	for rows.Next() {
		var rec RunRecord
		var seedsJSON, reason string
		if err := rows.Scan(&rec.RunID, &seedsJSON, &rec.StartedAt, &rec.FinishedAt,
			&rec.PagesOK, &rec.PagesFailed, &rec.TotalBytes, &reason); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		if err := json.Unmarshal([]byte(seedsJSON), &rec.Seeds); err != nil {
			return nil, fmt.Errorf("decode seeds for %s: %w", rec.RunID, err)
		}
		rec.TerminationReason = model.TerminationReason(reason)
		records = append(records, rec)
	}
	return records, rows.Err()
}
