// Package store persists batch run results to SQLite. The store is an
// output sink only: the zonal pipeline never reads computed values back.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/atlas-insights/nightlights-cli/internal/zonal"
)

// Store wraps the results database.
type Store struct {
	db *sql.DB
}

// Open opens a SQLite database at the given path and configures WAL mode.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "store: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "store: exec %s", pragma)
		}
	}
	return &Store{db: db}, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	raster      TEXT NOT NULL,
	boundaries  TEXT NOT NULL,
	regions     INTEGER NOT NULL DEFAULT 0,
	started_at  DATETIME NOT NULL,
	finished_at DATETIME
);

CREATE TABLE IF NOT EXISTS results (
	run_id     TEXT NOT NULL REFERENCES runs(id),
	state_fips TEXT NOT NULL,
	region     TEXT NOT NULL,
	min        REAL,
	max        REAL,
	mean       REAL,
	stddev     REAL,
	count      INTEGER,
	error      TEXT,
	PRIMARY KEY (run_id, state_fips, region)
);

CREATE INDEX IF NOT EXISTS idx_results_run_id ON results(run_id);
`

// Migrate creates the schema if needed.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, migration)
	return eris.Wrap(err, "store: migrate")
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Run records one batch invocation.
type Run struct {
	ID         string
	Raster     string
	Boundaries string
	Regions    int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Result is one region's outcome within a run. Err is non-empty when the
// region failed (e.g. its bounding box fell outside the raster).
type Result struct {
	RunID     string
	StateFIPS string
	Region    string
	Stats     zonal.Stats
	Err       string
}

// CreateRun inserts a new run row and returns it.
func (s *Store) CreateRun(ctx context.Context, rasterPath, boundaryPath string) (*Run, error) {
	run := &Run{
		ID:         uuid.New().String(),
		Raster:     rasterPath,
		Boundaries: boundaryPath,
		StartedAt:  time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, raster, boundaries, started_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.Raster, run.Boundaries, run.StartedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "store: insert run")
	}
	return run, nil
}

// FinishRun stamps a run complete with its region count.
func (s *Store) FinishRun(ctx context.Context, runID string, regions int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET regions = ?, finished_at = ? WHERE id = ?`,
		regions, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "store: finish run %s", runID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "store: rows affected")
	}
	if n == 0 {
		return eris.Errorf("store: run %s not found", runID)
	}
	return nil
}

// InsertResult upserts one region result.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO results (run_id, state_fips, region, min, max, mean, stddev, count, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (run_id, state_fips, region) DO UPDATE SET
			min = excluded.min, max = excluded.max,
			mean = excluded.mean, stddev = excluded.stddev,
			count = excluded.count, error = excluded.error`,
		r.RunID, r.StateFIPS, r.Region,
		r.Stats.Min, r.Stats.Max, r.Stats.Mean, r.Stats.StdDev, r.Stats.Count,
		r.Err,
	)
	return eris.Wrap(err, "store: insert result")
}

// ListRuns returns runs newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, raster, boundaries, regions, started_at, COALESCE(finished_at, started_at)
		FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "store: query runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Raster, &r.Boundaries, &r.Regions, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, eris.Wrap(err, "store: scan run")
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "store: iterate runs")
}

// ResultsForRun returns the region results of one run, ordered by state and
// region name.
func (s *Store) ResultsForRun(ctx context.Context, runID string) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, state_fips, region, min, max, mean, stddev, count, error
		FROM results WHERE run_id = ? ORDER BY state_fips, region`, runID)
	if err != nil {
		return nil, eris.Wrap(err, "store: query results")
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.RunID, &r.StateFIPS, &r.Region,
			&r.Stats.Min, &r.Stats.Max, &r.Stats.Mean, &r.Stats.StdDev, &r.Stats.Count,
			&r.Err); err != nil {
			return nil, eris.Wrap(err, "store: scan result")
		}
		results = append(results, r)
	}
	return results, eris.Wrap(rows.Err(), "store: iterate results")
}
