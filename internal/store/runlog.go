// Package store persists a log of harvest runs in a local SQLite database.
// The pipeline itself stays stateless; the run log is recorded at the
// command boundary after each harvest so operators have an audit trail.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// RunRecord summarizes one completed (or failed) harvest invocation.
type RunRecord struct {
	ID          string    `json:"id"`
	UploadDir   string    `json:"upload_dir"`
	Company     string    `json:"company"`
	OutDir      string    `json:"out_dir"`
	Metrics     int       `json:"metrics"`
	Citations   int       `json:"citations"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	Error       string    `json:"error,omitempty"`
}

// RunLog stores harvest run records in SQLite.
type RunLog struct {
	db *sql.DB
}

// Open opens (or creates) the run log database at the given path and
// applies the schema.
func Open(path string) (*RunLog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "store: open sqlite")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "store: exec %s", pragma)
		}
	}

	const migration = `
CREATE TABLE IF NOT EXISTS harvest_runs (
	id           TEXT PRIMARY KEY,
	upload_dir   TEXT NOT NULL DEFAULT '',
	company      TEXT NOT NULL DEFAULT '',
	out_dir      TEXT NOT NULL DEFAULT '',
	metrics      INTEGER NOT NULL DEFAULT 0,
	citations    INTEGER NOT NULL DEFAULT 0,
	started_at   DATETIME NOT NULL,
	completed_at DATETIME NOT NULL,
	error        TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_harvest_runs_started_at ON harvest_runs(started_at);
`
	if _, err := db.Exec(migration); err != nil {
		db.Close() //nolint:errcheck
		return nil, eris.Wrap(err, "store: migrate")
	}

	return &RunLog{db: db}, nil
}

// Close closes the underlying database.
func (r *RunLog) Close() error {
	return r.db.Close()
}

// Record inserts one run record. If the record has no ID, one is assigned
// and returned through the record pointer.
func (r *RunLog) Record(ctx context.Context, rec *RunRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO harvest_runs
		 (id, upload_dir, company, out_dir, metrics, citations, started_at, completed_at, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.UploadDir, rec.Company, rec.OutDir, rec.Metrics, rec.Citations,
		rec.StartedAt.UTC(), rec.CompletedAt.UTC(), rec.Error,
	)
	if err != nil {
		return eris.Wrap(err, "store: insert run")
	}
	return nil
}

// Recent returns the most recent runs, newest first.
func (r *RunLog) Recent(ctx context.Context, limit int) ([]RunRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, upload_dir, company, out_dir, metrics, citations, started_at, completed_at, error
		 FROM harvest_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "store: query runs")
	}
	defer rows.Close() //nolint:errcheck

	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		if err := rows.Scan(&rec.ID, &rec.UploadDir, &rec.Company, &rec.OutDir,
			&rec.Metrics, &rec.Citations, &rec.StartedAt, &rec.CompletedAt, &rec.Error); err != nil {
			return nil, eris.Wrap(err, "store: scan run")
		}
		out = append(out, rec)
	}
	return out, eris.Wrap(rows.Err(), "store: iterate runs")
}
