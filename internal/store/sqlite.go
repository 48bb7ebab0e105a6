package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id            TEXT PRIMARY KEY,
	snapshot_path TEXT NOT NULL,
	config_hash   TEXT,
	status        TEXT NOT NULL DEFAULT 'running',
	customers     INTEGER NOT NULL DEFAULT 0,
	excluded      INTEGER NOT NULL DEFAULT 0,
	high_priority INTEGER NOT NULL DEFAULT 0,
	output_xlsx   TEXT,
	output_json   TEXT,
	error         TEXT,
	started_at    DATETIME NOT NULL DEFAULT (datetime('now')),
	finished_at   DATETIME
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateRun(ctx context.Context, snapshotPath, configHash string) (*Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, snapshot_path, config_hash, status, started_at) VALUES (?, ?, ?, ?, ?)`,
		id, snapshotPath, configHash, string(RunStatusRunning), now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}

	return &Run{
		ID:           id,
		SnapshotPath: snapshotPath,
		ConfigHash:   configHash,
		Status:       RunStatusRunning,
		StartedAt:    now,
	}, nil
}

func (s *SQLiteStore) CompleteRun(ctx context.Context, runID string, sum RunSummary) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, customers = ?, excluded = ?, high_priority = ?, output_xlsx = ?, output_json = ?, finished_at = ?
		 WHERE id = ?`,
		string(RunStatusCompleted), sum.Customers, sum.Excluded, sum.HighPriority,
		sum.OutputXLSX, sum.OutputJSON, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: complete run %s", runID)
	}
	return checkRowsAffected(res, runID)
}

func (s *SQLiteStore) FailRun(ctx context.Context, runID string, runErr error) error {
	msg := ""
	if runErr != nil {
		msg = runErr.Error()
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, error = ?, finished_at = ? WHERE id = ?`,
		string(RunStatusFailed), msg, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: fail run %s", runID)
	}
	return checkRowsAffected(res, runID)
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, snapshot_path, COALESCE(config_hash, ''), status, customers, excluded, high_priority,
		        COALESCE(output_xlsx, ''), COALESCE(output_json, ''), COALESCE(error, ''),
		        started_at, finished_at
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var out []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate runs")
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, snapshot_path, COALESCE(config_hash, ''), status, customers, excluded, high_priority,
		        COALESCE(output_xlsx, ''), COALESCE(output_json, ''), COALESCE(error, ''),
		        started_at, finished_at
		 FROM runs WHERE id = ?`, runID)

	r, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, eris.Errorf("sqlite: run %s not found", runID)
	}
	return r, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var r Run
	var status string
	var finished sql.NullTime
	err := row.Scan(&r.ID, &r.SnapshotPath, &r.ConfigHash, &status, &r.Customers, &r.Excluded,
		&r.HighPriority, &r.OutputXLSX, &r.OutputJSON, &r.Error, &r.StartedAt, &finished)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, eris.Wrap(err, "sqlite: scan run")
	}
	r.Status = RunStatus(status)
	if finished.Valid {
		r.FinishedAt = finished.Time
	}
	return &r, nil
}

func checkRowsAffected(res sql.Result, runID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Errorf("sqlite: run %s not found", runID)
	}
	return nil
}
