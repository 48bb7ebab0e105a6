// Package store keeps the batch run history. Only run metadata lives here;
// customer state is recomputed from the snapshot every run and never
// persisted.
package store

import (
	"context"
	"time"
)

// RunStatus is the lifecycle state of one batch run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run is one recorded batch execution.
type Run struct {
	ID           string    `json:"id"`
	SnapshotPath string    `json:"snapshot_path"`
	ConfigHash   string    `json:"config_hash,omitempty"`
	Status       RunStatus `json:"status"`
	Customers    int       `json:"customers"`
	Excluded     int       `json:"excluded"`
	HighPriority int       `json:"high_priority"`
	OutputXLSX   string    `json:"output_xlsx,omitempty"`
	OutputJSON   string    `json:"output_json,omitempty"`
	Error        string    `json:"error,omitempty"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at,omitzero"`
}

// RunSummary carries the completion figures recorded with a finished run.
type RunSummary struct {
	Customers    int
	Excluded     int
	HighPriority int
	OutputXLSX   string
	OutputJSON   string
}

// Store records batch runs.
type Store interface {
	Migrate(ctx context.Context) error
	CreateRun(ctx context.Context, snapshotPath, configHash string) (*Run, error)
	CompleteRun(ctx context.Context, runID string, sum RunSummary) error
	FailRun(ctx context.Context, runID string, runErr error) error
	ListRuns(ctx context.Context, limit int) ([]*Run, error)
	GetRun(ctx context.Context, runID string) (*Run, error)
	Close() error
}
