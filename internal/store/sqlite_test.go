package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestCreateAndGetRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "data/snapshot.xlsx", "cafe1234")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, RunStatusRunning, run.Status)

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "data/snapshot.xlsx", got.SnapshotPath)
	assert.Equal(t, "cafe1234", got.ConfigHash)
	assert.Equal(t, RunStatusRunning, got.Status)
	assert.True(t, got.FinishedAt.IsZero())
}

func TestCompleteRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "snap.xlsx", "")
	require.NoError(t, err)

	require.NoError(t, s.CompleteRun(ctx, run.ID, RunSummary{
		Customers:    420,
		Excluded:     12,
		HighPriority: 57,
		OutputXLSX:   "output/cvo_master.xlsx",
		OutputJSON:   "output/dashboard.json",
	}))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, RunStatusCompleted, got.Status)
	assert.Equal(t, 420, got.Customers)
	assert.Equal(t, 12, got.Excluded)
	assert.Equal(t, 57, got.HighPriority)
	assert.Equal(t, "output/cvo_master.xlsx", got.OutputXLSX)
	assert.False(t, got.FinishedAt.IsZero())
}

func TestFailRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "snap.xlsx", "")
	require.NoError(t, err)

	require.NoError(t, s.FailRun(ctx, run.ID, errors.New("snapshot missing columns")))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, RunStatusFailed, got.Status)
	assert.Contains(t, got.Error, "missing columns")
}

func TestUpdateUnknownRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.CompleteRun(ctx, "nope", RunSummary{})
	assert.Error(t, err)
	err = s.FailRun(ctx, "nope", errors.New("x"))
	assert.Error(t, err)
	_, err = s.GetRun(ctx, "nope")
	assert.Error(t, err)
}

func TestListRuns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.CreateRun(ctx, "snap.xlsx", "")
		require.NoError(t, err)
	}

	runs, err := s.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	runs, err = s.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}
