package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pln-iconplus/cvo-cli/internal/model"
	"github.com/pln-iconplus/cvo-cli/internal/store"
)

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "12345678", truncateID("123456789abcdef"))
	assert.Equal(t, "short", truncateID("short"))
}

func TestFormatRunsList(t *testing.T) {
	started := time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC)
	runs := []*store.Run{
		{
			ID:           "aaaabbbb-cccc-dddd-eeee-ffff00001111",
			SnapshotPath: "data/snapshot_agustus.xlsx",
			Status:       store.RunStatusCompleted,
			Customers:    420,
			Excluded:     12,
			HighPriority: 57,
			StartedAt:    started,
			FinishedAt:   started.Add(95 * time.Second),
		},
		{
			ID:           "22223333-4444-5555-6666-777788889999",
			SnapshotPath: "data/snapshot.xlsx",
			Status:       store.RunStatusRunning,
			StartedAt:    started,
		},
	}

	var buf bytes.Buffer
	formatRunsList(&buf, runs)
	out := buf.String()

	assert.Contains(t, out, "aaaabbbb")
	assert.Contains(t, out, "completed")
	assert.Contains(t, out, "420")
	assert.Contains(t, out, "57")
	assert.Contains(t, out, "1m35s")
	// Running run has no duration yet.
	assert.Contains(t, out, "running")
}

func TestFormatCatalog(t *testing.T) {
	products := []model.Product{
		{Name: "Basic Internet", Category: "Konektivitas", Nomenklatur: "DI-TS",
			Complexity: model.ComplexitySimple, CostTier: 1, MinBandwidthMbps: 5, Connectivity: true},
	}

	var buf bytes.Buffer
	formatCatalog(&buf, products)
	out := buf.String()

	assert.Contains(t, out, "Basic Internet")
	assert.Contains(t, out, "Simple")
	assert.Contains(t, out, "DI-TS")
}
