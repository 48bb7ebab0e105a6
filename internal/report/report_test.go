package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pln-iconplus/cvo-cli/internal/model"
	"github.com/pln-iconplus/cvo-cli/internal/pipeline"
)

func sampleResult() *pipeline.Result {
	return &pipeline.Result{
		Customers: []*model.Customer{
			{Name: "PT Alpha", Revenue: 5_000_000, Quadrant: model.QuadrantStar},
			{Name: "PT Beta", Revenue: 1_000_000, Quadrant: model.QuadrantSniper},
		},
		Records: []model.DashboardRecord{
			{CustomerName: "PT Alpha", Priority: "High", PotentialRevenue: 54_000_000},
			{CustomerName: "PT Beta", Priority: "Low", PotentialRevenue: 0},
		},
		Thresholds: map[model.BandwidthCluster]*model.ClusterThresholds{
			model.ClusterCorporate: {Cluster: model.ClusterCorporate, Members: 2, MedianRevenue: 3_000_000},
		},
		Excluded: 1,
	}
}

func TestSummary(t *testing.T) {
	s := Summary(sampleResult())

	assert.Contains(t, s, "Customers analyzed:   2")
	assert.Contains(t, s, "Excluded from upsell: 1")
	// Indonesian digit grouping uses dots.
	assert.Contains(t, s, "Rp 6.000.000")
	assert.Contains(t, s, "Star Client")
	assert.Contains(t, s, "Sniper Zone")
	assert.Contains(t, s, "PT Alpha")
	// Zero-potential accounts stay out of the opportunity list.
	assert.NotContains(t, s, "PT Beta                        Low")
}

func TestWriteSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.txt")
	require.NoError(t, WriteSummary(path, sampleResult()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "CVO BATCH SUMMARY")
}
