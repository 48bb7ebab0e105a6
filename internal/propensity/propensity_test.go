package propensity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pln-iconplus/cvo-cli/internal/model"
)

func TestHeuristicUpsellByQuadrant(t *testing.T) {
	h := NewHeuristic()

	tests := []struct {
		quadrant model.Quadrant
		want     float64
	}{
		{model.QuadrantSniper, 0.8},
		{model.QuadrantRisk, 0.3},
		{model.QuadrantStar, 0.1},
		{model.QuadrantIncubator, 0.1},
		{model.QuadrantUMKMStarter, 0.1},
	}
	for _, tt := range tests {
		upsell, _ := h.Score(&model.Customer{Quadrant: tt.quadrant})
		assert.InDelta(t, tt.want, upsell, 0.001, "quadrant=%s", tt.quadrant)
	}
}

func TestHeuristicExclusionZeroesUpsell(t *testing.T) {
	h := NewHeuristic()
	upsell, _ := h.Score(&model.Customer{
		Quadrant:      model.QuadrantSniper,
		ExcludeUpsell: true,
	})
	assert.Zero(t, upsell)
}

func TestHeuristicCLVGrowsWithTenure(t *testing.T) {
	h := NewHeuristic()

	base := model.Customer{Revenue: 1_000_000}

	newbie := base
	newbie.TenureCluster = model.TenureNew
	_, newCLV := h.Score(&newbie)
	assert.Equal(t, int64(24_000_000), newCLV)

	growing := base
	growing.TenureCluster = model.TenureGrowing
	_, growCLV := h.Score(&growing)
	assert.Equal(t, int64(36_000_000), growCLV)

	loyal := base
	loyal.TenureCluster = model.TenureLoyal
	_, loyalCLV := h.Score(&loyal)
	assert.Equal(t, int64(60_000_000), loyalCLV)
}

func TestApply(t *testing.T) {
	customers := []*model.Customer{
		{Quadrant: model.QuadrantSniper, Revenue: 500_000, TenureCluster: model.TenureNew},
		{Quadrant: model.QuadrantStar, Revenue: 2_000_000, TenureCluster: model.TenureLoyal},
	}

	Apply(NewHeuristic(), customers)

	assert.InDelta(t, 0.8, customers[0].UpsellScore, 0.001)
	assert.Equal(t, int64(12_000_000), customers[0].PredictedCLV)
	assert.InDelta(t, 0.1, customers[1].UpsellScore, 0.001)
	assert.Equal(t, int64(120_000_000), customers[1].PredictedCLV)
}
