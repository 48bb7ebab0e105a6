package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pln-iconplus/cvo-cli/internal/config"
	"github.com/pln-iconplus/cvo-cli/internal/model"
)

var testWeights = config.ScoringConfig{
	TierGap:       15,
	CategoryMatch: 15,
	Bandwidth:     15,
	Industry:      15,
	CoOccurrence:  10,
	Regional:      5,
	Affordability: 15,
	Complexity:    10,
	TopK:          3,
}

func testProduct(name string, order int) model.Product {
	return model.Product{
		Name:         name,
		Category:     "KONEKTIVITAS",
		Connectivity: true,
		Complexity:   model.ComplexityMedium,
		CostTier:     2,
		Order:        order,
	}
}

func scorerWith(products ...model.Product) *NBOScorer {
	return NewNBOScorer(testWeights, products, BuildCoOccurrence(nil))
}

func TestRecommend_SkipsOwnedProducts(t *testing.T) {
	c := &model.Customer{
		Name:     "c",
		Revenue:  2_000_000,
		Products: []string{"Internet Standard"},
	}
	s := scorerWith(testProduct("Internet Standard", 0), testProduct("VPN Standard", 1))

	recs := s.Recommend(c)
	require.Len(t, recs, 1)
	assert.Equal(t, "VPN Standard", recs[0].Product)
}

func TestRecommend_TopKAndTieBreakByCatalogOrder(t *testing.T) {
	// Four identical products: identical scores, catalog order decides.
	s := scorerWith(
		testProduct("P0", 0), testProduct("P1", 1),
		testProduct("P2", 2), testProduct("P3", 3),
	)
	c := &model.Customer{Name: "c", Revenue: 2_000_000, ARPULevel: 2, BandwidthMbps: 100}

	recs := s.Recommend(c)
	require.Len(t, recs, 3)
	assert.Equal(t, []string{"P0", "P1", "P2"},
		[]string{recs[0].Product, recs[1].Product, recs[2].Product})
	assert.Equal(t, recs[0].Score, recs[1].Score)
}

func TestRecommend_ExcludedCustomerGetsNoConnectivityUpsell(t *testing.T) {
	crossSell := testProduct("Managed CCTV", 1)
	crossSell.Connectivity = false
	crossSell.Category = "DIGITAL"

	s := scorerWith(testProduct("Internet Upgrade", 0), crossSell)
	c := &model.Customer{
		Name:          "atm",
		Revenue:       300_000,
		ExcludeUpsell: true,
	}

	recs := s.Recommend(c)
	require.Len(t, recs, 1)
	assert.Equal(t, "Managed CCTV", recs[0].Product)
}

func TestRecommend_ExclusionDampensCrossSell(t *testing.T) {
	p := testProduct("Managed CCTV", 0)
	p.Connectivity = false
	s := scorerWith(p)

	base := &model.Customer{Name: "a", Revenue: 2_000_000, ARPULevel: 2, BandwidthMbps: 100}
	excluded := &model.Customer{Name: "b", Revenue: 2_000_000, ARPULevel: 2, BandwidthMbps: 100,
		ExcludeUpsell: true}

	baseRecs := s.Recommend(base)
	exclRecs := s.Recommend(excluded)
	require.Len(t, baseRecs, 1)
	require.Len(t, exclRecs, 1)
	assert.Less(t, exclRecs[0].Score, baseRecs[0].Score)
	assert.InDelta(t, baseRecs[0].Score*0.7, exclRecs[0].Score, 0.01)
}

func TestScore_IPOnlyGetsFullBandwidthCredit(t *testing.T) {
	p := testProduct("Internet Dedicated", 0)
	p.MinBandwidthMbps = 50
	s := scorerWith(p)

	c := &model.Customer{
		Name:          "ip-only",
		Revenue:       2_000_000,
		ARPULevel:     2,
		BandwidthType: model.BandwidthIPOnly,
		BandwidthMbps: 0,
	}

	_, components := s.score(c, &p)
	assert.InDelta(t, 15, components["bandwidth"], 0.001)
}

func TestScore_BandwidthHeadroomLadder(t *testing.T) {
	p := testProduct("Service", 0)
	p.MinBandwidthMbps = 100
	s := scorerWith(p)

	tests := []struct {
		mbps float64
		want float64
	}{
		{200, 15},
		{150, 15},
		{100, 10},
		{50, 5},
		{10, 2},
	}
	for _, tt := range tests {
		c := &model.Customer{BandwidthType: model.BandwidthConnectivity, BandwidthMbps: tt.mbps}
		_, components := s.score(c, &p)
		assert.InDelta(t, tt.want, components["bandwidth"], 0.001, "mbps=%v", tt.mbps)
	}
}

func TestScore_IndustryFit(t *testing.T) {
	targeted := testProduct("Gov Cloud", 0)
	targeted.TargetIndustries = []string{"GOVERNMENT", "BANKING"}

	security := testProduct("Managed Security", 1)
	security.Category = "SECURITY"

	iot := testProduct("IoT Platform", 2)
	iot.Category = "IOT"

	s := scorerWith(targeted, security, iot)

	bank := &model.Customer{Industry: "BANKING"}
	_, comp := s.score(bank, &targeted)
	assert.InDelta(t, 15, comp["industry"], 0.001)

	_, comp = s.score(bank, &security)
	assert.InDelta(t, 12, comp["industry"], 0.001)

	factory := &model.Customer{Industry: "MANUFACTURE"}
	_, comp = s.score(factory, &iot)
	assert.InDelta(t, 12, comp["industry"], 0.001)

	retail := &model.Customer{Industry: "RETAIL"}
	_, comp = s.score(retail, &targeted)
	assert.InDelta(t, 5, comp["industry"], 0.001)
}

func TestScore_CoOccurrence(t *testing.T) {
	customers := []*model.Customer{
		{Name: "a", Products: []string{"Internet", "VPN"}},
		{Name: "b", Products: []string{"Internet", "VPN"}},
		{Name: "c", Products: []string{"Internet"}},
	}
	co := BuildCoOccurrence(customers)
	p := testProduct("VPN", 0)
	s := NewNBOScorer(testWeights, []model.Product{p}, co)

	// 2 of 3 Internet holders hold VPN: 0.667*20 = 13.3, capped at 10.
	holder := &model.Customer{Products: []string{"Internet"}}
	_, comp := s.score(holder, &p)
	assert.InDelta(t, 10, comp["co_occurrence"], 0.001)

	// No products at all: neutral midpoint, not zero.
	empty := &model.Customer{}
	_, comp = s.score(empty, &p)
	assert.InDelta(t, 5, comp["co_occurrence"], 0.001)
}

func TestScore_AffordabilityGapLadder(t *testing.T) {
	p := testProduct("Service", 0)
	p.CostTier = 2
	s := scorerWith(p)

	tests := []struct {
		arpuLevel int
		want      float64
	}{
		{2, 15},
		{1, 12},
		{3, 12},
		{4, 7},
	}
	for _, tt := range tests {
		c := &model.Customer{Revenue: 5_000_000, ARPULevel: tt.arpuLevel}
		_, comp := s.score(c, &p)
		assert.InDelta(t, tt.want, comp["affordability"], 0.001, "arpu=%d", tt.arpuLevel)
	}
}

func TestScore_BundledCustomerAffordability(t *testing.T) {
	cheap := testProduct("Basic Internet", 0)
	cheap.CostTier = 1
	pricey := testProduct("Premium WAN", 1)
	pricey.CostTier = 3
	s := scorerWith(cheap, pricey)

	bundled := &model.Customer{Revenue: 0, ARPULevel: 0}
	_, comp := s.score(bundled, &cheap)
	assert.InDelta(t, 8, comp["affordability"], 0.001)
	_, comp = s.score(bundled, &pricey)
	assert.InDelta(t, 3, comp["affordability"], 0.001)
}

func TestScore_RenewalSteeredToSimpleProducts(t *testing.T) {
	simple := testProduct("Basic Internet", 0)
	simple.Complexity = model.ComplexitySimple
	complexP := testProduct("Managed Premium WAN", 1)
	complexP.Complexity = model.ComplexityComplex
	s := scorerWith(simple, complexP)

	renewal := &model.Customer{TenureYears: 0, RenewalRisk: true}
	_, comp := s.score(renewal, &simple)
	assert.InDelta(t, 10, comp["complexity"], 0.001)
	_, comp = s.score(renewal, &complexP)
	assert.InDelta(t, 3, comp["complexity"], 0.001)
}

func TestScore_RetentionProductExemptFromSimpleSteering(t *testing.T) {
	keeper := testProduct("Managed Loyalty WAN", 0)
	keeper.Complexity = model.ComplexityComplex
	keeper.Retention = true
	s := scorerWith(keeper)

	renewal := &model.Customer{TenureYears: 0, RenewalRisk: true}
	_, comp := s.score(renewal, &keeper)
	assert.InDelta(t, 10, comp["complexity"], 0.001)
}

func TestScore_MidTenureTakesAnyComplexity(t *testing.T) {
	complexP := testProduct("Managed Premium WAN", 0)
	complexP.Complexity = model.ComplexityComplex
	s := scorerWith(complexP)

	c := &model.Customer{TenureYears: 4}
	_, comp := s.score(c, &complexP)
	assert.InDelta(t, 10, comp["complexity"], 0.001)
}

func TestScore_NeverExceeds100(t *testing.T) {
	p := testProduct("Perfect Product", 0)
	p.TargetIndustries = []string{"BANKING"}
	p.MinBandwidthMbps = 0
	s := scorerWith(p)

	c := &model.Customer{
		Revenue:       5_000_000,
		ARPULevel:     2,
		Industry:      "BANKING",
		Tier:          "Tier 2",
		TenureYears:   4,
		BandwidthMbps: 100,
		BandwidthType: model.BandwidthConnectivity,
	}
	score, _ := s.score(c, &p)
	assert.LessOrEqual(t, score, 100.0)
	assert.Greater(t, score, 80.0)
}

func TestReasoning_NamesStrongFactors(t *testing.T) {
	p := testProduct("Gov Cloud", 0)
	p.TargetIndustries = []string{"GOVERNMENT"}
	s := scorerWith(p)

	c := &model.Customer{Industry: "GOVERNMENT", Revenue: 5_000_000, ARPULevel: 2,
		BandwidthMbps: 100, TenureYears: 3}
	recs := s.Recommend(c)
	require.Len(t, recs, 1)
	assert.Contains(t, recs[0].Reasoning, "industry fit")
	assert.NotEmpty(t, recs[0].Components)
}

func TestReasoning_RenewalWindowPhrase(t *testing.T) {
	p := testProduct("Basic Internet", 0)
	p.Complexity = model.ComplexitySimple
	s := scorerWith(p)

	renewal := &model.Customer{TenureYears: 0, RenewalRisk: true}
	recs := s.Recommend(renewal)
	require.Len(t, recs, 1)
	assert.Contains(t, recs[0].Reasoning, "renewal window")
	assert.NotContains(t, recs[0].Reasoning, "account maturity")
}
