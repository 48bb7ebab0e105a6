// Package propensity estimates upsell likelihood and customer lifetime
// value. The Scorer interface leaves room for an external model; the
// shipped implementation is a transparent heuristic over the strategic
// quadrant and the relationship age.
package propensity

import (
	"math"

	"go.uber.org/zap"

	"github.com/pln-iconplus/cvo-cli/internal/model"
)

// Scorer produces an upsell propensity in [0, 1] and a predicted lifetime
// value in rupiah for one customer.
type Scorer interface {
	Score(c *model.Customer) (upsell float64, clv int64)
}

// Heuristic is the rule-based fallback scorer. It encodes the sales team's
// prior: sniper-zone customers already consume more than they pay for,
// risk-area customers pay for more than they consume.
type Heuristic struct{}

// NewHeuristic returns the rule-based scorer.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// Score implements Scorer.
func (h *Heuristic) Score(c *model.Customer) (float64, int64) {
	var upsell float64
	switch c.Quadrant {
	case model.QuadrantSniper:
		upsell = 0.8
	case model.QuadrantRisk:
		upsell = 0.3
	default:
		upsell = 0.1
	}
	if c.ExcludeUpsell {
		upsell = 0
	}

	return upsell, predictCLV(c)
}

// predictCLV projects annualized revenue over the expected remaining
// relationship, which grows with demonstrated tenure.
func predictCLV(c *model.Customer) int64 {
	var horizon float64
	switch c.TenureCluster {
	case model.TenureLoyal:
		horizon = 5
	case model.TenureGrowing:
		horizon = 3
	default:
		horizon = 2
	}
	clv := float64(c.Revenue) * 12 * horizon
	return int64(math.Round(clv))
}

// Apply runs a scorer over the whole population in place.
func Apply(s Scorer, customers []*model.Customer) {
	for _, c := range customers {
		c.UpsellScore, c.PredictedCLV = s.Score(c)
	}
	zap.L().Info("propensity: scored customers", zap.Int("total", len(customers)))
}
