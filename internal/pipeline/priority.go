package pipeline

import (
	"math"

	"github.com/pln-iconplus/cvo-cli/internal/config"
	"github.com/pln-iconplus/cvo-cli/internal/model"
)

// PriorityFor buckets a customer for the sales queue. A near-perfect offer
// or a big wallet jumps the line; a mid-size wallet at renewal time is a
// closing window and counts as big.
func PriorityFor(c *model.Customer, topScore float64, arpu config.ARPUConfig) model.Priority {
	switch {
	case topScore >= 80:
		return model.PriorityHigh
	case c.Revenue >= arpu.HighMax:
		return model.PriorityHigh
	case c.Revenue >= arpu.MidMax && c.TenureYears == 0:
		return model.PriorityHigh
	case topScore >= 60:
		return model.PriorityMedium
	default:
		return model.PriorityLow
	}
}

// PotentialRevenue sizes the opportunity. Only customers the model actually
// expects to move get a number; everyone else stays at zero rather than
// inflating the pipeline figure.
func PotentialRevenue(c *model.Customer) int64 {
	if c.UpsellScore <= 0.5 {
		return 0
	}
	return int64(math.Round(float64(c.PredictedCLV) * 0.3))
}
