package pipeline

import (
	"go.uber.org/zap"

	"github.com/pln-iconplus/cvo-cli/internal/config"
	"github.com/pln-iconplus/cvo-cli/internal/model"
)

// Classify assigns every customer a strategic quadrant and sales action.
// Thresholds are relative to the customer's own cluster; meeting a threshold
// exactly counts as high, so a singleton cluster always lands on the high
// side of its own cut lines.
func Classify(customers []*model.Customer, ths map[model.BandwidthCluster]*model.ClusterThresholds, seg config.SegmentsConfig) {
	var excluded int
	for _, c := range customers {
		applyExclusions(c, seg)
		if c.ExcludeUpsell {
			excluded++
			c.Quadrant = model.QuadrantExcluded
			c.Strategy = model.Strategy(c.ExclusionReason)
			continue
		}

		th, ok := ths[c.BandwidthCluster]
		if !ok {
			c.Quadrant = model.QuadrantUncategorized
			c.Strategy = model.StrategyAnalyze
			continue
		}

		highRev := float64(c.Revenue) >= th.MedianRevenue
		highBW := c.BandwidthMbps >= th.MedianBandwidth
		c.Quadrant, c.Strategy = classifyInCluster(c, highRev, highBW)
	}
	zap.L().Info("pipeline: classified customers",
		zap.Int("total", len(customers)),
		zap.Int("excluded_upsell", excluded))
}

// applyExclusions flags customers that upsell offers must skip. ATM and IoT
// endpoints run on deliberately thin links; enterprise lines already above
// the ceiling have nowhere to grow. Cross-sell stays open for both.
func applyExclusions(c *model.Customer, seg config.SegmentsConfig) {
	switch {
	case c.BandwidthCluster == model.ClusterATMIoT && c.BandwidthMbps < seg.ATMIoTMaxMbps:
		c.ExcludeUpsell = true
		c.ExclusionReason = "device-grade bandwidth"
	case c.BandwidthCluster == model.ClusterEnterprise && c.BandwidthMbps > seg.EnterpriseCeiling:
		c.ExcludeUpsell = true
		c.ExclusionReason = "bandwidth above enterprise ceiling"
	}
}

func classifyInCluster(c *model.Customer, highRev, highBW bool) (model.Quadrant, model.Strategy) {
	switch c.BandwidthCluster {
	case model.ClusterCorporate:
		switch {
		case highRev && highBW:
			return model.QuadrantStar, model.StrategyRetention
		case highRev:
			return model.QuadrantRisk, model.StrategyCrossSell
		case highBW:
			return model.QuadrantSniper, model.StrategyUpsell
		default:
			return model.QuadrantIncubator, model.StrategyAutomate
		}

	case model.ClusterEnterprise:
		switch {
		case highRev && highBW:
			return model.QuadrantEnterpriseStar, model.StrategyRetention
		case highRev:
			return model.QuadrantISPPotential, model.StrategyCrossSell
		case highBW:
			return model.QuadrantBackboneOptimize, model.StrategyEfficiency
		default:
			return model.QuadrantEnterpriseNew, model.StrategyBuild
		}

	case model.ClusterUMKMSmall:
		if highRev {
			return model.QuadrantUMKMPotential, model.StrategyUpsell
		}
		return model.QuadrantUMKMStarter, model.StrategyEducate

	case model.ClusterNoBandwidth:
		// The bandwidth axis carries no information here.
		if highRev {
			return model.QuadrantNonBWHighValue, model.StrategyCrossSell
		}
		return model.QuadrantNonBWEntry, model.StrategyEducate

	case model.ClusterIPOnly:
		// Already paying for addresses without transit: the natural move
		// is a connectivity bundle.
		return model.QuadrantIPOnlyBundle, model.StrategyCrossSell

	case model.ClusterATMIoT:
		return model.QuadrantATMIoT, model.StrategyMaintain
	}

	return model.QuadrantUncategorized, model.StrategyAnalyze
}

// ClassifyTrust assigns the second strategic matrix. It runs after the
// propensity layer has filled in predicted lifetime values, since the high
// side of the value axis is the population median CLV.
func ClassifyTrust(customers []*model.Customer) {
	medCLV := medianCLV(customers)
	for _, c := range customers {
		c.TrustQuadrant = trustQuadrant(c, medCLV)
	}
}

// trustQuadrant crosses predicted lifetime value with relationship age.
func trustQuadrant(c *model.Customer, medCLV float64) model.TrustQuadrant {
	highCLV := float64(c.PredictedCLV) >= medCLV
	loyal := c.TenureCluster != model.TenureNew

	switch {
	case highCLV && loyal:
		return model.TrustSultanLoyal
	case highCLV:
		return model.TrustNewPotential
	case loyal:
		return model.TrustLoyalLow
	default:
		return model.TrustNewLow
	}
}

func medianCLV(population []*model.Customer) float64 {
	clvs := make([]float64, len(population))
	for i, c := range population {
		clvs[i] = float64(c.PredictedCLV)
	}
	return medianOf(clvs)
}

// TrustAction maps a trust quadrant to its sales motion.
var TrustAction = map[model.TrustQuadrant]string{
	model.TrustSultanLoyal:  "BIG-TICKET",
	model.TrustNewPotential: "ONBOARD",
	model.TrustLoyalLow:     "NUDGE",
	model.TrustNewLow:       "INCUBATE",
}
