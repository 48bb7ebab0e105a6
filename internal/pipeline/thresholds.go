package pipeline

import (
	"math"

	"github.com/montanaflynn/stats"

	"github.com/pln-iconplus/cvo-cli/internal/model"
)

// ComputeThresholds derives the relative cut lines for every populated
// bandwidth cluster. Customers are only ever compared against members of
// their own cluster; a 20 Mbps line is large for a UMKM and trivial for an
// enterprise. Empty clusters get no entry at all.
func ComputeThresholds(customers []*model.Customer) map[model.BandwidthCluster]*model.ClusterThresholds {
	byCluster := make(map[model.BandwidthCluster][]*model.Customer)
	for _, c := range customers {
		byCluster[c.BandwidthCluster] = append(byCluster[c.BandwidthCluster], c)
	}

	out := make(map[model.BandwidthCluster]*model.ClusterThresholds, len(byCluster))
	for cluster, members := range byCluster {
		revs := make([]float64, len(members))
		bws := make([]float64, len(members))
		var maxTenure float64
		for i, c := range members {
			revs[i] = float64(c.Revenue)
			bws[i] = c.BandwidthMbps
			if c.TenureYears > maxTenure {
				maxTenure = c.TenureYears
			}
		}

		th := &model.ClusterThresholds{
			Cluster:         cluster,
			Members:         len(members),
			MedianRevenue:   medianOf(revs),
			MedianBandwidth: medianOf(bws),
			Q75Bandwidth:    percentileOf(bws, 75),
			Q75Revenue:      percentileOf(revs, 75),
			Q25Revenue:      percentileOf(revs, 25),
			MaxRevenue:      maxOf(revs),
			MaxBandwidth:    maxOf(bws),
			MaxTenure:       maxTenure,
		}
		out[cluster] = th
	}
	return out
}

// ApplyValueScores computes the composite value score and the relative flags
// for every customer, using only that customer's own cluster thresholds.
func ApplyValueScores(customers []*model.Customer, ths map[model.BandwidthCluster]*model.ClusterThresholds) {
	for _, c := range customers {
		th, ok := ths[c.BandwidthCluster]
		if !ok {
			continue
		}
		c.ValueScore = valueScore(c, th)
		c.HighValue = float64(c.Revenue) >= th.Q75Revenue
		c.HighBandwidth = c.BandwidthMbps >= th.Q75Bandwidth
		c.LowRevenue = float64(c.Revenue) < th.Q25Revenue
	}
}

// valueScore blends revenue, tenure and bandwidth, each normalized by the
// cluster maximum. Revenue dominates: it is the piece the business can bank.
func valueScore(c *model.Customer, th *model.ClusterThresholds) float64 {
	s := 0.5*normalize(float64(c.Revenue), th.MaxRevenue) +
		0.3*normalize(c.TenureYears, th.MaxTenure) +
		0.2*normalize(c.BandwidthMbps, th.MaxBandwidth)
	return math.Round(s*100) / 100
}

func normalize(v, max float64) float64 {
	if max <= 0 {
		return 0
	}
	if v >= max {
		return 1
	}
	return v / max
}

func medianOf(vals []float64) float64 {
	m, err := stats.Median(vals)
	if err != nil {
		return 0
	}
	return m
}

func percentileOf(vals []float64, p float64) float64 {
	// Percentile rejects single-element inputs; a singleton's value is its
	// own percentile at every rank.
	if len(vals) == 1 {
		return vals[0]
	}
	v, err := stats.Percentile(vals, p)
	if err != nil {
		return 0
	}
	return v
}

func maxOf(vals []float64) float64 {
	m, err := stats.Max(vals)
	if err != nil {
		return 0
	}
	return m
}
