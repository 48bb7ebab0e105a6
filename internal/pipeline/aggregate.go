package pipeline

import (
	"strings"

	"go.uber.org/zap"

	"github.com/pln-iconplus/cvo-cli/internal/config"
	"github.com/pln-iconplus/cvo-cli/internal/fetcher"
	"github.com/pln-iconplus/cvo-cli/internal/model"
)

// BuildCustomers collapses raw subscription rows into one customer per
// identity. Revenue sums across lines, bandwidth takes the largest
// connectivity line, products union. Categorical fields keep the first
// non-empty value seen, matching the snapshot's row order.
func BuildCustomers(rows []fetcher.SnapshotRow, cfg *config.Config) []*model.Customer {
	byName := make(map[string]*model.Customer)
	var order []string
	tenures := make(map[string]*tenureAgg)

	for _, row := range rows {
		key := strings.Join(strings.Fields(strings.ToUpper(row.CustomerName)), " ")
		c, ok := byName[key]
		if !ok {
			c = &model.Customer{
				Name:     strings.TrimSpace(row.CustomerName),
				Industry: strings.ToUpper(strings.TrimSpace(row.Segment)),
				Region:   strings.TrimSpace(row.Region),
				Category: strings.TrimSpace(row.Category),
				Tier:     strings.TrimSpace(row.Tier),
			}
			byName[key] = c
			order = append(order, key)
			tenures[key] = &tenureAgg{}
		}

		c.Revenue += ParseRevenue(row.Revenue)
		c.PreviousRevenue += ParseRevenue(row.PreviousRevenue)

		mbps, typ := ParseBandwidth(row.Bandwidth)
		mergeBandwidth(c, row.Bandwidth, mbps, typ)

		if p := strings.TrimSpace(row.Product); p != "" && !contains(c.Products, p) {
			c.Products = append(c.Products, p)
		}
		fillEmpty(&c.Industry, strings.ToUpper(strings.TrimSpace(row.Segment)))
		fillEmpty(&c.Region, strings.TrimSpace(row.Region))
		fillEmpty(&c.Category, strings.TrimSpace(row.Category))
		fillEmpty(&c.Tier, strings.TrimSpace(row.Tier))

		tr := CleanTenure(row.Tenure, cfg.Pipeline.TenureCapYears)
		agg := tenures[key]
		agg.renewalRisk = agg.renewalRisk || tr.RenewalRisk
		switch {
		case tr.RenewalRisk:
			// A renewing contract pins tenure to zero whatever the
			// other rows say; the window matters more than the history.
			agg.years = 0
			agg.resolved = true
		case tr.NeedsMedian:
			agg.needsMedian = true
		default:
			if !agg.resolved || tr.Years > agg.years {
				agg.years = tr.Years
			}
			if agg.renewalRisk {
				agg.years = 0
			}
			agg.resolved = true
		}
	}

	// Backfill unreadable tenures with the dataset median of the readable
	// ones, so one dirty cell does not skew a whole cluster.
	med := tenureMedian(tenures, cfg.Pipeline.TenureDefault)
	customers := make([]*model.Customer, 0, len(order))
	for _, key := range order {
		c := byName[key]
		agg := tenures[key]
		switch {
		case agg.resolved:
			c.TenureYears = agg.years
		case agg.needsMedian:
			c.TenureYears = med
		default:
			c.TenureYears = cfg.Pipeline.TenureDefault
		}
		c.RenewalRisk = agg.renewalRisk
		if c.RenewalRisk {
			c.TenureYears = 0
		}

		c.Industry = ResolveIndustry(c.Name, c.Industry)
		c.ARPUCategory, c.ARPULevel = ARPUCategory(c.Revenue,
			cfg.ARPU.EntryMax, cfg.ARPU.MidMax, cfg.ARPU.HighMax)
		c.BandwidthCluster = AssignCluster(c.BandwidthMbps, c.BandwidthType, cfg.Segments)
		c.TenureCluster = TenureClusterFor(c.TenureYears)

		customers = append(customers, c)
	}

	zap.L().Info("pipeline: customers aggregated",
		zap.Int("rows", len(rows)),
		zap.Int("customers", len(customers)))
	return customers
}

// mergeBandwidth keeps the strongest signal across a customer's lines:
// any real connectivity beats an IP allocation, which beats nothing.
func mergeBandwidth(c *model.Customer, raw string, mbps float64, typ model.BandwidthType) {
	rank := bandwidthRank(typ)
	current := bandwidthRank(c.BandwidthType)

	switch {
	case c.BandwidthType == "":
		c.BandwidthRaw = raw
		c.BandwidthMbps = mbps
		c.BandwidthType = typ
	case rank > current:
		c.BandwidthRaw = raw
		c.BandwidthMbps = mbps
		c.BandwidthType = typ
	case rank == current && mbps > c.BandwidthMbps:
		c.BandwidthRaw = raw
		c.BandwidthMbps = mbps
	}
}

func bandwidthRank(typ model.BandwidthType) int {
	switch typ {
	case model.BandwidthConnectivity:
		return 3
	case model.BandwidthIPOnly:
		return 2
	case model.BandwidthNonConnectivity:
		return 1
	default:
		return 0
	}
}

type tenureAgg struct {
	years       float64
	renewalRisk bool
	needsMedian bool
	resolved    bool
}

func tenureMedian(tenures map[string]*tenureAgg, fallback float64) float64 {
	var vals []float64
	for _, agg := range tenures {
		if agg.resolved && !agg.renewalRisk {
			vals = append(vals, agg.years)
		}
	}
	if len(vals) == 0 {
		return fallback
	}
	return medianOf(vals)
}

func fillEmpty(dst *string, v string) {
	if *dst == "" && v != "" {
		*dst = v
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
