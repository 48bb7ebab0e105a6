// Package report renders the executive summary of a batch run.
package report

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/pln-iconplus/cvo-cli/internal/model"
	"github.com/pln-iconplus/cvo-cli/internal/pipeline"
)

var printer = message.NewPrinter(language.Indonesian)

// rupiah renders an amount with Indonesian digit grouping.
func rupiah(v int64) string {
	return printer.Sprintf("Rp %d", v)
}

// Summary renders the run as a plain-text executive brief.
func Summary(res *pipeline.Result) string {
	var b strings.Builder

	var totalRevenue, totalPotential int64
	quadrants := make(map[string]int)
	priorities := make(map[string]int)
	for _, c := range res.Customers {
		totalRevenue += c.Revenue
		quadrants[c.Quadrant.Display()]++
	}
	for _, r := range res.Records {
		totalPotential += r.PotentialRevenue
		priorities[r.Priority]++
	}

	fmt.Fprintf(&b, "CVO BATCH SUMMARY\n")
	fmt.Fprintf(&b, "=================\n\n")
	fmt.Fprintf(&b, "Customers analyzed:   %d\n", len(res.Customers))
	fmt.Fprintf(&b, "Excluded from upsell: %d\n", res.Excluded)
	fmt.Fprintf(&b, "Monthly revenue:      %s\n", rupiah(totalRevenue))
	fmt.Fprintf(&b, "Potential pipeline:   %s\n\n", rupiah(totalPotential))

	fmt.Fprintf(&b, "Priorities\n")
	for _, p := range []string{"High", "Medium", "Low"} {
		fmt.Fprintf(&b, "  %-8s %d\n", p, priorities[p])
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Quadrants\n")
	for _, line := range sortedCounts(quadrants) {
		fmt.Fprintf(&b, "  %s\n", line)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Clusters\n")
	for _, cluster := range model.AllBandwidthClusters() {
		th, ok := res.Thresholds[cluster]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "  %-12s members=%d median_revenue=%s\n",
			cluster, th.Members, rupiah(int64(th.MedianRevenue)))
	}

	top := topOpportunities(res, 5)
	if len(top) > 0 {
		fmt.Fprintf(&b, "\nTop opportunities\n")
		for _, r := range top {
			fmt.Fprintf(&b, "  %-30s %-8s potential=%s\n",
				r.CustomerName, r.Priority, rupiah(r.PotentialRevenue))
		}
	}

	return b.String()
}

// WriteSummary writes the brief to disk.
func WriteSummary(path string, res *pipeline.Result) error {
	if err := os.WriteFile(path, []byte(Summary(res)), 0o644); err != nil {
		return eris.Wrapf(err, "report: write %s", path)
	}
	return nil
}

func sortedCounts(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if m[keys[i]] != m[keys[j]] {
			return m[keys[i]] > m[keys[j]]
		}
		return keys[i] < keys[j]
	})
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = fmt.Sprintf("%-24s %d", k, m[k])
	}
	return out
}

func topOpportunities(res *pipeline.Result, n int) []model.DashboardRecord {
	recs := make([]model.DashboardRecord, len(res.Records))
	copy(recs, res.Records)
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].PotentialRevenue > recs[j].PotentialRevenue
	})
	var out []model.DashboardRecord
	for _, r := range recs {
		if r.PotentialRevenue <= 0 {
			break
		}
		out = append(out, r)
		if len(out) == n {
			break
		}
	}
	return out
}
