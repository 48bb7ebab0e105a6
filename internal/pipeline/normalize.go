// Package pipeline implements the CVO batch: field normalization, peer
// clustering, relative thresholds, strategic classification, co-occurrence
// indexing, NBO scoring and export.
package pipeline

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pln-iconplus/cvo-cli/internal/model"
)

var (
	bandwidthRe = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(MBPS|GBPS)`)
	ipCountRe   = regexp.MustCompile(`(?i)(\d+)\s*IP`)
	digitsRe    = regexp.MustCompile(`\d+`)
	quotedRe    = regexp.MustCompile(`^'(.*)'$`)
)

// ParseBandwidth interprets a raw bandwidth cell. The field mixes real
// bandwidth figures with IP address counts and free-text placeholders, so the
// returned type must be consulted before using the Mbps value.
func ParseBandwidth(raw string) (float64, model.BandwidthType) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, model.BandwidthNonConnectivity
	}
	switch strings.ToLower(s) {
	case "tidak ada", "-", "none":
		return 0, model.BandwidthNonConnectivity
	}

	// "5 IP" or "5 IP STATIC" is an address allocation, not a bandwidth
	// figure. A real MBPS/GBPS token elsewhere in the cell wins.
	if ipCountRe.MatchString(s) && !bandwidthRe.MatchString(s) {
		return 0, model.BandwidthIPOnly
	}

	if m := bandwidthRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
		if err == nil {
			if strings.EqualFold(m[2], "GBPS") {
				n *= 1000
			}
			return n, model.BandwidthConnectivity
		}
	}

	// Legacy E1 circuits, carried at their nominal 2 Mbps. The token may
	// sit inside a longer description ("E1 CIRCUIT").
	if strings.Contains(strings.ToUpper(s), "E1") {
		return 2, model.BandwidthConnectivity
	}

	if n, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64); err == nil && n >= 0 {
		return n, model.BandwidthConnectivity
	}

	return 0, model.BandwidthUnknown
}

// TenureResult is the outcome of cleaning one tenure cell.
type TenureResult struct {
	Years       float64
	RenewalRisk bool
	// NeedsMedian marks cells whose value must be backfilled with the
	// dataset median once the whole column has been read.
	NeedsMedian bool
}

// CleanTenure normalizes one raw tenure cell. capYears bounds obvious data
// entry errors; defaultYears is used when nothing at all can be recovered.
// "Berkontrak" rows are contracts pending renewal: tenure zero is a real
// business signal there, not missing data.
func CleanTenure(raw string, capYears float64) TenureResult {
	s := strings.TrimSpace(raw)
	if m := quotedRe.FindStringSubmatch(s); m != nil {
		s = strings.TrimSpace(m[1])
	}

	if s == "" {
		return TenureResult{NeedsMedian: true}
	}
	low := strings.ToLower(s)
	if strings.HasPrefix(low, "berkontrak") {
		return TenureResult{Years: 0, RenewalRisk: true}
	}
	if strings.Contains(low, "tidak valid") {
		return TenureResult{NeedsMedian: true}
	}

	if n, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64); err == nil && n >= 0 {
		if n > capYears {
			n = capYears
		}
		return TenureResult{Years: n}
	}

	// Free text with an embedded number, e.g. "3 tahun".
	if m := digitsRe.FindString(s); m != "" {
		n, _ := strconv.ParseFloat(m, 64)
		if n > capYears {
			n = capYears
		}
		return TenureResult{Years: n}
	}

	return TenureResult{NeedsMedian: true}
}

// ParseRevenue parses a rupiah amount that may carry currency prefixes,
// thousands dots and a decimal comma. Negative or unparseable values come
// back as zero.
func ParseRevenue(raw string) int64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	s = strings.TrimPrefix(strings.ToUpper(s), "RP")
	s = strings.TrimSpace(strings.Trim(s, "."))

	// "5.000.000,50" -> "5000000.50"
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else if strings.Count(s, ".") > 1 || thousandsDotted(s) {
		s = strings.ReplaceAll(s, ".", "")
	}
	s = strings.ReplaceAll(s, " ", "")

	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return 0
	}
	return d.Round(0).IntPart()
}

// thousandsDotted reports whether a single dot is a thousands separator
// rather than a decimal point, e.g. "5.000" but not "2.5".
func thousandsDotted(s string) bool {
	i := strings.Index(s, ".")
	if i < 0 {
		return false
	}
	return len(s)-i-1 == 3
}

// ARPUCategory buckets a monthly revenue into its named tier.
// Zero revenue is a bundled or free line item, not a broke customer.
func ARPUCategory(revenue, entryMax, midMax, highMax int64) (string, int) {
	switch {
	case revenue == 0:
		return "Bundled/Free", 0
	case revenue < entryMax:
		return "Entry", 1
	case revenue < midMax:
		return "Mid", 2
	case revenue < highMax:
		return "High", 3
	default:
		return "Enterprise", 4
	}
}
