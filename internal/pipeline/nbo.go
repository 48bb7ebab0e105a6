package pipeline

import (
	"math"
	"sort"
	"strings"

	"github.com/pln-iconplus/cvo-cli/internal/config"
	"github.com/pln-iconplus/cvo-cli/internal/model"
)

// NBOScorer ranks catalog products for one customer with a weighted
// multi-factor score. Factor weights come from configuration and sum
// to 100, so a raw score is already a percentage.
type NBOScorer struct {
	weights  config.ScoringConfig
	products []model.Product
	co       *CoOccurrence
}

// NewNBOScorer builds a scorer over the loaded catalog and the
// co-occurrence index of the current snapshot.
func NewNBOScorer(weights config.ScoringConfig, products []model.Product, co *CoOccurrence) *NBOScorer {
	return &NBOScorer{weights: weights, products: products, co: co}
}

// Recommend returns the top-K offers for a customer, best first. Products
// the customer already holds are never offered. Upsell-excluded customers
// get no connectivity upgrades and a dampened score on everything else.
func (s *NBOScorer) Recommend(c *model.Customer) []model.Recommendation {
	owned := make(map[string]struct{}, len(c.Products))
	for _, p := range c.Products {
		owned[p] = struct{}{}
	}

	var recs []model.Recommendation
	for i := range s.products {
		p := &s.products[i]
		if _, has := owned[p.Name]; has {
			continue
		}
		if c.ExcludeUpsell && p.Connectivity {
			continue
		}

		score, components := s.score(c, p)
		if c.ExcludeUpsell {
			// Cross-sell stays open but never outranks a clean account.
			score = math.Round(score*0.7*100) / 100
		}

		recs = append(recs, model.Recommendation{
			Product:    p.Name,
			Score:      score,
			Reasoning:  s.reasoning(c, components),
			Components: components,
		})
	}

	// Ties resolve by catalog order so output is stable run to run.
	order := make(map[string]int, len(s.products))
	for i := range s.products {
		order[s.products[i].Name] = s.products[i].Order
	}
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return order[recs[i].Product] < order[recs[j].Product]
	})

	if len(recs) > s.weights.TopK {
		recs = recs[:s.weights.TopK]
	}
	return recs
}

func (s *NBOScorer) score(c *model.Customer, p *model.Product) (float64, map[string]float64) {
	components := map[string]float64{
		"tier_gap":       s.tierGapScore(c, p),
		"category_match": s.categoryScore(c, p),
		"bandwidth":      s.bandwidthScore(c, p),
		"industry":       s.industryScore(c, p),
		"co_occurrence":  s.coOccurrenceScore(c, p),
		"regional":       s.weights.Regional,
		"affordability":  s.affordabilityScore(c, p),
		"complexity":     s.complexityScore(c, p),
	}

	var total float64
	for _, v := range components {
		total += v
	}
	if total > 100 {
		total = 100
	}
	return math.Round(total*100) / 100, components
}

// tierGapScore rewards products one step away from where the customer sits
// today. Selling three tiers up rarely lands.
func (s *NBOScorer) tierGapScore(c *model.Customer, p *model.Product) float64 {
	gap := abs(customerTierLevel(c.Tier) - p.CostTier)
	return scaleOf(s.weights.TierGap, gapFraction(gap))
}

func gapFraction(gap int) float64 {
	switch gap {
	case 0:
		return 1.0
	case 1:
		return 0.8
	case 2:
		return 8.0 / 15.0
	default:
		return 0.2
	}
}

// customerTierLevel reads the snapshot tier group. Cells mix numeric tiers
// with metal names; unreadable cells sit in the middle of the ladder.
func customerTierLevel(tier string) int {
	low := strings.ToLower(tier)
	switch {
	case strings.Contains(low, "1") || strings.Contains(low, "bronze"):
		return 1
	case strings.Contains(low, "2") || strings.Contains(low, "silver"):
		return 2
	case strings.Contains(low, "3") || strings.Contains(low, "gold"):
		return 3
	case strings.Contains(low, "4") || strings.Contains(low, "platinum"):
		return 4
	default:
		return 2
	}
}

// categoryFamilies groups categories that sell to the same buyer even when
// the labels differ.
var categoryFamilies = [][]string{
	{"KONEKTIVITAS", "INTERNET", "JARINGAN"},
	{"DIGITAL", "ICT", "MULTIMEDIA"},
}

func (s *NBOScorer) categoryScore(c *model.Customer, p *model.Product) float64 {
	cc := strings.ToUpper(strings.TrimSpace(c.Category))
	pc := strings.ToUpper(strings.TrimSpace(p.Category))
	switch {
	case cc != "" && cc == pc:
		return s.weights.CategoryMatch
	case sameFamily(cc, pc):
		return scaleOf(s.weights.CategoryMatch, 10.0/15.0)
	default:
		return scaleOf(s.weights.CategoryMatch, 5.0/15.0)
	}
}

func sameFamily(a, b string) bool {
	for _, fam := range categoryFamilies {
		var hasA, hasB bool
		for _, f := range fam {
			if f == a {
				hasA = true
			}
			if f == b {
				hasB = true
			}
		}
		if hasA && hasB {
			return true
		}
	}
	return false
}

// bandwidthScore checks whether the line can actually carry the product.
// An IP-only customer is the ideal connectivity prospect: nothing to
// outgrow, everything to attach.
func (s *NBOScorer) bandwidthScore(c *model.Customer, p *model.Product) float64 {
	if c.BandwidthType == model.BandwidthIPOnly && p.Connectivity {
		return s.weights.Bandwidth
	}
	if p.MinBandwidthMbps == 0 {
		return s.weights.Bandwidth
	}
	ratio := c.BandwidthMbps / p.MinBandwidthMbps
	switch {
	case ratio >= 1.5:
		return s.weights.Bandwidth
	case ratio >= 1:
		return scaleOf(s.weights.Bandwidth, 10.0/15.0)
	case ratio >= 0.5:
		return scaleOf(s.weights.Bandwidth, 5.0/15.0)
	default:
		return scaleOf(s.weights.Bandwidth, 2.0/15.0)
	}
}

func (s *NBOScorer) industryScore(c *model.Customer, p *model.Product) float64 {
	ind := strings.ToUpper(strings.TrimSpace(c.Industry))
	for _, t := range p.TargetIndustries {
		if strings.EqualFold(t, ind) {
			return s.weights.Industry
		}
	}

	cat := strings.ToUpper(p.Category)
	if strings.Contains(cat, "SECURITY") && (ind == "BANKING" || ind == "GOVERNMENT") {
		return scaleOf(s.weights.Industry, 12.0/15.0)
	}
	if strings.Contains(cat, "IOT") && ind == "MANUFACTURE" {
		return scaleOf(s.weights.Industry, 12.0/15.0)
	}
	return scaleOf(s.weights.Industry, 5.0/15.0)
}

// coOccurrenceScore converts attach rates between the customer's current
// products and the candidate into points. A customer with no products gets
// the neutral midpoint rather than a penalty.
func (s *NBOScorer) coOccurrenceScore(c *model.Customer, p *model.Product) float64 {
	if len(c.Products) == 0 {
		return s.weights.CoOccurrence / 2
	}
	var pts float64
	for _, ownedProduct := range c.Products {
		pts += s.co.Affinity(ownedProduct, p.Name) * 2 * s.weights.CoOccurrence
	}
	if pts > s.weights.CoOccurrence {
		pts = s.weights.CoOccurrence
	}
	return pts
}

// affordabilityScore matches product price band against the ARPU tier.
// Bundled/free lines have no observable wallet, so only the cheapest band
// gets meaningful credit.
func (s *NBOScorer) affordabilityScore(c *model.Customer, p *model.Product) float64 {
	if c.Revenue == 0 {
		if p.CostTier == 1 {
			return scaleOf(s.weights.Affordability, 8.0/15.0)
		}
		return scaleOf(s.weights.Affordability, 3.0/15.0)
	}
	gap := abs(c.ARPULevel - p.CostTier)
	switch gap {
	case 0:
		return s.weights.Affordability
	case 1:
		return scaleOf(s.weights.Affordability, 12.0/15.0)
	case 2:
		return scaleOf(s.weights.Affordability, 7.0/15.0)
	default:
		return scaleOf(s.weights.Affordability, 2.0/15.0)
	}
}

// complexityScore steers young and renewing accounts toward products they
// can absorb. A contract pending renewal is the worst moment to introduce
// a complex managed service.
func (s *NBOScorer) complexityScore(c *model.Customer, p *model.Product) float64 {
	w := s.weights.Complexity
	switch {
	case c.TenureYears == 0:
		if p.Complexity == model.ComplexitySimple || p.Retention {
			return w
		}
		return scaleOf(w, 0.3)
	case c.TenureYears < 2:
		if p.Complexity != model.ComplexityComplex {
			return w
		}
		return scaleOf(w, 0.6)
	case c.TenureYears <= 5:
		return w
	default:
		if p.Complexity != model.ComplexitySimple {
			return w
		}
		return scaleOf(w, 0.7)
	}
}

// reasoning renders the strongest factors as a short sales-facing phrase.
func (s *NBOScorer) reasoning(c *model.Customer, components map[string]float64) string {
	full := map[string]float64{
		"tier_gap":       s.weights.TierGap,
		"category_match": s.weights.CategoryMatch,
		"bandwidth":      s.weights.Bandwidth,
		"industry":       s.weights.Industry,
		"co_occurrence":  s.weights.CoOccurrence,
		"affordability":  s.weights.Affordability,
		"complexity":     s.weights.Complexity,
	}
	phrases := map[string]string{
		"tier_gap":       "natural next tier",
		"category_match": "matches current portfolio category",
		"bandwidth":      "line capacity fits",
		"industry":       "strong industry fit",
		"co_occurrence":  "frequently bought together",
		"affordability":  "within budget range",
		"complexity":     "right complexity for account maturity",
	}
	if c.TenureYears == 0 {
		// A full complexity score at tenure zero means the offer suits
		// the renewal window, and that is the message worth leading on.
		phrases["complexity"] = "fits the renewal window"
	}
	keys := []string{"industry", "bandwidth", "category_match", "co_occurrence", "affordability", "tier_gap", "complexity"}

	var parts []string
	for _, k := range keys {
		if w := full[k]; w > 0 && components[k] >= 0.8*w {
			parts = append(parts, phrases[k])
		}
		if len(parts) == 3 {
			break
		}
	}
	if len(parts) == 0 {
		return "baseline portfolio fit"
	}
	return strings.Join(parts, "; ")
}

func scaleOf(weight, fraction float64) float64 {
	return math.Round(weight*fraction*100) / 100
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
