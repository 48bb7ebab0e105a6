package pipeline

import (
	"go.uber.org/zap"

	"github.com/pln-iconplus/cvo-cli/internal/model"
)

// CoOccurrence is a market-basket index built from the current snapshot
// only. Counts answer "of the customers holding product A, how many also
// hold product B".
type CoOccurrence struct {
	pairs  map[string]map[string]int
	owners map[string]int
}

// BuildCoOccurrence indexes every distinct product pair across the
// population. Products within one customer are counted once each, whatever
// the subscription count.
func BuildCoOccurrence(customers []*model.Customer) *CoOccurrence {
	co := &CoOccurrence{
		pairs:  make(map[string]map[string]int),
		owners: make(map[string]int),
	}

	for _, c := range customers {
		seen := make(map[string]struct{}, len(c.Products))
		for _, p := range c.Products {
			if p == "" {
				continue
			}
			seen[p] = struct{}{}
		}
		for a := range seen {
			co.owners[a]++
			for b := range seen {
				if a == b {
					continue
				}
				if co.pairs[a] == nil {
					co.pairs[a] = make(map[string]int)
				}
				co.pairs[a][b]++
			}
		}
	}

	zap.L().Debug("pipeline: co-occurrence index built",
		zap.Int("products", len(co.owners)))
	return co
}

// Affinity returns the conditional attach rate of candidate given owned,
// in [0, 1]. Unknown products return zero.
func (co *CoOccurrence) Affinity(owned, candidate string) float64 {
	total := co.owners[owned]
	if total == 0 {
		return 0
	}
	return float64(co.pairs[owned][candidate]) / float64(total)
}

// Products returns how many distinct products the index has seen.
func (co *CoOccurrence) Products() int {
	return len(co.owners)
}
