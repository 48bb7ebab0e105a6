package pipeline

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pln-iconplus/cvo-cli/internal/config"
	"github.com/pln-iconplus/cvo-cli/internal/fetcher"
	"github.com/pln-iconplus/cvo-cli/internal/model"
	"github.com/pln-iconplus/cvo-cli/internal/propensity"
)

// Result is the full output of one batch run, held in memory until export.
type Result struct {
	Customers       []*model.Customer
	Recommendations map[string][]model.Recommendation
	Records         []model.DashboardRecord
	Thresholds      map[model.BandwidthCluster]*model.ClusterThresholds
	Excluded        int
}

// Run executes the whole batch: load, normalize, cluster, classify, score
// and flatten. Every run recomputes from the snapshot; nothing carries over
// from previous runs.
func Run(ctx context.Context, cfg *config.Config, products []model.Product, scorer propensity.Scorer) (*Result, error) {
	rows, err := fetcher.LoadSnapshot(cfg.Input)
	if err != nil {
		return nil, err
	}

	customers := BuildCustomers(rows, cfg)

	ths := ComputeThresholds(customers)
	ApplyValueScores(customers, ths)
	Classify(customers, ths, cfg.Segments)
	propensity.Apply(scorer, customers)
	ClassifyTrust(customers)

	co := BuildCoOccurrence(customers)
	nbo := NewNBOScorer(cfg.Scoring, products, co)

	recs := make(map[string][]model.Recommendation, len(customers))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Pipeline.MaxConcurrency)
	for _, c := range customers {
		c := c
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			offers := nbo.Recommend(c)
			mu.Lock()
			recs[c.Name] = offers
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var excluded int
	for _, c := range customers {
		if c.ExcludeUpsell {
			excluded++
		}
	}

	res := &Result{
		Customers:       customers,
		Recommendations: recs,
		Records:         BuildRecords(customers, recs, cfg.ARPU),
		Thresholds:      ths,
		Excluded:        excluded,
	}
	zap.L().Info("pipeline: run complete",
		zap.Int("customers", len(customers)),
		zap.Int("excluded_upsell", excluded))
	return res, nil
}
