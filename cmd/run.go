package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pln-iconplus/cvo-cli/internal/catalog"
	"github.com/pln-iconplus/cvo-cli/internal/model"
	"github.com/pln-iconplus/cvo-cli/internal/pipeline"
	"github.com/pln-iconplus/cvo-cli/internal/propensity"
	"github.com/pln-iconplus/cvo-cli/internal/report"
	"github.com/pln-iconplus/cvo-cli/internal/store"
)

var (
	runSnapshot string
	runOutDir   string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute the full batch over the billing snapshot",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if runSnapshot != "" {
			cfg.Input.SnapshotPath = runSnapshot
		}
		if runOutDir != "" {
			cfg.Output.Dir = runOutDir
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		products, err := catalog.Load(cfg.Catalog.Path)
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		run, err := st.CreateRun(ctx, cfg.Input.SnapshotPath, cfg.Hash())
		if err != nil {
			return err
		}
		zap.L().Info("run: started", zap.String("run_id", run.ID))

		res, err := pipeline.Run(ctx, cfg, products, propensity.NewHeuristic())
		if err != nil {
			if ferr := st.FailRun(ctx, run.ID, err); ferr != nil {
				zap.L().Error("run: record failure", zap.Error(ferr))
			}
			return err
		}

		xlsxPath, jsonPath, err := exportResult(res)
		if err != nil {
			if ferr := st.FailRun(ctx, run.ID, err); ferr != nil {
				zap.L().Error("run: record failure", zap.Error(ferr))
			}
			return err
		}

		high := 0
		for i := range res.Records {
			if res.Records[i].Priority == string(model.PriorityHigh) {
				high++
			}
		}

		if err := st.CompleteRun(ctx, run.ID, store.RunSummary{
			Customers:    len(res.Customers),
			Excluded:     res.Excluded,
			HighPriority: high,
			OutputXLSX:   xlsxPath,
			OutputJSON:   jsonPath,
		}); err != nil {
			return err
		}

		fmt.Print(report.Summary(res))
		return nil
	},
}

func exportResult(res *pipeline.Result) (xlsxPath, jsonPath string, err error) {
	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return "", "", eris.Wrapf(err, "run: mkdir %s", cfg.Output.Dir)
	}

	xlsxPath = filepath.Join(cfg.Output.Dir, cfg.Output.MasterXLSX)
	if err := pipeline.WriteMasterXLSX(xlsxPath, res.Records); err != nil {
		return "", "", err
	}

	jsonPath = filepath.Join(cfg.Output.Dir, cfg.Output.DashboardJSON)
	if err := pipeline.WriteDashboardJSON(jsonPath, res.Records); err != nil {
		return "", "", err
	}

	summaryPath := filepath.Join(cfg.Output.Dir, cfg.Output.SummaryPath)
	if err := report.WriteSummary(summaryPath, res); err != nil {
		return "", "", err
	}

	return xlsxPath, jsonPath, nil
}

func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

func init() {
	runCmd.Flags().StringVar(&runSnapshot, "snapshot", "", "snapshot workbook path (default from config)")
	runCmd.Flags().StringVar(&runOutDir, "out", "", "output directory (default from config)")
	rootCmd.AddCommand(runCmd)
}
