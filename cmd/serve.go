package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pln-iconplus/cvo-cli/internal/model"
	"github.com/pln-iconplus/cvo-cli/internal/server"
)

var (
	servePort int
	serveFeed string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the latest batch output as a read-only API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		feed := serveFeed
		if feed == "" {
			feed = filepath.Join(cfg.Output.Dir, cfg.Output.DashboardJSON)
		}
		records, err := loadRecords(feed)
		if err != nil {
			return err
		}

		if servePort != 0 {
			cfg.Server.Port = servePort
		}

		zap.L().Info("serve: loaded dashboard feed",
			zap.String("path", feed),
			zap.Int("records", len(records)))
		return server.New(cfg.Server, records).ListenAndServe(ctx)
	},
}

func loadRecords(path string) ([]model.DashboardRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "serve: read feed %s (run the batch first)", path)
	}
	var records []model.DashboardRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, eris.Wrap(err, "serve: parse feed")
	}
	return records, nil
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	serveCmd.Flags().StringVar(&serveFeed, "feed", "", "dashboard feed path (default from config)")
	rootCmd.AddCommand(serveCmd)
}
