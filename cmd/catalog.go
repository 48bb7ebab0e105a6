package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pln-iconplus/cvo-cli/internal/catalog"
	"github.com/pln-iconplus/cvo-cli/internal/model"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the product catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog products with derived attributes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		products, err := catalog.Load(cfg.Catalog.Path)
		if err != nil {
			return err
		}
		formatCatalog(os.Stdout, products)
		return nil
	},
}

var catalogCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the catalog file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		products, err := catalog.Load(cfg.Catalog.Path)
		if err != nil {
			return err
		}
		fmt.Printf("OK: %d products\n", len(products))
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogCheckCmd)
	rootCmd.AddCommand(catalogCmd)
}

func formatCatalog(out io.Writer, products []model.Product) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tCATEGORY\tNOMENKLATUR\tCOMPLEXITY\tCOST_TIER\tMIN_MBPS\tCONNECTIVITY")
	for _, p := range products {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.0f\t%v\n",
			p.Name, p.Category, p.Nomenklatur, p.Complexity, p.CostTier,
			p.MinBandwidthMbps, p.Connectivity)
	}
	_ = w.Flush()
}
