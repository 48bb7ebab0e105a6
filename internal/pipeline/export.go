package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/pln-iconplus/cvo-cli/internal/config"
	"github.com/pln-iconplus/cvo-cli/internal/model"
)

// BuildRecords flattens scored customers into the dashboard contract.
func BuildRecords(customers []*model.Customer, recs map[string][]model.Recommendation, arpu config.ARPUConfig) []model.DashboardRecord {
	out := make([]model.DashboardRecord, 0, len(customers))
	for _, c := range customers {
		var topScore float64
		if offers := recs[c.Name]; len(offers) > 0 {
			topScore = offers[0].Score
		}
		r := model.DashboardRecord{
			CustomerName:     c.Name,
			Revenue:          c.Revenue,
			ARPUCategory:     c.ARPUCategory,
			BandwidthMbps:    c.BandwidthMbps,
			BandwidthType:    string(c.BandwidthType),
			BandwidthSegment: string(c.BandwidthCluster),
			Quadrant:         c.Quadrant.Display(),
			StrategyLabel:    string(c.Strategy),
			TrustQuadrant:    c.TrustQuadrant.Display(),
			Industry:         c.Industry,
			Tier:             c.Tier,
			UpsellScore:      c.UpsellScore,
			Priority:         string(PriorityFor(c, topScore, arpu)),
			PotentialRevenue: PotentialRevenue(c),
			PredictedCLV:     c.PredictedCLV,
			Recommendations:  recs[c.Name],
		}
		out = append(out, r)
	}
	return out
}

// WriteDashboardJSON exports the records for the dashboard. The file is
// written to a temp sibling and renamed so readers never see a half-written
// export.
func WriteDashboardJSON(path string, records []model.DashboardRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return eris.Wrap(err, "export: marshal dashboard records")
	}
	if err := atomicWrite(path, data); err != nil {
		return err
	}
	zap.L().Info("export: dashboard json written",
		zap.String("path", path),
		zap.Int("records", len(records)))
	return nil
}

// masterColumns is the master workbook layout, including the flattened
// top-3 offers.
var masterColumns = []string{
	"customer_name", "revenue", "arpu_category", "bandwidth_mbps",
	"bandwidth_type", "bandwidth_segment", "quadrant", "strategy_label",
	"trust_quadrant", "industry", "tier", "upsell_score", "priority",
	"potential_revenue", "predicted_clv",
	"NBO_1_Product", "NBO_1_Score", "NBO_1_Reasoning",
	"NBO_2_Product", "NBO_2_Score", "NBO_2_Reasoning",
	"NBO_3_Product", "NBO_3_Score", "NBO_3_Reasoning",
}

// WriteMasterXLSX exports the master workbook for the sales team.
func WriteMasterXLSX(path string, records []model.DashboardRecord) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("CVO Master")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range masterColumns {
		header.AddCell().SetString(col)
	}

	for _, r := range records {
		row := sheet.AddRow()
		row.AddCell().SetString(r.CustomerName)
		row.AddCell().SetString(strconv.FormatInt(r.Revenue, 10))
		row.AddCell().SetString(r.ARPUCategory)
		row.AddCell().SetString(formatFloat(r.BandwidthMbps))
		row.AddCell().SetString(r.BandwidthType)
		row.AddCell().SetString(r.BandwidthSegment)
		row.AddCell().SetString(r.Quadrant)
		row.AddCell().SetString(r.StrategyLabel)
		row.AddCell().SetString(r.TrustQuadrant)
		row.AddCell().SetString(r.Industry)
		row.AddCell().SetString(r.Tier)
		row.AddCell().SetString(formatFloat(r.UpsellScore))
		row.AddCell().SetString(r.Priority)
		row.AddCell().SetString(strconv.FormatInt(r.PotentialRevenue, 10))
		row.AddCell().SetString(strconv.FormatInt(r.PredictedCLV, 10))
		for i := 0; i < 3; i++ {
			if i < len(r.Recommendations) {
				rec := r.Recommendations[i]
				row.AddCell().SetString(rec.Product)
				row.AddCell().SetString(formatFloat(rec.Score))
				row.AddCell().SetString(rec.Reasoning)
			} else {
				row.AddCell().SetString("")
				row.AddCell().SetString("")
				row.AddCell().SetString("")
			}
		}
	}

	tmp := path + ".tmp"
	if err := f.Save(tmp); err != nil {
		return eris.Wrapf(err, "export: save %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		return eris.Wrapf(err, "export: rename %s", path)
	}

	zap.L().Info("export: master xlsx written",
		zap.String("path", path),
		zap.Int("records", len(records)))
	return nil
}

func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "export: mkdir %s", dir)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return eris.Wrapf(err, "export: write %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		return eris.Wrapf(err, "export: rename %s", path)
	}
	return nil
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
