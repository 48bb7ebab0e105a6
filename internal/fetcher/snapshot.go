package fetcher

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pln-iconplus/cvo-cli/internal/config"
)

// SnapshotRow is one raw subscription line from the billing export, before
// any normalization. One customer can appear on many rows.
type SnapshotRow struct {
	CustomerName    string
	Revenue         string
	PreviousRevenue string
	Bandwidth       string
	Tenure          string
	Segment         string
	Category        string
	Tier            string
	Product         string
	Region          string
	SBUOwner        string
	Status          string
}

// Column headers as they appear in the billing export. Matching is
// whitespace- and case-insensitive because exports are hand-touched.
var columnAliases = map[string][]string{
	"name":         {"namapelanggan", "nama pelanggan"},
	"revenue":      {"hargapelanggan", "harga pelanggan"},
	"prev_revenue": {"hargapelangganlalu", "harga pelanggan lalu"},
	"bandwidth":    {"bandwidth fix", "bandwidthfix", "bandwidth"},
	"tenure":       {"lama_langganan", "lama langganan"},
	"segment":      {"segmencustomer", "segmen customer"},
	"category":     {"kategori_baru", "kategori baru"},
	"tier":         {"kelompok tier", "kelompoktier"},
	"product":      {"produkbaru", "produk baru"},
	"region":       {"wilayah"},
	"sbu":          {"sbuowner", "sbu owner"},
	"status":       {"statuslayanan", "status layanan"},
}

// LoadSnapshot reads the billing export and returns its raw rows, applying
// the active-service filter and the optional allow list. TOTAL and footer
// rows carry no customer name and are skipped.
func LoadSnapshot(cfg config.InputConfig) ([]SnapshotRow, error) {
	if cfg.SnapshotPath == "" {
		return nil, eris.New("fetcher: input.snapshot_path is not set")
	}

	header, raw, err := ReadXLSX(cfg.SnapshotPath, XLSXOptions{
		SheetIndex: cfg.SheetIndex,
		SheetName:  cfg.SheetName,
		SkipRows:   cfg.SkipRows,
	})
	if err != nil {
		return nil, err
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	allow, err := loadAllowList(cfg.AllowListPath)
	if err != nil {
		return nil, err
	}

	var rows []SnapshotRow
	var skippedInactive, skippedAllowList int
	for _, cells := range raw {
		row := SnapshotRow{
			CustomerName:    cellAt(cells, cols["name"]),
			Revenue:         cellAt(cells, cols["revenue"]),
			PreviousRevenue: cellAt(cells, cols["prev_revenue"]),
			Bandwidth:       cellAt(cells, cols["bandwidth"]),
			Tenure:          cellAt(cells, cols["tenure"]),
			Segment:         cellAt(cells, cols["segment"]),
			Category:        cellAt(cells, cols["category"]),
			Tier:            cellAt(cells, cols["tier"]),
			Product:         cellAt(cells, cols["product"]),
			Region:          cellAt(cells, cols["region"]),
			SBUOwner:        cellAt(cells, cols["sbu"]),
			Status:          cellAt(cells, cols["status"]),
		}
		if strings.TrimSpace(row.CustomerName) == "" {
			continue
		}
		if cfg.ActiveOnly && !isActive(row.Status) {
			skippedInactive++
			continue
		}
		if allow != nil {
			if _, ok := allow[normalizeName(row.CustomerName)]; !ok {
				skippedAllowList++
				continue
			}
		}
		rows = append(rows, row)
	}

	zap.L().Info("fetcher: snapshot loaded",
		zap.String("path", cfg.SnapshotPath),
		zap.Int("rows", len(rows)),
		zap.Int("skipped_inactive", skippedInactive),
		zap.Int("skipped_allow_list", skippedAllowList))
	return rows, nil
}

// mapColumns resolves header cells to logical columns. Name, revenue and
// bandwidth are mandatory; anything else degrades gracefully to empty.
func mapColumns(header []string) (map[string]int, error) {
	norm := make(map[string]int, len(header))
	for i, h := range header {
		norm[normalizeHeader(h)] = i
	}

	cols := make(map[string]int, len(columnAliases))
	for logical := range columnAliases {
		cols[logical] = -1
	}
	for logical, aliases := range columnAliases {
		for _, a := range aliases {
			if i, ok := norm[normalizeHeader(a)]; ok {
				cols[logical] = i
				break
			}
		}
	}

	var missing []string
	for _, required := range []string{"name", "revenue", "bandwidth"} {
		if cols[required] < 0 {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, eris.Errorf("fetcher: snapshot is missing required columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func normalizeHeader(h string) string {
	return strings.Join(strings.Fields(strings.ToLower(h)), " ")
}

func cellAt(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i])
}

func isActive(status string) bool {
	low := strings.ToLower(status)
	return strings.Contains(low, "aktif") || strings.Contains(low, "active")
}

func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToUpper(name)), " ")
}

// loadAllowList reads the in-scope customer names, either the first column
// of a workbook or a plain text file with one name per line. An empty path
// means no allow list; every customer passes.
func loadAllowList(path string) (map[string]struct{}, error) {
	if path == "" {
		return nil, nil
	}
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return loadAllowListXLSX(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: open allow list %s", path)
	}
	defer f.Close()

	allow := make(map[string]struct{})
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		allow[normalizeName(line)] = struct{}{}
	}
	if err := sc.Err(); err != nil {
		return nil, eris.Wrap(err, "fetcher: read allow list")
	}
	return allow, nil
}

func loadAllowListXLSX(path string) (map[string]struct{}, error) {
	header, rows, err := ReadXLSX(path, XLSXOptions{})
	if err != nil {
		return nil, err
	}

	allow := make(map[string]struct{}, len(rows)+1)
	add := func(cells []string) {
		if len(cells) == 0 {
			return
		}
		if name := strings.TrimSpace(cells[0]); name != "" {
			allow[normalizeName(name)] = struct{}{}
		}
	}
	// The first column may or may not carry a header cell; a header is just
	// a name that never matches a customer, so it is safe to include.
	add(header)
	for _, cells := range rows {
		add(cells)
	}
	return allow, nil
}
