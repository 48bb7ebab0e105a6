// Package catalog loads the product catalog and derives the attributes the
// recommendation scorer needs: adoption complexity and cost tier.
package catalog

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/pln-iconplus/cvo-cli/internal/fetcher"
	"github.com/pln-iconplus/cvo-cli/internal/model"
)

// file is the on-disk catalog shape.
type file struct {
	Products []model.Product `yaml:"products"`
}

// Load reads the catalog and derives complexity and cost tier for every
// entry. Both the YAML shape and the product-team workbook are accepted.
// Input order is preserved; the scorer uses it to break ties.
func Load(path string) ([]model.Product, error) {
	var products []model.Product
	var err error
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		products, err = loadXLSX(path)
	} else {
		products, err = loadYAML(path)
	}
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, eris.New("catalog: no products defined")
	}

	seen := make(map[string]struct{}, len(products))
	for i := range products {
		p := &products[i]
		if strings.TrimSpace(p.Name) == "" {
			return nil, eris.Errorf("catalog: product %d has no name", i)
		}
		if _, dup := seen[p.Name]; dup {
			return nil, eris.Errorf("catalog: duplicate product %q", p.Name)
		}
		seen[p.Name] = struct{}{}

		p.Order = i
		p.Complexity = DeriveComplexity(p.Name)
		p.CostTier = DeriveCostTier(p.Nomenklatur)
	}

	zap.L().Info("catalog: loaded products", zap.Int("count", len(products)))
	return products, nil
}

func loadYAML(path string) ([]model.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: read %s", path)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrap(err, "catalog: parse yaml")
	}
	return f.Products, nil
}

// Workbook headers as the product team exports them.
var catalogAliases = map[string][]string{
	"name":        {"produk", "nama produk", "product"},
	"category":    {"kategori produk", "kategori"},
	"nomenklatur": {"nomenklatur baru", "nomenklatur"},
	"industries":  {"target industri", "target industries"},
	"min_mbps":    {"min bandwidth mbps", "min bandwidth"},
	"conn":        {"konektivitas", "connectivity"},
	"retention":   {"retention"},
}

func loadXLSX(path string) ([]model.Product, error) {
	header, rows, err := fetcher.ReadXLSX(path, fetcher.XLSXOptions{})
	if err != nil {
		return nil, err
	}

	norm := make(map[string]int, len(header))
	for i, h := range header {
		norm[strings.Join(strings.Fields(strings.ToLower(h)), " ")] = i
	}
	cols := make(map[string]int, len(catalogAliases))
	for logical, aliases := range catalogAliases {
		cols[logical] = -1
		for _, a := range aliases {
			if i, ok := norm[a]; ok {
				cols[logical] = i
				break
			}
		}
	}
	if cols["name"] < 0 {
		return nil, eris.Errorf("catalog: %s is missing a product name column", path)
	}

	cell := func(cells []string, i int) string {
		if i < 0 || i >= len(cells) {
			return ""
		}
		return strings.TrimSpace(cells[i])
	}

	var products []model.Product
	for _, cells := range rows {
		name := cell(cells, cols["name"])
		if name == "" {
			continue
		}
		p := model.Product{
			Name:        name,
			Category:    cell(cells, cols["category"]),
			Nomenklatur: cell(cells, cols["nomenklatur"]),
		}
		if raw := cell(cells, cols["industries"]); raw != "" {
			for _, ind := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ';' }) {
				if ind = strings.TrimSpace(ind); ind != "" {
					p.TargetIndustries = append(p.TargetIndustries, ind)
				}
			}
		}
		if raw := cell(cells, cols["min_mbps"]); raw != "" {
			if n, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64); err == nil {
				p.MinBandwidthMbps = n
			}
		}
		p.Connectivity = truthy(cell(cells, cols["conn"]))
		p.Retention = truthy(cell(cells, cols["retention"]))
		products = append(products, p)
	}
	return products, nil
}

func truthy(s string) bool {
	switch strings.ToLower(s) {
	case "ya", "yes", "true", "1", "y":
		return true
	}
	return false
}

var complexityKeywords = []struct {
	level model.Complexity
	words []string
}{
	{model.ComplexitySimple, []string{"basic", "starter", "light", "essential", "entry", "bronze"}},
	{model.ComplexityMedium, []string{"standard", "professional", "plus", "advanced", "silver", "medium"}},
	{model.ComplexityComplex, []string{"enterprise", "premium", "ultimate", "managed", "gold", "platinum", "deluxe"}},
}

// DeriveComplexity grades a product by marketing-name keywords.
// Unmatched names default to Medium.
func DeriveComplexity(name string) model.Complexity {
	low := strings.ToLower(name)
	for _, kw := range complexityKeywords {
		for _, w := range kw.words {
			if strings.Contains(low, w) {
				return kw.level
			}
		}
	}
	return model.ComplexityMedium
}

// DeriveCostTier reads the price band out of the product nomenklatur.
func DeriveCostTier(nomenklatur string) int {
	switch strings.ToUpper(strings.TrimSpace(nomenklatur)) {
	case "DI-TS":
		return 1
	case "DI-SDS-TS":
		return 2
	case "DI-SDS-SDS":
		return 3
	default:
		return 2
	}
}
