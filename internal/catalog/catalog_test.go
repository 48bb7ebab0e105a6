package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/pln-iconplus/cvo-cli/internal/model"
)

func writeCatalog(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeCatalog(t, `
products:
  - name: Internet Dedicated Premium
    nomenklatur: DI-SDS-SDS
    category: Konektivitas
    min_bandwidth_mbps: 50
    connectivity: true
    target_industries: [BANKING, GOVERNMENT]
  - name: Basic Internet
    nomenklatur: DI-TS
    category: Konektivitas
    min_bandwidth_mbps: 5
    connectivity: true
`)

	products, err := Load(path)
	require.NoError(t, err)
	require.Len(t, products, 2)

	premium := products[0]
	assert.Equal(t, model.ComplexityComplex, premium.Complexity)
	assert.Equal(t, 3, premium.CostTier)
	assert.Equal(t, 0, premium.Order)

	basic := products[1]
	assert.Equal(t, model.ComplexitySimple, basic.Complexity)
	assert.Equal(t, 1, basic.CostTier)
	assert.Equal(t, 1, basic.Order)
}

func TestLoad_Workbook(t *testing.T) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Katalog")
	require.NoError(t, err)
	rows := [][]string{
		{"Produk", "Kategori Produk", "Nomenklatur Baru", "Target Industri", "Min Bandwidth Mbps", "Konektivitas"},
		{"Internet Dedicated Premium", "Konektivitas", "DI-SDS-SDS", "BANKING; GOVERNMENT", "50", "ya"},
		{"Basic Internet", "Konektivitas", "DI-TS", "", "5", "yes"},
		{"", "", "", "", "", ""},
	}
	for _, cells := range rows {
		row := sheet.AddRow()
		for _, c := range cells {
			row.AddCell().SetString(c)
		}
	}
	path := filepath.Join(t.TempDir(), "catalog.xlsx")
	require.NoError(t, f.Save(path))

	products, err := Load(path)
	require.NoError(t, err)
	require.Len(t, products, 2)

	premium := products[0]
	assert.Equal(t, "Internet Dedicated Premium", premium.Name)
	assert.Equal(t, []string{"BANKING", "GOVERNMENT"}, premium.TargetIndustries)
	assert.InDelta(t, 50, premium.MinBandwidthMbps, 0.001)
	assert.True(t, premium.Connectivity)
	assert.Equal(t, model.ComplexityComplex, premium.Complexity)
	assert.Equal(t, 3, premium.CostTier)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeCatalog(t, "products: []"))
	assert.Error(t, err)

	_, err = Load(writeCatalog(t, `
products:
  - name: A
  - name: A
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")

	_, err = Load(writeCatalog(t, `
products:
  - name: ""
`))
	assert.Error(t, err)
}

func TestDeriveComplexity(t *testing.T) {
	tests := []struct {
		name string
		want model.Complexity
	}{
		{"Internet Starter", model.ComplexitySimple},
		{"VPN Essential Bronze", model.ComplexitySimple},
		{"Internet Standard", model.ComplexityMedium},
		{"Cloud Professional Plus", model.ComplexityMedium},
		{"Managed Security Premium", model.ComplexityComplex},
		{"Enterprise WAN Platinum", model.ComplexityComplex},
		{"Some Unmarked Product", model.ComplexityMedium},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DeriveComplexity(tt.name), "name=%q", tt.name)
	}
}

func TestDeriveCostTier(t *testing.T) {
	assert.Equal(t, 1, DeriveCostTier("DI-TS"))
	assert.Equal(t, 2, DeriveCostTier("DI-SDS-TS"))
	assert.Equal(t, 3, DeriveCostTier("DI-SDS-SDS"))
	assert.Equal(t, 1, DeriveCostTier("di-ts "))
	assert.Equal(t, 2, DeriveCostTier("SOMETHING-ELSE"))
}
