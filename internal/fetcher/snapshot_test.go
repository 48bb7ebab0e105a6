package fetcher

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/pln-iconplus/cvo-cli/internal/config"
)

var snapshotHeader = []string{
	"namaPelanggan", "hargaPelanggan", "hargaPelangganLalu", "Bandwidth Fix",
	"Lama_Langganan", "segmenCustomer", "Kategori_Baru", "Kelompok Tier",
	"ProdukBaru", "WILAYAH", "SBUOwner", "statusLayanan",
}

func writeWorkbook(t *testing.T, sheetName string, rows [][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	require.NoError(t, err)
	for _, cells := range rows {
		row := sheet.AddRow()
		for _, c := range cells {
			row.AddCell().SetString(c)
		}
	}
	path := filepath.Join(t.TempDir(), "snapshot.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func activeRow(name, revenue, bandwidth string) []string {
	return []string{name, revenue, "", bandwidth, "3", "Korporasi", "Konektivitas",
		"Tier 2", "Internet Dedicated", "JATIM", "SBU1", "AKTIF"}
}

func TestLoadSnapshot(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]string{
		snapshotHeader,
		activeRow("PT ALPHA", "5000000", "20 MBPS"),
		activeRow("PT BETA", "1000000", "5 IP"),
	})

	rows, err := LoadSnapshot(config.InputConfig{SnapshotPath: path, ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "PT ALPHA", rows[0].CustomerName)
	assert.Equal(t, "5000000", rows[0].Revenue)
	assert.Equal(t, "20 MBPS", rows[0].Bandwidth)
	assert.Equal(t, "3", rows[0].Tenure)
	assert.Equal(t, "Tier 2", rows[0].Tier)
	assert.Equal(t, "JATIM", rows[0].Region)
}

func TestLoadSnapshot_ActiveFilter(t *testing.T) {
	inactive := activeRow("PT GONE", "100", "1 MBPS")
	inactive[11] = "ISOLIR"
	path := writeWorkbook(t, "Sheet1", [][]string{
		snapshotHeader,
		activeRow("PT ALPHA", "5000000", "20 MBPS"),
		inactive,
	})

	rows, err := LoadSnapshot(config.InputConfig{SnapshotPath: path, ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "PT ALPHA", rows[0].CustomerName)

	// With the filter off the inactive row comes through.
	rows, err = LoadSnapshot(config.InputConfig{SnapshotPath: path, ActiveOnly: false})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestLoadSnapshot_SkipsBlankNames(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]string{
		snapshotHeader,
		activeRow("PT ALPHA", "5000000", "20 MBPS"),
		activeRow("", "999999", "TOTAL"),
	})

	rows, err := LoadSnapshot(config.InputConfig{SnapshotPath: path})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestLoadSnapshot_AllowList(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]string{
		snapshotHeader,
		activeRow("PT ALPHA", "5000000", "20 MBPS"),
		activeRow("PT BETA", "1000000", "10 MBPS"),
	})

	allowPath := filepath.Join(t.TempDir(), "allow.txt")
	require.NoError(t, os.WriteFile(allowPath, []byte("# pilot accounts\npt alpha\n"), 0644))

	rows, err := LoadSnapshot(config.InputConfig{
		SnapshotPath:  path,
		AllowListPath: allowPath,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "PT ALPHA", rows[0].CustomerName)
}

func TestLoadSnapshot_AllowListWorkbook(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]string{
		snapshotHeader,
		activeRow("PT ALPHA", "5000000", "20 MBPS"),
		activeRow("PT BETA", "1000000", "10 MBPS"),
	})

	allowPath := writeWorkbook(t, "Scope", [][]string{
		{"Nama Pelanggan"},
		{"PT BETA"},
	})
	// Reuse the temp dir layout; the allow list is its own workbook.
	allowDest := filepath.Join(filepath.Dir(allowPath), "allow.xlsx")
	require.NoError(t, os.Rename(allowPath, allowDest))

	rows, err := LoadSnapshot(config.InputConfig{
		SnapshotPath:  path,
		AllowListPath: allowDest,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "PT BETA", rows[0].CustomerName)
}

func TestLoadSnapshot_MissingRequiredColumns(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]string{
		{"namaPelanggan", "somethingElse"},
		{"PT ALPHA", "x"},
	})

	_, err := LoadSnapshot(config.InputConfig{SnapshotPath: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required columns")
	assert.Contains(t, err.Error(), "revenue")
	assert.Contains(t, err.Error(), "bandwidth")
}

func TestLoadSnapshot_SheetSelection(t *testing.T) {
	f := xlsx.NewFile()
	_, err := f.AddSheet("Cover")
	require.NoError(t, err)
	data, err := f.AddSheet("Langganan")
	require.NoError(t, err)
	for _, cells := range [][]string{snapshotHeader, activeRow("PT ALPHA", "100", "1 MBPS")} {
		row := data.AddRow()
		for _, c := range cells {
			row.AddCell().SetString(c)
		}
	}
	path := filepath.Join(t.TempDir(), "multi.xlsx")
	require.NoError(t, f.Save(path))

	rows, err := LoadSnapshot(config.InputConfig{SnapshotPath: path, SheetName: "Langganan"})
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	_, err = LoadSnapshot(config.InputConfig{SnapshotPath: path, SheetName: "Nope"})
	assert.Error(t, err)
}

func TestReadXLSX_NoHeader(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", nil)
	_, _, err := ReadXLSX(path, XLSXOptions{})
	assert.Error(t, err)
}
