// Package fetcher reads the customer snapshot workbook and the optional
// allow list, producing raw rows for the pipeline to normalize.
package fetcher

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// XLSXOptions selects the worksheet and header layout.
type XLSXOptions struct {
	SheetIndex int    // default 0
	SheetName  string // if set, overrides SheetIndex
	SkipRows   int    // extra rows above the header
}

// ReadXLSX opens a workbook and returns the header row and all data rows
// below it as string slices.
func ReadXLSX(path string, opts XLSXOptions) (header []string, rows [][]string, err error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, nil, eris.Wrap(err, "xlsx: open file")
	}

	sheet, err := getSheet(f, opts)
	if err != nil {
		return nil, nil, err
	}

	for i, row := range sheet.Rows {
		if i < opts.SkipRows {
			continue
		}
		cells := rowToStrings(row)
		if header == nil {
			header = cells
			continue
		}
		rows = append(rows, cells)
	}
	if header == nil {
		return nil, nil, eris.Errorf("xlsx: %s has no header row", path)
	}

	return header, rows, nil
}

func getSheet(f *xlsx.File, opts XLSXOptions) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("xlsx: sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}

	if opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("xlsx: sheet index %d out of range (file has %d sheets)", opts.SheetIndex, len(f.Sheets))
	}

	return f.Sheets[opts.SheetIndex], nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
