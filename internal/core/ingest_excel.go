package core

import (
	"bytes"
	"context"
	"fmt"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

func init() {
	RegisterFormat(FormatDefinition{
		Key:        "xlsx",
		Label:      "Excel workbook",
		Extensions: []string{"xlsx"},
		Parse:      parseXLSX,
	})
	RegisterFormat(FormatDefinition{
		Key:        "xls",
		Label:      "Excel 97-2003 workbook",
		Extensions: []string{"xls"},
		Parse:      parseXLS,
	})
}

// parseXLSX reads the first sheet of an Office Open XML workbook.
func parseXLSX(ctx context.Context, data []byte) (*Dataset, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrParse)
	}

	iter, err := f.Rows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %s: %v", ErrParse, sheets[0], err)
	}
	defer iter.Close()

	var grid [][]string
	for iter.Next() {
		if len(grid)%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		// Raw values keep number formats like "1,234.00" from hiding numerics.
		row, err := iter.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("%w: sheet %s: %v", ErrParse, sheets[0], err)
		}
		grid = append(grid, row)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("%w: sheet %s: %v", ErrParse, sheets[0], err)
	}

	ds, err := datasetFromGrid(grid)
	if err != nil {
		return nil, fmt.Errorf("sheet %s: %w", sheets[0], err)
	}
	return ds, nil
}

// parseXLS reads the first sheet of a BIFF (Excel 97-2003) workbook.
func parseXLS(ctx context.Context, data []byte) (ds *Dataset, err error) {
	// The BIFF decoder indexes into record data without bounds checks and
	// panics on truncated input.
	defer func() {
		if r := recover(); r != nil {
			ds, err = nil, fmt.Errorf("%w: malformed workbook: %v", ErrParse, r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if wb.NumSheets() == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrParse)
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("%w: first sheet unreadable", ErrParse)
	}

	grid := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		row := sheet.Row(i)
		if row == nil {
			grid = append(grid, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for c := row.FirstCol(); c < row.LastCol(); c++ {
			cells[c] = row.Col(c)
		}
		grid = append(grid, cells)
	}

	ds, err = datasetFromGrid(grid)
	if err != nil {
		return nil, fmt.Errorf("sheet %s: %w", sheet.Name, err)
	}
	return ds, nil
}
