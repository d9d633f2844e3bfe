package core

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/dustin/go-humanize"
)

// Ingest parses data according to the format registered for ext.
//
// Unknown extensions fail with ErrUnsupportedFormat. A result with zero rows
// is not an error here; the pass decides how to present it.
func Ingest(ctx context.Context, data []byte, ext string) (*Dataset, error) {
	def, ok := FormatByExtension(ext)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ds, err := def.Parse(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", def.Key, err)
	}
	return ds, nil
}

// ExtensionFromFilename returns the lowercase suffix after the last dot of
// name, or "" when there is none.
func ExtensionFromFilename(name string) string {
	// Browsers on Windows may send the full client path.
	name = name[strings.LastIndexAny(name, `/\`)+1:]
	return strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
}

// CheckSize rejects uploads larger than limit bytes. A non-positive limit
// disables the check.
func CheckSize(size, limit int64) error {
	if limit <= 0 || size <= limit {
		return nil
	}
	return fmt.Errorf("%w: %s exceeds the %s limit",
		ErrFileTooLarge, humanize.Bytes(uint64(size)), humanize.Bytes(uint64(limit)))
}

// datasetFromGrid builds a Dataset from spreadsheet rows. Leading blank rows
// are skipped and the first remaining row is the header. Trailing blank rows
// are dropped. Rows wider than the header extend it with unnamed columns.
func datasetFromGrid(grid [][]string) (*Dataset, error) {
	start := 0
	for start < len(grid) && blankRow(grid[start]) {
		start++
	}
	end := len(grid)
	for end > start && blankRow(grid[end-1]) {
		end--
	}
	if start == end {
		return nil, fmt.Errorf("%w: no header row", ErrParse)
	}

	header := append([]string(nil), grid[start]...)
	records := grid[start+1 : end]
	for _, rec := range records {
		for len(header) < len(rec) {
			header = append(header, "")
		}
	}
	// Trailing unnamed header cells with no data under them are formatting
	// residue, not columns.
	for len(header) > 0 && strings.TrimSpace(header[len(header)-1]) == "" && !columnHasData(records, len(header)-1) {
		header = header[:len(header)-1]
	}
	if len(header) == 0 {
		return nil, fmt.Errorf("%w: no header row", ErrParse)
	}

	trimmed := make([][]string, len(records))
	for i, rec := range records {
		if len(rec) > len(header) {
			rec = rec[:len(header)]
		}
		trimmed[i] = rec
	}
	return datasetFromRecords("", header, trimmed)
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func columnHasData(records [][]string, j int) bool {
	for _, rec := range records {
		if j < len(rec) && strings.TrimSpace(rec[j]) != "" {
			return true
		}
	}
	return false
}
