package core

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExtensionFromFilename(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"data.csv", "csv"},
		{"Report.XLSX", "xlsx"},
		{"archive.tar.sql", "sql"},
		{"noext", ""},
		{`C:\Users\me\sales.xls`, "xls"},
		{"dir.v2/file", ""},
		{".csv", "csv"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtensionFromFilename(tt.name); got != tt.want {
				t.Errorf("ExtensionFromFilename(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestFormatRegistry(t *testing.T) {
	assert.Equal(t, []string{"csv", "sql", "xls", "xlsx"}, SupportedExtensions())

	for _, ext := range []string{"csv", ".CSV", " Csv "} {
		def, ok := FormatByExtension(ext)
		require.True(t, ok, ext)
		assert.Equal(t, "csv", def.Key)
	}

	_, ok := FormatByExtension("txt")
	assert.False(t, ok)

	assert.Panics(t, func() {
		RegisterFormat(FormatDefinition{Key: "csv2", Extensions: []string{"csv"}})
	})
	assert.Len(t, Formats(), 4)
}

func TestIngest_UnsupportedFormat(t *testing.T) {
	for _, ext := range []string{"txt", "", "json", "xlsm"} {
		_, err := Ingest(context.Background(), []byte("a,b\n1,2\n"), ext)
		assert.ErrorIs(t, err, ErrUnsupportedFormat, ext)
	}
}

func TestIngest_CSVRoundTripShape(t *testing.T) {
	const rows, cols = 25, 6

	var b strings.Builder
	for j := 0; j < cols; j++ {
		if j > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "c%d", j)
	}
	b.WriteByte('\n')
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if j > 0 {
				b.WriteByte(',')
			}
			if j%2 == 0 {
				fmt.Fprintf(&b, "%d", i*j)
			} else {
				fmt.Fprintf(&b, "v%d", i)
			}
		}
		b.WriteByte('\n')
	}

	ds, err := Ingest(context.Background(), []byte(b.String()), "CSV")
	require.NoError(t, err)
	assert.Equal(t, rows, ds.NumRows())
	assert.Equal(t, cols, ds.NumColumns())
	assert.Equal(t, []string{"c0", "c1", "c2", "c3", "c4", "c5"}, ds.ColumnNames())
	assert.Equal(t, KindNumeric, ds.Columns[0].Kind)
	assert.Equal(t, KindCategorical, ds.Columns[1].Kind)
}

func TestIngest_CSV(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantErr  error
		wantRows int
		wantCols []string
	}{
		{
			name:     "bom and crlf",
			input:    "\xEF\xBB\xBFcity,revenue\r\nOslo,10\r\nBergen,20\r\n",
			wantRows: 2,
			wantCols: []string{"city", "revenue"},
		},
		{
			name:     "header only",
			input:    "a,b\n",
			wantRows: 0,
			wantCols: []string{"a", "b"},
		},
		{
			name:     "quoted commas",
			input:    "name,note\n\"Smith, J\",\"a \"\"quote\"\"\"\n",
			wantRows: 1,
			wantCols: []string{"name", "note"},
		},
		{
			name:     "duplicate headers",
			input:    "x,x\n1,2\n",
			wantRows: 1,
			wantCols: []string{"x", "x.1"},
		},
		{
			name:    "empty file",
			input:   "",
			wantErr: ErrParse,
		},
		{
			name:     "short row padded",
			input:    "a,b\n1,2\n3\n",
			wantRows: 2,
			wantCols: []string{"a", "b"},
		},
		{
			name:    "row wider than header",
			input:   "a,b\n1,2\n3,4,5\n",
			wantErr: ErrParse,
		},
		{
			name:    "bare quote",
			input:   "a,b\n1,\"unterminated\n",
			wantErr: ErrParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := Ingest(context.Background(), []byte(tt.input), "csv")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRows, ds.NumRows())
			assert.Equal(t, tt.wantCols, ds.ColumnNames())
		})
	}
}

func TestIngest_CSVInvalidUTF8(t *testing.T) {
	ds, err := Ingest(context.Background(), []byte("name\ncaf\xE9\n"), "csv")
	require.NoError(t, err)
	assert.Equal(t, "caf\uFFFD", ds.Columns[0].Values[0].String())
}

func TestIngest_CSVCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Ingest(ctx, []byte("a\n1\n"), "csv")
	assert.ErrorIs(t, err, context.Canceled)
}

func buildXLSX(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestIngest_XLSX(t *testing.T) {
	data := buildXLSX(t, [][]any{
		{"city", "revenue", "margin"},
		{"Oslo", 120, 0.25},
		{"Bergen", 80, nil},
		{"Tromsø", 42.5, 0.1},
	})

	ds, err := Ingest(context.Background(), data, "xlsx")
	require.NoError(t, err)
	assert.Equal(t, []string{"city", "revenue", "margin"}, ds.ColumnNames())
	assert.Equal(t, 3, ds.NumRows())

	cls := Classify(ds)
	assert.Equal(t, []string{"city"}, cls.Categorical)
	assert.Equal(t, []string{"revenue", "margin"}, cls.Numeric)

	rev, _ := ds.Column("revenue")
	assert.Equal(t, []float64{120, 80, 42.5}, rev.Floats())
	margin, _ := ds.Column("margin")
	assert.True(t, margin.Values[1].IsNull())
}

func TestIngest_XLSXHeaderOnly(t *testing.T) {
	ds, err := Ingest(context.Background(), buildXLSX(t, [][]any{{"a", "b"}}), "xlsx")
	require.NoError(t, err)
	assert.True(t, ds.Empty())
	assert.Equal(t, 2, ds.NumColumns())
}

func TestIngest_SpreadsheetGarbage(t *testing.T) {
	for _, ext := range []string{"xlsx", "xls"} {
		t.Run(ext, func(t *testing.T) {
			_, err := Ingest(context.Background(), []byte("city,revenue\nOslo,1\n"), ext)
			assert.ErrorIs(t, err, ErrParse)
		})
	}
}

func TestCheckSize(t *testing.T) {
	assert.NoError(t, CheckSize(10, 0))
	assert.NoError(t, CheckSize(10, 10))

	err := CheckSize(2_000_000, 1_000_000)
	require.ErrorIs(t, err, ErrFileTooLarge)
	assert.Contains(t, err.Error(), "2.0 MB")
	assert.Contains(t, err.Error(), "1.0 MB")
}
