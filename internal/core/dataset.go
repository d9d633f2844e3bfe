package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ColumnKind tags a column as numeric or categorical. The tag is assigned
// once at ingestion and carried with the column.
type ColumnKind int

const (
	KindCategorical ColumnKind = iota
	KindNumeric
)

// String returns the lowercase kind name used in logs and JSON.
func (k ColumnKind) String() string {
	if k == KindNumeric {
		return "numeric"
	}
	return "categorical"
}

// MarshalText implements encoding.TextMarshaler.
func (k ColumnKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ColumnKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "numeric":
		*k = KindNumeric
	case "categorical":
		*k = KindCategorical
	default:
		return fmt.Errorf("unknown column kind %q", b)
	}
	return nil
}

// ValueKind identifies which field of a Value is set.
type ValueKind uint8

const (
	ValueNull ValueKind = iota
	ValueNumber
	ValueText
)

// Value is a single scalar cell.
type Value struct {
	Kind ValueKind
	Num  float64
	Text string
}

// Null returns a null cell.
func Null() Value { return Value{} }

// Number returns a numeric cell. NaN and ±Inf read as null.
func Number(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}
	}
	return Value{Kind: ValueNumber, Num: f}
}

// Text returns a text cell.
func Text(s string) Value { return Value{Kind: ValueText, Text: s} }

// IsNull reports whether the cell holds no value.
func (v Value) IsNull() bool { return v.Kind == ValueNull }

// String formats the cell for display. Nulls render as an empty string.
func (v Value) String() string {
	switch v.Kind {
	case ValueNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case ValueText:
		return v.Text
	default:
		return ""
	}
}

// Column is a named, typed sequence of cells.
type Column struct {
	Name   string
	Kind   ColumnKind
	Values []Value
}

// Floats returns the non-null numeric values of the column in row order.
// Text cells are skipped.
func (c Column) Floats() []float64 {
	out := make([]float64, 0, len(c.Values))
	for _, v := range c.Values {
		if v.Kind == ValueNumber {
			out = append(out, v.Num)
		}
	}
	return out
}

// Dataset is an ordered set of equally long, uniquely named columns.
// It is built once per upload and treated as read-only afterwards.
type Dataset struct {
	Name    string
	Columns []Column
}

// NumRows returns the number of rows. All columns share this length.
func (d *Dataset) NumRows() int {
	if d == nil || len(d.Columns) == 0 {
		return 0
	}
	return len(d.Columns[0].Values)
}

// NumColumns returns the number of columns.
func (d *Dataset) NumColumns() int {
	if d == nil {
		return 0
	}
	return len(d.Columns)
}

// Empty reports whether the dataset has zero rows.
func (d *Dataset) Empty() bool {
	return d.NumRows() == 0
}

// ColumnNames returns the column names in order.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the column with the given name.
func (d *Dataset) Column(name string) (Column, bool) {
	for _, c := range d.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Row returns the display strings for row i.
func (d *Dataset) Row(i int) []string {
	row := make([]string, len(d.Columns))
	for j, c := range d.Columns {
		row[j] = c.Values[i].String()
	}
	return row
}

// validate checks the column invariants: unique names and equal lengths.
func (d *Dataset) validate() error {
	seen := make(map[string]bool, len(d.Columns))
	for _, c := range d.Columns {
		if seen[c.Name] {
			return fmt.Errorf("duplicate column %q", c.Name)
		}
		seen[c.Name] = true
	}
	n := d.NumRows()
	for _, c := range d.Columns {
		if len(c.Values) != n {
			return fmt.Errorf("column %q has %d values, want %d", c.Name, len(c.Values), n)
		}
	}
	return nil
}

// nullTokens are the cell spellings read as missing values in text formats.
var nullTokens = map[string]bool{
	"":     true,
	"#N/A": true,
	"#NA":  true,
	"<NA>": true,
	"N/A":  true,
	"n/a":  true,
	"NA":   true,
	"NULL": true,
	"null": true,
	"NaN":  true,
	"nan":  true,
	"-NaN": true,
	"-nan": true,
	"None": true,
}

func isNullToken(s string) bool {
	return nullTokens[strings.TrimSpace(s)]
}

// parseNumber reports whether s reads as a number.
func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// normalizeHeader fills blank header cells and disambiguates repeated names
// by appending ".1", ".2", and so on.
func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		base := name
		for seen[name] > 0 {
			name = fmt.Sprintf("%s.%d", base, seen[base])
			seen[base]++
		}
		seen[name]++
		out[i] = name
	}
	return out
}

// datasetFromRecords builds a Dataset from a header row and string records,
// inferring each column's kind. A column is numeric when every non-null cell
// parses as a number, so a column of only nulls is numeric.
//
// Records shorter than the header are padded with nulls; longer records are
// an error.
func datasetFromRecords(name string, header []string, records [][]string) (*Dataset, error) {
	names := normalizeHeader(header)
	ds := &Dataset{Name: name, Columns: make([]Column, len(names))}

	for i, rec := range records {
		if len(rec) > len(names) {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", i+1, len(rec), len(names))
		}
	}

	for j, colName := range names {
		numeric := true
		for _, rec := range records {
			if j >= len(rec) || isNullToken(rec[j]) {
				continue
			}
			if _, ok := parseNumber(rec[j]); !ok {
				numeric = false
				break
			}
		}
		kind := KindCategorical
		if numeric {
			kind = KindNumeric
		}

		values := make([]Value, len(records))
		for i, rec := range records {
			if j >= len(rec) || isNullToken(rec[j]) {
				continue
			}
			if kind == KindNumeric {
				f, _ := parseNumber(rec[j])
				values[i] = Number(f)
			} else {
				values[i] = Text(rec[j])
			}
		}
		ds.Columns[j] = Column{Name: colName, Kind: kind, Values: values}
	}

	if err := ds.validate(); err != nil {
		return nil, err
	}
	return ds, nil
}
