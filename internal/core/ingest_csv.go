package core

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

func init() {
	RegisterFormat(FormatDefinition{
		Key:        "csv",
		Label:      "CSV",
		Extensions: []string{"csv"},
		Parse:      parseCSV,
	})
}

// parseCSV reads a comma-separated file whose first record is the header.
// Short records are padded with nulls; records wider than the header are a
// parse error.
func parseCSV(ctx context.Context, data []byte) (*Dataset, error) {
	r := csv.NewReader(newTextReader(bytes.NewReader(data)))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: no header row", ErrParse)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	var records [][]string
	for {
		if len(records)%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		records = append(records, rec)
	}

	ds, err := datasetFromRecords("", header, records)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return ds, nil
}
