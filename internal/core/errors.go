package core

import "errors"

// Pass failures. Each is wrapped with context at the point it occurs, so
// callers match them with errors.Is.
var (
	// ErrUnsupportedFormat means the file extension is not one of the
	// registered formats.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrParse means the bytes could not be read as the declared format.
	ErrParse = errors.New("parse error")

	// ErrNoTableFound means a SQL script ran but created no tables.
	ErrNoTableFound = errors.New("no table found in SQL script")

	// ErrEmptyDataset means ingestion succeeded but produced zero rows.
	ErrEmptyDataset = errors.New("empty dataset")

	// ErrFileTooLarge means the upload exceeds the configured size limit.
	ErrFileTooLarge = errors.New("file too large")
)
