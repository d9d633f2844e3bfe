// Package core turns one uploaded file into a previewable dataset and a
// chart description.
//
// This package contains the domain logic independent of any UI or transport
// layer. The web server and the autochart CLI both drive it through
// [Service.Analyze] or the lower-level functions below.
//
// # Pass
//
// One upload is processed by a single synchronous pass:
//
//  1. [Ingest] parses the bytes according to the file extension
//  2. [Classify] splits the columns into categorical and numeric
//  3. [SelectChart] applies the chart rule table with the session's themes
//
// A dataset with zero rows stops after step 1 and is reported with
// [ErrEmptyDataset].
//
// # Formats
//
// Formats are registered at init time using [RegisterFormat]:
//
//	core.RegisterFormat(FormatDefinition{
//	    Key:        "csv",
//	    Label:      "CSV",
//	    Extensions: []string{"csv"},
//	    Parse:      parseCSV,
//	})
//
// csv, xlsx, xls and sql are built in. SQL scripts run against a private
// in-memory SQLite database that is closed before [Ingest] returns.
//
// # Themes
//
// Categorical palettes and continuous gradients are closed enumerations.
// Unknown names resolve to [DefaultCategoricalTheme] and
// [DefaultContinuousTheme]; lookups never fail.
//
// # Error Handling
//
// Pass failures wrap one of the sentinels in errors.go. [MapError] turns
// them into user-facing messages with a support code:
//
//   - FILE001-FILE006: File errors (size, parse, empty, unsupported)
//   - SQL001: SQL script created no table
//   - PASS001-PASS003: Pass errors (busy, cancelled, timeout)
//   - RENDER001: Chart drawing failed
//
// # History
//
// When a database is configured, pass metadata (never the data itself) is
// written to Postgres and pruned by [StartHistoryPruner].
package core
