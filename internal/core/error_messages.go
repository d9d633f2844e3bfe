package core

// error_messages.go maps pass errors to user-facing messages.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When users encounter errors, they can quote the error code to support staff
// for faster diagnosis.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds the configured size limit
//	          Action: Upload a smaller file
//	          Sentinel: ErrFileTooLarge
//
//	FILE002 - Parse error: File could not be read in its declared format
//	          Action: Ensure the file extension matches the file contents
//	          Sentinel: ErrParse
//
//	FILE004 - No file: No file was selected
//	          Action: Please select a file to upload
//	          Patterns: "no file provided"
//
//	FILE005 - Empty file: The uploaded file has no data rows
//	          Action: Upload a file with a header row and at least one data row
//	          Sentinel: ErrEmptyDataset
//
//	FILE006 - Unsupported format: Extension is not xls, xlsx, csv or sql
//	          Action: Upload one of the supported file types
//	          Sentinel: ErrUnsupportedFormat
//
// # SQL Script Errors (SQL001-SQL099)
//
//	SQL001 - No table: The script ran but created no tables
//	         Action: Include a CREATE TABLE statement in the script
//	         Sentinel: ErrNoTableFound
//
// # Pass Errors (PASS001-PASS099)
//
//	PASS001 - System busy: Too many files are being processed
//	          Action: Please wait a moment and try again
//	          Sentinel: ErrTooManyPasses
//
//	PASS002 - Request cancelled
//	          Patterns: "context canceled"
//
//	PASS003 - Request timeout
//	          Patterns: "context deadline exceeded"
//
// # Render Errors (RENDER001)
//
//	RENDER001 - Chart could not be drawn
//	            Patterns: "render chart"
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Too many requests
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when no sentinel or pattern matches.
//
// # Matching
//
// Sentinels are checked first with errors.Is, in table order. Patterns are
// then matched case-insensitively using strings.Contains; the first match
// wins, so more specific patterns come before general ones.

import (
	"errors"
	"fmt"
	"strings"
)

// TroubleshootingTips is the static help text shown under every pass error.
var TroubleshootingTips = []string{
	"Ensure the file format matches the selected file type.",
	"If it's a SQL file, confirm that it contains valid SQL commands.",
	"Check if the table name in the SQL file matches your data structure.",
}

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorSentinel maps a sentinel error to its user message.
type errorSentinel struct {
	target error
	msg    UserMessage
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorSentinels = []errorSentinel{
	{
		target: ErrFileTooLarge,
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Upload a smaller file",
			Code:    "FILE001",
		},
	},
	{
		target: ErrUnsupportedFormat,
		msg: UserMessage{
			Message: "Unsupported file type",
			Action:  "Upload an xls, xlsx, csv or sql file",
			Code:    "FILE006",
		},
	},
	{
		target: ErrParse,
		msg: UserMessage{
			Message: "The file could not be read",
			Action:  "Ensure the file extension matches the file contents",
			Code:    "FILE002",
		},
	},
	{
		target: ErrNoTableFound,
		msg: UserMessage{
			Message: "The SQL script did not create any tables",
			Action:  "Include a CREATE TABLE statement in the script",
			Code:    "SQL001",
		},
	},
	{
		target: ErrEmptyDataset,
		msg: UserMessage{
			Message: "The uploaded file seems empty or improperly formatted",
			Action:  "Upload a file with a header row and at least one data row",
			Code:    "FILE005",
		},
	},
	{
		target: ErrTooManyPasses,
		msg: UserMessage{
			Message: "System is busy processing other files",
			Action:  "Please wait a moment and try again",
			Code:    "PASS001",
		},
	},
}

// errorPatterns maps technical error text (case-insensitive) to user messages
// for errors that do not wrap a sentinel.
var errorPatterns = []errorPattern{
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a file to upload",
			Code:    "FILE004",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "PASS002",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or try again later",
			Code:    "PASS003",
		},
	},
	{
		pattern: "render chart",
		msg: UserMessage{
			Message: "The chart could not be drawn",
			Action:  "Check that numeric columns contain more than one distinct value",
			Code:    "RENDER001",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
//
// Example:
//
//	_, err := Ingest(ctx, data, "txt")
//	msg := MapError(err)
//	// msg.Code == "FILE006"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, es := range errorSentinels {
		if errors.Is(err, es.target) {
			return es.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
