package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "wrapped parse error",
			err:         fmt.Errorf("csv: %w: record on line 3: wrong number of fields", ErrParse),
			wantCode:    "FILE002",
			wantMessage: "The file could not be read",
		},
		{
			name:        "unsupported format",
			err:         fmt.Errorf("%w: %q", ErrUnsupportedFormat, "txt"),
			wantCode:    "FILE006",
			wantMessage: "Unsupported file type",
		},
		{
			name:        "sql script without table",
			err:         fmt.Errorf("sql: %w", ErrNoTableFound),
			wantCode:    "SQL001",
			wantMessage: "The SQL script did not create any tables",
		},
		{
			name:        "empty dataset",
			err:         fmt.Errorf("data.csv: %w", ErrEmptyDataset),
			wantCode:    "FILE005",
			wantMessage: "The uploaded file seems empty or improperly formatted",
		},
		{
			name:        "file too large",
			err:         fmt.Errorf("%w: 20 MB exceeds 10 MB", ErrFileTooLarge),
			wantCode:    "FILE001",
			wantMessage: "File exceeds the maximum upload size",
		},
		{
			name:        "render failure by pattern",
			err:         errors.New("render chart: invalid data range"),
			wantCode:    "RENDER001",
			wantMessage: "The chart could not be drawn",
		},
		{
			name:        "deadline",
			err:         fmt.Errorf("pass: %w", context.DeadlineExceeded),
			wantCode:    "PASS003",
			wantMessage: "Request timed out",
		},
		{
			name:        "rate limit",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("NO FILE PROVIDED"),
			wantCode:    "FILE004",
			wantMessage: "No file was selected",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestMapError_SentinelBeatsPattern(t *testing.T) {
	// Message text mentions a rate limit, but the wrapped sentinel decides.
	err := fmt.Errorf("rate limit while reading: %w", ErrParse)
	if got := MapError(err).Code; got != "FILE002" {
		t.Errorf("MapError() code = %q, want FILE002", got)
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(fmt.Errorf("x: %w", ErrNoTableFound))

	expected := "The SQL script did not create any tables (Code: SQL001). Include a CREATE TABLE statement in the script"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}

	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil error is not user facing", err: nil, want: false},
		{name: "sentinel is user facing", err: ErrEmptyDataset, want: true},
		{name: "unknown error is not user facing", err: errors.New("random internal error xyz"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewUserError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if got := NewUserError(nil); got != nil {
			t.Errorf("NewUserError(nil) = %v, want nil", got)
		}
	})

	t.Run("wraps technical error with user message", func(t *testing.T) {
		techErr := fmt.Errorf("xlsx: %w: zip: not a valid zip file", ErrParse)
		userErr := NewUserError(techErr)

		if userErr.Error() != "The file could not be read" {
			t.Errorf("Error() = %q, want user message", userErr.Error())
		}
		if !errors.Is(userErr, ErrParse) {
			t.Error("Unwrap() should expose the sentinel")
		}
	})
}
