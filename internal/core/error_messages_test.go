package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{
			name:     "nil error returns empty",
			err:      nil,
			wantCode: "",
		},
		{
			name:     "missing required field",
			err:      ValidationError{Field: "email", Message: "required field is empty"},
			wantCode: "VAL001",
		},
		{
			name:     "unknown source",
			err:      ValidationError{Field: "sourceName", Value: "Nope", Message: "unknown source; must be one of: Staff"},
			wantCode: "VAL002",
		},
		{
			name:     "unknown status",
			err:      ValidationError{Field: "status", Value: "Retired", Message: "unknown status; must be one of: Active, Inactive, OnLeave"},
			wantCode: "VAL004",
		},
		{
			name:     "wrapped validation error",
			err:      fmt.Errorf("add member: %w", ValidationError{Field: "name", Message: "required field is empty"}),
			wantCode: "VAL001",
		},
		{
			name:     "bad request body",
			err:      errors.New("invalid request body: unexpected EOF"),
			wantCode: "VAL003",
		},
		{
			name:     "fetch unavailable",
			err:      newFetchError("Staff", fmt.Errorf("%w: status 503", ErrSourceUnavailable)),
			wantCode: "SRC001",
		},
		{
			name:     "fetch malformed",
			err:      newFetchError("Staff", fmt.Errorf("%w: not json", ErrSourceMalformed)),
			wantCode: "SRC002",
		},
		{
			name:     "catalog failure",
			err:      &CatalogError{Err: ErrSourceUnavailable},
			wantCode: "SRC003",
		},
		{
			name:     "export failure",
			err:      &ExportError{Row: 2, Field: "Name", Err: errCarriageReturn},
			wantCode: "EXP001",
		},
		{
			name:     "member not found",
			err:      fmt.Errorf("update: %w", ErrMemberNotFound),
			wantCode: "ROS001",
		},
		{
			name:     "refresh in progress",
			err:      ErrRefreshInProgress,
			wantCode: "ROS002",
		},
		{
			name:     "rate limit maps correctly",
			err:      errors.New("rate limit exceeded"),
			wantCode: "RATE001",
		},
		{
			name:     "case insensitive matching",
			err:      errors.New("Source Unavailable upstream"),
			wantCode: "SRC001",
		},
		{
			name:     "unknown error returns default",
			err:      errors.New("some random internal error"),
			wantCode: "ERR000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if tt.err != nil && got.Message == "" {
				t.Error("MapError() message is empty")
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}

	got := FormatUserError(ErrMemberNotFound)
	expected := "The member no longer exists in the roster. Refresh the directory and try again (ROS001)"
	if got != expected {
		t.Errorf("FormatUserError() = %q, want %q", got, expected)
	}
}
