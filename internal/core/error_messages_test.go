package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"nil error returns empty", nil, ""},
		{"missing columns", fmt.Errorf("%w: missing required columns: Status", ErrSchemaMismatch), "VAL001"},
		{"invalid payment", fmt.Errorf("%w: payment: invalid number \"abc\"", ErrValidationRejected), "VAL002"},
		{"negative payment", ValidationResult{Errors: []ValidationError{{Field: "payment", Message: "must not be negative"}}}.Err(), "VAL003"},
		{"bad status", errors.New("status: value must be one of: Pending, In Progress, Completed"), "VAL004"},
		{"bare rejection", ErrValidationRejected, "VAL005"},
		{"body too large", errors.New("http: request body too large"), "FILE001"},
		{"malformed csv", fmt.Errorf("%w: bare quote", ErrInvalidCSV), "FILE002"},
		{"missing source", fmt.Errorf("%w: items.csv", ErrSourceNotFound), "FILE003"},
		{"unknown format", fmt.Errorf("%w: \"docx\"", ErrUnknownFormat), "EXP001"},
		{"export write", fmt.Errorf("%w: disk full", ErrExportWrite), "EXP002"},
		{"unknown task", fmt.Errorf("%w: \"Rent\"", ErrTaskNotFound), "EVD001"},
		{"unknown evidence", ErrEvidenceNotFound, "EVD002"},
		{"limiter full", ErrTooManyUploads, "UPL001"},
		{"cancelled", context.Canceled, "UPL002"},
		{"deadline", context.DeadlineExceeded, "UPL003"},
		{"rate limit", errors.New("rate limit exceeded"), "RATE001"},
		{"unknown error returns default", errors.New("some random internal error"), "ERR000"},
		{"case insensitive matching", errors.New("SOURCE NOT FOUND"), "FILE003"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError(%v).Code = %q, want %q", tt.err, got.Code, tt.wantCode)
			}
			if tt.err != nil && (got.Message == "" || got.Action == "") {
				t.Errorf("MapError(%v) = %+v, want message and action", tt.err, got)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q", got)
	}

	got := FormatUserError(ErrTooManyUploads)
	if !strings.Contains(got, "(Code: UPL001)") {
		t.Errorf("FormatUserError() = %q, want code", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	if IsUserFacing(nil) {
		t.Error("nil is not user facing")
	}
	if !IsUserFacing(ErrSourceNotFound) {
		t.Error("ErrSourceNotFound should be user facing")
	}
	if IsUserFacing(errors.New("segfault")) {
		t.Error("unknown error should not be user facing")
	}
}

func TestUserError(t *testing.T) {
	if NewUserError(nil) != nil {
		t.Fatal("NewUserError(nil) should be nil")
	}

	ue := NewUserError(fmt.Errorf("%w: items.csv", ErrSourceNotFound))
	if !errors.Is(ue, ErrSourceNotFound) {
		t.Error("UserError does not unwrap to the technical error")
	}
	if ue.Error() != ue.User.Message {
		t.Errorf("Error() = %q, want user message", ue.Error())
	}
}
