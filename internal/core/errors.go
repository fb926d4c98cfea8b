package core

import "errors"

// Sentinel errors. Callers match them with errors.Is; MapError turns them
// into user-facing messages.
var (
	// ErrValidationRejected marks a row that failed one of the task rules.
	ErrValidationRejected = errors.New("validation rejected")

	// ErrSourceNotFound is returned when the task source file does not exist.
	ErrSourceNotFound = errors.New("source not found")

	// ErrSchemaMismatch is returned when the header lacks a required column.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrInvalidCSV is returned when the source cannot be parsed as CSV.
	ErrInvalidCSV = errors.New("invalid csv")

	// ErrExportWrite wraps any failure while rendering or writing an export.
	ErrExportWrite = errors.New("export write failed")

	// ErrUnknownFormat is returned for an export format with no registered exporter.
	ErrUnknownFormat = errors.New("unknown export format")

	// ErrTaskNotFound is returned when evidence names a task that is not loaded.
	ErrTaskNotFound = errors.New("task not found")

	// ErrEvidenceNotFound is returned for an unknown evidence id.
	ErrEvidenceNotFound = errors.New("evidence not found")
)
