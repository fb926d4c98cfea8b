package core

// validation.go decides whether a candidate task is acceptable.
//
// A task is accepted when its payment is a finite, non-negative number and
// its status is one of TaskStatuses. Name and date are free text and are
// not checked. Validation never mutates its input and reports every failed
// rule, not just the first.

import (
	"fmt"
	"math"
	"strings"
)

// ValidationError represents a single failed rule for a field.
type ValidationError struct {
	Field   string // Field name
	Value   string // The rejected value
	Message string // Human-readable error message
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// ValidationResult contains the result of validating one task.
type ValidationResult struct {
	Valid  bool              // True if all rules passed
	Errors []ValidationError // Failed rules (empty if Valid)
}

// Err returns nil for a valid result, otherwise an error wrapping
// ErrValidationRejected that lists every failed rule.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("%w: %s", ErrValidationRejected, strings.Join(msgs, "; "))
}

// ValidateTask checks a candidate task against the acceptance rules.
func ValidateTask(t Task) ValidationResult {
	result := ValidationResult{Valid: true}
	reject := func(field, value, msg string) {
		result.Valid = false
		result.Errors = append(result.Errors, ValidationError{Field: field, Value: value, Message: msg})
	}

	switch {
	case math.IsNaN(t.Payment) || math.IsInf(t.Payment, 0):
		reject("payment", FormatPayment(t.Payment), "must be a finite number")
	case t.Payment < 0:
		reject("payment", FormatPayment(t.Payment), "must not be negative")
	}
	if !t.Status.Valid() {
		reject("status", string(t.Status), fmt.Sprintf("value must be one of: %s", statusList()))
	}

	return result
}

// IsValidTask is the boolean form of ValidateTask.
func IsValidTask(t Task) bool {
	return ValidateTask(t).Valid
}

// ValidateHeaders checks that every required column is present and returns
// the header index. The error wraps ErrSchemaMismatch and names each
// missing column.
func ValidateHeaders(header []string) (HeaderIndex, error) {
	idx := MakeHeaderIndex(header)
	var missing []string

	for _, name := range RequiredHeaders {
		if _, ok := idx[name]; !ok {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required columns: %s", ErrSchemaMismatch, strings.Join(missing, ", "))
	}

	return idx, nil
}

// ParseTaskRow builds a candidate task from a CSV record using idx.
// It fails only when a cell cannot be converted; business rules are left
// to ValidateTask.
func ParseTaskRow(row []string, idx HeaderIndex) (Task, error) {
	rawCell := func(name string) (string, error) {
		pos := idx[name]
		if pos >= len(row) {
			return "", fmt.Errorf("%w: row has %d fields, column %q is at position %d",
				ErrValidationRejected, len(row), name, pos+1)
		}
		return row[pos], nil
	}
	cell := func(name string) (string, error) {
		v, err := rawCell(name)
		return CleanCell(v), err
	}

	var t Task
	var err error
	var raw string

	if t.Name, err = cell("name"); err != nil {
		return Task{}, err
	}
	if raw, err = cell("payment"); err != nil {
		return Task{}, err
	}
	if t.Payment, err = ParsePayment(raw); err != nil {
		return Task{}, fmt.Errorf("%w: payment: %v", ErrValidationRejected, err)
	}
	if t.Date, err = cell("date"); err != nil {
		return Task{}, err
	}
	// Status is compared exactly, so it is taken verbatim.
	if raw, err = rawCell("status"); err != nil {
		return Task{}, err
	}
	t.Status = TaskStatus(raw)

	return t, nil
}

func statusList() string {
	names := make([]string, len(TaskStatuses))
	for i, s := range TaskStatuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
