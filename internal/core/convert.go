package core

// convert.go turns raw CSV cells into task field values.
//
// Task sources are usually exported from spreadsheets, so cells may carry
// currency symbols, thousands separators, accounting-style negatives or
// Excel formula wrappers. Payments are normalized before parsing and always
// rendered back in one canonical form.

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// numericRegex validates that a string is a plain number after cleanup.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// MakeHeaderIndex maps each trimmed header name to its column. Names are
// matched case-sensitively; when a name repeats, the first column wins.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		key := strings.TrimSpace(h)
		if _, dup := idx[key]; dup {
			continue
		}
		idx[key] = i
	}
	return idx
}

// CleanCell removes common spreadsheet artifacts from a cell value:
// surrounding whitespace, the Excel text prefix (="...") and stray quotes.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") && len(s) >= 3 {
		s = s[2 : len(s)-1]
	}

	return strings.TrimSpace(strings.Trim(s, `"`))
}

// ParsePayment converts a payment cell to a float.
// Handles currency symbols, thousands separators, and accounting format
// (parentheses for negative). NaN and infinities are rejected.
func ParsePayment(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("payment is empty")
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.NewReplacer("$", "", "€", "", "£", "", ",", "").Replace(s)
	s = strings.TrimSpace(s)

	if negative {
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return 0, fmt.Errorf("invalid number %q", raw)
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", raw)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("number out of range %q", raw)
	}

	return f, nil
}

// FormatPayment renders a payment without a currency symbol using the
// shortest representation that round-trips (12.5, 100, 0.25).
func FormatPayment(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// PaymentSearchText is the form search matches payments against. It always
// carries a fractional part (5 becomes "5.0") and switches to exponent
// notation outside [1e-4, 1e16), so "5.0" finds a payment of 5.
func PaymentSearchText(p float64) string {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return strconv.FormatFloat(p, 'f', -1, 64)
	}
	if abs := math.Abs(p); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(p, 'e', -1, 64)
	}
	s := strconv.FormatFloat(p, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
