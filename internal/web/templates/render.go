// Package templates renders the HTML pages and HTMX fragments of the
// checklist UI as templ components.
//
// The *.templ files are the sources; run `templ generate` after editing
// them to refresh the *_templ.go files.
package templates

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/JonMunkholm/checklist/internal/core"
)

var printer = message.NewPrinter(language.English)

// FormatPayment renders an amount for display, e.g. "$1,234.50".
func FormatPayment(p float64) string {
	return printer.Sprintf("$%.2f", p)
}

// FormatCount renders an integer with thousands separators.
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}

func itoa(n int) string { return strconv.Itoa(n) }

func formatLabel(f core.ExportFormat) string {
	switch f {
	case core.FormatXLSX:
		return "Excel"
	case core.FormatPDF:
		return "PDF"
	default:
		return strings.ToUpper(string(f))
	}
}

// statusClass maps a status to its badge class, e.g. "In Progress" to
// "status-in-progress".
func statusClass(status string) string {
	return "status-" + strings.ReplaceAll(strings.ToLower(strings.TrimSpace(status)), " ", "-")
}
