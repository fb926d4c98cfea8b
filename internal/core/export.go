package core

// export.go renders task and project tables to downloadable files.
//
// Every exporter works from a Sheet: a title, a header row and rows of
// strings or float64 payments. Output is rendered into memory first, so a
// failed export never leaves a partial file or response behind.

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ExportFormat names an output file format.
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatXLSX ExportFormat = "xlsx"
	FormatPDF  ExportFormat = "pdf"
)

// DefaultExportFormat is used when a caller does not name one.
const DefaultExportFormat = FormatXLSX

// Export file base names.
const (
	TaskExportName    = "checklist_export"
	ProjectExportName = "checklists"
)

// ParseExportFormat resolves a format name case-insensitively. An empty
// name selects DefaultExportFormat.
func ParseExportFormat(s string) (ExportFormat, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultExportFormat, nil
	}
	f := ExportFormat(s)
	if _, ok := LookupExporter(f); !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
	return f, nil
}

// FileName returns base with the format's extension.
func (f ExportFormat) FileName(base string) string {
	return base + "." + string(f)
}

// Sheet is a rectangular table ready for export. Row values are strings
// or float64.
type Sheet struct {
	Title  string
	Header []string
	Rows   [][]any
}

// TaskSheet builds the export sheet for tasks in the given order.
func TaskSheet(tasks []Task) Sheet {
	rows := make([][]any, len(tasks))
	for i, t := range tasks {
		rows[i] = []any{t.Name, t.Payment, t.Date, string(t.Status)}
	}
	return Sheet{Title: "Checklist", Header: TaskExportColumns, Rows: rows}
}

// ProjectSheet builds the export sheet for overview projects.
func ProjectSheet(projects []Project) Sheet {
	rows := make([][]any, len(projects))
	for i, p := range projects {
		rows[i] = []any{p.Name, p.Owner, p.Status, p.Progress}
	}
	return Sheet{Title: "Checklists", Header: ProjectExportColumns, Rows: rows}
}

// cellText formats a sheet value for text-based formats.
func cellText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return FormatPayment(val)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}

// Render renders sheet in format and returns the file contents.
func Render(format ExportFormat, sheet Sheet) ([]byte, error) {
	e, ok := LookupExporter(format)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	var buf bytes.Buffer
	if err := e.Write(&buf, sheet); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrExportWrite, format, err)
	}
	return buf.Bytes(), nil
}

// Export renders sheet in format and writes it to w.
func Export(w io.Writer, format ExportFormat, sheet Sheet) error {
	data, err := Render(format, sheet)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("%w: %v", ErrExportWrite, err)
	}
	return nil
}

// ExportFile writes sheet to path. The file is written to a temporary
// sibling and renamed into place, so path is either fully written or left
// as it was.
func ExportFile(path string, format ExportFormat, sheet Sheet) error {
	data, err := Render(format, sheet)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExportWrite, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrExportWrite, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrExportWrite, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrExportWrite, err)
	}
	return nil
}

// ExportTasks writes tasks to path in format.
func ExportTasks(path string, format ExportFormat, tasks []Task) error {
	return ExportFile(path, format, TaskSheet(tasks))
}

type csvExporter struct{}

func (csvExporter) Format() ExportFormat { return FormatCSV }

func (csvExporter) ContentType() string { return "text/csv; charset=utf-8" }

func (csvExporter) Write(w io.Writer, sheet Sheet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(sheet.Header); err != nil {
		return err
	}

	record := make([]string, len(sheet.Header))
	for _, row := range sheet.Rows {
		for i := range record {
			record[i] = ""
			if i < len(row) {
				record[i] = cellText(row[i])
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func init() {
	RegisterExporter(csvExporter{})
}
