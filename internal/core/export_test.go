package core

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestExport_CSVHeaderOnlyWhenEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Export(&buf, FormatCSV, TaskSheet(nil)); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want header only", len(records))
	}
	if want := []string{"Task Name", "Payment", "Date", "Status"}; !reflect.DeepEqual(records[0], want) {
		t.Errorf("header = %v, want %v", records[0], want)
	}
}

func TestExport_CSVRows(t *testing.T) {
	tasks := []Task{
		{Name: "Rent, March", Payment: 1200.5, Date: "2024-03-01", Status: StatusPending},
		{Name: "Taxes", Payment: 300, Date: "2024-04-15", Status: StatusCompleted},
	}

	var buf bytes.Buffer
	if err := Export(&buf, FormatCSV, TaskSheet(tasks)); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{
		{"Task Name", "Payment", "Date", "Status"},
		{"Rent, March", "1200.5", "2024-03-01", "Pending"},
		{"Taxes", "300", "2024-04-15", "Completed"},
	}
	if !reflect.DeepEqual(records, want) {
		t.Errorf("records = %v, want %v", records, want)
	}
}

func TestExport_XLSX(t *testing.T) {
	tasks := []Task{{Name: "Rent", Payment: 1200.5, Date: "2024-03-01", Status: StatusInProgress}}

	var buf bytes.Buffer
	if err := Export(&buf, FormatXLSX, TaskSheet(tasks)); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Checklist")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if !reflect.DeepEqual(rows[0], TaskExportColumns) {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "Rent" || rows[1][1] != "1200.5" || rows[1][3] != "In Progress" {
		t.Errorf("row = %v", rows[1])
	}
}

func TestExport_XLSXHeaderOnlyWhenEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Export(&buf, FormatXLSX, TaskSheet([]Task{})); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := f.GetRows("Checklist")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || !reflect.DeepEqual(rows[0], TaskExportColumns) {
		t.Errorf("rows = %v, want header only", rows)
	}
}

func TestExport_PDF(t *testing.T) {
	var buf bytes.Buffer
	if err := Export(&buf, FormatPDF, TaskSheet(makeTasks(80))); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Errorf("output does not start with %%PDF")
	}
}

func TestExport_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Export(&buf, ExportFormat("docx"), TaskSheet(nil))
	if !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("error = %v, want ErrUnknownFormat", err)
	}
	if buf.Len() != 0 {
		t.Error("failed export wrote output")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestExport_WriteFailure(t *testing.T) {
	err := Export(failingWriter{}, FormatCSV, TaskSheet(makeTasks(2)))
	if !errors.Is(err, ErrExportWrite) {
		t.Fatalf("error = %v, want ErrExportWrite", err)
	}
}

func TestExportFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FormatCSV.FileName(TaskExportName))

	if err := ExportTasks(path, FormatCSV, makeTasks(3)); err != nil {
		t.Fatalf("ExportTasks() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 4 {
		t.Errorf("got %d records, want 4", len(records))
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}

func TestExportFile_UnwritableDestination(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.csv")
	if err := ExportTasks(path, FormatCSV, nil); !errors.Is(err, ErrExportWrite) {
		t.Fatalf("error = %v, want ErrExportWrite", err)
	}
}

func TestParseExportFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    ExportFormat
		wantErr bool
	}{
		{"", DefaultExportFormat, false},
		{"csv", FormatCSV, false},
		{"XLSX", FormatXLSX, false},
		{" pdf ", FormatPDF, false},
		{"docx", "", true},
	}
	for _, tt := range tests {
		got, err := ParseExportFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseExportFormat(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseExportFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExportFormats(t *testing.T) {
	want := []ExportFormat{FormatCSV, FormatPDF, FormatXLSX}
	if got := ExportFormats(); !reflect.DeepEqual(got, want) {
		t.Errorf("ExportFormats() = %v, want %v", got, want)
	}
}

func TestProjectSheet(t *testing.T) {
	var buf bytes.Buffer
	if err := Export(&buf, FormatCSV, ProjectSheet(DefaultProjects)); err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(records[0], ProjectExportColumns) {
		t.Errorf("header = %v", records[0])
	}
	if len(records) != len(DefaultProjects)+1 {
		t.Errorf("got %d records", len(records))
	}
}

func TestXLSXSheetName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Checklist", "Checklist"},
		{"", "Sheet1"},
		{"Q1/Q2 [draft]", "Q1_Q2 _draft_"},
		{"a very long worksheet title that exceeds the limit", "a very long worksheet title tha"},
	}
	for _, tt := range tests {
		if got := xlsxSheetName(tt.in); got != tt.want {
			t.Errorf("xlsxSheetName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
