package core

import (
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// maxSheetNameLen is Excel's limit on worksheet names.
const maxSheetNameLen = 31

type xlsxExporter struct{}

func (xlsxExporter) Format() ExportFormat { return FormatXLSX }

func (xlsxExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Write renders sheet as a single-worksheet workbook. Payments are stored
// as numbers so spreadsheet formulas work on them.
func (xlsxExporter) Write(w io.Writer, sheet Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	name := xlsxSheetName(sheet.Title)
	if err := f.SetSheetName("Sheet1", name); err != nil {
		return err
	}

	header := make([]any, len(sheet.Header))
	for i, h := range sheet.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return err
	}

	for i, row := range sheet.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(name, cell, &values); err != nil {
			return err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetRowStyle(name, 1, 1, bold); err != nil {
		return err
	}

	if n := len(sheet.Header); n > 0 {
		last, err := excelize.ColumnNumberToName(n)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(name, "A", last, 20); err != nil {
			return err
		}
	}

	_, err = f.WriteTo(w)
	return err
}

// xlsxSheetName makes title usable as a worksheet name.
func xlsxSheetName(title string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, strings.TrimSpace(title))

	if name == "" {
		return "Sheet1"
	}
	if r := []rune(name); len(r) > maxSheetNameLen {
		name = string(r[:maxSheetNameLen])
	}
	return name
}

func init() {
	RegisterExporter(xlsxExporter{})
}
