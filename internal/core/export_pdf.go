package core

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf/v2"
)

// PDF layout, in millimetres on portrait A4.
const (
	pdfMarginLeft  = 15.0
	pdfMarginTop   = 20.0
	pdfTableWidth  = 180.0
	pdfRowHeight   = 7.0
	pdfFooterSpace = 20.0
)

type pdfExporter struct{}

func (pdfExporter) Format() ExportFormat { return FormatPDF }

func (pdfExporter) ContentType() string { return "application/pdf" }

// Write renders sheet as a paginated table. The header row is repeated at
// the top of every page.
func (pdfExporter) Write(w io.Writer, sheet Sheet) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMarginLeft, pdfMarginTop, pdfMarginLeft)
	pdf.SetAutoPageBreak(false, pdfFooterSpace)
	pdf.AliasNbPages("{nb}")

	// Core fonts are cp1252; translate UTF-8 input.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "", 9)
		pdf.SetTextColor(108, 117, 125)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	cols := len(sheet.Header)
	colWidth := pdfTableWidth
	if cols > 0 {
		colWidth = pdfTableWidth / float64(cols)
	}

	header := func() {
		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(233, 236, 239)
		pdf.SetTextColor(33, 37, 41)
		for _, h := range sheet.Header {
			pdf.CellFormat(colWidth, pdfRowHeight, tr(h), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 10)
	}

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(33, 37, 41)
	pdf.CellFormat(0, 10, tr(sheet.Title), "", 1, "L", false, 0, "")
	pdf.Ln(4)
	header()

	_, pageHeight := pdf.GetPageSize()
	for _, row := range sheet.Rows {
		if pdf.GetY()+pdfRowHeight > pageHeight-pdfFooterSpace {
			pdf.AddPage()
			header()
		}
		for i := 0; i < cols; i++ {
			var v any
			if i < len(row) {
				v = row[i]
			}
			align := "L"
			if _, numeric := v.(float64); numeric {
				align = "R"
			}
			text := pdf.SplitText(tr(cellText(v)), colWidth-2)
			first := ""
			if len(text) > 0 {
				first = text[0]
			}
			pdf.CellFormat(colWidth, pdfRowHeight, first, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

func init() {
	RegisterExporter(pdfExporter{})
}
