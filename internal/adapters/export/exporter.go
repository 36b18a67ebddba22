// internal/adapters/export/exporter.go
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/go-pdf/fpdf"
	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/pantry-be/internal/core/domain"
	"github.com/ammerola/pantry-be/internal/core/ports"
)

const (
	// ReportTitle heads the PDF report and is set as its document title.
	ReportTitle = "Inventory Report"
	sheetName   = "Inventory"
)

// pdfColumnWidths in millimetres, for ID, Name, Quantity, Category.
var pdfColumnWidths = []float64{50, 60, 25, 45}

// Exporter renders item lists as CSV, PDF and XLSX documents. Every format
// carries the same four columns in the order the items are given.
type Exporter struct{}

var _ ports.Exporter = (*Exporter)(nil)

// NewExporter creates an exporter
func NewExporter() *Exporter {
	return &Exporter{}
}

// ToCSV writes a header row followed by one row per item.
func (e *Exporter) ToCSV(items []domain.Item) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(domain.CSVHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, item := range items {
		if err := w.Write(row(item)); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	return buf.Bytes(), nil
}

// ToPDF renders a titled table. Rows flow onto new pages as needed.
func (e *Exporter) ToPDF(items []domain.Item) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(ReportTitle, false)
	pdf.SetCreator("pantry", false)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	header := func() {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetFillColor(204, 204, 204)
		for i, column := range domain.ExportColumns {
			pdf.CellFormat(pdfColumnWidths[i], 8, column, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 10)
	}

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 12, ReportTitle, "", 1, "C", false, 0, "")
	pdf.Ln(4)
	header()

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()

	for _, item := range items {
		if pdf.GetY()+7 > pageHeight-bottom-15 {
			pdf.AddPage()
			header()
		}
		for i, value := range row(item) {
			align := "L"
			if i == 2 {
				align = "R"
			}
			pdf.CellFormat(pdfColumnWidths[i], 7, tr(value), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}

	return buf.Bytes(), nil
}

// ToXLSX writes a single sheet with a bold header row.
func (e *Exporter) ToXLSX(items []domain.Item) ([]byte, error) {
	file := xlsx.NewFile()

	sheet, err := file.AddSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to add worksheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, column := range domain.ExportColumns {
		cell := headerRow.AddCell()
		cell.Value = column
		cell.GetStyle().Font.Bold = true
		cell.GetStyle().Fill.PatternType = "solid"
		cell.GetStyle().Fill.FgColor = "CCCCCC"
	}

	for _, item := range items {
		dataRow := sheet.AddRow()
		dataRow.AddCell().SetString(item.ID())
		dataRow.AddCell().SetString(item.Name)
		dataRow.AddCell().SetInt(item.Quantity)
		dataRow.AddCell().SetString(item.Category)
	}

	for i := 1; i <= len(domain.ExportColumns); i++ {
		sheet.SetColWidth(i, i, 20)
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write xlsx: %w", err)
	}

	return buf.Bytes(), nil
}

func row(item domain.Item) []string {
	return []string{item.ID(), item.Name, strconv.Itoa(item.Quantity), item.Category}
}
