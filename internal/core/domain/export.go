// internal/core/domain/export.go
package domain

import "strings"

// ExportFormat is a supported export file type.
type ExportFormat string

// Export formats
const (
	ExportCSV  ExportFormat = "csv"
	ExportPDF  ExportFormat = "pdf"
	ExportXLSX ExportFormat = "xlsx"
)

// ParseExportFormat resolves a format name, case-insensitively.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(s))) {
	case ExportCSV:
		return ExportCSV, nil
	case ExportPDF:
		return ExportPDF, nil
	case ExportXLSX:
		return ExportXLSX, nil
	default:
		return "", NewValidationError("format", "unsupported export format: "+s)
	}
}

// Filename returns the download name for the format.
func (f ExportFormat) Filename() string {
	switch f {
	case ExportPDF:
		return "inventory_report.pdf"
	case ExportXLSX:
		return "inventory.xlsx"
	default:
		return "inventory.csv"
	}
}

// ContentType returns the MIME type for the format.
func (f ExportFormat) ContentType() string {
	switch f {
	case ExportPDF:
		return "application/pdf"
	case ExportXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv"
	}
}

// Report is a rendered export ready to download or archive.
type Report struct {
	Format      ExportFormat
	Filename    string
	ContentType string
	Data        []byte
	ItemCount   int
}

// ArchivedReport points to a report stored in object storage.
type ArchivedReport struct {
	Key         string `json:"key"`
	Filename    string `json:"filename"`
	DownloadURL string `json:"download_url"`
	Size        int64  `json:"size"`
}

// ExportColumns are the column headings shared by every export format.
var ExportColumns = []string{"ID", "Name", "Quantity", "Category"}

// CSVHeader is the header row of the CSV export.
var CSVHeader = []string{"id", "name", "quantity", "category"}
