package render

import (
	"fmt"
	"io"

	"github.com/dshills/auditkit/internal/schema"
)

// Renderer formats an Audit into bytes for output.
type Renderer interface {
	Render(audit *schema.Audit) ([]byte, error)
}

// Export formats honour the audit's filters; report and statistics formats
// always use the full record set.
const (
	FormatCSV   = "csv"
	FormatXLSX  = "xlsx"
	FormatPDF   = "pdf"
	FormatJSON  = "json"
	FormatMD    = "md"
	FormatTable = "table"
)

// NewRenderer returns a Renderer for the given format string. warn receives
// a line for every attachment the PDF report had to leave out; it may be nil.
// Supported formats: "csv", "xlsx", "pdf", "json", "md", "table".
func NewRenderer(format string, warn io.Writer) (Renderer, error) {
	switch format {
	case FormatCSV:
		return &csvRenderer{}, nil
	case FormatXLSX:
		return &xlsxRenderer{}, nil
	case FormatPDF:
		return &pdfRenderer{warn: warn}, nil
	case FormatJSON:
		return &jsonRenderer{}, nil
	case FormatMD:
		return &markdownRenderer{}, nil
	case FormatTable:
		return &tableRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown format %q: supported formats are csv, xlsx, pdf, json, md, table", format)
	}
}

// IsExportFormat reports whether format produces a record export.
func IsExportFormat(format string) bool {
	return format == FormatCSV || format == FormatXLSX
}

// IsStatsFormat reports whether format produces a statistics summary.
func IsStatsFormat(format string) bool {
	return format == FormatJSON || format == FormatMD || format == FormatTable
}
