package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/dshills/auditkit/internal/pdfreport"
	"github.com/dshills/auditkit/internal/schema"
)

type pdfRenderer struct {
	warn io.Writer
}

// Render builds the PDF report from the full record set.
func (r *pdfRenderer) Render(audit *schema.Audit) ([]byte, error) {
	res, err := pdfreport.Build(Document(audit, r.warn))
	if err != nil {
		return nil, err
	}
	return res.PDF, nil
}

// Document maps an audit onto the report layout input.
func Document(audit *schema.Audit, warn io.Writer) pdfreport.Document {
	doc := pdfreport.Document{
		Title:   ReportTitle(audit.Catalog),
		Meta:    audit.Meta,
		Records: audit.Records,
		Logo:    audit.Logo,
		Warn:    warn,
	}
	if audit.Catalog != nil {
		doc.Sections = audit.Catalog.SectionNames()
	}
	return doc
}

// ReportTitle derives the report heading from the catalog title, so the
// "Checklist ..." catalog yields "Report ...".
func ReportTitle(c *schema.Catalog) string {
	if c == nil || c.Title == "" {
		return pdfreport.DefaultTitle
	}
	return fmt.Sprintf("Report %s", strings.TrimPrefix(c.Title, "Checklist "))
}
