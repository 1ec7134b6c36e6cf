// Package pdfreport lays out the audit report: cover summary, one portrait
// table per section, a landscape non-conformity appendix, signatures and a
// photo appendix.
package pdfreport

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/dshills/auditkit/internal/markup"
	"github.com/dshills/auditkit/internal/review"
	"github.com/dshills/auditkit/internal/schema"
)

// DefaultTitle heads the report when the document has no title.
const DefaultTitle = "Report Audit Fornitore"

// Document is everything the report is built from. Attachment data in
// Records and Logo is borrowed for the duration of Build only.
type Document struct {
	Title    string
	Meta     schema.Meta
	Sections []string // catalog order; derived from Records when nil
	Records  []schema.Record
	Logo     *schema.Attachment
	Warn     io.Writer // receives one line per skipped image; may be nil
}

// Orientation of a page.
type Orientation string

const (
	Portrait  Orientation = "P"
	Landscape Orientation = "L"
)

// Page describes one emitted page.
type Page struct {
	Number      int         `json:"number"`
	Orientation Orientation `json:"orientation"`
	Part        string      `json:"part"`
}

// Report parts, as recorded on each Page.
const (
	PartBody          = "body"
	PartNonConformity = "non-conformities"
	PartClosing       = "closing"
	PartPhotoAppendix = "photos"
)

// Result is the rendered PDF plus a description of its layout.
type Result struct {
	PDF      []byte
	Pages    []Page
	Tables   []string          // section tables in emission order
	Headers  []TableHeader     // every table header drawn, in order
	Appendix []schema.EntryKey // non-conformity rows in emission order
	Photos   []string          // captions of placed images
	Skipped  []string          // logo or attachments that could not be decoded
}

// TableHeader records a table header row drawn on a page.
type TableHeader struct {
	Table string
	Page  int
}

// appendixTable names the non-conformity table in Result.Headers.
const appendixTable = "Non Conformità"

// Build renders doc. The output depends only on doc: the PDF creation and
// modification dates are pinned to the audit date.
func Build(doc Document) (*Result, error) {
	return newBuilder(doc).render(doc)
}

func (b *builder) render(doc Document) (*Result, error) {
	b.addPage(Portrait, PartBody)
	b.logo(doc.Logo)
	b.titleBlock(doc)
	b.summary(review.Overview(doc.Records))
	b.sectionTables(doc)
	b.nonConformities(doc.Records)
	b.signatures()
	b.photos(doc.Records)

	if err := b.pdf.Error(); err != nil {
		return nil, fmt.Errorf("laying out report: %w", err)
	}
	var buf bytes.Buffer
	if err := b.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing report: %w", err)
	}
	b.res.PDF = buf.Bytes()
	return b.res, nil
}

func (b *builder) titleBlock(doc Document) {
	title := doc.Title
	if title == "" {
		title = DefaultTitle
	}
	b.heading(title, h1Size)

	line := fmt.Sprintf("Fornitore: %s   Data: %s   Auditor: %s",
		markup.Bold(markup.Escape(orDash(doc.Meta.Supplier))),
		markup.Bold(markup.Escape(orDash(doc.Meta.Date.String()))),
		markup.Bold(markup.Escape(orDash(doc.Meta.Auditor))))
	b.rich(line, bodySize)
	b.space(3)
}

func (b *builder) summary(s schema.Summary) {
	b.keyValueTable([][2]string{
		{"Conformità totale (semplice)", percent(s.Simple)},
		{"Conformità totale (ponderata)", percent(s.Weighted)},
		{"Requisiti conformi", fmt.Sprint(s.Compliant)},
		{"Requisiti non conformi", fmt.Sprint(s.NonCompliant)},
		{"Requisiti valutati", fmt.Sprint(s.Evaluated)},
	}, 70)
	b.space(4)
}

var sectionColumns = []column{
	{title: "#", width: 10},
	{title: "Requisito", width: 62},
	{title: "Stato", width: 24},
	{title: "Riferimento", width: 41, small: true},
	{title: "Note", width: 33, small: true},
}

func (b *builder) sectionTables(doc Document) {
	groups := make(map[string][]schema.Record)
	order := doc.Sections
	for _, r := range doc.Records {
		if _, ok := groups[r.Section]; !ok && doc.Sections == nil {
			order = append(order, r.Section)
		}
		groups[r.Section] = append(groups[r.Section], r)
	}

	for _, name := range order {
		recs := append([]schema.Record(nil), groups[name]...)
		sort.SliceStable(recs, func(i, j int) bool { return recs[i].Index < recs[j].Index })

		rows := make([][]string, len(recs))
		for i, r := range recs {
			rows[i] = []string{fmt.Sprint(r.Index), r.Requirement, r.Status.Label(), r.Reference, r.Notes}
		}
		b.heading(name, h2Size)
		b.table(name, sectionColumns, rows, tableStyle{
			headerFill: colorHeaderGrey,
			rowText: func(i int) rgb {
				if recs[i].Status == schema.StatusNonCompliant {
					return colorNCRow
				}
				return colorBlack
			},
		})
		b.res.Tables = append(b.res.Tables, name)
		b.space(3.5)
	}
}

var appendixColumns = []column{
	{title: "#", width: 9},
	{title: "Sezione", width: 32, small: true},
	{title: "Requisito", width: 87},
	{title: "Livello", width: 14},
	{title: "Cause", width: 43, small: true},
	{title: "Trattamento", width: 40, small: true},
	{title: "Periodo", width: 14},
	{title: "Data tratt.", width: 17},
	{title: "Verifica", width: 17},
	{title: "Responsabile", width: 20, small: true},
}

// nonConformities emits the landscape appendix when at least one record is
// non-compliant, then returns to portrait for what follows.
func (b *builder) nonConformities(records []schema.Record) {
	ncs := review.NonCompliant(records)
	if len(ncs) == 0 {
		return
	}
	b.addPage(Landscape, PartNonConformity)
	b.heading("Non Conformità — Riepilogo complessivo", h1Size)
	b.text("Elenco sintetico di tutte le NC rilevate, con campi principali.", smallSize, "", colorGrey)
	b.space(2)

	rows := make([][]string, len(ncs))
	for i, r := range ncs {
		rows[i] = []string{
			fmt.Sprint(r.Index), r.Section, r.Requirement, r.NCLevel.Label(),
			r.CauseAnalysis, r.CorrectiveAction, r.TargetPeriod.Label(),
			schema.FormatDate(r.PlannedCompletion), schema.FormatDate(r.PlannedVerification), r.Responsible,
		}
		b.res.Appendix = append(b.res.Appendix, schema.EntryKey{Section: r.Section, Index: r.Index})
	}
	b.table(appendixTable, appendixColumns, rows, tableStyle{
		headerFill: colorNCHeader,
		size:       8,
		pad:        0.7,
		rowText:    func(int) rgb { return colorNCBody },
	})
	b.addPage(Portrait, PartClosing)
}

func (b *builder) signatures() {
	b.ensure(32)
	b.heading("Firme", h2Size)
	left, _, _, _ := b.pdf.GetMargins()
	y := b.pdf.GetY()
	b.pdf.SetFont(fontFamily, "B", bodySize)
	b.pdf.SetXY(left, y)
	b.pdf.CellFormat(80, lineHeight(bodySize), b.tr("Auditor"), "", 0, "C", false, 0, "")
	b.pdf.CellFormat(80, lineHeight(bodySize), b.tr("Rappresentante Fornitore"), "", 1, "C", false, 0, "")
	b.pdf.SetFont(fontFamily, "", bodySize)
	b.pdf.SetXY(left, y+14)
	b.pdf.CellFormat(80, lineHeight(bodySize), "__________________________", "", 0, "C", false, 0, "")
	b.pdf.CellFormat(80, lineHeight(bodySize), "__________________________", "", 1, "C", false, 0, "")
	b.space(3)
}

func orDash(s string) string {
	if s == "" {
		return schema.NoData
	}
	return s
}

func percent(p schema.Percentage) string {
	if !p.Valid {
		return schema.NoData
	}
	return p.String() + "%"
}

// pinnedTime is the document timestamp used when the audit has no date.
var pinnedTime = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

func documentTime(d schema.Date) time.Time {
	if d.IsZero() {
		return pinnedTime
	}
	return d.Time()
}
