package pdfreport

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/dshills/auditkit/internal/markup"
)

const (
	fontFamily = "Helvetica"
	h1Size     = 16
	h2Size     = 12.5
	bodySize   = 10
	smallSize  = 8.5
)

// Page geometry in millimetres.
var (
	a4 = fpdf.SizeType{Wd: 210, Ht: 297}

	portraitMargins  = margins{left: 20, top: 15, right: 20, bottom: 15}
	landscapeMargins = margins{left: 2, top: 2, right: 2, bottom: 2}
)

type margins struct{ left, top, right, bottom float64 }

type rgb struct{ r, g, b int }

var (
	colorBlack      = rgb{0, 0, 0}
	colorGrey       = rgb{107, 114, 128}
	colorBorder     = rgb{128, 128, 128}
	colorHeaderGrey = rgb{229, 231, 235}
	colorSummary    = rgb{243, 244, 246}
	colorNCRow      = rgb{185, 28, 28}
	colorNCHeader   = rgb{254, 226, 226}
	colorNCBody     = rgb{127, 29, 29}
)

// lineHeight converts a font size in points to a line advance in mm.
func lineHeight(pt float64) float64 {
	return pt * 25.4 / 72 * 1.2
}

// normalizer maps characters outside cp1252 that the report commonly
// contains onto ASCII equivalents.
var normalizer = strings.NewReplacer(
	"≤", "<=",
	"≥", ">=",
	" ", " ",
	"\r\n", "\n",
	"\r", "\n",
	"\t", "    ",
)

type builder struct {
	pdf     *fpdf.Fpdf
	cp      func(string) string
	res     *Result
	warn    io.Writer
	margins margins
	images  int
}

func newBuilder(doc Document) *builder {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCatalogSort(true)
	ts := documentTime(doc.Meta.Date)
	pdf.SetCreationDate(ts)
	pdf.SetModificationDate(ts)
	title := doc.Title
	if title == "" {
		title = DefaultTitle
	}
	pdf.SetTitle(title, true)
	pdf.SetCreator("auditkit", true)
	pdf.SetLineWidth(0.1)

	return &builder{
		pdf:  pdf,
		cp:   pdf.UnicodeTranslatorFromDescriptor(""),
		res:  &Result{},
		warn: doc.Warn,
	}
}

// tr converts UTF-8 text into the core font encoding.
func (b *builder) tr(s string) string {
	return b.cp(normalizer.Replace(s))
}

func (b *builder) warnf(format string, args ...any) {
	if b.warn != nil {
		fmt.Fprintf(b.warn, "WARN: "+format+"\n", args...)
	}
}

func (b *builder) addPage(o Orientation, part string) {
	m := portraitMargins
	if o == Landscape {
		m = landscapeMargins
	}
	b.margins = m
	b.pdf.SetMargins(m.left, m.top, m.right)
	b.pdf.AddPageFormat(string(o), a4)
	b.pdf.SetXY(m.left, m.top)
	b.res.Pages = append(b.res.Pages, Page{Number: b.pdf.PageNo(), Orientation: o, Part: part})
}

func (b *builder) orientation() Orientation {
	return b.res.Pages[len(b.res.Pages)-1].Orientation
}

func (b *builder) part() string {
	return b.res.Pages[len(b.res.Pages)-1].Part
}

func (b *builder) contentWidth() float64 {
	w, _ := b.pdf.GetPageSize()
	return w - b.margins.left - b.margins.right
}

func (b *builder) contentHeight() float64 {
	_, h := b.pdf.GetPageSize()
	return h - b.margins.top - b.margins.bottom
}

func (b *builder) bottom() float64 {
	_, h := b.pdf.GetPageSize()
	return h - b.margins.bottom
}

// remaining is the vertical space left on the current page.
func (b *builder) remaining() float64 {
	return b.bottom() - b.pdf.GetY()
}

// ensure starts a new page of the same orientation and part when fewer
// than h millimetres remain.
func (b *builder) ensure(h float64) {
	if b.remaining() < h {
		b.addPage(b.orientation(), b.part())
	}
}

func (b *builder) space(h float64) {
	b.pdf.SetY(b.pdf.GetY() + h)
	b.pdf.SetX(b.margins.left)
}

func (b *builder) setText(c rgb) {
	b.pdf.SetTextColor(c.r, c.g, c.b)
}

func (b *builder) heading(s string, size float64) {
	b.ensure(lineHeight(size) * 3)
	b.pdf.SetFont(fontFamily, "B", size)
	b.setText(colorBlack)
	for _, line := range b.wrap(b.tr(s), b.contentWidth()) {
		b.pdf.SetX(b.margins.left)
		b.pdf.CellFormat(b.contentWidth(), lineHeight(size), line, "", 1, "L", false, 0, "")
	}
	b.space(1.5)
}

// text writes a wrapped paragraph.
func (b *builder) text(s string, size float64, style string, c rgb) {
	b.pdf.SetFont(fontFamily, style, size)
	b.setText(c)
	lh := lineHeight(size)
	for _, line := range b.wrap(b.tr(s), b.contentWidth()) {
		b.ensure(lh)
		b.pdf.SetX(b.margins.left)
		b.pdf.CellFormat(b.contentWidth(), lh, line, "", 1, "L", false, 0, "")
	}
	b.setText(colorBlack)
}

// rich writes one paragraph of markup, switching to bold for <b> runs.
func (b *builder) rich(s string, size float64) {
	lh := lineHeight(size)
	b.ensure(lh)
	b.setText(colorBlack)
	b.pdf.SetX(b.margins.left)
	for _, seg := range markup.Parse(s) {
		style := ""
		if seg.Bold {
			style = "B"
		}
		b.pdf.SetFont(fontFamily, style, size)
		b.pdf.Write(lh, b.tr(seg.Text))
	}
	b.pdf.Ln(lh)
	b.pdf.SetFont(fontFamily, "", bodySize)
}

// wrap splits already-translated text into lines no wider than width using
// the current font. Words longer than a line are broken between bytes.
// Empty input yields a single empty line.
func (b *builder) wrap(s string, width float64) []string {
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		words := splitWords(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		cur := ""
		for _, w := range words {
			candidate := w
			if cur != "" {
				candidate = cur + " " + w
			}
			if b.pdf.GetStringWidth(candidate) <= width {
				cur = candidate
				continue
			}
			if cur != "" {
				lines = append(lines, cur)
				cur = ""
			}
			for b.pdf.GetStringWidth(w) > width {
				n := b.fit(w, width)
				lines = append(lines, w[:n])
				w = w[n:]
			}
			cur = w
		}
		lines = append(lines, cur)
	}
	return lines
}

// splitWords splits on ASCII spaces only; s is not UTF-8 once translated.
func splitWords(s string) []string {
	var out []string
	for _, w := range strings.Split(s, " ") {
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}

// fit returns how many leading bytes of s fit in width, at least one.
func (b *builder) fit(s string, width float64) int {
	n := 1
	for n < len(s) && b.pdf.GetStringWidth(s[:n+1]) <= width {
		n++
	}
	return n
}
