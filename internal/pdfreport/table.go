package pdfreport

import "math"

type column struct {
	title string
	width float64
	small bool
}

type tableStyle struct {
	headerFill rgb
	size       float64 // body font size; 9pt when zero
	pad        float64 // cell padding in mm; 1.2 when zero
	rowText    func(row int) rgb
}

// cell is one laid-out table cell.
type cell struct {
	lines []string
	size  float64
	style string
}

func (st tableStyle) fontSize(small bool) float64 {
	size := st.size
	if size == 0 {
		size = 9
	}
	if small {
		size--
	}
	return size
}

func (st tableStyle) padding() float64 {
	if st.pad == 0 {
		return 1.2
	}
	return st.pad
}

// layout wraps each value into its column and returns the cells with the
// resulting row height.
func (b *builder) layout(cols []column, values []string, style string, st tableStyle, header bool) ([]cell, float64) {
	pad := st.padding()
	cells := make([]cell, len(cols))
	height := 0.0
	for i, col := range cols {
		size := st.fontSize(col.small && !header)
		b.pdf.SetFont(fontFamily, style, size)
		text := ""
		if i < len(values) {
			text = values[i]
		}
		lines := b.wrap(b.tr(text), col.width-2*pad)
		cells[i] = cell{lines: lines, size: size, style: style}
		height = math.Max(height, float64(len(lines))*lineHeight(size)+2*pad)
	}
	return cells, height
}

// clip drops trailing lines so no cell exceeds maxH. A row taller than a
// whole page would otherwise never fit.
func clip(cells []cell, maxH, pad float64) float64 {
	height := 0.0
	for i := range cells {
		lh := lineHeight(cells[i].size)
		keep := int(math.Floor((maxH - 2*pad) / lh))
		if keep < 1 {
			keep = 1
		}
		if len(cells[i].lines) > keep {
			cells[i].lines = cells[i].lines[:keep]
		}
		height = math.Max(height, float64(len(cells[i].lines))*lh+2*pad)
	}
	return height
}

func (b *builder) drawRow(cols []column, cells []cell, height, pad float64, fill *rgb, text rgb) {
	x := b.margins.left
	y := b.pdf.GetY()
	b.pdf.SetDrawColor(colorBorder.r, colorBorder.g, colorBorder.b)
	b.pdf.SetCellMargin(pad)
	for i, col := range cols {
		if fill != nil {
			b.pdf.SetFillColor(fill.r, fill.g, fill.b)
			b.pdf.Rect(x, y, col.width, height, "FD")
		} else {
			b.pdf.Rect(x, y, col.width, height, "D")
		}
		c := cells[i]
		b.pdf.SetFont(fontFamily, c.style, c.size)
		b.setText(text)
		lh := lineHeight(c.size)
		for k, line := range c.lines {
			b.pdf.SetXY(x, y+pad+float64(k)*lh)
			b.pdf.CellFormat(col.width, lh, line, "", 0, "L", false, 0, "")
		}
		x += col.width
	}
	b.setText(colorBlack)
	b.pdf.SetXY(b.margins.left, y+height)
}

// table draws a bordered table with a header row that repeats on every
// page the table spans. Each header draw is recorded in Result.Headers.
func (b *builder) table(name string, cols []column, rows [][]string, st tableStyle) {
	pad := st.padding()
	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = c.title
	}
	header, headerH := b.layout(cols, titles, "B", st, true)
	capacity := b.contentHeight() - headerH
	drawHeader := func() {
		fill := st.headerFill
		b.drawRow(cols, header, headerH, pad, &fill, colorBlack)
		b.res.Headers = append(b.res.Headers, TableHeader{Table: name, Page: b.pdf.PageNo()})
	}

	// The header never ends a page on its own.
	first := lineHeight(st.fontSize(false)) + 2*pad
	if len(rows) > 0 {
		_, h := b.layout(cols, rows[0], "", st, false)
		first = math.Min(h, capacity)
	}
	b.ensure(headerH + first)
	drawHeader()
	for i, values := range rows {
		cells, h := b.layout(cols, values, "", st, false)
		if h > capacity {
			h = clip(cells, capacity, pad)
		}
		if b.remaining() < h {
			b.addPage(b.orientation(), b.part())
			drawHeader()
		}
		text := colorBlack
		if st.rowText != nil {
			text = st.rowText(i)
		}
		b.drawRow(cols, cells, h, pad, nil, text)
	}
}

// keyValueTable draws a two-column table without a header; the first row
// is shaded.
func (b *builder) keyValueTable(rows [][2]string, colWidth float64) {
	cols := []column{{width: colWidth}, {width: colWidth}}
	st := tableStyle{size: bodySize}
	pad := st.padding()
	for i, kv := range rows {
		style := ""
		var fill *rgb
		if i == 0 {
			style = "B"
			fill = &colorSummary
		}
		cells, h := b.layout(cols, kv[:], style, st, false)
		b.ensure(h)
		b.drawRow(cols, cells, h, pad, fill, colorBlack)
	}
}
