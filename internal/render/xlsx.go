package render

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/dshills/auditkit/internal/schema"
)

// SheetName is the single worksheet of an XLSX export.
const SheetName = "Audit"

// columnWidths in characters; columns not listed keep the default width.
var columnWidths = map[string]float64{
	"Sezione":     28,
	"Requisito":   60,
	"Riferimento": 30,
	"Note":        40,
	"Allegati":    24,
	"Cause":       36,
	"Trattamento": 36,
	"Periodo":     18,
}

type xlsxRenderer struct{}

// Render writes the export records to a single-sheet workbook with the
// same columns as the CSV export. Index and scores are stored as numbers.
func (r *xlsxRenderer) Render(audit *schema.Audit) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E5E7EB"}},
	})
	if err != nil {
		return nil, fmt.Errorf("creating header style: %w", err)
	}
	last, err := excelize.ColumnNumberToName(len(Columns))
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(SheetName, "A1", last+"1", bold); err != nil {
		return nil, fmt.Errorf("styling header: %w", err)
	}

	for i, rec := range audit.ExportRecords() {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := xlsxRow(rec)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	for i, c := range Columns {
		w, ok := columnWidths[c]
		if !ok {
			continue
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(SheetName, col, col, w); err != nil {
			return nil, fmt.Errorf("sizing column %s: %w", c, err)
		}
	}
	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freezing header: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// xlsxRow is Row with numeric cells typed as numbers.
func xlsxRow(rec schema.Record) []interface{} {
	cells := Row(rec)
	out := make([]interface{}, len(cells))
	for i, c := range cells {
		out[i] = c
	}
	out[1] = rec.Index
	if rec.SimpleScore != nil {
		out[9] = *rec.SimpleScore
	}
	if rec.WeightedScore != nil {
		out[10] = *rec.WeightedScore
	}
	return out
}
