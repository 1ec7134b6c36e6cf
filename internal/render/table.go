package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dshills/auditkit/internal/schema"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	ncStyle     = cellStyle.Foreground(lipgloss.Color("#b91c1c"))
	noteStyle   = lipgloss.NewStyle().Faint(true)
)

type tableRenderer struct{}

// Render prints the statistics as a terminal table, one row per section.
func (r *tableRenderer) Render(audit *schema.Audit) ([]byte, error) {
	st := Stats(audit)
	var b strings.Builder

	fmt.Fprintln(&b, titleStyle.Render("Audit: "+orDash(st.Meta.Supplier)))
	fmt.Fprintf(&b, "Data: %s   Auditor: %s\n", orDash(st.Meta.Date.String()), orDash(st.Meta.Auditor))
	fmt.Fprintf(&b, "Conformità semplice: %s   ponderata: %s\n", percent(st.Summary.Simple), percent(st.Summary.Weighted))
	fmt.Fprintf(&b, "Conformi: %d   Non conformi: %d   Valutati: %d\n\n",
		st.Summary.Compliant, st.Summary.NonCompliant, st.Summary.Evaluated)

	rows := make([][]string, len(st.Sections))
	for i, s := range st.Sections {
		rows[i] = []string{
			s.Section,
			percent(s.Simple),
			percent(s.Weighted),
			fmt.Sprint(s.Compliant),
			fmt.Sprint(s.NonCompliant),
			fmt.Sprint(s.Evaluated),
		}
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Sezione", "Semplice", "Ponderata", "Conformi", "Non conformi", "Valutati").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row >= 0 && row < len(st.Sections) && st.Sections[row].NonCompliant > 0:
				return ncStyle
			}
			return cellStyle
		})
	fmt.Fprintln(&b, t.String())
	fmt.Fprintln(&b, noteStyle.Render("Note: "+st.Note))
	return []byte(b.String()), nil
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
