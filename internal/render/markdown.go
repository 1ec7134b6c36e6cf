package render

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/dshills/auditkit/internal/schema"
)

type markdownRenderer struct{}

var mdTemplate = template.Must(template.New("stats").Funcs(template.FuncMap{
	"pct":  percent,
	"dash": orDash,
}).Parse(`# Audit Fornitore{{ if .Catalog }} ({{ .Catalog }}){{ end }}

**Fornitore:** {{ dash .Meta.Supplier }} | **Data:** {{ dash .Meta.Date.String }} | **Auditor:** {{ dash .Meta.Auditor }}

| Indicatore | Valore |
|---|---|
| Conformità totale (semplice) | {{ pct .Summary.Simple }} |
| Conformità totale (ponderata) | {{ pct .Summary.Weighted }} |
| Requisiti conformi | {{ .Summary.Compliant }} |
| Requisiti non conformi | {{ .Summary.NonCompliant }} |
| Requisiti valutati | {{ .Summary.Evaluated }} |
{{ if .Sections }}
## Sezioni

| Sezione | Semplice | Ponderata | Conformi | Non conformi | Valutati |
|---|---|---|---|---|---|
{{ range .Sections }}| {{ .Section }} | {{ pct .Simple }} | {{ pct .Weighted }} | {{ .Compliant }} | {{ .NonCompliant }} | {{ .Evaluated }} |
{{ end }}{{ end }}
> Note: {{ .Note }}
`))

func (r *markdownRenderer) Render(audit *schema.Audit) ([]byte, error) {
	var buf bytes.Buffer
	if err := mdTemplate.Execute(&buf, Stats(audit)); err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.Bytes(), nil
}
