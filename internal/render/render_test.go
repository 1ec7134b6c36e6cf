package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/dshills/auditkit/internal/record"
	"github.com/dshills/auditkit/internal/schema"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func datePtr(d schema.Date) *schema.Date {
	return &d
}

func sampleAudit() *schema.Audit {
	records := []schema.Record{
		{
			Applicable: true, Section: "Documentazione", Index: 1,
			Requirement: "DVR aggiornato", Reference: "Art. 17, 28, 29",
			Status: schema.StatusCompliant, Notes: "Revisione 2024, firmata",
			AttachmentNames: []string{"dvr.pdf", "firma.jpg"},
			SimpleScore:     intPtr(1), WeightedScore: floatPtr(1),
		},
		{
			Applicable: true, Section: "Documentazione", Index: 2,
			Requirement: "Nomina RSPP", Reference: "Art. 17, 31-34",
			Status: schema.StatusNonCompliant, NCLevel: schema.NCLevel1,
			Notes:       "Nomina \"provvisoria\"\nda rinnovare",
			SimpleScore: intPtr(0), WeightedScore: floatPtr(0.5),
			CauseAnalysis: "Scadenza non monitorata", CorrectiveAction: "Rinnovo nomina",
			TargetPeriod:      schema.PeriodShort,
			PlannedCompletion: datePtr(schema.NewDate(2025, 4, 30)), PlannedVerification: datePtr(schema.NewDate(2025, 5, 15)),
			Responsible: "Datore di Lavoro",
		},
		{
			Section: "Antincendio", Index: 1, Requirement: "Estintori revisionati",
			Reference: "DM 1/9/2021", Status: schema.StatusNotApplicable, Notes: "Sede senza magazzino",
		},
	}
	return &schema.Audit{
		Meta: schema.Meta{Supplier: "ACME S.r.l.", Date: schema.NewDate(2025, 3, 14), Auditor: "M. Bianchi"},
		Catalog: &schema.Catalog{
			Name:  "mini",
			Title: "Checklist Audit Fornitore",
			Sections: []schema.Section{
				{Name: "Documentazione"},
				{Name: "Antincendio"},
			},
		},
		Records: records,
	}
}

func mustRender(t *testing.T, format string, audit *schema.Audit) []byte {
	t.Helper()
	r, err := NewRenderer(format, nil)
	if err != nil {
		t.Fatalf("NewRenderer %s: %v", format, err)
	}
	out, err := r.Render(audit)
	if err != nil {
		t.Fatalf("Render %s: %v", format, err)
	}
	return out
}

func TestNewRenderer_UnknownFormat(t *testing.T) {
	_, err := NewRenderer("xml", nil)
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
	if !strings.Contains(err.Error(), "xml") {
		t.Errorf("error should mention the format: %v", err)
	}
}

func TestFormatKinds(t *testing.T) {
	for _, f := range []string{FormatCSV, FormatXLSX} {
		if !IsExportFormat(f) || IsStatsFormat(f) {
			t.Errorf("%s should be an export format only", f)
		}
	}
	for _, f := range []string{FormatJSON, FormatMD, FormatTable} {
		if !IsStatsFormat(f) || IsExportFormat(f) {
			t.Errorf("%s should be a stats format only", f)
		}
	}
	if IsExportFormat(FormatPDF) || IsStatsFormat(FormatPDF) {
		t.Error("pdf is neither export nor stats")
	}
}

// --- CSV tests ---

func TestCSV_HeaderAndRows(t *testing.T) {
	out := string(mustRender(t, FormatCSV, sampleAudit()))
	lines := strings.SplitN(out, "\n", 2)
	if lines[0] != strings.Join(Columns, ",") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(out, "Sì,1,Documentazione,DVR aggiornato") {
		t.Errorf("first row missing:\n%s", out)
	}
	if !strings.Contains(out, "\"dvr.pdf\nfirma.jpg\"") {
		t.Errorf("attachment names not joined:\n%s", out)
	}
	if !strings.Contains(out, "Non conforme,Livello 1") || !strings.Contains(out, ",0,0.5,") {
		t.Errorf("NC row not rendered as expected:\n%s", out)
	}
	if !strings.Contains(out, "BREVE (≤ 1 mese),30/04/2025,15/05/2025,Datore di Lavoro") {
		t.Errorf("remediation columns not rendered:\n%s", out)
	}
	if !strings.Contains(out, "No,1,Antincendio") {
		t.Errorf("not-applicable row missing:\n%s", out)
	}
}

func TestCSV_RoundTrip(t *testing.T) {
	audit := sampleAudit()
	out := mustRender(t, FormatCSV, audit)
	got, err := ReadCSV(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(got) != len(audit.Records) {
		t.Fatalf("got %d records, want %d", len(got), len(audit.Records))
	}
	for i := range got {
		if !reflect.DeepEqual(Row(got[i]), Row(audit.Records[i])) {
			t.Errorf("record %d differs:\n got %q\nwant %q", i, Row(got[i]), Row(audit.Records[i]))
		}
	}
	if got[1].WeightedScore == nil || *got[1].WeightedScore != 0.5 {
		t.Errorf("weighted score = %v", got[1].WeightedScore)
	}
	if got[2].SimpleScore != nil || got[2].Applicable {
		t.Errorf("not-applicable row = %+v", got[2])
	}
}

func TestCSV_RoundTrip_FreeTextAndFileNames(t *testing.T) {
	entry := schema.CatalogEntry{Section: "Documentazione", Index: 3, Requirement: "Registro formazione"}
	r, err := record.Build(entry, schema.AnswerSet{
		Applicable:       true,
		Status:           schema.StatusNonCompliant,
		NCLevel:          schema.NCLevel2,
		Notes:            "riga uno\r\nriga due",
		CauseAnalysis:    "registro\rnon aggiornato",
		CorrectiveAction: "aggiornare, firmare\r\narchiviare",
		Files: []schema.Attachment{
			{Name: "foto 1, ingresso.jpg"},
			{Name: "verbale.pdf"},
		},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	audit := sampleAudit()
	audit.Records = []schema.Record{r}

	got, err := ReadCSV(bytes.NewReader(mustRender(t, FormatCSV, audit)))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d records", len(got))
	}
	if got[0].Notes != r.Notes || got[0].CauseAnalysis != r.CauseAnalysis || got[0].CorrectiveAction != r.CorrectiveAction {
		t.Errorf("free text changed:\n got %q %q %q\nwant %q %q %q",
			got[0].Notes, got[0].CauseAnalysis, got[0].CorrectiveAction,
			r.Notes, r.CauseAnalysis, r.CorrectiveAction)
	}
	if !reflect.DeepEqual(got[0].AttachmentNames, []string{"foto 1, ingresso.jpg", "verbale.pdf"}) {
		t.Errorf("attachments = %q", got[0].AttachmentNames)
	}
}

func TestCSV_EmptyRecords(t *testing.T) {
	audit := sampleAudit()
	audit.Records = nil
	out := mustRender(t, FormatCSV, audit)
	if strings.TrimSpace(string(out)) != strings.Join(Columns, ",") {
		t.Errorf("empty export = %q", out)
	}
	got, err := ReadCSV(bytes.NewReader(out))
	if err != nil || len(got) != 0 {
		t.Errorf("ReadCSV = %v, %v", got, err)
	}
}

func TestCSV_HonoursFilter(t *testing.T) {
	audit := sampleAudit()
	audit.Visible = []schema.Record{}
	out := string(mustRender(t, FormatCSV, audit))
	if strings.Count(out, "\n") != 1 {
		t.Errorf("filtered export should hold only the header:\n%s", out)
	}
	audit.Visible = audit.Records[1:2]
	out = string(mustRender(t, FormatCSV, audit))
	if strings.Contains(out, "DVR aggiornato") || !strings.Contains(out, "Nomina RSPP") {
		t.Errorf("filter not applied:\n%s", out)
	}
}

func TestReadCSV_Errors(t *testing.T) {
	cases := map[string]string{
		"empty":          "",
		"missing column": "Applicabile,N\nSì,1\n",
		"bad status":     strings.Join(Columns, ",") + "\nSì,1,S,R,,Forse,,,,,,,,,,,\n",
		"bad index":      strings.Join(Columns, ",") + "\nSì,x,S,R,,Conforme,,,,1,1,,,,,,\n",
		"bad date":       strings.Join(Columns, ",") + "\nSì,1,S,R,,Conforme,,,,1,1,,,,31/31/2025,,\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(in))
			if !errors.Is(err, schema.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

// --- XLSX tests ---

func TestXLSX_SameColumnsAsCSV(t *testing.T) {
	audit := sampleAudit()
	out := mustRender(t, FormatXLSX, audit)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	if sheets := f.GetSheetList(); len(sheets) != 1 || sheets[0] != SheetName {
		t.Fatalf("sheets = %v", sheets)
	}
	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != len(audit.Records)+1 {
		t.Fatalf("got %d rows, want %d", len(rows), len(audit.Records)+1)
	}
	if !reflect.DeepEqual(rows[0], Columns) {
		t.Errorf("header = %q", rows[0])
	}
	for i, rec := range audit.Records {
		want := Row(rec)
		got := rows[i+1]
		// GetRows drops trailing empty cells.
		for j, w := range want {
			g := ""
			if j < len(got) {
				g = got[j]
			}
			if g != w {
				t.Errorf("row %d col %s = %q, want %q", i+1, Columns[j], g, w)
			}
		}
	}
}

func TestXLSX_EmptyRecords(t *testing.T) {
	audit := sampleAudit()
	audit.Records = nil
	out := mustRender(t, FormatXLSX, audit)
	f, err := excelize.OpenReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("expected header only, got %d rows", len(rows))
	}
}

// --- Stats tests ---

func TestStats_SectionsAndSummary(t *testing.T) {
	st := Stats(sampleAudit())
	if st.Summary.Simple.String() != "50.0" || st.Summary.Weighted.String() != "75.0" {
		t.Errorf("summary = %+v", st.Summary)
	}
	if len(st.Sections) != 2 || st.Sections[0].Section != "Documentazione" || st.Sections[1].Section != "Antincendio" {
		t.Fatalf("sections = %+v", st.Sections)
	}
	if st.Sections[1].Simple.Valid {
		t.Error("all-not-applicable section should have no data")
	}
	if st.Catalog != "mini" {
		t.Errorf("catalog = %q", st.Catalog)
	}
}

func TestJSON_Stats(t *testing.T) {
	out := mustRender(t, FormatJSON, sampleAudit())
	var decoded struct {
		Meta struct {
			Date string `json:"date"`
		} `json:"meta"`
		Summary  map[string]any   `json:"summary"`
		Sections []map[string]any `json:"sections"`
	}
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}
	if decoded.Summary["simple_percent"] != 50.0 || decoded.Summary["weighted_percent"] != 75.0 {
		t.Errorf("summary = %v", decoded.Summary)
	}
	if decoded.Sections[1]["simple_percent"] != nil {
		t.Errorf("no-data percentage should be null: %v", decoded.Sections[1])
	}
	if decoded.Meta.Date != "2025-03-14" {
		t.Errorf("date = %q", decoded.Meta.Date)
	}
}

func TestMarkdown_Stats(t *testing.T) {
	out := string(mustRender(t, FormatMD, sampleAudit()))
	for _, want := range []string{
		"**Fornitore:** ACME S.r.l.",
		"| Conformità totale (semplice) | 50.0% |",
		"| Conformità totale (ponderata) | 75.0% |",
		"| Antincendio | — | — | 0 | 0 | 0 |",
		"> Note: ",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}
}

func TestMarkdown_NoData(t *testing.T) {
	audit := sampleAudit()
	audit.Records = nil
	audit.Meta = schema.Meta{}
	out := string(mustRender(t, FormatMD, audit))
	if !strings.Contains(out, "| Conformità totale (semplice) | — |") {
		t.Errorf("no-data summary missing:\n%s", out)
	}
	if strings.Contains(out, "## Sezioni") {
		t.Errorf("empty audit should have no section table:\n%s", out)
	}
	if !strings.Contains(out, "**Fornitore:** —") {
		t.Errorf("missing placeholder:\n%s", out)
	}
}

func TestTable_Stats(t *testing.T) {
	out := string(mustRender(t, FormatTable, sampleAudit()))
	for _, want := range []string{"ACME S.r.l.", "Documentazione", "Antincendio", "50.0%", "75.0%", "Note:"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

// --- PDF tests ---

func TestPDF_Report(t *testing.T) {
	out := mustRender(t, FormatPDF, sampleAudit())
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Errorf("not a PDF: %q", out[:8])
	}
}

func TestPDF_IgnoresFilter(t *testing.T) {
	audit := sampleAudit()
	doc := Document(audit, nil)
	audit.Visible = []schema.Record{}
	filtered := Document(audit, nil)
	if len(doc.Records) != 3 || len(filtered.Records) != 3 {
		t.Errorf("report must use the full record set: %d / %d", len(doc.Records), len(filtered.Records))
	}
	if !reflect.DeepEqual(doc.Sections, []string{"Documentazione", "Antincendio"}) {
		t.Errorf("sections = %v", doc.Sections)
	}
}

func TestReportTitle(t *testing.T) {
	if got := ReportTitle(&schema.Catalog{Title: "Checklist Audit Fornitore — D.Lgs. 81/08 & SMEI"}); got != "Report Audit Fornitore — D.Lgs. 81/08 & SMEI" {
		t.Errorf("title = %q", got)
	}
	if got := ReportTitle(nil); got != "Report Audit Fornitore" {
		t.Errorf("default title = %q", got)
	}
}

// --- Filename tests ---

func TestFilename(t *testing.T) {
	cases := []struct {
		supplier string
		date     schema.Date
		want     string
	}{
		{"ACME", schema.NewDate(2025, 3, 14), "audit_ACME_14-03-2025.csv"},
		{"", schema.NewDate(2025, 3, 14), "audit_fornitore_14-03-2025.csv"},
		{"ACME", schema.Date{}, "audit_ACME_data.csv"},
		{"  ", schema.Date{}, "audit_fornitore_data.csv"},
		{"A/B", schema.Date{}, "audit_A-B_data.csv"},
	}
	for _, c := range cases {
		if got := Filename("audit", c.supplier, c.date, "csv"); got != c.want {
			t.Errorf("Filename(%q) = %q, want %q", c.supplier, got, c.want)
		}
	}
	if got := Filename("report", "ACME", schema.Date{}, ".pdf"); got != "report_ACME_data.pdf" {
		t.Errorf("leading dot not trimmed: %q", got)
	}
}
