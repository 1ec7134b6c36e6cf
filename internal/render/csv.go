package render

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dshills/auditkit/internal/schema"
)

type csvRenderer struct{}

// Render writes the export records as UTF-8 CSV with a header row.
func (r *csvRenderer) Render(audit *schema.Audit) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Columns); err != nil {
		return nil, fmt.Errorf("writing csv header: %w", err)
	}
	if err := w.WriteAll(Rows(audit.ExportRecords())); err != nil {
		return nil, fmt.Errorf("writing csv rows: %w", err)
	}
	return buf.Bytes(), nil
}

// ReadCSV parses an export produced by the csv renderer back into records.
// Column order may differ but every column must be present. Attachment data
// is not part of an export, so only attachment names are restored.
func ReadCSV(r io.Reader) ([]schema.Record, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: csv export is empty", schema.ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading csv header: %v", schema.ErrInvalidInput, err)
	}
	pos := make(map[string]int, len(header))
	for i, name := range header {
		pos[strings.TrimPrefix(name, "\ufeff")] = i
	}
	for _, name := range Columns {
		if _, ok := pos[name]; !ok {
			return nil, fmt.Errorf("%w: csv export has no %q column", schema.ErrInvalidInput, name)
		}
	}

	var out []schema.Record
	for line := 2; ; line++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading csv: %v", schema.ErrInvalidInput, err)
		}
		get := func(col string) string { return fields[pos[col]] }
		rec, err := parseRow(get)
		if err != nil {
			return nil, fmt.Errorf("%w: csv line %d: %v", schema.ErrInvalidInput, line, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func parseRow(get func(string) string) (schema.Record, error) {
	var rec schema.Record
	var err error

	switch get("Applicabile") {
	case yes:
		rec.Applicable = true
	case no:
	default:
		return rec, fmt.Errorf("Applicabile %q is neither %q nor %q", get("Applicabile"), yes, no)
	}
	if rec.Index, err = strconv.Atoi(get("N")); err != nil || rec.Index < 1 {
		return rec, fmt.Errorf("N %q is not a positive number", get("N"))
	}
	rec.Section = get("Sezione")
	rec.Requirement = get("Requisito")
	rec.Reference = get("Riferimento")
	rec.Notes = get("Note")
	rec.CauseAnalysis = get("Cause")
	rec.CorrectiveAction = get("Trattamento")
	rec.Responsible = get("Responsabile")

	if rec.Status, err = statusFromLabel(get("Stato")); err != nil {
		return rec, err
	}
	if rec.NCLevel, err = levelFromLabel(get("NC Livello")); err != nil {
		return rec, err
	}
	if rec.TargetPeriod, err = periodFromLabel(get("Periodo")); err != nil {
		return rec, err
	}
	if names := get("Allegati"); names != "" {
		rec.AttachmentNames = strings.Split(names, attachmentSep)
	}
	if s := get("Punteggio"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return rec, fmt.Errorf("Punteggio %q is not a number", s)
		}
		rec.SimpleScore = &v
	}
	if s := get("Punteggio ponderato"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return rec, fmt.Errorf("Punteggio ponderato %q is not a number", s)
		}
		rec.WeightedScore = &v
	}
	if rec.PlannedCompletion, err = optionalDate(get("Data trattamento")); err != nil {
		return rec, err
	}
	if rec.PlannedVerification, err = optionalDate(get("Data verifica")); err != nil {
		return rec, err
	}
	return rec, nil
}

func statusFromLabel(s string) (schema.Status, error) {
	for _, st := range []schema.Status{schema.StatusNotApplicable, schema.StatusCompliant, schema.StatusNonCompliant} {
		if st.Label() == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("Stato %q is not a known status", s)
}

func levelFromLabel(s string) (schema.NCLevel, error) {
	for _, l := range []schema.NCLevel{schema.NCLevelNone, schema.NCLevel1, schema.NCLevel2} {
		if l.Label() == s {
			return l, nil
		}
	}
	return "", fmt.Errorf("NC Livello %q is not a known level", s)
}

func periodFromLabel(s string) (schema.Period, error) {
	for _, p := range []schema.Period{schema.PeriodNone, schema.PeriodShort, schema.PeriodMedium, schema.PeriodLong} {
		if p.Label() == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("Periodo %q is not a known period", s)
}

func optionalDate(s string) (*schema.Date, error) {
	if s == "" {
		return nil, nil
	}
	d, err := schema.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
