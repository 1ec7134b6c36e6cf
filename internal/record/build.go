package record

import (
	"fmt"
	"strings"

	"github.com/dshills/auditkit/internal/schema"
	"github.com/dshills/auditkit/internal/schema/validate"
)

// Build evaluates one catalog entry against the supplied answers.
// Only enum values are checked. Free-text fields are copied with line
// endings normalised to "\n".
func Build(entry schema.CatalogEntry, a schema.AnswerSet) (schema.Record, error) {
	a.Section, a.Index = entry.Section, entry.Index
	if err := validate.Answer(a, entry.Index-1); err != nil {
		return schema.Record{}, fmt.Errorf("%s #%d: %w", entry.Section, entry.Index, err)
	}

	r := schema.Record{
		Applicable:      a.Applicable,
		Section:         entry.Section,
		Index:           entry.Index,
		Requirement:     entry.Requirement,
		Reference:       entry.Reference,
		Status:          schema.StatusNotApplicable,
		Notes:           freeText(a.Notes),
		AttachmentNames: attachmentNames(a),
		Files:           a.Files,
	}
	if !a.Applicable {
		return r, nil
	}

	r.Status = a.Status
	switch a.Status {
	case schema.StatusCompliant:
		r.SimpleScore = intPtr(1)
		r.WeightedScore = floatPtr(1.0)
	case schema.StatusNonCompliant:
		r.SimpleScore = intPtr(0)
		r.NCLevel = a.NCLevel
		if a.NCLevel == schema.NCLevel1 {
			r.WeightedScore = floatPtr(0.5)
		} else {
			r.WeightedScore = floatPtr(0.0)
		}
		r.CauseAnalysis = freeText(a.CauseAnalysis)
		r.CorrectiveAction = freeText(a.CorrectiveAction)
		r.TargetPeriod = a.TargetPeriod
		r.PlannedCompletion = a.PlannedCompletion
		r.PlannedVerification = a.PlannedVerification
		r.Responsible = freeText(a.Responsible)
	}
	return r, nil
}

// lineEndings maps CRLF and lone CR to LF; a CSV export cannot carry CR.
var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

func freeText(s string) string {
	return lineEndings.Replace(s)
}

// BuildAll produces exactly one record per catalog entry, in catalog order.
// Entries without an answer are not applicable. An answer addressing an entry
// that is not in the catalog is rejected.
func BuildAll(cat *schema.Catalog, answers []schema.AnswerSet) ([]schema.Record, error) {
	if err := validate.Answers(answers); err != nil {
		return nil, err
	}
	byKey := make(map[schema.EntryKey]schema.AnswerSet, len(answers))
	for _, a := range answers {
		byKey[a.Key()] = a
	}

	entries := cat.Entries()
	records := make([]schema.Record, 0, len(entries))
	for _, e := range entries {
		key := schema.EntryKey{Section: e.Section, Index: e.Index}
		a := byKey[key]
		delete(byKey, key)
		r, err := Build(e, a)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}

	for i, a := range answers {
		if _, left := byKey[a.Key()]; left {
			return nil, fmt.Errorf("%w: answer[%d]: %s #%d is not in catalog %q",
				schema.ErrInvalidInput, i, a.Section, a.Index, cat.Name)
		}
	}
	return records, nil
}

func attachmentNames(a schema.AnswerSet) []string {
	if len(a.Attachments) > 0 {
		return append([]string(nil), a.Attachments...)
	}
	var names []string
	for _, f := range a.Files {
		names = append(names, f.Name)
	}
	return names
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
