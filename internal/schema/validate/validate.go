package validate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dshills/auditkit/internal/schema"
)

// ParseAnswers unmarshals a JSON array of answer sets and validates each one.
func ParseAnswers(raw []byte) ([]schema.AnswerSet, error) {
	var answers []schema.AnswerSet
	if err := json.Unmarshal(raw, &answers); err != nil {
		return nil, fmt.Errorf("%w: JSON parse failed: %v", schema.ErrInvalidInput, err)
	}
	if err := Answers(answers); err != nil {
		return nil, err
	}
	return answers, nil
}

// Answers validates every answer set. Only enum membership and addressing are
// checked; empty free-text fields are accepted.
func Answers(answers []schema.AnswerSet) error {
	seen := make(map[schema.EntryKey]int, len(answers))
	for i, a := range answers {
		if err := Answer(a, i); err != nil {
			return err
		}
		if prev, dup := seen[a.Key()]; dup {
			return fmt.Errorf("%w: answer[%d]: duplicates answer[%d] for %s #%d",
				schema.ErrInvalidInput, i, prev, a.Section, a.Index)
		}
		seen[a.Key()] = i
	}
	return nil
}

// Answer validates a single answer set. idx is only used in error messages.
func Answer(a schema.AnswerSet, idx int) error {
	prefix := fmt.Sprintf("answer[%d]", idx)

	if strings.TrimSpace(a.Section) == "" {
		return fmt.Errorf("%w: %s: section is required", schema.ErrInvalidInput, prefix)
	}
	if a.Index < 1 {
		return fmt.Errorf("%w: %s: index %d must be ≥ 1", schema.ErrInvalidInput, prefix, a.Index)
	}
	if a.Status != "" && !schema.IsValidStatus(a.Status) {
		return fmt.Errorf("%w: %s: invalid status %q (must be not_applicable, compliant, or non_compliant)",
			schema.ErrInvalidInput, prefix, a.Status)
	}
	if !schema.IsValidNCLevel(a.NCLevel) {
		return fmt.Errorf("%w: %s: invalid nc_level %q (must be level1 or level2)", schema.ErrInvalidInput, prefix, a.NCLevel)
	}
	if !schema.IsValidPeriod(a.TargetPeriod) {
		return fmt.Errorf("%w: %s: invalid target_period %q (must be short, medium, or long)",
			schema.ErrInvalidInput, prefix, a.TargetPeriod)
	}
	if a.Applicable && (a.Status == "" || a.Status == schema.StatusNotApplicable) {
		return fmt.Errorf("%w: %s: applicable answer needs status compliant or non_compliant", schema.ErrInvalidInput, prefix)
	}
	return nil
}
