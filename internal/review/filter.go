package review

import (
	"strings"

	"github.com/dshills/auditkit/internal/schema"
)

// View holds the display filters. The zero View selects everything.
type View struct {
	OnlyNonCompliant bool   `json:"only_non_compliant" yaml:"only_non_compliant"`
	Search           string `json:"search" yaml:"search"`
}

// Active reports whether v narrows the record set at all.
func (v View) Active() bool {
	return v.OnlyNonCompliant || strings.TrimSpace(v.Search) != ""
}

// Filter returns the records selected by v, preserving their order. The
// search term is matched case-insensitively against requirement, notes and
// section name.
func Filter(records []schema.Record, v View) []schema.Record {
	if !v.Active() {
		return records
	}
	needle := strings.ToLower(strings.TrimSpace(v.Search))
	out := make([]schema.Record, 0, len(records))
	for _, r := range records {
		if v.OnlyNonCompliant && r.Status != schema.StatusNonCompliant {
			continue
		}
		if needle != "" {
			blob := strings.ToLower(r.Requirement + " " + r.Notes + " " + r.Section)
			if !strings.Contains(blob, needle) {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}
