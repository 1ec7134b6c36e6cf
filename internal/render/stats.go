package render

import (
	"github.com/dshills/auditkit/internal/review"
	"github.com/dshills/auditkit/internal/schema"
)

// WeightedCountNote explains why weighted counts match simple counts.
const WeightedCountNote = "Compliant and non-compliant counts are status-based under both policies; " +
	"a Level 1 non-conformity adds 0.5 to the weighted percentage but is still counted as non-compliant."

// SectionRow is one section's statistics under both policies.
type SectionRow struct {
	Section      string            `json:"section"`
	Simple       schema.Percentage `json:"simple_percent"`
	Weighted     schema.Percentage `json:"weighted_percent"`
	Compliant    int               `json:"compliant"`
	NonCompliant int               `json:"non_compliant"`
	Evaluated    int               `json:"evaluated"`
}

// StatsReport is the statistics view of an audit.
type StatsReport struct {
	Meta     schema.Meta    `json:"meta"`
	Catalog  string         `json:"catalog,omitempty"`
	Summary  schema.Summary `json:"summary"`
	Sections []SectionRow   `json:"sections"`
	Note     string         `json:"note"`
}

// Stats computes the statistics view from the full record set. Sections
// are ordered by simple conformity, highest first, sections without data last.
func Stats(audit *schema.Audit) *StatsReport {
	rep := &StatsReport{
		Meta:     audit.Meta,
		Summary:  review.Overview(audit.Records),
		Sections: []SectionRow{},
		Note:     WeightedCountNote,
	}
	if audit.Catalog != nil {
		rep.Catalog = audit.Catalog.Name
	}
	weighted := make(map[string]schema.Percentage)
	for _, s := range review.AggregateBySection(audit.Records, schema.PolicyWeighted) {
		weighted[s.Section] = s.Percent
	}
	for _, s := range review.AggregateBySection(audit.Records, schema.PolicySimple) {
		rep.Sections = append(rep.Sections, SectionRow{
			Section:      s.Section,
			Simple:       s.Percent,
			Weighted:     weighted[s.Section],
			Compliant:    s.Compliant,
			NonCompliant: s.NonCompliant,
			Evaluated:    s.Evaluated,
		})
	}
	return rep
}
