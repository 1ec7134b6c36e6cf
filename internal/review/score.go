package review

import (
	"math"
	"sort"

	"github.com/dshills/auditkit/internal/schema"
)

// Aggregate tallies records under the given policy. Only records with a score
// present under that policy count as evaluated. Compliant and NonCompliant
// are status-based under both policies, so a weighted percentage can show
// partial credit while the counts stay binary.
func Aggregate(records []schema.Record, policy schema.Policy) schema.Stats {
	st := schema.Stats{Policy: policy}
	var sum float64
	for _, r := range records {
		switch r.Status {
		case schema.StatusCompliant:
			st.Compliant++
		case schema.StatusNonCompliant:
			st.NonCompliant++
		}
		v, ok := score(r, policy)
		if !ok {
			continue
		}
		st.Evaluated++
		sum += v
	}
	if st.Evaluated > 0 {
		st.Percent = schema.Percentage{Value: round1(100 * sum / float64(st.Evaluated)), Valid: true}
	}
	return st
}

// AggregateBySection tallies each section separately. Sections appear in the
// order they are first seen in records, then are sorted by descending
// percentage with "no data" sections last; ties keep that first-seen order.
func AggregateBySection(records []schema.Record, policy schema.Policy) []schema.SectionStats {
	var order []string
	groups := make(map[string][]schema.Record)
	for _, r := range records {
		if _, ok := groups[r.Section]; !ok {
			order = append(order, r.Section)
		}
		groups[r.Section] = append(groups[r.Section], r)
	}

	out := make([]schema.SectionStats, 0, len(order))
	for _, name := range order {
		out = append(out, schema.SectionStats{Section: name, Stats: Aggregate(groups[name], policy)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Percent, out[j].Percent
		if a.Valid != b.Valid {
			return a.Valid
		}
		return a.Valid && a.Value > b.Value
	})
	return out
}

// Overview combines the simple and weighted tallies shown on the report cover.
func Overview(records []schema.Record) schema.Summary {
	simple := Aggregate(records, schema.PolicySimple)
	weighted := Aggregate(records, schema.PolicyWeighted)
	return schema.Summary{
		Simple:       simple.Percent,
		Weighted:     weighted.Percent,
		Compliant:    simple.Compliant,
		NonCompliant: simple.NonCompliant,
		Evaluated:    simple.Evaluated,
	}
}

// NonCompliant returns the non-compliant records sorted by section name then
// index, keeping input order for equal keys.
func NonCompliant(records []schema.Record) []schema.Record {
	var out []schema.Record
	for _, r := range records {
		if r.Status == schema.StatusNonCompliant {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Section != out[j].Section {
			return out[i].Section < out[j].Section
		}
		return out[i].Index < out[j].Index
	})
	return out
}

func score(r schema.Record, policy schema.Policy) (float64, bool) {
	switch policy {
	case schema.PolicyWeighted:
		if r.WeightedScore == nil {
			return 0, false
		}
		return *r.WeightedScore, true
	default:
		if r.SimpleScore == nil {
			return 0, false
		}
		return float64(*r.SimpleScore), true
	}
}

// round1 rounds half away from zero to one decimal place, so 6.25 becomes
// 6.3 where round-half-to-even would give 6.2.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
