// Package delta compares two exports of the same audit, typically the
// original audit and its follow-up, and reports what changed per requirement.
package delta

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/dshills/auditkit/internal/review"
	"github.com/dshills/auditkit/internal/schema"
)

// Kind classifies a requirement-level change.
type Kind string

const (
	KindAdded   Kind = "added"
	KindRemoved Kind = "removed"
	KindChanged Kind = "changed"
)

// FieldChange is one field whose value differs. For free-text fields Patch
// holds a diff-match-patch patch from Before to After.
type FieldChange struct {
	Field  string `json:"field"`
	Before string `json:"before"`
	After  string `json:"after"`
	Patch  string `json:"patch,omitempty"`
}

// Change is the set of differences for one requirement.
type Change struct {
	Section     string        `json:"section"`
	Index       int           `json:"index"`
	Requirement string        `json:"requirement"`
	Kind        Kind          `json:"kind"`
	Fields      []FieldChange `json:"fields,omitempty"`
}

// Report is the outcome of comparing two record sets.
type Report struct {
	Before  schema.Summary `json:"before"`
	After   schema.Summary `json:"after"`
	Changes []Change       `json:"changes"`
}

// Resolved reports how many requirements went from non-compliant to compliant.
func (r *Report) Resolved() int {
	n := 0
	for _, c := range r.Changes {
		for _, f := range c.Fields {
			if f.Field == fieldStatus && f.Before == schema.StatusNonCompliant.Label() && f.After == schema.StatusCompliant.Label() {
				n++
			}
		}
	}
	return n
}

const fieldStatus = "Stato"

type field struct {
	name string
	text bool
	get  func(schema.Record) string
}

var fields = []field{
	{name: fieldStatus, get: func(r schema.Record) string { return r.Status.Label() }},
	{name: "NC Livello", get: func(r schema.Record) string { return r.NCLevel.Label() }},
	{name: "Note", text: true, get: func(r schema.Record) string { return r.Notes }},
	{name: "Allegati", get: func(r schema.Record) string { return strings.Join(r.AttachmentNames, "\n") }},
	{name: "Cause", text: true, get: func(r schema.Record) string { return r.CauseAnalysis }},
	{name: "Trattamento", text: true, get: func(r schema.Record) string { return r.CorrectiveAction }},
	{name: "Periodo", get: func(r schema.Record) string { return r.TargetPeriod.Label() }},
	{name: "Data trattamento", get: func(r schema.Record) string { return schema.FormatDate(r.PlannedCompletion) }},
	{name: "Data verifica", get: func(r schema.Record) string { return schema.FormatDate(r.PlannedVerification) }},
	{name: "Responsabile", get: func(r schema.Record) string { return r.Responsible }},
}

// Compare reports per-requirement differences between before and after.
// Requirements are matched by section and index. When a set addresses the
// same requirement twice the later row wins and a warning is written to w
// (may be nil). Changes are ordered by section name, then index.
func Compare(before, after []schema.Record, w io.Writer) *Report {
	rep := &Report{
		Before:  review.Overview(before),
		After:   review.Overview(after),
		Changes: []Change{},
	}
	old := index(before, "before", w)
	cur := index(after, "after", w)

	dmp := diffmatchpatch.New()
	for key, b := range old {
		a, ok := cur[key]
		if !ok {
			rep.Changes = append(rep.Changes, Change{Section: key.Section, Index: key.Index, Requirement: b.Requirement, Kind: KindRemoved})
			continue
		}
		if fc := compareFields(dmp, b, a); len(fc) > 0 {
			rep.Changes = append(rep.Changes, Change{Section: key.Section, Index: key.Index, Requirement: a.Requirement, Kind: KindChanged, Fields: fc})
		}
	}
	for key, a := range cur {
		if _, ok := old[key]; !ok {
			rep.Changes = append(rep.Changes, Change{Section: key.Section, Index: key.Index, Requirement: a.Requirement, Kind: KindAdded})
		}
	}

	sort.Slice(rep.Changes, func(i, j int) bool {
		if rep.Changes[i].Section != rep.Changes[j].Section {
			return rep.Changes[i].Section < rep.Changes[j].Section
		}
		return rep.Changes[i].Index < rep.Changes[j].Index
	})
	return rep
}

func index(records []schema.Record, label string, w io.Writer) map[schema.EntryKey]schema.Record {
	m := make(map[schema.EntryKey]schema.Record, len(records))
	for _, r := range records {
		key := schema.EntryKey{Section: r.Section, Index: r.Index}
		if _, dup := m[key]; dup && w != nil {
			fmt.Fprintf(w, "WARN: %s export lists %s #%d more than once, using the last row\n", label, r.Section, r.Index)
		}
		m[key] = r
	}
	return m
}

func compareFields(dmp *diffmatchpatch.DiffMatchPatch, before, after schema.Record) []FieldChange {
	var out []FieldChange
	for _, f := range fields {
		b, a := f.get(before), f.get(after)
		if normalize(b) == normalize(a) {
			continue
		}
		fc := FieldChange{Field: f.name, Before: b, After: a}
		if f.text {
			diffs := dmp.DiffMain(b, a, false)
			diffs = dmp.DiffCleanupSemantic(diffs)
			fc.Patch = dmp.PatchToText(dmp.PatchMake(b, diffs))
		}
		out = append(out, fc)
	}
	return out
}

// normalize trims trailing whitespace from each line and converts CRLF to LF,
// so re-saved exports do not produce spurious changes.
func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}
