package schema

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidInput marks a collaborator contract violation: an enum value
// outside its defined set, or an answer that cannot belong to the catalog.
var ErrInvalidInput = errors.New("invalid input")

// CatalogEntry is one requirement of a catalog section.
type CatalogEntry struct {
	Section     string `json:"section"`
	Index       int    `json:"index"` // 1-based, stable within the section
	Requirement string `json:"requirement"`
	Reference   string `json:"reference"`
}

// Section is an ordered group of catalog entries.
type Section struct {
	Name    string         `json:"name"`
	Entries []CatalogEntry `json:"entries"`
}

// Catalog is the immutable set of requirements an audit is evaluated against.
type Catalog struct {
	Name     string    `json:"name"`
	Title    string    `json:"title"`
	Roles    []string  `json:"roles,omitempty"`
	Sections []Section `json:"sections"`
}

// Entries returns every entry in catalog order.
func (c *Catalog) Entries() []CatalogEntry {
	var out []CatalogEntry
	for _, s := range c.Sections {
		out = append(out, s.Entries...)
	}
	return out
}

// SectionNames returns the section names in catalog order.
func (c *Catalog) SectionNames() []string {
	names := make([]string, len(c.Sections))
	for i, s := range c.Sections {
		names[i] = s.Name
	}
	return names
}

// Status is the outcome of one requirement.
type Status string

const (
	StatusNotApplicable Status = "not_applicable"
	StatusCompliant     Status = "compliant"
	StatusNonCompliant  Status = "non_compliant"
)

// IsValidStatus reports whether s is one of the three defined statuses.
func IsValidStatus(s Status) bool {
	switch s {
	case StatusNotApplicable, StatusCompliant, StatusNonCompliant:
		return true
	}
	return false
}

// Label returns the report label for s.
func (s Status) Label() string {
	switch s {
	case StatusCompliant:
		return "Conforme"
	case StatusNonCompliant:
		return "Non conforme"
	default:
		return "Non applicabile"
	}
}

// NCLevel classifies a non-conformity.
type NCLevel string

const (
	NCLevelNone NCLevel = ""
	NCLevel1    NCLevel = "level1"
	NCLevel2    NCLevel = "level2"
)

// IsValidNCLevel reports whether l is a defined level (including none).
func IsValidNCLevel(l NCLevel) bool {
	switch l {
	case NCLevelNone, NCLevel1, NCLevel2:
		return true
	}
	return false
}

func (l NCLevel) Label() string {
	switch l {
	case NCLevel1:
		return "Livello 1"
	case NCLevel2:
		return "Livello 2"
	}
	return ""
}

// Period is the remediation horizon of a non-conformity.
type Period string

const (
	PeriodNone   Period = ""
	PeriodShort  Period = "short"  // ≤ 1 month
	PeriodMedium Period = "medium" // ≤ 6 months
	PeriodLong   Period = "long"   // ≤ 12 months
)

// IsValidPeriod reports whether p is a defined period (including none).
func IsValidPeriod(p Period) bool {
	switch p {
	case PeriodNone, PeriodShort, PeriodMedium, PeriodLong:
		return true
	}
	return false
}

func (p Period) Label() string {
	switch p {
	case PeriodShort:
		return "BREVE (≤ 1 mese)"
	case PeriodMedium:
		return "MEDIO (≤ 6 mesi)"
	case PeriodLong:
		return "LUNGO (≤ 12 mesi)"
	}
	return ""
}

// Date is a calendar day. It accepts YYYY-MM-DD and DD/MM/YYYY on input
// and renders as DD/MM/YYYY.
type Date struct {
	t time.Time
}

const (
	isoLayout = "2006-01-02"
	euLayout  = "02/01/2006"
)

// NewDate returns the Date for the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses YYYY-MM-DD or DD/MM/YYYY.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{isoLayout, euLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{t}, nil
		}
	}
	return Date{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD or DD/MM/YYYY", ErrInvalidInput, s)
}

func (d Date) IsZero() bool    { return d.t.IsZero() }
func (d Date) Time() time.Time { return d.t }

// String renders d as DD/MM/YYYY, or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(euLayout)
}

// FileStamp renders d as DD-MM-YYYY for use in file names.
func (d Date) FileStamp() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format("02-01-2006")
}

// FormatDate renders an optional date, "" when absent.
func FormatDate(d *Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func (d Date) MarshalText() ([]byte, error) {
	if d.IsZero() {
		return []byte{}, nil
	}
	return []byte(d.t.Format(isoLayout)), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	p, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = p
	return nil
}

// Attachment is a caller-owned file handle. Data is borrowed for the
// duration of a single build and never serialised.
type Attachment struct {
	Name     string
	MIMEType string
	Data     []byte
}

// IsImage reports whether the declared MIME type is an image type.
func (a Attachment) IsImage() bool {
	return strings.HasPrefix(strings.ToLower(a.MIMEType), "image/")
}

// AnswerSet is what the form collaborator supplies for one catalog entry.
type AnswerSet struct {
	Section             string       `json:"section" yaml:"section"`
	Index               int          `json:"index" yaml:"index"`
	Applicable          bool         `json:"applicable" yaml:"applicable"`
	Status              Status       `json:"status" yaml:"status"`
	NCLevel             NCLevel      `json:"nc_level" yaml:"nc_level"`
	Notes               string       `json:"notes" yaml:"notes"`
	CauseAnalysis       string       `json:"cause_analysis" yaml:"cause_analysis"`
	CorrectiveAction    string       `json:"corrective_action" yaml:"corrective_action"`
	TargetPeriod        Period       `json:"target_period" yaml:"target_period"`
	PlannedCompletion   *Date        `json:"planned_completion,omitempty" yaml:"planned_completion"`
	PlannedVerification *Date        `json:"planned_verification,omitempty" yaml:"planned_verification"`
	Responsible         string       `json:"responsible" yaml:"responsible"`
	Attachments         []string     `json:"attachments,omitempty" yaml:"-"`
	Files               []Attachment `json:"-" yaml:"-"`
}

// Key identifies the catalog entry an answer belongs to.
func (a AnswerSet) Key() EntryKey {
	return EntryKey{Section: a.Section, Index: a.Index}
}

// EntryKey addresses one catalog entry.
type EntryKey struct {
	Section string
	Index   int
}

// Record is one evaluated answer against one catalog requirement.
type Record struct {
	Applicable          bool         `json:"applicable"`
	Section             string       `json:"section"`
	Index               int          `json:"index"`
	Requirement         string       `json:"requirement"`
	Reference           string       `json:"reference"`
	Status              Status       `json:"status"`
	NCLevel             NCLevel      `json:"nc_level"`
	Notes               string       `json:"notes"`
	AttachmentNames     []string     `json:"attachment_names"`
	SimpleScore         *int         `json:"simple_score"`
	WeightedScore       *float64     `json:"weighted_score"`
	CauseAnalysis       string       `json:"cause_analysis"`
	CorrectiveAction    string       `json:"corrective_action"`
	TargetPeriod        Period       `json:"target_period"`
	PlannedCompletion   *Date        `json:"planned_completion"`
	PlannedVerification *Date        `json:"planned_verification"`
	Responsible         string       `json:"responsible"`
	Files               []Attachment `json:"-"`
}

// Policy selects which score a statistic is computed from.
type Policy string

const (
	PolicySimple   Policy = "simple"
	PolicyWeighted Policy = "weighted"
)

// Percentage is a conformity percentage that may be absent ("no data").
type Percentage struct {
	Value float64
	Valid bool
}

// NoData is rendered in place of a percentage when nothing was evaluated.
const NoData = "—"

func (p Percentage) String() string {
	if !p.Valid {
		return NoData
	}
	return fmt.Sprintf("%.1f", p.Value)
}

func (p Percentage) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}
	return []byte(fmt.Sprintf("%.1f", p.Value)), nil
}

// Stats is a conformity tally under one policy.
// Compliant and NonCompliant are status-based under both policies.
type Stats struct {
	Policy       Policy     `json:"policy"`
	Percent      Percentage `json:"percent"`
	Compliant    int        `json:"compliant"`
	NonCompliant int        `json:"non_compliant"`
	Evaluated    int        `json:"evaluated"`
}

// SectionStats is a Stats scoped to one catalog section.
type SectionStats struct {
	Section string `json:"section"`
	Stats
}

// Summary is the overall picture shown on screen and on the report cover.
type Summary struct {
	Simple       Percentage `json:"simple_percent"`
	Weighted     Percentage `json:"weighted_percent"`
	Compliant    int        `json:"compliant"`
	NonCompliant int        `json:"non_compliant"`
	Evaluated    int        `json:"evaluated"`
}

// Meta holds the session-level fields printed on every artifact.
type Meta struct {
	Supplier string `json:"supplier"`
	Date     Date   `json:"date"`
	Auditor  string `json:"auditor"`
}

// Audit is one evaluated session: metadata, the full record set, and the
// optional logo. Visible is the filtered subset used by exports; it is nil
// when no filter is active.
type Audit struct {
	Meta    Meta
	Catalog *Catalog
	Records []Record
	Visible []Record
	Logo    *Attachment
}

// ExportRecords returns the filtered subset when one is set, else all records.
func (a *Audit) ExportRecords() []Record {
	if a.Visible != nil {
		return a.Visible
	}
	return a.Records
}
