// Package session loads an audit session file: metadata, answers with their
// attachment references, optional logo and display filters.
package session

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dshills/auditkit/internal/attach"
	"github.com/dshills/auditkit/internal/catalog"
	"github.com/dshills/auditkit/internal/record"
	"github.com/dshills/auditkit/internal/review"
	"github.com/dshills/auditkit/internal/schema"
)

// File is the YAML shape of a session.
type File struct {
	Supplier string      `yaml:"supplier"`
	Date     schema.Date `yaml:"date"`
	Auditor  string      `yaml:"auditor"`
	Logo     string      `yaml:"logo"`
	Catalog  string      `yaml:"catalog"`
	Answers  []Answer    `yaml:"answers"`
	Filters  review.View `yaml:"filters"`
}

// Answer is one answer set plus the files it references.
type Answer struct {
	schema.AnswerSet `yaml:",inline"`
	Attachments      []attach.Ref `yaml:"attachments"`
}

// Session is a loaded session file with derived metadata.
type Session struct {
	Path string
	Hash string // "sha256:<hex>"
	File
}

// Load reads and parses a session file from disk.
func Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading session file: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing session file %s: %w", path, err)
	}
	sum := sha256.Sum256(data)
	return &Session{
		Path: path,
		Hash: fmt.Sprintf("sha256:%x", sum),
		File: *f,
	}, nil
}

// Parse decodes a session from YAML. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", schema.ErrInvalidInput, err)
	}
	return &f, nil
}

// Meta returns the session metadata.
func (s *Session) Meta() schema.Meta {
	return schema.Meta{Supplier: s.Supplier, Date: s.Date, Auditor: s.Auditor}
}

// Dir is the directory relative attachment and logo paths resolve against.
func (s *Session) Dir() string {
	return filepath.Dir(s.Path)
}

// CatalogRef returns the session's catalog reference with a relative file
// path resolved against the session directory.
func (s *Session) CatalogRef() string {
	if catalog.IsPath(s.Catalog) && !filepath.IsAbs(s.Catalog) {
		return filepath.Join(s.Dir(), s.Catalog)
	}
	return s.Catalog
}

// AnswerSets loads every referenced attachment and returns the answers
// ready for the record builder.
func (s *Session) AnswerSets() ([]schema.AnswerSet, error) {
	out := make([]schema.AnswerSet, len(s.Answers))
	for i, a := range s.Answers {
		set := a.AnswerSet
		files, err := attach.Load(a.Attachments, s.Dir())
		if err != nil {
			return nil, fmt.Errorf("answer[%d]: %w", i, err)
		}
		set.Files = files
		set.Attachments = nil
		out[i] = set
	}
	return out, nil
}

// Audit evaluates the session against cat. Logo problems are reported to
// warn and never fail the build.
func (s *Session) Audit(cat *schema.Catalog, warn io.Writer) (*schema.Audit, error) {
	answers, err := s.AnswerSets()
	if err != nil {
		return nil, err
	}
	logo := attach.LoadLogo(s.Logo, s.Dir(), warn)
	return NewAudit(s.Meta(), cat, answers, s.Filters, logo)
}

// NewAudit builds the record set for answers against cat and applies the
// view. Visible stays nil when the view selects everything.
func NewAudit(meta schema.Meta, cat *schema.Catalog, answers []schema.AnswerSet, view review.View, logo *schema.Attachment) (*schema.Audit, error) {
	records, err := record.BuildAll(cat, answers)
	if err != nil {
		return nil, err
	}
	audit := &schema.Audit{
		Meta:    meta,
		Catalog: cat,
		Records: records,
		Logo:    logo,
	}
	if view.Active() {
		audit.Visible = review.Filter(records, view)
	}
	return audit, nil
}
