package session

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/auditkit/internal/catalog"
	"github.com/dshills/auditkit/internal/schema"
)

const testdataDir = "../../testdata"

func loadSession(t *testing.T, name string) (*Session, *schema.Catalog) {
	t.Helper()
	s, err := Load(filepath.Join(testdataDir, "sessions", name))
	if err != nil {
		t.Fatalf("Load %s: %v", name, err)
	}
	cat, err := catalog.Resolve(s.CatalogRef())
	if err != nil {
		t.Fatalf("Resolve catalog: %v", err)
	}
	return s, cat
}

// --- Load / Parse tests ---

func TestLoad_Fields(t *testing.T) {
	s, _ := loadSession(t, "acme.yaml")
	if s.Supplier != "ACME S.r.l." || s.Auditor != "M. Bianchi" {
		t.Errorf("meta = %+v", s.Meta())
	}
	if s.Date.String() != "14/03/2025" {
		t.Errorf("date = %q", s.Date.String())
	}
	if !strings.HasPrefix(s.Hash, "sha256:") || len(s.Hash) != len("sha256:")+64 {
		t.Errorf("hash = %q", s.Hash)
	}
	if len(s.Answers) != 2 {
		t.Fatalf("answers = %d, want 2", len(s.Answers))
	}
	nc := s.Answers[1]
	if nc.Status != schema.StatusNonCompliant || nc.NCLevel != schema.NCLevel1 || nc.TargetPeriod != schema.PeriodShort {
		t.Errorf("nc answer = %+v", nc.AnswerSet)
	}
	if schema.FormatDate(nc.PlannedCompletion) != "30/04/2025" || schema.FormatDate(nc.PlannedVerification) != "15/05/2025" {
		t.Errorf("dates = %v / %v", nc.PlannedCompletion, nc.PlannedVerification)
	}
	if len(nc.Attachments) != 1 || nc.Attachments[0].Type != "text/plain" {
		t.Errorf("attachments = %+v", nc.Attachments)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/session.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParse_UnknownKeyRejected(t *testing.T) {
	_, err := Parse([]byte("supplier: ACME\nsuplier: typo\n"))
	if !errors.Is(err, schema.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestParse_BadDate(t *testing.T) {
	_, err := Parse([]byte("date: 2025-13-40\n"))
	if !errors.Is(err, schema.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestParse_Empty(t *testing.T) {
	f, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if f.Supplier != "" || len(f.Answers) != 0 || f.Filters.Active() {
		t.Errorf("empty session = %+v", f)
	}
}

func TestCatalogRef(t *testing.T) {
	s := &Session{Path: filepath.Join("a", "b", "s.yaml"), File: File{Catalog: "../c.yaml"}}
	if got := s.CatalogRef(); got != filepath.Join("a", "c.yaml") {
		t.Errorf("CatalogRef = %q", got)
	}
	s.Catalog = "dlgs81"
	if got := s.CatalogRef(); got != "dlgs81" {
		t.Errorf("built-in ref = %q", got)
	}
}

// --- Audit tests ---

func TestAudit_Acme(t *testing.T) {
	s, cat := loadSession(t, "acme.yaml")
	var warn bytes.Buffer
	audit, err := s.Audit(cat, &warn)
	if err != nil {
		t.Fatalf("Audit: %v", err)
	}
	if warn.Len() != 0 {
		t.Errorf("unexpected warnings: %q", warn.String())
	}
	if len(audit.Records) != 3 {
		t.Fatalf("records = %d, want one per catalog entry", len(audit.Records))
	}
	if audit.Logo == nil || !audit.Logo.IsImage() {
		t.Errorf("logo = %+v", audit.Logo)
	}
	first := audit.Records[0]
	if len(first.Files) != 1 || first.Files[0].Name != "estintore.png" || !first.Files[0].IsImage() {
		t.Errorf("first record files = %+v", first.Files)
	}
	if got := strings.Join(audit.Records[1].AttachmentNames, ","); got != "verbale.txt" {
		t.Errorf("attachment names = %q", got)
	}
	if audit.Records[2].Status != schema.StatusNotApplicable {
		t.Errorf("unanswered entry should be not applicable: %+v", audit.Records[2])
	}
	if audit.Visible != nil {
		t.Error("Visible should be nil without filters")
	}
}

func TestAudit_Filtered(t *testing.T) {
	s, cat := loadSession(t, "filtered.yaml")
	audit, err := s.Audit(cat, nil)
	if err != nil {
		t.Fatalf("Audit: %v", err)
	}
	if len(audit.Records) != 3 {
		t.Errorf("full set = %d", len(audit.Records))
	}
	exp := audit.ExportRecords()
	if len(exp) != 1 || exp[0].Index != 2 {
		t.Errorf("export records = %+v", exp)
	}
}

func TestAudit_MissingLogoWarns(t *testing.T) {
	s, cat := loadSession(t, "missing_logo.yaml")
	var warn bytes.Buffer
	audit, err := s.Audit(cat, &warn)
	if err != nil {
		t.Fatalf("Audit: %v", err)
	}
	if audit.Logo != nil {
		t.Error("expected no logo")
	}
	if !strings.Contains(warn.String(), "WARN:") {
		t.Errorf("expected warning, got %q", warn.String())
	}
}

func TestAudit_InvalidInput(t *testing.T) {
	for _, name := range []string{"invalid_status.yaml", "unknown_entry.yaml"} {
		t.Run(name, func(t *testing.T) {
			s, cat := loadSession(t, name)
			_, err := s.Audit(cat, nil)
			if !errors.Is(err, schema.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestAudit_MissingAttachment(t *testing.T) {
	s, cat := loadSession(t, "acme.yaml")
	s.Answers[0].Attachments[0].Path = "files/assente.png"
	_, err := s.Audit(cat, nil)
	if !errors.Is(err, schema.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
