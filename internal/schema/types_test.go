package schema

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParseDate_Formats(t *testing.T) {
	for _, in := range []string{"2025-03-07", "07/03/2025", " 2025-03-07 "} {
		d, err := ParseDate(in)
		if err != nil {
			t.Fatalf("ParseDate(%q): %v", in, err)
		}
		if d.String() != "07/03/2025" {
			t.Errorf("ParseDate(%q).String() = %q", in, d.String())
		}
		if d.FileStamp() != "07-03-2025" {
			t.Errorf("ParseDate(%q).FileStamp() = %q", in, d.FileStamp())
		}
	}
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := ParseDate("March 7")
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestDate_JSON(t *testing.T) {
	type wrap struct {
		D *Date `json:"d"`
	}
	d := NewDate(2024, time.December, 31)
	out, err := json.Marshal(wrap{D: &d})
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"d":"2024-12-31"}` {
		t.Errorf("marshal = %s", out)
	}
	var back wrap
	if err := json.Unmarshal([]byte(`{"d":"31/12/2024"}`), &back); err != nil {
		t.Fatal(err)
	}
	if back.D == nil || back.D.Time() != d.Time() {
		t.Errorf("unmarshal = %v", back.D)
	}
}

func TestFormatDate_Nil(t *testing.T) {
	if FormatDate(nil) != "" {
		t.Error("nil date should format empty")
	}
	if (Date{}).String() != "" {
		t.Error("zero date should format empty")
	}
}

func TestPercentage_String(t *testing.T) {
	if got := (Percentage{}).String(); got != NoData {
		t.Errorf("invalid percentage = %q, want %q", got, NoData)
	}
	if got := (Percentage{Value: 75, Valid: true}).String(); got != "75.0" {
		t.Errorf("got %q, want 75.0", got)
	}
	if got := (Percentage{Value: 0, Valid: true}).String(); got != "0.0" {
		t.Errorf("got %q, want 0.0", got)
	}
}

func TestPercentage_JSONNoData(t *testing.T) {
	out, err := json.Marshal(Stats{Policy: PolicySimple})
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(out, &m); err != nil {
		t.Fatal(err)
	}
	if m["percent"] != nil {
		t.Errorf("no-data percent should be null, got %v", m["percent"])
	}
}

func TestEnums(t *testing.T) {
	if IsValidStatus("pending") {
		t.Error("pending is not a status")
	}
	if !IsValidNCLevel(NCLevelNone) || IsValidNCLevel("level3") {
		t.Error("NC level validation wrong")
	}
	if !IsValidPeriod(PeriodLong) || IsValidPeriod("eventually") {
		t.Error("period validation wrong")
	}
	if StatusNonCompliant.Label() != "Non conforme" || NCLevel1.Label() != "Livello 1" {
		t.Error("labels wrong")
	}
}

func TestAttachment_IsImage(t *testing.T) {
	if !(Attachment{MIMEType: "image/PNG"}).IsImage() {
		t.Error("image/PNG should be an image")
	}
	if (Attachment{MIMEType: "application/pdf"}).IsImage() {
		t.Error("pdf is not an image")
	}
}

func TestAudit_ExportRecords(t *testing.T) {
	a := &Audit{Records: []Record{{Index: 1}, {Index: 2}}}
	if len(a.ExportRecords()) != 2 {
		t.Error("expected all records without filter")
	}
	a.Visible = []Record{}
	if len(a.ExportRecords()) != 0 {
		t.Error("expected empty filtered subset to be honoured")
	}
}
