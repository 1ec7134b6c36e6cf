package markup

import "testing"

func TestEscape(t *testing.T) {
	got := Escape(`Rossi & Figli <srl> "A"`)
	want := `Rossi &amp; Figli &lt;srl&gt; "A"`
	if got != want {
		t.Errorf("Escape = %q, want %q", got, want)
	}
}

func TestParse_BoldSegments(t *testing.T) {
	segs := Parse("Fornitore: " + Bold("ACME") + " Data: " + Bold("01/02/2025"))
	if len(segs) != 4 {
		t.Fatalf("expected 4 segments, got %d: %+v", len(segs), segs)
	}
	if segs[0].Bold || segs[0].Text != "Fornitore: " {
		t.Errorf("seg 0 = %+v", segs[0])
	}
	if !segs[1].Bold || segs[1].Text != "ACME" {
		t.Errorf("seg 1 = %+v", segs[1])
	}
	if !segs[3].Bold || segs[3].Text != "01/02/2025" {
		t.Errorf("seg 3 = %+v", segs[3])
	}
}

func TestParse_EscapedInputCannotStyle(t *testing.T) {
	user := "<b>not bold</b> & co"
	segs := Parse(Escape(user))
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %+v", segs)
	}
	if segs[0].Bold {
		t.Error("escaped input must not produce bold text")
	}
	if segs[0].Text != user {
		t.Errorf("round trip = %q, want %q", segs[0].Text, user)
	}
}

func TestParse_UnknownTagsStayLiteral(t *testing.T) {
	segs := Parse("a <i>b</i>")
	if len(segs) != 1 || segs[0].Bold || segs[0].Text != "a <i>b</i>" {
		t.Errorf("segments = %+v", segs)
	}
}

func TestParse_MergesAdjacent(t *testing.T) {
	segs := Parse("<b>a</b><b>b</b>")
	if len(segs) != 1 || segs[0].Text != "ab" || !segs[0].Bold {
		t.Errorf("segments = %+v", segs)
	}
}

func TestParse_Empty(t *testing.T) {
	if segs := Parse(""); len(segs) != 0 {
		t.Errorf("expected no segments, got %+v", segs)
	}
}
