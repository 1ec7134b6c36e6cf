package markup

import (
	"html"
	"regexp"
	"strings"
)

// escaper covers exactly the characters the report markup treats specially.
var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// tagPattern matches the only tags the report understands.
var tagPattern = regexp.MustCompile(`(?i)</?b>`)

// Escape makes free text safe to embed in report markup.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Bold wraps already-escaped text in a bold tag.
func Bold(s string) string {
	return "<b>" + s + "</b>"
}

// Segment is a run of plain text sharing one style.
type Segment struct {
	Text string
	Bold bool
}

// Parse splits markup into styled segments and unescapes entities. Unknown
// tags are not recognised and stay literal text, so escaped user input can
// never change styling.
func Parse(s string) []Segment {
	var out []Segment
	bold := false
	pos := 0
	emit := func(text string) {
		if text == "" {
			return
		}
		text = html.UnescapeString(text)
		if n := len(out); n > 0 && out[n-1].Bold == bold {
			out[n-1].Text += text
			return
		}
		out = append(out, Segment{Text: text, Bold: bold})
	}
	for _, loc := range tagPattern.FindAllStringIndex(s, -1) {
		emit(s[pos:loc[0]])
		bold = s[loc[0]+1] != '/'
		pos = loc[1]
	}
	emit(s[pos:])
	return out
}
