package delta

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Text renders the report for a terminal. Free-text edits are shown inline
// with deletions as [-old-] and insertions as {+new+}.
func Text(rep *Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Conformità semplice:  %s -> %s\n", rep.Before.Simple, rep.After.Simple)
	fmt.Fprintf(&sb, "Conformità ponderata: %s -> %s\n", rep.Before.Weighted, rep.After.Weighted)
	fmt.Fprintf(&sb, "Non conformi:         %d -> %d (risolte: %d)\n", rep.Before.NonCompliant, rep.After.NonCompliant, rep.Resolved())
	if len(rep.Changes) == 0 {
		sb.WriteString("\nNessuna variazione.\n")
		return sb.String()
	}

	dmp := diffmatchpatch.New()
	for _, c := range rep.Changes {
		fmt.Fprintf(&sb, "\n%s #%d [%s] %s\n", c.Section, c.Index, c.Kind, c.Requirement)
		for _, f := range c.Fields {
			if f.Patch == "" {
				fmt.Fprintf(&sb, "  %s: %q -> %q\n", f.Field, f.Before, f.After)
				continue
			}
			diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(f.Before, f.After, false))
			fmt.Fprintf(&sb, "  %s: %s\n", f.Field, inline(diffs))
		}
	}
	return sb.String()
}

func inline(diffs []diffmatchpatch.Diff) string {
	var sb strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			sb.WriteString("[-" + d.Text + "-]")
		case diffmatchpatch.DiffInsert:
			sb.WriteString("{+" + d.Text + "+}")
		default:
			sb.WriteString(d.Text)
		}
	}
	return sb.String()
}
