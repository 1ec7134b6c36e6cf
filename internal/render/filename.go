package render

import (
	"strings"

	"github.com/dshills/auditkit/internal/schema"
)

// Filename returns <prefix>_<supplier>_<DD-MM-YYYY>.<ext>, substituting
// "fornitore" and "data" for a missing supplier or date. Path separators
// in the supplier name are replaced so the result is always a bare name.
func Filename(prefix, supplier string, date schema.Date, ext string) string {
	name := strings.TrimSpace(supplier)
	if name == "" {
		name = "fornitore"
	}
	name = strings.NewReplacer("/", "-", "\\", "-").Replace(name)
	stamp := date.FileStamp()
	if stamp == "" {
		stamp = "data"
	}
	return prefix + "_" + name + "_" + stamp + "." + strings.TrimPrefix(ext, ".")
}
