package render

import (
	"encoding/json"

	"github.com/dshills/auditkit/internal/schema"
)

type jsonRenderer struct{}

func (r *jsonRenderer) Render(audit *schema.Audit) ([]byte, error) {
	return json.MarshalIndent(Stats(audit), "", "  ")
}
