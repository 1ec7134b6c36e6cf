package render

import (
	"strconv"
	"strings"

	"github.com/dshills/auditkit/internal/schema"
)

// Columns is the export column set shared by CSV and XLSX, in order.
var Columns = []string{
	"Applicabile",
	"N",
	"Sezione",
	"Requisito",
	"Riferimento",
	"Stato",
	"NC Livello",
	"Note",
	"Allegati",
	"Punteggio",
	"Punteggio ponderato",
	"Cause",
	"Trattamento",
	"Periodo",
	"Data trattamento",
	"Data verifica",
	"Responsabile",
}

const (
	yes = "Sì"
	no  = "No"

	// attachmentSep separates file names in the Allegati cell. Names may
	// contain commas but not line breaks.
	attachmentSep = "\n"
)

// Row returns the export cells for r, aligned with Columns.
func Row(r schema.Record) []string {
	applicable := no
	if r.Applicable {
		applicable = yes
	}
	simple := ""
	if r.SimpleScore != nil {
		simple = strconv.Itoa(*r.SimpleScore)
	}
	weighted := ""
	if r.WeightedScore != nil {
		weighted = strconv.FormatFloat(*r.WeightedScore, 'f', -1, 64)
	}
	return []string{
		applicable,
		strconv.Itoa(r.Index),
		r.Section,
		r.Requirement,
		r.Reference,
		r.Status.Label(),
		r.NCLevel.Label(),
		r.Notes,
		strings.Join(r.AttachmentNames, attachmentSep),
		simple,
		weighted,
		r.CauseAnalysis,
		r.CorrectiveAction,
		r.TargetPeriod.Label(),
		schema.FormatDate(r.PlannedCompletion),
		schema.FormatDate(r.PlannedVerification),
		r.Responsible,
	}
}

// Rows returns one row per record, in record order.
func Rows(records []schema.Record) [][]string {
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = Row(r)
	}
	return rows
}
