package server

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/dshills/auditkit/internal/render"
	"github.com/dshills/auditkit/internal/review"
	"github.com/dshills/auditkit/internal/schema"
	"github.com/dshills/auditkit/internal/schema/validate"
	"github.com/dshills/auditkit/internal/session"
)

// filePayload is an uploaded attachment; Data is base64 in JSON.
type filePayload struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Data []byte `json:"data"`
}

func (f filePayload) attachment() schema.Attachment {
	return schema.Attachment{Name: f.Name, MIMEType: f.Type, Data: f.Data}
}

// sessionPayload is the body of PUT /sessions/:id. Answers is a JSON array
// of answer sets, each optionally carrying "files".
type sessionPayload struct {
	Supplier string          `json:"supplier"`
	Date     schema.Date     `json:"date"`
	Auditor  string          `json:"auditor"`
	Logo     *filePayload    `json:"logo"`
	Answers  json.RawMessage `json:"answers"`
}

type answerFiles struct {
	Files []filePayload `json:"files"`
}

func (p sessionPayload) snapshot() (Snapshot, error) {
	snap := Snapshot{Meta: schema.Meta{Supplier: p.Supplier, Date: p.Date, Auditor: p.Auditor}}
	if p.Logo != nil {
		logo := p.Logo.attachment()
		snap.Logo = &logo
	}
	if len(p.Answers) == 0 {
		return snap, nil
	}

	answers, err := validate.ParseAnswers(p.Answers)
	if err != nil {
		return snap, err
	}
	var files []answerFiles
	if err := json.Unmarshal(p.Answers, &files); err != nil {
		return snap, fmt.Errorf("%w: answer files: %v", schema.ErrInvalidInput, err)
	}
	for i := range answers {
		for _, f := range files[i].Files {
			answers[i].Files = append(answers[i].Files, f.attachment())
		}
	}
	snap.Answers = answers
	return snap, nil
}

// SessionAPI serves the per-session endpoints.
type SessionAPI struct {
	Router  fiber.Router
	Store   *Store
	Catalog *schema.Catalog
}

func (api *SessionAPI) Register() {
	api.Router.Post("/sessions", func(c *fiber.Ctx) error {
		id := api.Store.Create()
		log.Infof("session %s opened", id)
		return applySuccessToResponse(c, fiber.StatusCreated, fiber.Map{"id": id})
	})

	api.Router.Put("/sessions/:id", func(c *fiber.Ctx) error {
		id := c.Params("id")
		var p sessionPayload
		if err := json.Unmarshal(c.Body(), &p); err != nil {
			return applyErrorToResponse(c, "Invalid session body", fmt.Errorf("%w: %v", schema.ErrInvalidInput, err))
		}
		snap, err := p.snapshot()
		if err != nil {
			return applyErrorToResponse(c, "Invalid answers", err)
		}
		audit, err := session.NewAudit(snap.Meta, api.Catalog, snap.Answers, review.View{}, nil)
		if err != nil {
			return applyErrorToResponse(c, "Invalid answers", err)
		}
		if err := api.Store.Put(id, snap); err != nil {
			return applyErrorToResponse(c, "Unknown session", err)
		}
		return applySuccessToResponse(c, fiber.StatusOK, fiber.Map{"id": id, "records": len(audit.Records)})
	})

	api.Router.Get("/sessions/:id/stats", func(c *fiber.Ctx) error {
		audit, err := api.audit(c.Params("id"), review.View{})
		if err != nil {
			return applyErrorToResponse(c, "Cannot build statistics", err)
		}
		return applySuccessToResponse(c, fiber.StatusOK, render.Stats(audit))
	})

	api.Router.Get("/sessions/:id/export.csv", func(c *fiber.Ctx) error {
		return api.artifact(c, render.FormatCSV, "audit", exportView(c))
	})

	api.Router.Get("/sessions/:id/export.xlsx", func(c *fiber.Ctx) error {
		return api.artifact(c, render.FormatXLSX, "audit", exportView(c))
	})

	api.Router.Get("/sessions/:id/report.pdf", func(c *fiber.Ctx) error {
		return api.artifact(c, render.FormatPDF, "report", review.View{})
	})

	api.Router.Delete("/sessions/:id", func(c *fiber.Ctx) error {
		id := c.Params("id")
		if err := api.Store.Delete(id); err != nil {
			return applyErrorToResponse(c, "Unknown session", err)
		}
		log.Infof("session %s closed", id)
		return applySuccessToResponse(c, fiber.StatusNoContent, nil)
	})
}

func exportView(c *fiber.Ctx) review.View {
	return review.View{OnlyNonCompliant: c.QueryBool("only_nc"), Search: c.Query("q")}
}

// audit rebuilds the session's audit from a snapshot of that session only.
func (api *SessionAPI) audit(id string, view review.View) (*schema.Audit, error) {
	snap, err := api.Store.Get(id)
	if err != nil {
		return nil, err
	}
	return session.NewAudit(snap.Meta, api.Catalog, snap.Answers, view, snap.Logo)
}

func (api *SessionAPI) artifact(c *fiber.Ctx, format, prefix string, view review.View) error {
	audit, err := api.audit(c.Params("id"), view)
	if err != nil {
		return applyErrorToResponse(c, "Cannot build "+format, err)
	}
	r, err := render.NewRenderer(format, warnLog{})
	if err != nil {
		return applyErrorToResponse(c, "Unexpected error", err)
	}
	out, err := r.Render(audit)
	if err != nil {
		return applyErrorToResponse(c, "Cannot render "+format, err)
	}
	c.Attachment(render.Filename(prefix, audit.Meta.Supplier, audit.Meta.Date, format))
	return c.Send(out)
}
