package server

import (
	"bytes"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/dshills/auditkit/internal/schema"
)

// applyErrorToResponse maps err onto a status code and writes a JSON error
// body. A nil err is a client error described by message alone.
func applyErrorToResponse(c *fiber.Ctx, message string, err error) error {
	status := fiber.StatusBadRequest
	switch {
	case err == nil, errors.Is(err, schema.ErrInvalidInput):
	case errors.Is(err, ErrNotFound):
		status = fiber.StatusNotFound
	default:
		status = fiber.StatusInternalServerError
		log.Errorf("%s %s: %s: %v", c.Method(), c.Path(), message, err)
	}
	body := fiber.Map{"error": message}
	if err != nil {
		body["detail"] = err.Error()
	}
	return c.Status(status).JSON(body)
}

func applySuccessToResponse(c *fiber.Ctx, status int, data interface{}) error {
	if data == nil {
		return c.SendStatus(status)
	}
	return c.Status(status).JSON(data)
}

// warnLog forwards report warnings to the server log.
type warnLog struct{}

func (warnLog) Write(p []byte) (int, error) {
	log.Warn(string(trimWarn(p)))
	return len(p), nil
}

func trimWarn(p []byte) []byte {
	return bytes.TrimRight(bytes.TrimPrefix(p, []byte("WARN: ")), "\r\n")
}
