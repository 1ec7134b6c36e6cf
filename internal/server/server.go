// Package server exposes audit sessions over HTTP. Each session holds its
// own answers; artifacts are rebuilt per request from that session alone.
package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/dshills/auditkit/internal/schema"
)

// maxBody bounds an uploaded session including its attachments.
const maxBody = 64 << 20

// Server is the HTTP front end.
type Server struct {
	App   *fiber.App
	Store *Store
}

// New wires the session API for audits against cat.
func New(cat *schema.Catalog) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "auditkit",
		BodyLimit:             maxBody,
		DisableStartupMessage: true,
	})
	store := NewStore()
	api := &SessionAPI{Router: app, Store: store, Catalog: cat}
	api.Register()
	return &Server{App: app, Store: store}
}

// Listen serves until the app is shut down.
func (s *Server) Listen(addr string) error {
	log.Infof("listening on %s", addr)
	return s.App.Listen(addr)
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown() error {
	return s.App.Shutdown()
}
