// Package api serves the HTTP surface with fiber.
package api

import (
	"context"
	"io"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// DefaultBodyLimit allows multi-file uploads.
const DefaultBodyLimit = 100 << 20

// Services are the driving ports the HTTP surface calls.
type Services struct {
	Documents driving.DocumentService
	Ingest    driving.IngestService
	Chat      driving.ChatService
	Reports   driving.ReportService
	Status    driving.StatusService
}

// Config configures the server.
type Config struct {
	// AccessLog receives one line per request. Nil disables access logs.
	AccessLog io.Writer
	// BodyLimit is the maximum request size in bytes.
	BodyLimit int
}

// Server is the HTTP server.
type Server struct {
	app *fiber.App
	svc Services
}

// NewServer creates the fiber app and registers every route.
func NewServer(svc Services, cfg Config) *Server {
	if cfg.BodyLimit <= 0 {
		cfg.BodyLimit = DefaultBodyLimit
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          ErrorHandler,
		BodyLimit:             cfg.BodyLimit,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	if cfg.AccessLog != nil {
		app.Use(fiberlogger.New(fiberlogger.Config{Output: cfg.AccessLog}))
	}

	s := &Server{app: app, svc: svc}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Get("/health", s.handleHealth)

	docs := s.app.Group("/documents")
	docs.Get("/", s.handleListDocuments)
	docs.Post("/clear", s.handleClearDocuments)
	docs.Get("/:id", s.handleGetDocument)
	docs.Delete("/:id", s.handleDeleteDocument)

	s.app.Post("/upload", s.handleUpload)
	s.app.Post("/ingest/drive", s.handleIngestDrive)

	s.app.Post("/chat", s.handleChat)
	s.app.Post("/chat/clear", s.handleClearChat)
	s.app.Post("/search", s.handleSearch)

	s.app.Post("/report", s.handleReport)
	s.app.Get("/reports/:id", s.handleDownloadReport)
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown stops the server, waiting for in-flight requests until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
