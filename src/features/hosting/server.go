package hosting

import (
	"fmt"
	"log/slog"

	"github.com/contre95/musiclify/src/features/catalog"
	"github.com/contre95/musiclify/src/features/config"
	"github.com/contre95/musiclify/src/features/ingesting"
	"github.com/contre95/musiclify/src/features/metrics"
	"github.com/gofiber/fiber/v2"
)

// Server is the HTTP server for the application.
type Server struct {
	app  *fiber.App
	port uint32
}

// NewServer creates a new HTTP server.
func NewServer(cfg *config.Manager, ingestService *ingesting.Service, catalogService *catalog.Service) *Server {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fiberErr *fiber.Error
			if e, ok := err.(*fiber.Error); ok {
				fiberErr = e
				code = e.Code
			}
			if code >= 500 {
				slog.Error("Internal Server Error", "path", c.Path(), "error", err)
				return c.Status(code).JSON(fiber.Map{"message": "internal server error"})
			}
			return c.Status(code).JSON(fiber.Map{"message": fiberErr.Message})
		},
		AppName:               "Musiclify",
		DisableStartupMessage: true,
		EnablePrintRoutes:     cfg.Get().Server.PrintRoutes,
		BodyLimit:             cfg.Get().Server.BodyLimitMB * 1024 * 1024,
	})

	app.Use(LogAllRequestsMiddleware())

	// Frontend and the two media roots.
	app.Static("/", "./public")
	app.Static("/covers", cfg.CoversPath())
	app.Static("/music", cfg.MusicPath())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	ingesting.RegisterRoutes(app, ingestService)
	catalog.RegisterRoutes(app, catalogService)
	metrics.RegisterRoutes(app)

	return &Server{app: app, port: cfg.Get().Server.Port}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.app.Listen(":" + fmt.Sprint(s.port))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
