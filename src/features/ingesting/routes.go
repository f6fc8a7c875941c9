package ingesting

import "github.com/gofiber/fiber/v2"

// RegisterRoutes registers the ingestion routes on the app.
func RegisterRoutes(app *fiber.App, service *Service) {
	handler := NewHandler(service)
	api := app.Group("/api")
	api.Post("/albums", handler.IngestAlbum)
}
