package catalog

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the routes for the catalog read path. Search
// routes come before the :id routes so "search" is never taken for an ID.
func RegisterRoutes(app *fiber.App, service *Service) {
	handler := NewHandler(service)

	api := app.Group("/api")
	api.Get("/albums", handler.GetAlbums)
	api.Get("/albums/search", handler.SearchAlbums)
	api.Get("/albums/:id", handler.GetAlbum)
	api.Get("/artists", handler.GetArtists)
	api.Get("/tracks/search", handler.SearchTracks)
	api.Get("/tracks/:id", handler.GetTrack)
	api.Get("/stats", handler.GetStats)
}
