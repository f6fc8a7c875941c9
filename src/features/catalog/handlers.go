package catalog

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Handler is the handler for the catalog read path.
type Handler struct {
	service *Service
}

// NewHandler creates a new handler for the catalog feature.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetAlbums is the handler for listing all albums.
func (h *Handler) GetAlbums(c *fiber.Ctx) error {
	albums, err := h.service.GetAlbums(c.Context())
	if err != nil {
		return internalError(c, "Error loading albums")
	}
	return c.JSON(fiber.Map{
		"count":  len(albums),
		"albums": albums,
	})
}

// GetAlbum is the handler for one album with its tracks.
func (h *Handler) GetAlbum(c *fiber.Ctx) error {
	id := c.Params("id")
	album, err := h.service.GetAlbum(c.Context(), id)
	if err != nil {
		slog.Error("Error loading album", "id", id, "error", err)
		return internalError(c, "Error loading album")
	}
	if album == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Album not found",
		})
	}

	tracks, err := h.service.GetAlbumTracks(c.Context(), id)
	if err != nil {
		slog.Error("Error loading album tracks", "id", id, "error", err)
		return internalError(c, "Error loading album")
	}
	return c.JSON(fiber.Map{
		"album":  album,
		"tracks": tracks,
	})
}

// SearchAlbums is the handler for album search.
func (h *Handler) SearchAlbums(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return c.JSON(fiber.Map{"count": 0, "albums": []struct{}{}})
	}
	albums, err := h.service.SearchAlbums(c.Context(), query)
	if err != nil {
		return internalError(c, "Error searching albums")
	}
	return c.JSON(fiber.Map{
		"count":  len(albums),
		"albums": albums,
	})
}

// GetArtists is the handler for listing all artists with album counts.
func (h *Handler) GetArtists(c *fiber.Ctx) error {
	artists, err := h.service.GetArtists(c.Context())
	if err != nil {
		return internalError(c, "Error loading artists")
	}
	return c.JSON(fiber.Map{
		"count":   len(artists),
		"artists": artists,
	})
}

// GetTrack is the handler for one track with artist and album names.
func (h *Handler) GetTrack(c *fiber.Ctx) error {
	id := c.Params("id")
	track, err := h.service.GetTrack(c.Context(), id)
	if err != nil {
		slog.Error("Error loading track", "id", id, "error", err)
		return internalError(c, "Error loading track")
	}
	if track == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Track not found",
		})
	}
	return c.JSON(track)
}

// SearchTracks is the handler for track search.
func (h *Handler) SearchTracks(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return c.JSON(fiber.Map{"count": 0, "tracks": []struct{}{}})
	}
	tracks, err := h.service.SearchTracks(c.Context(), query)
	if err != nil {
		return internalError(c, "Error searching tracks")
	}
	return c.JSON(fiber.Map{
		"count":  len(tracks),
		"tracks": tracks,
	})
}

// GetStats is the handler for the library totals.
func (h *Handler) GetStats(c *fiber.Ctx) error {
	stats, err := h.service.GetStats(c.Context())
	if err != nil {
		return internalError(c, "Error loading stats")
	}
	return c.JSON(stats)
}

func internalError(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": message,
	})
}
