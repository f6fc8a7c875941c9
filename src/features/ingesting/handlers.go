package ingesting

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
)

// Handler is the handler for the ingestion feature.
type Handler struct {
	service *Service
}

// NewHandler creates a new handler for the ingestion feature.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// IngestAlbum handles POST /api/albums: one multipart submission with the
// album fields, an optional cover and the ordered track files.
func (h *Handler) IngestAlbum(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "cannot parse multipart form",
		})
	}

	req := &IngestRequest{
		Title:      formValue(form, "title"),
		ArtistName: formValue(form, "artistName"),
		Year:       formValue(form, "year"),
	}
	if covers := form.File["cover"]; len(covers) > 0 {
		req.Cover = fileUpload(covers[0])
	}
	for _, fh := range form.File["tracks"] {
		req.Tracks = append(req.Tracks, *fileUpload(fh))
	}

	result, err := h.service.IngestAlbum(c.Context(), req)
	if err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": vErr.Message,
			})
		}
		slog.Error("Album ingestion failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "internal server error",
		})
	}

	return c.JSON(result)
}

func formValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}

func fileUpload(fh *multipart.FileHeader) *FileUpload {
	return &FileUpload{
		Filename: fh.Filename,
		Size:     fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}
