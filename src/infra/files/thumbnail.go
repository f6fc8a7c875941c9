package files

import (
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"

	"github.com/contre95/musiclify/src/features/ingesting"
	"github.com/nfnt/resize"

	_ "golang.org/x/image/webp"
	_ "image/gif"
	_ "image/png"
)

// CoverThumbnail renders a square JPEG next to a stored cover, named
// {base}_thumb.jpg. The source image keeps its aspect ratio within the
// bounding box.
func (s *Store) CoverThumbnail(cover ingesting.StoredFile, size int) (ingesting.StoredFile, error) {
	src, err := os.Open(cover.AbsPath)
	if err != nil {
		return ingesting.StoredFile{}, fmt.Errorf("failed to open cover: %w", err)
	}
	defer src.Close()

	img, _, err := image.Decode(src)
	if err != nil {
		return ingesting.StoredFile{}, fmt.Errorf("failed to decode cover image: %w", err)
	}

	thumb := resize.Thumbnail(uint(size), uint(size), img, resize.Lanczos3)

	ext := filepath.Ext(cover.RelPath)
	rel := strings.TrimSuffix(cover.RelPath, ext) + "_thumb.jpg"
	abs := strings.TrimSuffix(cover.AbsPath, ext) + "_thumb.jpg"

	out, err := os.Create(abs)
	if err != nil {
		return ingesting.StoredFile{}, fmt.Errorf("failed to create thumbnail: %w", err)
	}
	defer out.Close()

	if err := jpeg.Encode(out, thumb, &jpeg.Options{Quality: 85}); err != nil {
		os.Remove(abs)
		return ingesting.StoredFile{}, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return ingesting.StoredFile{RelPath: rel, AbsPath: abs}, nil
}
