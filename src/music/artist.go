package music

import (
	"fmt"
	"strings"
)

// Artist represents a music artist. Artists are created lazily the first time
// an album references them and are never deleted by the catalog.
type Artist struct {
	ID   string `json:"artistId"`
	Name string `json:"artistName"`
}

// ArtistSummary is an artist together with the number of albums referencing it.
type ArtistSummary struct {
	Artist
	AlbumCount int `json:"albumCount"`
}

// Validate validates the artist fields.
func (a *Artist) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("artist name cannot be empty")
	}
	if len(a.Name) > 500 {
		return fmt.Errorf("artist name cannot exceed 500 characters")
	}
	return nil
}
