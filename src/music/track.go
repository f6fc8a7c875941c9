package music

import (
	"fmt"
	"strings"
)

// Track represents a single audio file belonging to an album. The artist
// reference is a denormalized copy of the album's artist. Number is the
// 1-based position of the file in the upload; gaps left by skipped or failed
// files are accepted. Duration is whole seconds, 0 when unknown. Path is the
// relative storage path and the only durable reference to the file.
type Track struct {
	ID       string `json:"trackId"`
	Title    string `json:"title"`
	ArtistID string `json:"artistId"`
	AlbumID  string `json:"albumId"`
	Number   int    `json:"trackNumber"`
	Duration int    `json:"duration"`
	Path     string `json:"path"`
}

// TrackDetails is a track joined with its artist and album display fields.
type TrackDetails struct {
	Track
	ArtistName string `json:"artistName"`
	AlbumTitle string `json:"albumTitle"`
}

// Validate validates the track fields.
func (t *Track) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("track title cannot be empty")
	}
	if len(t.Title) > 500 {
		return fmt.Errorf("track title cannot exceed 500 characters, got %d", len(t.Title))
	}
	if strings.TrimSpace(t.Path) == "" {
		return fmt.Errorf("track path cannot be empty")
	}
	if len(t.Path) > 1000 {
		return fmt.Errorf("track path cannot exceed 1000 characters, got %d", len(t.Path))
	}
	if strings.TrimSpace(t.ArtistID) == "" {
		return fmt.Errorf("track must reference an artist")
	}
	if strings.TrimSpace(t.AlbumID) == "" {
		return fmt.Errorf("track must reference an album")
	}
	if t.Number < 1 {
		return fmt.Errorf("track number must be positive, got %d", t.Number)
	}
	if t.Duration < 0 {
		return fmt.Errorf("duration cannot be negative, got %d", t.Duration)
	}
	return nil
}
