package music

import (
	"fmt"
	"strings"
	"time"
)

// Album represents a collection of tracks uploaded in a single ingestion.
// TracksCount is derived state: it is recomputed from the committed track rows
// at the end of ingestion and never counted optimistically from the upload.
type Album struct {
	ID          string    `json:"albumId"`
	Title       string    `json:"title"`
	Year        int       `json:"year"`
	CoverPath   string    `json:"cover"`
	TracksCount int       `json:"tracksNumber"`
	ArtistID    string    `json:"artistId"`
	ArtistName  string    `json:"artistName,omitempty"`
	AddedDate   time.Time `json:"-"`
}

// Validate validates the album fields.
func (a *Album) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return fmt.Errorf("album title cannot be empty")
	}
	if len(a.Title) > 500 {
		return fmt.Errorf("album title cannot exceed 500 characters")
	}
	if strings.TrimSpace(a.ArtistID) == "" {
		return fmt.Errorf("album must reference an artist")
	}
	if a.TracksCount < 0 {
		return fmt.Errorf("tracks count cannot be negative, got %d", a.TracksCount)
	}
	return nil
}
