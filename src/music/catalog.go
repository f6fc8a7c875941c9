package music

import (
	"context"
)

// Catalog is the primary repository interface for the music catalog.
type Catalog interface {
	// Begin opens a transaction for an ingestion. Everything an ingestion
	// writes to the catalog goes through the returned handle so that a
	// commit failure leaves no partially visible album.
	Begin(ctx context.Context) (CatalogTx, error)

	// Read path
	GetAlbums(ctx context.Context) ([]*Album, error)
	GetAlbum(ctx context.Context, id string) (*Album, error)
	GetAlbumTracks(ctx context.Context, albumID string) ([]*Track, error)
	SearchAlbums(ctx context.Context, query string, limit int) ([]*Album, error)
	GetArtists(ctx context.Context) ([]*ArtistSummary, error)
	GetArtistByName(ctx context.Context, name string) (*Artist, error)
	GetTrack(ctx context.Context, id string) (*TrackDetails, error)
	SearchTracks(ctx context.Context, query string, limit int) ([]*TrackDetails, error)

	// Counts
	GetArtistsCount(ctx context.Context) (int, error)
	GetAlbumsCount(ctx context.Context) (int, error)
	GetTracksCount(ctx context.Context) (int, error)
}

// CatalogTx is a transaction handle over the catalog. Rollback after a
// successful Commit is a no-op.
type CatalogTx interface {
	// ResolveArtist returns the artist with the given trimmed name, creating
	// it when missing. Lookup and insert run on this transaction so a
	// concurrent identical request cannot observe a half-created artist.
	ResolveArtist(ctx context.Context, name string) (*Artist, error)

	AddAlbum(ctx context.Context, album *Album) error
	AddTrack(ctx context.Context, track *Track) error

	// SetAlbumTrackCount records the number of successfully inserted tracks
	// for the album. Never a pre-count of the uploaded files.
	SetAlbumTrackCount(ctx context.Context, albumID string, count int) error

	Commit() error
	Rollback() error
}
