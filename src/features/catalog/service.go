package catalog

import (
	"context"
	"log/slog"

	"github.com/contre95/musiclify/src/music"
)

// defaultSearchLimit caps search responses when the caller gives no limit.
const defaultSearchLimit = 20

// Service is the domain service for the catalog read path.
type Service struct {
	catalog music.Catalog
}

// NewService creates a new catalog service.
func NewService(catalog music.Catalog) *Service {
	return &Service{catalog: catalog}
}

// GetAlbums returns all albums with their artist names, newest year first.
func (s *Service) GetAlbums(ctx context.Context) ([]*music.Album, error) {
	albums, err := s.catalog.GetAlbums(ctx)
	if err != nil {
		slog.Error("GetAlbums failed", "error", err)
		return nil, err
	}
	return albums, nil
}

// GetAlbum returns one album by ID, or nil when it does not exist.
func (s *Service) GetAlbum(ctx context.Context, id string) (*music.Album, error) {
	return s.catalog.GetAlbum(ctx, id)
}

// GetAlbumTracks returns the album's tracks ordered by track number.
func (s *Service) GetAlbumTracks(ctx context.Context, albumID string) ([]*music.Track, error) {
	return s.catalog.GetAlbumTracks(ctx, albumID)
}

// SearchAlbums matches the query against album titles and artist names.
func (s *Service) SearchAlbums(ctx context.Context, query string) ([]*music.Album, error) {
	albums, err := s.catalog.SearchAlbums(ctx, query, defaultSearchLimit)
	if err != nil {
		slog.Error("SearchAlbums failed", "query", query, "error", err)
		return nil, err
	}
	return albums, nil
}

// GetArtists returns all artists with their album counts.
func (s *Service) GetArtists(ctx context.Context) ([]*music.ArtistSummary, error) {
	artists, err := s.catalog.GetArtists(ctx)
	if err != nil {
		slog.Error("GetArtists failed", "error", err)
		return nil, err
	}
	return artists, nil
}

// GetTrack returns one track with its artist and album names.
func (s *Service) GetTrack(ctx context.Context, id string) (*music.TrackDetails, error) {
	return s.catalog.GetTrack(ctx, id)
}

// SearchTracks matches the query against track titles and artist names.
func (s *Service) SearchTracks(ctx context.Context, query string) ([]*music.TrackDetails, error) {
	tracks, err := s.catalog.SearchTracks(ctx, query, defaultSearchLimit)
	if err != nil {
		slog.Error("SearchTracks failed", "query", query, "error", err)
		return nil, err
	}
	return tracks, nil
}

// Stats bundles the library totals for the status endpoints and the bot.
type Stats struct {
	Artists int `json:"artists"`
	Albums  int `json:"albums"`
	Tracks  int `json:"tracks"`
}

// GetStats returns the library totals.
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	artists, err := s.catalog.GetArtistsCount(ctx)
	if err != nil {
		return nil, err
	}
	albums, err := s.catalog.GetAlbumsCount(ctx)
	if err != nil {
		return nil, err
	}
	tracks, err := s.catalog.GetTracksCount(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{Artists: artists, Albums: albums, Tracks: tracks}, nil
}
