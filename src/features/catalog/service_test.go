package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/contre95/musiclify/src/music"
)

// MockCatalog is a mock implementation of the music.Catalog read path.
type MockCatalog struct {
	music.Catalog // Embed interface to avoid implementing the write path

	albums  []*music.Album
	tracks  map[string][]*music.Track
	artists []*music.ArtistSummary
	failAll bool
}

func (m *MockCatalog) GetAlbums(ctx context.Context) ([]*music.Album, error) {
	if m.failAll {
		return nil, errors.New("database is locked")
	}
	return m.albums, nil
}

func (m *MockCatalog) GetAlbum(ctx context.Context, id string) (*music.Album, error) {
	for _, album := range m.albums {
		if album.ID == id {
			return album, nil
		}
	}
	return nil, nil
}

func (m *MockCatalog) GetAlbumTracks(ctx context.Context, albumID string) ([]*music.Track, error) {
	return m.tracks[albumID], nil
}

func (m *MockCatalog) SearchAlbums(ctx context.Context, query string, limit int) ([]*music.Album, error) {
	var matches []*music.Album
	q := strings.ToLower(query)
	for _, album := range m.albums {
		if strings.Contains(strings.ToLower(album.Title), q) ||
			strings.Contains(strings.ToLower(album.ArtistName), q) {
			matches = append(matches, album)
		}
		if len(matches) == limit {
			break
		}
	}
	return matches, nil
}

func (m *MockCatalog) GetArtists(ctx context.Context) ([]*music.ArtistSummary, error) {
	return m.artists, nil
}

func (m *MockCatalog) GetArtistsCount(ctx context.Context) (int, error) {
	return len(m.artists), nil
}

func (m *MockCatalog) GetAlbumsCount(ctx context.Context) (int, error) {
	return len(m.albums), nil
}

func (m *MockCatalog) GetTracksCount(ctx context.Context) (int, error) {
	total := 0
	for _, ts := range m.tracks {
		total += len(ts)
	}
	return total, nil
}

func testCatalog() *MockCatalog {
	return &MockCatalog{
		albums: []*music.Album{
			{ID: "a1", Title: "The Wall", Year: 1979, ArtistName: "Pink Floyd"},
			{ID: "a2", Title: "Abbey Road", Year: 1969, ArtistName: "The Beatles"},
		},
		tracks: map[string][]*music.Track{
			"a1": {
				{ID: "t1", AlbumID: "a1", Title: "In the Flesh?", Number: 1},
				{ID: "t2", AlbumID: "a1", Title: "The Thin Ice", Number: 2},
			},
		},
		artists: []*music.ArtistSummary{
			{Artist: music.Artist{ID: "ar1", Name: "Pink Floyd"}, AlbumCount: 1},
			{Artist: music.Artist{ID: "ar2", Name: "The Beatles"}, AlbumCount: 1},
		},
	}
}

func TestGetAlbum_Found(t *testing.T) {
	service := NewService(testCatalog())

	album, err := service.GetAlbum(context.Background(), "a1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if album == nil || album.Title != "The Wall" {
		t.Fatalf("expected The Wall, got %+v", album)
	}
}

func TestGetAlbum_Missing(t *testing.T) {
	service := NewService(testCatalog())

	album, err := service.GetAlbum(context.Background(), "nope")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if album != nil {
		t.Fatalf("expected nil for a missing album, got %+v", album)
	}
}

func TestSearchAlbums_MatchesArtistName(t *testing.T) {
	service := NewService(testCatalog())

	albums, err := service.SearchAlbums(context.Background(), "beatles")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(albums) != 1 || albums[0].ID != "a2" {
		t.Fatalf("expected Abbey Road only, got %d results", len(albums))
	}
}

func TestGetStats(t *testing.T) {
	service := NewService(testCatalog())

	stats, err := service.GetStats(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if stats.Artists != 2 || stats.Albums != 2 || stats.Tracks != 2 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestGetAlbums_Error(t *testing.T) {
	service := NewService(&MockCatalog{failAll: true})

	if _, err := service.GetAlbums(context.Background()); err == nil {
		t.Fatal("expected the store error to propagate")
	}
}
