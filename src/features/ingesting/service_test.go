package ingesting

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/contre95/musiclify/src/features/config"
	"github.com/contre95/musiclify/src/music"
	"github.com/google/uuid"
)

// MockCatalog is a mock implementation of music.Catalog backed by maps. All
// transactions share the same state, guarded by a mutex so concurrency tests
// can hammer it.
type MockCatalog struct {
	music.Catalog // Embed interface to avoid implementing the read path

	mu            sync.Mutex
	artistsByName map[string]*music.Artist
	albums        map[string]*music.Album
	tracks        map[string][]*music.Track
	commits       int
	rollbacks     int
	failCommit    bool
}

func NewMockCatalog() *MockCatalog {
	return &MockCatalog{
		artistsByName: make(map[string]*music.Artist),
		albums:        make(map[string]*music.Album),
		tracks:        make(map[string][]*music.Track),
	}
}

func (m *MockCatalog) Begin(ctx context.Context) (music.CatalogTx, error) {
	return &mockTx{catalog: m}, nil
}

type mockTx struct {
	catalog   *MockCatalog
	committed bool
}

func (t *mockTx) ResolveArtist(ctx context.Context, name string) (*music.Artist, error) {
	t.catalog.mu.Lock()
	defer t.catalog.mu.Unlock()
	name = strings.TrimSpace(name)
	if artist, ok := t.catalog.artistsByName[name]; ok {
		return artist, nil
	}
	artist := &music.Artist{ID: uuid.New().String(), Name: name}
	t.catalog.artistsByName[name] = artist
	return artist, nil
}

func (t *mockTx) AddAlbum(ctx context.Context, album *music.Album) error {
	t.catalog.mu.Lock()
	defer t.catalog.mu.Unlock()
	t.catalog.albums[album.ID] = album
	return nil
}

func (t *mockTx) AddTrack(ctx context.Context, track *music.Track) error {
	t.catalog.mu.Lock()
	defer t.catalog.mu.Unlock()
	t.catalog.tracks[track.AlbumID] = append(t.catalog.tracks[track.AlbumID], track)
	return nil
}

func (t *mockTx) SetAlbumTrackCount(ctx context.Context, albumID string, count int) error {
	t.catalog.mu.Lock()
	defer t.catalog.mu.Unlock()
	album, ok := t.catalog.albums[albumID]
	if !ok {
		return errors.New("album not found")
	}
	album.TracksCount = count
	return nil
}

func (t *mockTx) Commit() error {
	t.catalog.mu.Lock()
	defer t.catalog.mu.Unlock()
	if t.catalog.failCommit {
		return errors.New("disk I/O error")
	}
	t.committed = true
	t.catalog.commits++
	return nil
}

func (t *mockTx) Rollback() error {
	if t.committed {
		return nil
	}
	t.catalog.mu.Lock()
	defer t.catalog.mu.Unlock()
	t.catalog.rollbacks++
	return nil
}

// MockFileStore records saved files in memory. failOn rejects a specific
// filename to simulate a write failure for one track.
type MockFileStore struct {
	mu     sync.Mutex
	covers []string
	tracks []string
	failOn string
}

func (m *MockFileStore) SaveCover(artistName, albumTitle, ext string, r io.Reader) (StoredFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rel := filepath.Join("covers", artistName, albumTitle+ext)
	m.covers = append(m.covers, rel)
	return StoredFile{RelPath: rel, AbsPath: "/data/" + rel}, nil
}

func (m *MockFileStore) SaveTrack(artistName, albumTitle, filename string, r io.Reader) (StoredFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn != "" && filename == m.failOn {
		return StoredFile{}, fmt.Errorf("write %s: no space left on device", filename)
	}
	rel := filepath.Join("music", artistName, albumTitle, filename)
	m.tracks = append(m.tracks, rel)
	return StoredFile{RelPath: rel, AbsPath: "/data/" + rel}, nil
}

func (m *MockFileStore) CoverThumbnail(cover StoredFile, size int) (StoredFile, error) {
	return cover, nil
}

// stubProber returns a fixed duration, or 0 when failAll is set.
type stubProber struct {
	seconds int
	failAll bool
}

func (p *stubProber) Duration(path string) int {
	if p.failAll {
		return 0
	}
	return p.seconds
}

func testConfig() *config.Manager {
	return config.NewManager(&config.Config{
		DataPath: "/data",
		Ingest:   config.Ingest{CoverThumbSize: 0},
	})
}

func upload(name string, content string) FileUpload {
	return FileUpload{
		Filename: name,
		Size:     int64(len(content)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

func TestIngestAlbum_Success(t *testing.T) {
	catalog := NewMockCatalog()
	store := &MockFileStore{}
	service := NewService(catalog, store, &stubProber{seconds: 215}, testConfig())

	result, err := service.IngestAlbum(context.Background(), &IngestRequest{
		Title:      "The Dark Side of the Moon",
		ArtistName: "Pink Floyd",
		Year:       "1973",
		Tracks: []FileUpload{
			upload("01 Speak to Me.mp3", "audio-1"),
			upload("02 Breathe.mp3", "audio-2"),
		},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if result.TracksCount != 2 {
		t.Errorf("expected 2 tracks, got %d", result.TracksCount)
	}
	if catalog.commits != 1 {
		t.Errorf("expected 1 commit, got %d", catalog.commits)
	}

	tracks := catalog.tracks[result.AlbumID]
	if len(tracks) != 2 {
		t.Fatalf("expected 2 track rows, got %d", len(tracks))
	}
	if tracks[0].Title != "01 Speak to Me" {
		t.Errorf("expected extension stripped from title, got %q", tracks[0].Title)
	}
	if tracks[0].Number != 1 || tracks[1].Number != 2 {
		t.Errorf("expected track numbers 1 and 2, got %d and %d", tracks[0].Number, tracks[1].Number)
	}
	if tracks[0].Duration != 215 {
		t.Errorf("expected probed duration 215, got %d", tracks[0].Duration)
	}

	album := catalog.albums[result.AlbumID]
	if album.TracksCount != 2 {
		t.Errorf("expected album track count 2, got %d", album.TracksCount)
	}
}

func TestIngestAlbum_TrimsFields(t *testing.T) {
	catalog := NewMockCatalog()
	service := NewService(catalog, &MockFileStore{}, &stubProber{}, testConfig())

	result, err := service.IngestAlbum(context.Background(), &IngestRequest{
		Title:      "  Wish You Were Here  ",
		ArtistName: "  Pink Floyd  ",
		Year:       " 1975 ",
		Tracks:     []FileUpload{upload("wish.mp3", "audio")},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.AlbumTitle != "Wish You Were Here" {
		t.Errorf("expected trimmed title, got %q", result.AlbumTitle)
	}
	if result.ArtistName != "Pink Floyd" {
		t.Errorf("expected trimmed artist, got %q", result.ArtistName)
	}
}

func TestIngestAlbum_NoTracks(t *testing.T) {
	catalog := NewMockCatalog()
	service := NewService(catalog, &MockFileStore{}, &stubProber{}, testConfig())

	_, err := service.IngestAlbum(context.Background(), &IngestRequest{
		Title:      "Empty",
		ArtistName: "Nobody",
		Year:       "2024",
	})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if vErr.Field != "tracks" {
		t.Errorf("expected tracks field, got %q", vErr.Field)
	}
	if len(catalog.albums) != 0 {
		t.Error("no album should be created for an invalid request")
	}
	if len(catalog.artistsByName) != 0 {
		t.Error("no artist should be created for an invalid request")
	}
}

func TestIngestAlbum_BadYear(t *testing.T) {
	catalog := NewMockCatalog()
	service := NewService(catalog, &MockFileStore{}, &stubProber{}, testConfig())

	_, err := service.IngestAlbum(context.Background(), &IngestRequest{
		Title:      "Animals",
		ArtistName: "Pink Floyd",
		Year:       "nineteen seventy seven",
		Tracks:     []FileUpload{upload("pigs.mp3", "audio")},
	})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if vErr.Field != "year" {
		t.Errorf("expected year field, got %q", vErr.Field)
	}
	if len(catalog.albums) != 0 {
		t.Error("no album should be created when the year does not parse")
	}
}

func TestIngestAlbum_TrackWriteFailureIsTolerated(t *testing.T) {
	catalog := NewMockCatalog()
	store := &MockFileStore{failOn: "broken.mp3"}
	service := NewService(catalog, store, &stubProber{seconds: 180}, testConfig())

	result, err := service.IngestAlbum(context.Background(), &IngestRequest{
		Title:      "Partial",
		ArtistName: "Flaky Band",
		Year:       "2020",
		Tracks: []FileUpload{
			upload("broken.mp3", "audio-1"),
			upload("fine.mp3", "audio-2"),
		},
	})
	if err != nil {
		t.Fatalf("a failed track must not fail the album, got %v", err)
	}

	if result.TracksCount != 1 {
		t.Errorf("expected 1 committed track, got %d", result.TracksCount)
	}
	tracks := catalog.tracks[result.AlbumID]
	if len(tracks) != 1 {
		t.Fatalf("expected 1 track row, got %d", len(tracks))
	}
	// The surviving track keeps its original position in the upload.
	if tracks[0].Number != 2 {
		t.Errorf("expected surviving track to keep number 2, got %d", tracks[0].Number)
	}
	if catalog.albums[result.AlbumID].TracksCount != len(tracks) {
		t.Error("album track count must equal the number of inserted rows")
	}
}

func TestIngestAlbum_ZeroLengthTrackSkipped(t *testing.T) {
	catalog := NewMockCatalog()
	service := NewService(catalog, &MockFileStore{}, &stubProber{seconds: 60}, testConfig())

	result, err := service.IngestAlbum(context.Background(), &IngestRequest{
		Title:      "Sparse",
		ArtistName: "Minimalist",
		Year:       "2021",
		Tracks: []FileUpload{
			upload("empty.mp3", ""),
			upload("real.mp3", "audio"),
		},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.TracksCount != 1 {
		t.Errorf("expected the empty file skipped, got count %d", result.TracksCount)
	}
	if catalog.tracks[result.AlbumID][0].Number != 2 {
		t.Errorf("skipped file still occupies position 1, got number %d",
			catalog.tracks[result.AlbumID][0].Number)
	}
}

func TestIngestAlbum_ProbeFailureYieldsZeroDuration(t *testing.T) {
	catalog := NewMockCatalog()
	service := NewService(catalog, &MockFileStore{}, &stubProber{failAll: true}, testConfig())

	result, err := service.IngestAlbum(context.Background(), &IngestRequest{
		Title:      "Mystery",
		ArtistName: "Unknown Format",
		Year:       "2022",
		Tracks:     []FileUpload{upload("weird.ogg", "audio")},
	})
	if err != nil {
		t.Fatalf("an unprobeable track must still be ingested, got %v", err)
	}
	if result.TracksCount != 1 {
		t.Fatalf("expected 1 track, got %d", result.TracksCount)
	}
	if d := catalog.tracks[result.AlbumID][0].Duration; d != 0 {
		t.Errorf("expected duration 0, got %d", d)
	}
}

func TestIngestAlbum_CommitFailureRollsBack(t *testing.T) {
	catalog := NewMockCatalog()
	catalog.failCommit = true
	service := NewService(catalog, &MockFileStore{}, &stubProber{}, testConfig())

	_, err := service.IngestAlbum(context.Background(), &IngestRequest{
		Title:      "Doomed",
		ArtistName: "Crash Test",
		Year:       "2023",
		Tracks:     []FileUpload{upload("one.mp3", "audio")},
	})

	var cErr *CommitError
	if !errors.As(err, &cErr) {
		t.Fatalf("expected CommitError, got %v", err)
	}
	if catalog.rollbacks != 1 {
		t.Errorf("expected the transaction rolled back, got %d rollbacks", catalog.rollbacks)
	}
}

func TestIngestAlbum_ConcurrentSameArtist(t *testing.T) {
	catalog := NewMockCatalog()
	service := NewService(catalog, &MockFileStore{}, &stubProber{seconds: 90}, testConfig())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := service.IngestAlbum(context.Background(), &IngestRequest{
				Title:      fmt.Sprintf("Album %d", i),
				ArtistName: "Queen",
				Year:       "1981",
				Tracks:     []FileUpload{upload("track.mp3", "audio")},
			})
			if err != nil {
				t.Errorf("ingestion %d failed: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	if len(catalog.artistsByName) != 1 {
		t.Fatalf("expected exactly one artist row, got %d", len(catalog.artistsByName))
	}
	queen := catalog.artistsByName["Queen"]
	for _, album := range catalog.albums {
		if album.ArtistID != queen.ID {
			t.Errorf("album %q attached to wrong artist %s", album.Title, album.ArtistID)
		}
	}
}

func TestIngestAlbum_WithCover(t *testing.T) {
	catalog := NewMockCatalog()
	store := &MockFileStore{}
	service := NewService(catalog, store, &stubProber{}, testConfig())

	cover := upload("cover.png", "png-bytes")
	result, err := service.IngestAlbum(context.Background(), &IngestRequest{
		Title:      "Covered",
		ArtistName: "Artful",
		Year:       "2019",
		Cover:      &cover,
		Tracks:     []FileUpload{upload("t.mp3", "audio")},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.CoverPath == "" {
		t.Fatal("expected a cover path in the result")
	}
	if !strings.HasSuffix(result.CoverPath, ".png") {
		t.Errorf("expected the upload extension kept, got %q", result.CoverPath)
	}
	if catalog.albums[result.AlbumID].CoverPath != result.CoverPath {
		t.Error("album row must record the stored cover path")
	}
}
