package ingesting

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/contre95/musiclify/src/features/config"
	"github.com/contre95/musiclify/src/features/metrics"
	"github.com/contre95/musiclify/src/music"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// IngestRequest is one album submission: required metadata fields, an
// optional cover image and the ordered track files.
type IngestRequest struct {
	Title      string `validate:"required"`
	ArtistName string `validate:"required"`
	Year       string `validate:"required"`
	Cover      *FileUpload
	Tracks     []FileUpload `validate:"min=1"`
}

// IngestResult is the response of a successful ingestion. TracksCount is the
// number of track rows actually committed, which callers use to detect
// partially successful uploads.
type IngestResult struct {
	AlbumID     string `json:"albumId"`
	ArtistName  string `json:"artistName"`
	AlbumTitle  string `json:"albumTitle"`
	TracksCount int    `json:"tracksCount"`
	CoverPath   string `json:"coverPath"`
}

// TrackResult records the outcome of one attempted track. Position is the
// 1-based place of the file in the upload, which becomes the track number.
type TrackResult struct {
	Position int
	Filename string
	Track    *music.Track
	Err      error
	Skipped  bool
}

// Service is the domain service for the ingestion feature.
type Service struct {
	catalog  music.Catalog
	store    FileStore
	prober   DurationProber
	config   *config.Manager
	notifier Notifier
	validate *validator.Validate
}

// NewService creates a new ingestion service.
func NewService(catalog music.Catalog, store FileStore, prober DurationProber, cfg *config.Manager) *Service {
	return &Service{
		catalog:  catalog,
		store:    store,
		prober:   prober,
		config:   cfg,
		validate: validator.New(),
	}
}

// SetNotifier attaches an optional notifier for completed ingestions.
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

// fieldNames maps request struct fields to their multipart form names.
var fieldNames = map[string]string{
	"Title":      "title",
	"ArtistName": "artistName",
	"Year":       "year",
	"Tracks":     "tracks",
}

// validateRequest checks the request before any side effect. The year is
// only required to parse as an integer; range checks stay client-side.
func (s *Service) validateRequest(req *IngestRequest) (int, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.ArtistName = strings.TrimSpace(req.ArtistName)
	req.Year = strings.TrimSpace(req.Year)

	if err := s.validate.Struct(req); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			field := fieldNames[errs[0].Field()]
			if field == "" {
				field = errs[0].Field()
			}
			msg := field + " is required"
			if field == "tracks" {
				msg = "at least one track is required"
			}
			return 0, &ValidationError{Field: field, Message: msg}
		}
		return 0, err
	}

	year, err := strconv.Atoi(req.Year)
	if err != nil {
		return 0, &ValidationError{Field: "year", Message: "year must be a number"}
	}
	return year, nil
}

// IngestAlbum runs the transactional album-creation pipeline: resolve the
// artist, place the cover, insert the album row, place and insert each track
// tolerating per-track failure, record the committed track count, commit.
func (s *Service) IngestAlbum(ctx context.Context, req *IngestRequest) (*IngestResult, error) {
	started := time.Now()

	year, err := s.validateRequest(req)
	if err != nil {
		return nil, err
	}

	tx, err := s.catalog.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin ingestion transaction: %w", err)
	}
	defer tx.Rollback()

	artist, err := tx.ResolveArtist(ctx, req.ArtistName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve artist %q: %w", req.ArtistName, err)
	}

	// The cover is placed outside the database transaction: a later
	// rollback leaves an orphaned file, which is accepted.
	coverPath, err := s.placeCover(req, artist.Name)
	if err != nil {
		return nil, err
	}

	album := &music.Album{
		ID:         uuid.New().String(),
		Title:      req.Title,
		Year:       year,
		CoverPath:  coverPath,
		ArtistID:   artist.ID,
		ArtistName: artist.Name,
	}
	if err := tx.AddAlbum(ctx, album); err != nil {
		return nil, fmt.Errorf("failed to insert album %q: %w", album.Title, err)
	}

	results := s.processTracks(ctx, tx, album, artist, req.Tracks)
	successful := 0
	for _, r := range results {
		if r.Err == nil && !r.Skipped {
			successful++
		}
	}

	if err := tx.SetAlbumTrackCount(ctx, album.ID, successful); err != nil {
		return nil, fmt.Errorf("failed to update track count for album %s: %w", album.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, &CommitError{Err: err}
	}

	metrics.AlbumsIngested.Inc()
	metrics.IngestDuration.Observe(time.Since(started).Seconds())

	result := &IngestResult{
		AlbumID:     album.ID,
		ArtistName:  artist.Name,
		AlbumTitle:  album.Title,
		TracksCount: successful,
		CoverPath:   coverPath,
	}
	slog.Info("Album ingested", "albumID", album.ID, "artist", artist.Name,
		"title", album.Title, "tracks", successful, "attempted", len(req.Tracks))

	if s.notifier != nil {
		s.notifier.AlbumIngested(result)
	}
	return result, nil
}

// placeCover stores the uploaded cover, if any, and renders its thumbnail.
// Absence of a cover yields an empty path, not an error.
func (s *Service) placeCover(req *IngestRequest, artistName string) (string, error) {
	if req.Cover == nil || req.Cover.Size == 0 {
		return "", nil
	}

	f, err := req.Cover.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open cover upload: %w", err)
	}
	defer f.Close()

	ext := filepath.Ext(req.Cover.Filename)
	if ext == "" {
		ext = ".jpg"
	}
	saved, err := s.store.SaveCover(artistName, req.Title, ext, f)
	if err != nil {
		return "", fmt.Errorf("failed to store cover: %w", err)
	}

	if size := s.config.Get().Ingest.CoverThumbSize; size > 0 {
		if _, err := s.store.CoverThumbnail(saved, size); err != nil {
			// Thumbnails are enrichment; the cover itself is already placed.
			slog.Warn("Failed to generate cover thumbnail", "cover", saved.RelPath, "error", err)
		}
	}
	return saved.RelPath, nil
}

// processTracks places and inserts each track in upload order. A failure on
// one track is recorded in its result and never aborts the album; the track
// number always reflects the file's position among attempted uploads.
func (s *Service) processTracks(ctx context.Context, tx music.CatalogTx, album *music.Album, artist *music.Artist, uploads []FileUpload) []TrackResult {
	results := make([]TrackResult, 0, len(uploads))
	for i, upload := range uploads {
		result := TrackResult{Position: i + 1, Filename: upload.Filename}
		if upload.Size == 0 {
			result.Skipped = true
			results = append(results, result)
			continue
		}

		track, err := s.processTrack(ctx, tx, album, artist, upload, i+1)
		if err != nil {
			slog.Warn("Track failed during ingestion, continuing with remaining tracks",
				"album", album.Title, "file", upload.Filename, "position", i+1, "error", err)
			metrics.TrackFailures.Inc()
			result.Err = err
		} else {
			metrics.TracksIngested.Inc()
			result.Track = track
		}
		results = append(results, result)
	}
	return results
}

// processTrack handles one track: write the file first, then record the row.
// A track row is never inserted before its file is durably written.
func (s *Service) processTrack(ctx context.Context, tx music.CatalogTx, album *music.Album, artist *music.Artist, upload FileUpload, position int) (*music.Track, error) {
	f, err := upload.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open track upload: %w", err)
	}
	defer f.Close()

	filename := filepath.Base(upload.Filename)
	saved, err := s.store.SaveTrack(artist.Name, album.Title, filename, f)
	if err != nil {
		return nil, fmt.Errorf("failed to store track file: %w", err)
	}

	track := &music.Track{
		ID:       uuid.New().String(),
		Title:    strings.TrimSuffix(filename, filepath.Ext(filename)),
		ArtistID: artist.ID,
		AlbumID:  album.ID,
		Number:   position,
		Duration: s.prober.Duration(saved.AbsPath),
		Path:     saved.RelPath,
	}
	if err := tx.AddTrack(ctx, track); err != nil {
		return nil, fmt.Errorf("failed to insert track row: %w", err)
	}
	return track, nil
}
