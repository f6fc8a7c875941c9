// Package files places uploaded covers and audio under the data directory,
// with every path segment run through the filename sanitizer.
package files

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/contre95/musiclify/src/features/config"
	"github.com/contre95/musiclify/src/features/ingesting"
	"github.com/contre95/musiclify/src/music"
	"github.com/gosimple/unidecode"
)

// Store writes uploads to disk. It implements ingesting.FileStore.
type Store struct {
	config *config.Manager
}

// NewStore creates a new file store rooted at the configured data path.
func NewStore(cfg *config.Manager) *Store {
	return &Store{config: cfg}
}

// segment turns a metadata value into a safe path segment. Transliteration
// to ASCII is optional and off by default, so Cyrillic names keep their
// spelling on disk.
func (s *Store) segment(value string) string {
	if s.config.Get().Ingest.AsciifyPaths {
		value = unidecode.Unidecode(value)
	}
	return music.SanitizeFileName(value)
}

// SaveCover writes a cover image to covers/{artist}/{title}{ext}. An
// existing cover at that path is overwritten.
func (s *Store) SaveCover(artistName, albumTitle, ext string, r io.Reader) (ingesting.StoredFile, error) {
	if ext == "" {
		ext = ".jpg"
	}
	rel := filepath.Join("covers", s.segment(artistName), s.segment(albumTitle)+ext)
	return s.write(rel, r)
}

// SaveTrack writes an audio file to music/{artist}/{album}/{filename}.
func (s *Store) SaveTrack(artistName, albumTitle, filename string, r io.Reader) (ingesting.StoredFile, error) {
	rel := filepath.Join("music", s.segment(artistName), s.segment(albumTitle), s.segment(filename))
	return s.write(rel, r)
}

func (s *Store) write(rel string, r io.Reader) (ingesting.StoredFile, error) {
	abs := filepath.Join(s.config.Get().DataPath, rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return ingesting.StoredFile{}, fmt.Errorf("failed to create directory for %s: %w", rel, err)
	}

	f, err := os.Create(abs)
	if err != nil {
		return ingesting.StoredFile{}, fmt.Errorf("failed to create %s: %w", rel, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(abs)
		return ingesting.StoredFile{}, fmt.Errorf("failed to write %s: %w", rel, err)
	}
	return ingesting.StoredFile{RelPath: rel, AbsPath: abs}, nil
}
