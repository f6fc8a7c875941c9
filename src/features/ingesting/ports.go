package ingesting

import "io"

// FileUpload is one file from the multipart submission. Open returns a fresh
// reader for the file's bytes; Size is the declared length in bytes.
type FileUpload struct {
	Filename string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

// StoredFile is a file placed by the FileStore. RelPath is the relative path
// recorded in the database; AbsPath locates the bytes on disk.
type StoredFile struct {
	RelPath string
	AbsPath string
}

// FileStore places uploaded files under the covers and music roots with
// create-or-truncate semantics.
type FileStore interface {
	// SaveCover writes a cover image to covers/{artist}/{title}{ext},
	// overwriting any file already at that path.
	SaveCover(artistName, albumTitle, ext string, r io.Reader) (StoredFile, error)
	// SaveTrack writes an audio file to music/{artist}/{album}/{filename}.
	SaveTrack(artistName, albumTitle, filename string, r io.Reader) (StoredFile, error)
	// CoverThumbnail renders a small JPEG next to a stored cover.
	CoverThumbnail(cover StoredFile, size int) (StoredFile, error)
}

// DurationProber extracts the duration of an audio file in whole seconds.
// It never fails: unknown durations come back as 0.
type DurationProber interface {
	Duration(path string) int
}

// Notifier is told about completed ingestions. Implementations must not
// block the pipeline.
type Notifier interface {
	AlbumIngested(result *IngestResult)
}
