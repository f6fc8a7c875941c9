package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/contre95/musiclify/src/music"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// SqliteCatalog is a SQLite implementation of the music.Catalog interface.
type SqliteCatalog struct {
	db *sql.DB
}

// NewSqliteCatalog creates a new SqliteCatalog.
func NewSqliteCatalog(path string) (*SqliteCatalog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := createTables(db); err != nil {
		return nil, err
	}

	return &SqliteCatalog{db: db}, nil
}

// Close closes the underlying database handle.
func (d *SqliteCatalog) Close() error {
	return d.db.Close()
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS artists (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE
		);

		CREATE TABLE IF NOT EXISTS albums (
			id TEXT PRIMARY KEY,
			artist_id TEXT NOT NULL,
			title TEXT NOT NULL,
			year INTEGER NOT NULL,
			cover TEXT NOT NULL DEFAULT '',
			tracks_count INTEGER NOT NULL DEFAULT 0,
			added_date TEXT,
			FOREIGN KEY (artist_id) REFERENCES artists(id)
		);

		CREATE TABLE IF NOT EXISTS tracks (
			id TEXT PRIMARY KEY,
			album_id TEXT NOT NULL,
			artist_id TEXT NOT NULL,
			title TEXT NOT NULL,
			track_number INTEGER NOT NULL,
			duration INTEGER NOT NULL DEFAULT 0,
			path TEXT NOT NULL,
			FOREIGN KEY (album_id) REFERENCES albums(id),
			FOREIGN KEY (artist_id) REFERENCES artists(id)
		);

		CREATE INDEX IF NOT EXISTS idx_albums_artist ON albums(artist_id);
		CREATE INDEX IF NOT EXISTS idx_tracks_album ON tracks(album_id);
		CREATE INDEX IF NOT EXISTS idx_tracks_artist ON tracks(artist_id);
	`)
	return err
}

// Begin opens an ingestion transaction.
func (d *SqliteCatalog) Begin(ctx context.Context) (music.CatalogTx, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqliteTx{tx: tx}, nil
}

// sqliteTx implements music.CatalogTx on a database/sql transaction.
type sqliteTx struct {
	tx *sql.Tx
}

// ResolveArtist returns the artist with the given trimmed name, creating it
// on this transaction when missing.
func (t *sqliteTx) ResolveArtist(ctx context.Context, name string) (*music.Artist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("artist name cannot be empty")
	}

	artist := &music.Artist{}
	err := t.tx.QueryRowContext(ctx, `SELECT id, name FROM artists WHERE name = ?`, name).
		Scan(&artist.ID, &artist.Name)
	if err == nil {
		return artist, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	artist = &music.Artist{ID: uuid.New().String(), Name: name}
	if _, err := t.tx.ExecContext(ctx, `INSERT INTO artists (id, name) VALUES (?, ?)`, artist.ID, artist.Name); err != nil {
		return nil, err
	}
	return artist, nil
}

// AddAlbum inserts an album row.
func (t *sqliteTx) AddAlbum(ctx context.Context, album *music.Album) error {
	if err := album.Validate(); err != nil {
		return err
	}
	if album.AddedDate.IsZero() {
		album.AddedDate = time.Now()
	}
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO albums (id, artist_id, title, year, cover, tracks_count, added_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, album.ID, album.ArtistID, album.Title, album.Year, album.CoverPath, album.TracksCount,
		album.AddedDate.Format(time.RFC3339))
	return err
}

// AddTrack inserts a track row.
func (t *sqliteTx) AddTrack(ctx context.Context, track *music.Track) error {
	if err := track.Validate(); err != nil {
		return err
	}
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO tracks (id, album_id, artist_id, title, track_number, duration, path)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, track.ID, track.AlbumID, track.ArtistID, track.Title, track.Number, track.Duration, track.Path)
	return err
}

// SetAlbumTrackCount records the committed track count for an album.
func (t *sqliteTx) SetAlbumTrackCount(ctx context.Context, albumID string, count int) error {
	_, err := t.tx.ExecContext(ctx, `UPDATE albums SET tracks_count = ? WHERE id = ?`, count, albumID)
	return err
}

// Commit commits the transaction.
func (t *sqliteTx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction. Calling it after Commit is a no-op.
func (t *sqliteTx) Rollback() error {
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}

const albumColumns = `
	al.id, al.title, al.year, al.cover, al.tracks_count, ar.id, ar.name
`

func scanAlbum(row interface{ Scan(...any) error }) (*music.Album, error) {
	album := &music.Album{}
	err := row.Scan(&album.ID, &album.Title, &album.Year, &album.CoverPath,
		&album.TracksCount, &album.ArtistID, &album.ArtistName)
	if err != nil {
		return nil, err
	}
	return album, nil
}

// GetAlbums returns all albums with their artist, newest release year first.
func (d *SqliteCatalog) GetAlbums(ctx context.Context) ([]*music.Album, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT `+albumColumns+`
		FROM albums al
		JOIN artists ar ON al.artist_id = ar.id
		ORDER BY al.year DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var albums []*music.Album
	for rows.Next() {
		album, err := scanAlbum(rows)
		if err != nil {
			return nil, err
		}
		albums = append(albums, album)
	}
	return albums, rows.Err()
}

// GetAlbum returns one album by id, or nil when not found.
func (d *SqliteCatalog) GetAlbum(ctx context.Context, id string) (*music.Album, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT `+albumColumns+`
		FROM albums al
		JOIN artists ar ON al.artist_id = ar.id
		WHERE al.id = ?
	`, id)
	album, err := scanAlbum(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return album, err
}

// GetAlbumTracks returns an album's tracks ordered by track number.
func (d *SqliteCatalog) GetAlbumTracks(ctx context.Context, albumID string) ([]*music.Track, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, album_id, artist_id, title, track_number, duration, path
		FROM tracks
		WHERE album_id = ?
		ORDER BY track_number
	`, albumID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tracks []*music.Track
	for rows.Next() {
		track := &music.Track{}
		if err := rows.Scan(&track.ID, &track.AlbumID, &track.ArtistID, &track.Title,
			&track.Number, &track.Duration, &track.Path); err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}
	return tracks, rows.Err()
}

// SearchAlbums finds albums whose title or artist name contains the query,
// case-insensitively.
func (d *SqliteCatalog) SearchAlbums(ctx context.Context, query string, limit int) ([]*music.Album, error) {
	if limit <= 0 {
		limit = 20
	}
	pattern := "%" + query + "%"
	rows, err := d.db.QueryContext(ctx, `
		SELECT `+albumColumns+`
		FROM albums al
		JOIN artists ar ON al.artist_id = ar.id
		WHERE al.title LIKE ? OR ar.name LIKE ?
		ORDER BY al.year DESC
		LIMIT ?
	`, pattern, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var albums []*music.Album
	for rows.Next() {
		album, err := scanAlbum(rows)
		if err != nil {
			return nil, err
		}
		albums = append(albums, album)
	}
	return albums, rows.Err()
}

// GetArtists returns all artists with their album counts, ordered by name.
func (d *SqliteCatalog) GetArtists(ctx context.Context) ([]*music.ArtistSummary, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT ar.id, ar.name, COUNT(al.id)
		FROM artists ar
		LEFT JOIN albums al ON ar.id = al.artist_id
		GROUP BY ar.id, ar.name
		ORDER BY ar.name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var artists []*music.ArtistSummary
	for rows.Next() {
		artist := &music.ArtistSummary{}
		if err := rows.Scan(&artist.ID, &artist.Name, &artist.AlbumCount); err != nil {
			return nil, err
		}
		artists = append(artists, artist)
	}
	return artists, rows.Err()
}

// GetArtistByName returns the artist with the exact given name, or nil.
func (d *SqliteCatalog) GetArtistByName(ctx context.Context, name string) (*music.Artist, error) {
	artist := &music.Artist{}
	err := d.db.QueryRowContext(ctx, `SELECT id, name FROM artists WHERE name = ?`, name).
		Scan(&artist.ID, &artist.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return artist, nil
}

const trackDetailColumns = `
	t.id, t.album_id, t.artist_id, t.title, t.track_number, t.duration, t.path, ar.name, al.title
`

func scanTrackDetails(row interface{ Scan(...any) error }) (*music.TrackDetails, error) {
	track := &music.TrackDetails{}
	err := row.Scan(&track.ID, &track.AlbumID, &track.ArtistID, &track.Title,
		&track.Number, &track.Duration, &track.Path, &track.ArtistName, &track.AlbumTitle)
	if err != nil {
		return nil, err
	}
	return track, nil
}

// GetTrack returns one track with artist and album names, or nil.
func (d *SqliteCatalog) GetTrack(ctx context.Context, id string) (*music.TrackDetails, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT `+trackDetailColumns+`
		FROM tracks t
		JOIN artists ar ON t.artist_id = ar.id
		JOIN albums al ON t.album_id = al.id
		WHERE t.id = ?
	`, id)
	track, err := scanTrackDetails(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return track, err
}

// SearchTracks finds tracks whose title, artist or album matches the query.
func (d *SqliteCatalog) SearchTracks(ctx context.Context, query string, limit int) ([]*music.TrackDetails, error) {
	if limit <= 0 {
		limit = 20
	}
	pattern := "%" + query + "%"
	rows, err := d.db.QueryContext(ctx, `
		SELECT `+trackDetailColumns+`
		FROM tracks t
		JOIN artists ar ON t.artist_id = ar.id
		JOIN albums al ON t.album_id = al.id
		WHERE t.title LIKE ? OR ar.name LIKE ? OR al.title LIKE ?
		ORDER BY al.id, t.track_number
		LIMIT ?
	`, pattern, pattern, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tracks []*music.TrackDetails
	for rows.Next() {
		track, err := scanTrackDetails(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}
	return tracks, rows.Err()
}

func (d *SqliteCatalog) count(ctx context.Context, query string) (int, error) {
	var n int
	if err := d.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// GetArtistsCount returns the total number of artists.
func (d *SqliteCatalog) GetArtistsCount(ctx context.Context) (int, error) {
	return d.count(ctx, `SELECT COUNT(*) FROM artists`)
}

// GetAlbumsCount returns the total number of albums.
func (d *SqliteCatalog) GetAlbumsCount(ctx context.Context) (int, error) {
	return d.count(ctx, `SELECT COUNT(*) FROM albums`)
}

// GetTracksCount returns the total number of tracks.
func (d *SqliteCatalog) GetTracksCount(ctx context.Context) (int, error) {
	return d.count(ctx, `SELECT COUNT(*) FROM tracks`)
}
