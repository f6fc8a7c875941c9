// Package client implements the album upload form: an ordered track list
// with local validation, one multipart submission with progress reporting,
// and a shareable URL on success.
package client

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/contre95/musiclify/src/music"
)

// State is the phase of the upload form.
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateUploading  State = "uploading"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// Upload size ceilings and the accepted year range, enforced before any
// byte leaves the client. The server only re-checks what it must.
const (
	MaxCoverSize = 10 << 20
	MaxTrackSize = 50 << 20
	MinYear      = 1900
)

// File is one selected file: its name, declared size and MIME type, and a
// function yielding a fresh reader over its bytes.
type File struct {
	Name        string
	Size        int64
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// Result is the server's response to a successful submission.
type Result struct {
	AlbumID     string `json:"albumId"`
	ArtistName  string `json:"artistName"`
	AlbumTitle  string `json:"albumTitle"`
	TracksCount int    `json:"tracksCount"`
	CoverPath   string `json:"coverPath"`
}

// Uploader is the upload form's state machine. Only one submission may be
// in flight at a time; a failed submission keeps the form editable with its
// track list and cover intact.
type Uploader struct {
	endpoint   string
	httpClient *http.Client
	now        func() time.Time

	mu       sync.Mutex
	state    State
	progress int
	message  string
	result   *Result

	Title      string
	ArtistName string
	Year       string
	cover      *File
	tracks     []File

	// OnProgress observes progress changes. Best effort: a lost update
	// never affects the submission outcome.
	OnProgress func(percent int)
}

// NewUploader creates an uploader posting to the given endpoint.
func NewUploader(endpoint string) *Uploader {
	return &Uploader{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 10 * time.Minute},
		now:        time.Now,
		state:      StateIdle,
	}
}

// State returns the current phase.
func (u *Uploader) State() State {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state
}

// Progress returns the last reported progress percentage.
func (u *Uploader) Progress() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.progress
}

// Message returns the user-facing message of the last failure.
func (u *Uploader) Message() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.message
}

// Result returns the server response after a successful submission.
func (u *Uploader) Result() *Result {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.result
}

// Tracks returns the current track names in submission order.
func (u *Uploader) Tracks() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	names := make([]string, len(u.tracks))
	for i, t := range u.tracks {
		names[i] = t.Name
	}
	return names
}

// SetCover selects the cover image. It must be an image type within the
// cover size ceiling.
func (u *Uploader) SetCover(f File) error {
	if !strings.HasPrefix(f.ContentType, "image/") {
		return fmt.Errorf("cover must be an image, got %q", f.ContentType)
	}
	if f.Size > MaxCoverSize {
		return fmt.Errorf("cover exceeds %d MB limit", MaxCoverSize>>20)
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.cover = &f
	return nil
}

// ClearCover removes the selected cover.
func (u *Uploader) ClearCover() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.cover = nil
}

// AddTrack appends a track to the list. Duplicate filenames and non-audio
// or oversized files are rejected.
func (u *Uploader) AddTrack(f File) error {
	if !strings.HasPrefix(f.ContentType, "audio/") {
		return fmt.Errorf("%s is not an audio file", f.Name)
	}
	if f.Size > MaxTrackSize {
		return fmt.Errorf("%s exceeds %d MB limit", f.Name, MaxTrackSize>>20)
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, t := range u.tracks {
		if t.Name == f.Name {
			return fmt.Errorf("track %s is already in the list", f.Name)
		}
	}
	u.tracks = append(u.tracks, f)
	return nil
}

// RemoveTrack drops the track at the given index.
func (u *Uploader) RemoveTrack(index int) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if index < 0 || index >= len(u.tracks) {
		return fmt.Errorf("no track at position %d", index)
	}
	u.tracks = append(u.tracks[:index], u.tracks[index+1:]...)
	return nil
}

// MoveTrackUp swaps the track with its predecessor.
func (u *Uploader) MoveTrackUp(index int) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if index <= 0 || index >= len(u.tracks) {
		return fmt.Errorf("cannot move track at position %d up", index)
	}
	u.tracks[index-1], u.tracks[index] = u.tracks[index], u.tracks[index-1]
	return nil
}

// MoveTrackDown swaps the track with its successor.
func (u *Uploader) MoveTrackDown(index int) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if index < 0 || index >= len(u.tracks)-1 {
		return fmt.Errorf("cannot move track at position %d down", index)
	}
	u.tracks[index], u.tracks[index+1] = u.tracks[index+1], u.tracks[index]
	return nil
}

// validate enforces the client-side constraints before submission.
func (u *Uploader) validate() error {
	if strings.TrimSpace(u.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if strings.TrimSpace(u.ArtistName) == "" {
		return fmt.Errorf("artist name is required")
	}
	year, err := strconv.Atoi(strings.TrimSpace(u.Year))
	if err != nil {
		return fmt.Errorf("year must be a number")
	}
	if maxYear := u.now().Year() + 1; year < MinYear || year > maxYear {
		return fmt.Errorf("year must be between %d and %d", MinYear, maxYear)
	}
	if len(u.tracks) == 0 {
		return fmt.Errorf("at least one track is required")
	}
	return nil
}

// Submit validates the form and sends everything as one multipart POST.
// It blocks until the submission completes or fails; the outcome is left in
// the uploader's state.
func (u *Uploader) Submit() error {
	u.mu.Lock()
	if u.state == StateUploading || u.state == StateValidating {
		u.mu.Unlock()
		return fmt.Errorf("an upload is already in progress")
	}
	u.state = StateValidating
	u.message = ""
	u.result = nil
	u.mu.Unlock()

	if err := u.validate(); err != nil {
		u.fail(err.Error())
		return err
	}

	u.mu.Lock()
	u.state = StateUploading
	cover := u.cover
	tracks := make([]File, len(u.tracks))
	copy(tracks, u.tracks)
	u.mu.Unlock()
	u.setProgress(uploadBasePercent)

	result, err := u.send(cover, tracks)
	if err != nil {
		u.fail(err.Error())
		return err
	}

	u.mu.Lock()
	u.state = StateSucceeded
	u.progress = 100
	u.result = result
	u.mu.Unlock()
	if u.OnProgress != nil {
		u.OnProgress(100)
	}
	return nil
}

// Progress is reported in two phases: a fixed allocation for getting the
// request on the wire, then the rest proportional to bytes sent.
const (
	uploadBasePercent = 10
	uploadSpanPercent = 70
)

func (u *Uploader) send(cover *File, tracks []File) (*Result, error) {
	var total int64
	for _, t := range tracks {
		total += t.Size
	}
	if cover != nil {
		total += cover.Size
	}

	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(u.writeForm(form, cover, tracks))
	}()

	counting := &countingReader{
		reader: pr,
		total:  total,
		onRead: func(sent, total int64) {
			if total <= 0 {
				return
			}
			frac := float64(sent) / float64(total)
			if frac > 1 {
				frac = 1
			}
			u.setProgress(uploadBasePercent + int(uploadSpanPercent*frac))
		},
	}

	req, err := http.NewRequest(http.MethodPost, u.endpoint, counting)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("network error: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		// Prefer the server's structured message when it parses.
		var e struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &e) == nil && e.Message != "" {
			return nil, fmt.Errorf("%s", e.Message)
		}
		return nil, fmt.Errorf("upload failed with status %d", resp.StatusCode)
	}

	var result Result
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("unreadable server response: %v", err)
	}
	return &result, nil
}

func (u *Uploader) writeForm(form *multipart.Writer, cover *File, tracks []File) error {
	fields := map[string]string{
		"title":      strings.TrimSpace(u.Title),
		"artistName": strings.TrimSpace(u.ArtistName),
		"year":       strings.TrimSpace(u.Year),
	}
	for name, value := range fields {
		if err := form.WriteField(name, value); err != nil {
			return err
		}
	}

	if cover != nil {
		if err := writeFilePart(form, "cover", *cover); err != nil {
			return err
		}
	}
	for _, t := range tracks {
		if err := writeFilePart(form, "tracks", t); err != nil {
			return err
		}
	}
	return form.Close()
}

func writeFilePart(form *multipart.Writer, field string, f File) error {
	part, err := form.CreateFormFile(field, f.Name)
	if err != nil {
		return err
	}
	r, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", f.Name, err)
	}
	defer r.Close()
	_, err = io.Copy(part, r)
	return err
}

// fail records a terminal failure. The cover and track list stay untouched
// so the user can fix and resubmit without re-adding files.
func (u *Uploader) fail(message string) {
	u.mu.Lock()
	u.state = StateFailed
	u.message = message
	u.mu.Unlock()
}

func (u *Uploader) setProgress(percent int) {
	u.mu.Lock()
	if percent < u.progress {
		percent = u.progress
	}
	u.progress = percent
	cb := u.OnProgress
	u.mu.Unlock()
	if cb != nil {
		cb(percent)
	}
}

// ShareURL builds the shareable album URL from the server's returned artist
// and title, falling back to the form values when the response omits them.
func (u *Uploader) ShareURL() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	artist, title := u.ArtistName, u.Title
	if u.result != nil {
		if u.result.ArtistName != "" {
			artist = u.result.ArtistName
		}
		if u.result.AlbumTitle != "" {
			title = u.result.AlbumTitle
		}
	}
	return "/album/" + music.Slug(artist) + "/" + music.Slug(title)
}

// countingReader reports cumulative bytes handed to the HTTP transport.
type countingReader struct {
	reader io.Reader
	sent   int64
	total  int64
	onRead func(sent, total int64)
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.reader.Read(p)
	c.sent += int64(n)
	if c.onRead != nil {
		c.onRead(c.sent, c.total)
	}
	return n, err
}
