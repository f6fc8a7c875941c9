// Package probe extracts audio durations. Stream decoding is the primary
// source, tag metadata the fallback; a file nobody can read yields zero.
package probe

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bogem/id3v2/v2"
	"github.com/dhowden/tag"
	goflac "github.com/go-flac/go-flac"
	"github.com/go-audio/wav"
	mp3 "github.com/hajimehoshi/go-mp3"
)

// Prober measures audio file durations. It implements
// ingesting.DurationProber.
type Prober struct{}

// NewProber creates a new duration prober.
func NewProber() *Prober {
	return &Prober{}
}

// probeFn is one way of measuring a file. Each returns the duration or an
// error saying why this method could not read the file.
type probeFn func(path string) (time.Duration, error)

// Duration returns the file's duration in whole seconds. Methods are tried
// in order of reliability: container decode first, then tag metadata. When
// every method fails the duration is 0, never an error.
func (p *Prober) Duration(path string) int {
	fns := []probeFn{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		fns = append(fns, decodeMP3)
	case ".flac":
		fns = append(fns, decodeFLAC)
	case ".wav":
		fns = append(fns, decodeWAV)
	}
	fns = append(fns, tagTLEN, tagRawSweep)

	for _, fn := range fns {
		d, err := fn(path)
		if err == nil && d > 0 {
			return int(d / time.Second)
		}
	}
	slog.Debug("Duration unknown, recording zero", "path", path)
	return 0
}

// decodeMP3 derives the duration from the decoded PCM stream length. go-mp3
// always outputs 16-bit stereo, so a sample is 4 bytes.
func decodeMP3(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return 0, fmt.Errorf("not a decodable mp3: %w", err)
	}
	samples := dec.Length() / 4
	if dec.SampleRate() <= 0 {
		return 0, fmt.Errorf("mp3 reports sample rate %d", dec.SampleRate())
	}
	return time.Duration(samples) * time.Second / time.Duration(dec.SampleRate()), nil
}

// decodeFLAC reads the STREAMINFO block, which every FLAC file must carry.
func decodeFLAC(path string) (time.Duration, error) {
	f, err := goflac.ParseFile(path)
	if err != nil {
		return 0, fmt.Errorf("not a parseable flac: %w", err)
	}
	info, err := f.GetStreamInfo()
	if err != nil {
		return 0, err
	}
	if info.SampleRate <= 0 {
		return 0, fmt.Errorf("flac reports sample rate %d", info.SampleRate)
	}
	return time.Duration(info.SampleCount) * time.Second / time.Duration(info.SampleRate), nil
}

func decodeWAV(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return 0, fmt.Errorf("not a valid wav file")
	}
	return dec.Duration()
}

// tagTLEN reads the ID3v2 TLEN text frame, which holds the length in
// milliseconds. Only the one frame is parsed.
func tagTLEN(path string) (time.Duration, error) {
	t, err := id3v2.Open(path, id3v2.Options{Parse: true, ParseFrames: []string{"TLEN"}})
	if err != nil {
		return 0, fmt.Errorf("no id3v2 tag: %w", err)
	}
	defer t.Close()

	text := strings.TrimSpace(t.GetTextFrame("TLEN").Text)
	if text == "" {
		return 0, fmt.Errorf("no TLEN frame")
	}
	ms, err := strconv.ParseInt(text, 10, 64)
	if err != nil || ms <= 0 {
		return 0, fmt.Errorf("unusable TLEN value %q", text)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// tagRawSweep walks every raw tag frame looking for a length value. Some
// encoders write TLEN variants the dedicated parse misses.
func tagRawSweep(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return 0, fmt.Errorf("no readable tag: %w", err)
	}
	for key, value := range m.Raw() {
		if !strings.Contains(strings.ToUpper(key), "TLEN") && !strings.EqualFold(key, "LENGTH") {
			continue
		}
		text, ok := value.(string)
		if !ok {
			continue
		}
		ms, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
		if err == nil && ms > 0 {
			return time.Duration(ms) * time.Millisecond, nil
		}
	}
	return 0, fmt.Errorf("no length frame in tag")
}
