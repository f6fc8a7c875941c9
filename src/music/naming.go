package music

import (
	"regexp"
	"strings"
)

// Characters that cannot appear in a filesystem path segment: control
// characters plus the set reserved by Windows, which is a superset of what
// Unix forbids.
const invalidPathChars = "\x00-\x1f\"<>|:*?\\\\/"

// A trailing run of dots (optionally preceded by invalid characters) is
// folded together with runs of invalid characters, matching how stored
// segments were produced historically.
var sanitizePattern = regexp.MustCompile(`([` + invalidPathChars + `]*\.+$)|([` + invalidPathChars + `]+)`)

// SanitizeFileName replaces every run of characters invalid in a filesystem
// path segment with a single underscore. Pure and idempotent; empty input
// yields an empty string.
func SanitizeFileName(name string) string {
	return sanitizePattern.ReplaceAllString(name, "_")
}

var (
	slugStrip  = regexp.MustCompile(`[^a-z0-9а-яіїєґ\s-]`)
	slugSpaces = regexp.MustCompile(`\s+`)
	slugDashes = regexp.MustCompile(`-{2,}`)
)

// SlugUnknown is returned by Slug for input that produces no usable token.
const SlugUnknown = "unknown"

// Slug turns free text into a URL-safe token: lowercase, ASCII letters and
// digits plus Ukrainian Cyrillic kept, whitespace collapsed to single
// hyphens, repeated hyphens collapsed, hyphens trimmed from both ends.
// Slugs are recomputed wherever needed and never stored, so two calls with
// the same (trimmed) text always agree.
func Slug(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = slugStrip.ReplaceAllString(s, "")
	s = slugSpaces.ReplaceAllString(s, "-")
	s = slugDashes.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return SlugUnknown
	}
	return s
}
