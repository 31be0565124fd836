package slug

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/docutag/articlegen/textnorm"
)

const (
	// DefaultLimit is the preferred maximum slug length.
	DefaultLimit = 50
	// DefaultTolerance is how far past the limit a cut may move to finish a word.
	DefaultTolerance = 12
	// MinBoundary is the smallest word-boundary cut accepted before falling
	// back to a hard cut at the limit.
	MinBoundary = 15
	// Fallback is returned when a title yields no slug characters.
	Fallback = "artikel"
)

var (
	// Matches runs of whitespace.
	whitespace = regexp.MustCompile(`\s+`)
	// Matches consecutive hyphens.
	multipleHyphens = regexp.MustCompile(`-+`)
)

// Generate creates a URL-friendly slug from a string without length limits.
func Generate(s string) string {
	if s == "" {
		return ""
	}

	s = textnorm.NormalizeForSlug(s)
	s = whitespace.ReplaceAllString(s, "-")
	s = multipleHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// GenerateWithFallback generates a slug, falling back to a default if the input produces an empty slug
func GenerateWithFallback(s, fallback string) string {
	slug := Generate(s)
	if slug == "" {
		return Generate(fallback)
	}
	return slug
}

// Smart returns the slug of title bounded by limit, cut on a word boundary.
//
// When the full slug is longer than limit it is cut at the last hyphen at or
// before limit (or hard at limit when that hyphen sits before MinBoundary).
// If the next hyphen after limit is at most tolerance characters away, the cut
// moves there instead so the trailing word stays whole. The result is never
// longer than limit+tolerance and never empty.
func Smart(title string, limit, tolerance int) string {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if tolerance < 0 {
		tolerance = 0
	}

	full := GenerateWithFallback(title, Fallback)
	if len(full) <= limit {
		return full
	}

	cut := strings.LastIndex(full[:limit+1], "-")
	if cut < MinBoundary {
		cut = limit
	}

	if next := strings.Index(full[limit:], "-"); next != -1 && next <= tolerance {
		cut = limit + next
	}

	out := strings.TrimRight(full[:cut], "-")
	if out == "" {
		return strings.TrimRight(full[:limit], "-")
	}
	return out
}

// MakeUnique appends a number to a slug to make it unique
func MakeUnique(slug string, counter int) string {
	if counter == 0 {
		return slug
	}
	return slug + "-" + strconv.Itoa(counter)
}

// JoinURL joins base and path with exactly one slash between them.
// An empty base yields path and an empty path yields base.
func JoinURL(base, path string) string {
	b := strings.TrimSpace(base)
	p := strings.TrimSpace(path)
	if b == "" {
		return p
	}
	if p == "" {
		return b
	}
	if !strings.HasSuffix(b, "/") {
		b += "/"
	}
	return b + strings.TrimPrefix(p, "/")
}
