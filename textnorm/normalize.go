// Package textnorm lowercases, transliterates and tokenizes title text.
//
// The output of Normalize only contains [a-z0-9] runs separated by single
// spaces, and Normalize(Normalize(s)) == Normalize(s) for every input.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// BrandToken is the canonical single-token spelling of the brand name.
	BrandToken = "mahjongways"

	// AmpersandWord replaces "&" when slugging.
	AmpersandWord = "dan"
)

var (
	// Matches the brand written with an accidental internal space.
	brandVariant = regexp.MustCompile(`\bmahjongw[\s\p{Z}]+ays\b`)
	// Matches anything that is not a lowercase letter or digit.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	// Same as nonAlphanumeric but keeps hyphens for slugs.
	nonSlugChars = regexp.MustCompile(`[^a-z0-9-]+`)
)

// Normalize returns s lowercased, without diacritics or punctuation, with
// known brand spellings collapsed and whitespace reduced to single spaces.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = fold(s)
	s = brandVariant.ReplaceAllString(s, BrandToken)
	s = nonAlphanumeric.ReplaceAllString(s, " ")
	s = collapseSpaces(s)
	// Punctuation between the two halves only becomes a space above.
	return brandVariant.ReplaceAllString(s, BrandToken)
}

// NormalizeForSlug is Normalize for slug input: "&" becomes AmpersandWord and
// hyphens survive so that "sci-fi" stays one hyphenated unit.
func NormalizeForSlug(s string) string {
	if s == "" {
		return ""
	}
	s = fold(s)
	s = brandVariant.ReplaceAllString(s, BrandToken)
	s = strings.ReplaceAll(s, "&", " "+AmpersandWord+" ")
	s = nonSlugChars.ReplaceAllString(s, " ")
	return collapseSpaces(s)
}

// Tokenize splits the normalized form of s into tokens.
func Tokenize(s string) []string {
	return strings.Fields(Normalize(s))
}

// fold lowercases s and strips combining marks after compatibility decomposition.
func fold(s string) string {
	// Casers and transformers are stateful, so both are built per call.
	s = cases.Lower(language.Und).String(s)
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
