// Package keywords picks short anchor phrases out of article titles.
//
// Every token gets a score from its position in the title, a curated boost
// table and a base constant. The phrase is the best contiguous window of
// allowed tokens, with the brand token forced in when the title mentions it.
// Extraction never fails: titles without usable tokens fall back to
// DefaultPhrase.
//
// Example:
//
//	keywords.Extract("Scatter Hitam MahjongWays RTP Live Server Thailand", 2, 4)
//	// ["scatter", "hitam", "mahjongways", "rtp"]
package keywords

import (
	"slices"

	"github.com/docutag/articlegen/textnorm"
)

const (
	baseScore      = 8  // score every allowed token starts with
	positionWindow = 24 // tokens earlier than this index earn a position bonus
	brandBonus     = 50 // window bonus when the brand token is inside

	// DefaultMinWords and DefaultMaxWords bound the phrase length.
	DefaultMinWords = 2
	DefaultMaxWords = 4

	// PrimaryMinLength is the minimum token length tried first.
	PrimaryMinLength = 3
	// FallbackMinLength applies when no token survives PrimaryMinLength.
	FallbackMinLength = 2
)

// DefaultPhrase is returned when a title has no usable token.
func DefaultPhrase() []string {
	return []string{"baca", "selengkapnya"}
}

// Options tunes phrase extraction.
type Options struct {
	MinWords          int
	MaxWords          int
	PrimaryMinLength  int
	FallbackMinLength int
}

// DefaultOptions returns the standard 2-4 word extraction settings.
func DefaultOptions() Options {
	return Options{
		MinWords:          DefaultMinWords,
		MaxWords:          DefaultMaxWords,
		PrimaryMinLength:  PrimaryMinLength,
		FallbackMinLength: FallbackMinLength,
	}
}

func (o Options) withDefaults() Options {
	if o.MinWords <= 0 {
		o.MinWords = DefaultMinWords
	}
	if o.MaxWords < o.MinWords {
		o.MaxWords = max(o.MinWords, DefaultMaxWords)
	}
	if o.PrimaryMinLength <= 0 {
		o.PrimaryMinLength = PrimaryMinLength
	}
	if o.FallbackMinLength <= 0 || o.FallbackMinLength > o.PrimaryMinLength {
		o.FallbackMinLength = min(FallbackMinLength, o.PrimaryMinLength)
	}
	return o
}

// Token is a normalized title word with its ordinal position and score.
type Token struct {
	Word  string `json:"word"`
	Index int    `json:"index"`
	Score int    `json:"score"`
}

// Score returns the relevance of word appearing at index in its title.
func Score(word string, index int) int {
	return baseScore + Boost(word) + max(0, positionWindow-index)
}

// IsAllowed reports whether token is long enough and not a stopword.
func IsAllowed(token string, minLength int) bool {
	return len(token) >= minLength && !IsStopword(token)
}

// Extract returns the anchor phrase for title using minWords..maxWords tokens.
func Extract(title string, minWords, maxWords int) []string {
	opts := DefaultOptions()
	opts.MinWords = minWords
	opts.MaxWords = maxWords
	return ExtractWithOptions(title, opts)
}

// ExtractWithOptions is Extract with full control over the length tiers.
func ExtractWithOptions(title string, opts Options) []string {
	opts = opts.withDefaults()
	words := textnorm.Tokenize(title)
	allowed := AllowFilter(words, opts)

	scored := Rank(words, allowed)
	best := bestWindow(words, allowed, bestScores(scored), opts)

	out := make([]string, 0, opts.MaxWords)
	out = append(out, best...)

	if slices.Contains(words, textnorm.BrandToken) && !slices.Contains(out, textnorm.BrandToken) {
		if len(out) >= opts.MaxWords {
			out = out[:opts.MaxWords-1]
		}
		out = append(out, textnorm.BrandToken)
	}

	for _, t := range scored {
		if len(out) >= opts.MaxWords {
			break
		}
		if !slices.Contains(out, t.Word) {
			out = append(out, t.Word)
		}
	}

	if len(out) == 0 {
		return DefaultPhrase()
	}

	// Pad short phrases with the remaining title words in source order.
	for _, w := range words {
		if len(out) >= opts.MinWords {
			break
		}
		if len(w) >= opts.FallbackMinLength && !slices.Contains(out, w) {
			out = append(out, w)
		}
	}
	return out
}

// Rank scores every allowed word and orders them by score, highest first.
// Equal scores keep their title order.
func Rank(words []string, allowed func(string) bool) []Token {
	scored := make([]Token, 0, len(words))
	for i, w := range words {
		if !allowed(w) {
			continue
		}
		scored = append(scored, Token{Word: w, Index: i, Score: Score(w, i)})
	}
	slices.SortStableFunc(scored, func(a, b Token) int {
		return b.Score - a.Score
	})
	return scored
}

// AllowFilter picks the strictest length tier that keeps at least one of
// words. Curated terms pass either tier.
func AllowFilter(words []string, opts Options) func(string) bool {
	opts = opts.withDefaults()
	tier := func(minLength int) func(string) bool {
		return func(w string) bool {
			return IsAllowed(w, minLength) || (IsCurated(w) && !IsStopword(w))
		}
	}

	primary := tier(opts.PrimaryMinLength)
	if slices.ContainsFunc(words, primary) {
		return primary
	}
	return tier(opts.FallbackMinLength)
}

// bestScores keeps the highest score seen for each word.
func bestScores(scored []Token) map[string]int {
	best := make(map[string]int, len(scored))
	for _, t := range scored {
		if t.Score > best[t.Word] {
			best[t.Word] = t.Score
		}
	}
	return best
}

// bestWindow scans spans left to right, shortest first, and returns the
// allowed words of the highest scoring one. The first span wins ties.
// A word repeated inside a span counts once.
func bestWindow(words []string, allowed func(string) bool, scores map[string]int, opts Options) []string {
	var best []string
	bestScore := -1

	for start := range words {
		if !allowed(words[start]) {
			continue
		}
		end := min(len(words), start+opts.MaxWords)
		window := make([]string, 0, opts.MaxWords)
		total := 0
		for i := start; i < end; i++ {
			if !allowed(words[i]) || slices.Contains(window, words[i]) {
				continue
			}
			window = append(window, words[i])
			total += scores[words[i]]

			if len(window) < opts.MinWords {
				continue
			}
			score := total
			if slices.Contains(window, textnorm.BrandToken) {
				score += brandBonus
			}
			if score > bestScore {
				bestScore = score
				best = slices.Clone(window)
			}
		}
	}
	return best
}
