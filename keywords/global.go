package keywords

import (
	"cmp"
	"slices"

	"github.com/docutag/articlegen/textnorm"
)

// minTermLength is the shortest word TopTerms will count.
const minTermLength = 3

// TermCount is a word and how often it occurs across a batch of titles.
type TermCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// CountTerms tallies the words of titles, skipping the brand token, filler
// words and words shorter than three characters. The result is ordered by
// count, highest first, then alphabetically.
func CountTerms(titles []string) []TermCount {
	counts := make(map[string]int)
	for _, title := range titles {
		for _, w := range textnorm.Tokenize(title) {
			if w == textnorm.BrandToken || len(w) < minTermLength || IsTitleFiller(w) {
				continue
			}
			counts[w]++
		}
	}

	terms := make([]TermCount, 0, len(counts))
	for w, c := range counts {
		terms = append(terms, TermCount{Word: w, Count: c})
	}
	slices.SortFunc(terms, func(a, b TermCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return cmp.Compare(a.Word, b.Word)
	})
	return terms
}

// TopTerms returns the k most frequent words across titles.
func TopTerms(titles []string, k int) []string {
	if k <= 0 {
		return nil
	}
	terms := CountTerms(titles)
	if len(terms) > k {
		terms = terms[:k]
	}
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = t.Word
	}
	return out
}
