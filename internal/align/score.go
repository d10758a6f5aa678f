package align

import (
	"strings"
	"unicode/utf8"

	"clipsync/internal/textutil"
)

const (
	// WordSimilarityThreshold is the Levenshtein ratio at which two different
	// words count as the same word.
	WordSimilarityThreshold = 0.8

	overlapWeight = 0.6
	runWeight     = 0.4
)

// WordMatch reports whether two normalized words should be treated as the
// same: equal, one containing the other, or within edit-distance tolerance.
func WordMatch(a, b string) bool {
	if a == b || strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	// The ratio can never exceed shorter/longer.
	if float64(min(la, lb)) < WordSimilarityThreshold*float64(max(la, lb)) {
		return false
	}
	return textutil.LevenshteinRatio(a, b) >= WordSimilarityThreshold
}

// PhraseScore compares candidate and anchor position by position and returns
// a score in [0,1].
func PhraseScore(candidate, anchor []string) float64 {
	return phraseScore(len(candidate), len(anchor), func(k int) bool {
		return WordMatch(candidate[k], anchor[k])
	})
}

// phraseScore is the scoring rule over abstract pairwise matches: hit(k)
// reports whether the k-th candidate word matches the k-th anchor word.
func phraseScore(candidateLen, anchorLen int, hit func(k int) bool) float64 {
	denom := max(candidateLen, anchorLen)
	if denom == 0 {
		return 0
	}
	var matches, run, longest int
	for k := range min(candidateLen, anchorLen) {
		if hit(k) {
			matches++
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	if matches == denom {
		return 1
	}
	return (overlapWeight*float64(matches) + runWeight*float64(longest)) / float64(denom)
}
