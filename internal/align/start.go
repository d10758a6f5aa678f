package align

import (
	"errors"
	"fmt"
)

// MinStartScore is the lowest start-anchor score accepted as a match.
const MinStartScore = 0.2

// The start scan stops this many words short of the transcript end.
const startScanTail = 4

// ErrNoStartMatch reports that no transcript position scored at least
// MinStartScore against the start anchor.
var ErrNoStartMatch = errors.New("no start match")

// StartMatch is the best start position found for an anchor.
type StartMatch struct {
	Index     int     `json:"index"`
	Timestamp float64 `json:"timestamp"`
	Score     float64 `json:"score"`
}

// LocateStart scans every position, growing a window of up to MaxAnchorWords
// words from it and scoring each prefix against anchor. The first position to
// reach the highest score wins. A best score under MinStartScore yields
// ErrNoStartMatch along with the best candidate seen.
func LocateStart(seq *Sequence, anchor AnchorPhrase) (StartMatch, error) {
	best := StartMatch{Index: -1}
	if len(anchor) == 0 {
		return best, fmt.Errorf("%w: empty anchor", ErrNoStartMatch)
	}
	if seq.Len() == 0 {
		return best, fmt.Errorf("%w: empty transcript", ErrNoStartMatch)
	}

	m := newMatcher(seq, anchor)
	last := max(seq.Len()-startScanTail, 0)
	for i := 0; i <= last; i++ {
		limit := min(MaxAnchorWords, seq.Len()-i)
		for n := 1; n <= limit; n++ {
			if score := m.score(i, n); score > best.Score {
				best = StartMatch{Index: i, Score: score}
			}
		}
	}

	if best.Index < 0 {
		return best, fmt.Errorf("%w: no overlapping words", ErrNoStartMatch)
	}
	best.Timestamp = seq.Word(best.Index).Timestamp
	if !startAccepted(best.Score) {
		return best, fmt.Errorf("%w: best score %.3f below %.2f", ErrNoStartMatch, best.Score, MinStartScore)
	}
	return best, nil
}

func startAccepted(score float64) bool {
	return score >= MinStartScore
}
