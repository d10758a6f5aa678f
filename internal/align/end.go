package align

const (
	// MinEndScore is the lowest end-anchor score accepted within a window.
	MinEndScore = 0.3
	// EndWindows is the number of expanding end-search windows.
	EndWindows = 5
	// EndWindowWords is the positional reach added by each window.
	EndWindowWords = 200
	// EndWindowSeconds is the elapsed-time reach added by each window.
	EndWindowSeconds = 180.0
	// MinSentenceClipSeconds is the shortest clip the sentence fallback may
	// produce.
	MinSentenceClipSeconds = 10.0
	// DefaultClipSeconds is the clip length used when nothing else matches.
	DefaultClipSeconds = 180.0

	// End candidates start this many words after the start match.
	endSkipWords = 5
)

// EndMatch is a candidate end position.
type EndMatch struct {
	Index int     `json:"index"`
	End   float64 `json:"end"`
	Score float64 `json:"score"`
	// Window is the 1-based end-search window that produced the match, or 0
	// for fallbacks.
	Window int `json:"window,omitempty"`
}

type endSearch struct {
	seq   *Sequence
	m     *matcher
	start StartMatch
	lo    int
}

func newEndSearch(seq *Sequence, anchor AnchorPhrase, start StartMatch) *endSearch {
	s := &endSearch{seq: seq, start: start}
	if len(anchor) > 0 {
		s.m = newMatcher(seq, anchor)
	}
	// Short transcripts clamp the skip so the final word stays searchable.
	s.lo = min(start.Index+endSkipWords, seq.Len()-1)
	return s
}

// bounds returns the exclusive position bound and the elapsed-time cap of
// window w.
func (s *endSearch) bounds(w int) (int, float64) {
	return min(s.start.Index+EndWindowWords*w, s.seq.Len()), s.start.Timestamp + EndWindowSeconds*float64(w)
}

// window scores every trailing run of up to MaxAnchorWords words ending
// inside window w and returns the best one.
func (s *endSearch) window(w int) (EndMatch, bool) {
	if s.m == nil {
		return EndMatch{}, false
	}
	hi, until := s.bounds(w)
	best := EndMatch{Index: -1, Window: w}
	for j := s.lo; j < hi; j++ {
		word := s.seq.Word(j)
		if word.Timestamp > until {
			break
		}
		limit := min(MaxAnchorWords, j+1)
		for n := 1; n <= limit; n++ {
			if score := s.m.score(j-n+1, n); score > best.Score {
				best.Index, best.Score, best.End = j, score, word.End()
			}
		}
	}
	if best.Index < 0 || best.Score < MinEndScore || best.End <= s.start.Timestamp {
		return best, false
	}
	return best, true
}

// sentence returns the first sentence terminator within the widest window
// that yields a clip of at least MinSentenceClipSeconds.
func (s *endSearch) sentence() (EndMatch, bool) {
	hi, until := s.bounds(EndWindows)
	for j := s.lo; j < hi; j++ {
		word := s.seq.Word(j)
		if word.Timestamp > until {
			break
		}
		if !word.EndsSentence() {
			continue
		}
		if end := word.End(); end-s.start.Timestamp >= MinSentenceClipSeconds {
			return EndMatch{Index: j, End: end}, true
		}
	}
	return EndMatch{}, false
}

// fallback ends the clip DefaultClipSeconds after the start, clamped to the
// onset of the last word. When the start is the last word the clip ends with
// that word instead.
func (s *endSearch) fallback() EndMatch {
	last := s.seq.Last()
	end := min(s.start.Timestamp+DefaultClipSeconds, last.Timestamp)
	if end <= s.start.Timestamp {
		end = last.End()
	}
	idx := s.start.Index
	for idx+1 < s.seq.Len() && s.seq.Word(idx+1).Timestamp < end {
		idx++
	}
	return EndMatch{Index: idx, End: end}
}
