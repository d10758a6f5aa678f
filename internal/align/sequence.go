package align

import (
	"clipsync/internal/textutil"
	"clipsync/internal/transcript"
)

// NormalizedWord pairs a transcript word with its comparison form.
type NormalizedWord struct {
	transcript.Word
	Clean string
}

// Sequence is the searchable form of a transcript. Words whose normalized
// form is empty (stray punctuation, dashes) are dropped so they can neither
// match nor occupy window slots. A Sequence is read-only after construction
// and safe to share between goroutines.
type Sequence struct {
	words []NormalizedWord
	clean []string
}

// NewSequence normalizes words, which must already be ordered by timestamp.
// A word without a positive duration is given transcript.DefaultWordDuration
// so every word ends after it starts.
func NewSequence(words []transcript.Word) *Sequence {
	seq := &Sequence{
		words: make([]NormalizedWord, 0, len(words)),
		clean: make([]string, 0, len(words)),
	}
	for _, w := range words {
		clean := textutil.Normalize(w.Text)
		if clean == "" {
			continue
		}
		if w.Duration <= 0 {
			w.Duration = transcript.DefaultWordDuration
		}
		seq.words = append(seq.words, NormalizedWord{Word: w, Clean: clean})
		seq.clean = append(seq.clean, clean)
	}
	return seq
}

// Len returns the number of searchable words.
func (s *Sequence) Len() int {
	if s == nil {
		return 0
	}
	return len(s.words)
}

// Word returns the i-th searchable word.
func (s *Sequence) Word(i int) NormalizedWord {
	return s.words[i]
}

// Last returns the final word. It must not be called on an empty sequence.
func (s *Sequence) Last() NormalizedWord {
	return s.words[len(s.words)-1]
}

// Text joins the raw text of words from..to inclusive.
func (s *Sequence) Text(from, to int) string {
	if s.Len() == 0 {
		return ""
	}
	from = max(from, 0)
	to = min(to, s.Len()-1)
	var out []byte
	for i := from; i <= to; i++ {
		if i > from {
			out = append(out, ' ')
		}
		out = append(out, s.words[i].Text...)
	}
	return string(out)
}

// matcher memoizes WordMatch between sequence positions and anchor slots so
// overlapping windows never recompute an edit distance.
type matcher struct {
	seq    *Sequence
	anchor AnchorPhrase
	memo   []int8
}

const (
	memoUnknown int8 = iota
	memoHit
	memoMiss
)

func newMatcher(seq *Sequence, anchor AnchorPhrase) *matcher {
	return &matcher{seq: seq, anchor: anchor, memo: make([]int8, seq.Len()*len(anchor))}
}

func (m *matcher) hit(pos, slot int) bool {
	idx := pos*len(m.anchor) + slot
	switch m.memo[idx] {
	case memoHit:
		return true
	case memoMiss:
		return false
	}
	ok := WordMatch(m.seq.clean[pos], m.anchor[slot])
	m.memo[idx] = memoMiss
	if ok {
		m.memo[idx] = memoHit
	}
	return ok
}

// score rates the n words starting at from against the anchor. It equals
// PhraseScore(seq.clean[from:from+n], anchor).
func (m *matcher) score(from, n int) float64 {
	return phraseScore(n, len(m.anchor), func(k int) bool {
		return m.hit(from+k, k)
	})
}
