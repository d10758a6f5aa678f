package transcript

import "strings"

// DefaultWordDuration is the duration in seconds assumed for words whose
// source does not carry one.
const DefaultWordDuration = 2.0

// Word is a single spoken word with its onset and duration in seconds.
type Word struct {
	Text      string  `json:"text"`
	Timestamp float64 `json:"timestamp"`
	Duration  float64 `json:"duration"`
}

// End returns the time the word finishes.
func (w Word) End() float64 {
	return w.Timestamp + w.Duration
}

// EndsSentence reports whether the raw word text closes a sentence.
func (w Word) EndsSentence() bool {
	text := strings.TrimSpace(w.Text)
	return strings.HasSuffix(text, ".") || strings.HasSuffix(text, "!") || strings.HasSuffix(text, "?")
}

// Transcript is the parsed word list for one interview. Words are ordered by
// timestamp and must not be modified once loaded.
type Transcript struct {
	InterviewID string
	Path        string
	Format      Format
	Words       []Word
}

// End returns the finishing time of the last word, or 0 for an empty
// transcript.
func (t *Transcript) End() float64 {
	if t == nil || len(t.Words) == 0 {
		return 0
	}
	return t.Words[len(t.Words)-1].End()
}
