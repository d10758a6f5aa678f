package align

import (
	"strings"

	"clipsync/internal/transcript"
)

// timed lays text out as one word every step seconds from start, each lasting
// step seconds.
func timed(text string, start, step float64) []transcript.Word {
	fields := strings.Fields(text)
	words := make([]transcript.Word, 0, len(fields))
	for i, f := range fields {
		words = append(words, transcript.Word{Text: f, Timestamp: start + float64(i)*step, Duration: step})
	}
	return words
}

func filler(n int) string {
	return strings.TrimSpace(strings.Repeat("zzz ", n))
}
