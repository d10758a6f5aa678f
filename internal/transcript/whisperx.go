package transcript

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

type whisperXWord struct {
	Word  string   `json:"word"`
	Start *float64 `json:"start"`
	End   *float64 `json:"end"`
}

type whisperXSegment struct {
	Text  string         `json:"text"`
	Start float64        `json:"start"`
	End   float64        `json:"end"`
	Words []whisperXWord `json:"words"`
}

type whisperXPayload struct {
	Segments []whisperXSegment `json:"segments"`
}

// ParseWhisperX reads WhisperX alignment output. Words the aligner could not
// place (no start time) are dropped.
func ParseWhisperX(r io.Reader) ([]Word, error) {
	var payload whisperXPayload
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("parse whisperx json: %w", err)
	}

	var words []Word
	for _, seg := range payload.Segments {
		for _, w := range seg.Words {
			text := strings.TrimSpace(w.Word)
			if text == "" || w.Start == nil || *w.Start < 0 {
				continue
			}
			duration := DefaultWordDuration
			if w.End != nil && *w.End > *w.Start {
				duration = *w.End - *w.Start
			}
			words = append(words, Word{Text: text, Timestamp: *w.Start, Duration: duration})
		}
	}
	return words, nil
}
