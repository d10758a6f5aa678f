package transcript

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

const (
	onsetAttr    = "data-m"
	durationAttr = "data-d"
	speakerClass = "speaker"
)

type spanFrame struct {
	word     bool
	speaker  bool
	onsetMS  float64
	lengthMS float64
	text     strings.Builder
}

// ParseHTML extracts timed words from hyperaudio transcript markup. Each
// span[data-m] yields one word; data-d defaults to 2000ms. Speaker labels and
// spans without readable text are skipped.
func ParseHTML(r io.Reader) ([]Word, error) {
	z := html.NewTokenizer(r)
	var (
		stack []*spanFrame
		words []Word
	)

	inSpeaker := func() bool {
		for _, f := range stack {
			if f.speaker {
				return true
			}
		}
		return false
	}

	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("tokenize transcript html: %w", err)
			}
			return words, nil

		case html.StartTagToken:
			tok := z.Token()
			if tok.Data != "span" {
				continue
			}
			stack = append(stack, newSpanFrame(tok))

		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) != "span" || len(stack) == 0 {
				continue
			}
			frame := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !frame.word || frame.speaker || inSpeaker() {
				continue
			}
			text := strings.TrimSpace(frame.text.String())
			if text == "" {
				continue
			}
			words = append(words, Word{
				Text:      text,
				Timestamp: frame.onsetMS / 1000,
				Duration:  frame.lengthMS / 1000,
			})

		case html.TextToken:
			if len(stack) == 0 {
				continue
			}
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i].word {
					stack[i].text.Write(z.Text())
					break
				}
			}
		}
	}
}

func newSpanFrame(tok html.Token) *spanFrame {
	frame := &spanFrame{lengthMS: DefaultWordDuration * 1000}
	for _, attr := range tok.Attr {
		switch attr.Key {
		case onsetAttr:
			if v, err := strconv.ParseFloat(strings.TrimSpace(attr.Val), 64); err == nil && v >= 0 {
				frame.word = true
				frame.onsetMS = v
			}
		case durationAttr:
			if v, err := strconv.ParseFloat(strings.TrimSpace(attr.Val), 64); err == nil && v > 0 {
				frame.lengthMS = v
			}
		case "class":
			for _, class := range strings.Fields(attr.Val) {
				if class == speakerClass {
					frame.speaker = true
				}
			}
		}
	}
	return frame
}
