package transcript

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

var (
	vttTimingRe = regexp.MustCompile(`^((?:\d+:)?\d{1,2}:\d{2}[.,]\d{1,3})\s*-->\s*((?:\d+:)?\d{1,2}:\d{2}[.,]\d{1,3})`)
	vttTagRe    = regexp.MustCompile(`<[^>]+>`)
)

// ParseVTT reads WebVTT cues and spreads each cue's words evenly across the
// cue duration. Voice tags (<v Speaker>) and other markup are removed.
func ParseVTT(r io.Reader) ([]Word, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		words      []Word
		inCue      bool
		start, end float64
		text       []string
	)
	flush := func() {
		if inCue {
			words = append(words, spreadCue(strings.Join(text, " "), start, end)...)
		}
		inCue = false
		text = text[:0]
	}

	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		if m := vttTimingRe.FindStringSubmatch(line); m != nil {
			flush()
			var err error
			if start, err = parseVTTTimestamp(m[1]); err != nil {
				return nil, err
			}
			if end, err = parseVTTTimestamp(m[2]); err != nil {
				return nil, err
			}
			inCue = true
			continue
		}
		if line == "" {
			flush()
			continue
		}
		if inCue {
			text = append(text, vttTagRe.ReplaceAllString(line, ""))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read vtt: %w", err)
	}
	flush()
	return words, nil
}

func spreadCue(text string, start, end float64) []Word {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	step := DefaultWordDuration
	if end > start {
		step = (end - start) / float64(len(fields))
	}
	out := make([]Word, 0, len(fields))
	for i, f := range fields {
		out = append(out, Word{Text: f, Timestamp: start + float64(i)*step, Duration: step})
	}
	return out
}

// parseVTTTimestamp converts "HH:MM:SS.mmm" or "MM:SS.mmm" to seconds.
func parseVTTTimestamp(value string) (float64, error) {
	value = strings.ReplaceAll(strings.TrimSpace(value), ",", ".")
	parts := strings.Split(value, ":")
	var total float64
	for _, part := range parts {
		n, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return 0, fmt.Errorf("parse vtt timestamp %q: %w", value, err)
		}
		total = total*60 + n
	}
	return total, nil
}
