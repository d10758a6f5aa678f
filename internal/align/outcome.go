package align

import (
	"fmt"
	"strings"
)

// Kind classifies how a quote was resolved.
type Kind int

const (
	// NoMatch means no start position was accepted; times are unknown.
	NoMatch Kind = iota
	// Matched means both anchors were found.
	Matched
	// FallbackSentence means the end was placed at a sentence terminator.
	FallbackSentence
	// FallbackDefault means the end was placed a fixed duration after the
	// start.
	FallbackDefault
)

func (k Kind) String() string {
	switch k {
	case Matched:
		return "matched"
	case FallbackSentence:
		return "sentence_fallback"
	case FallbackDefault:
		return "default_fallback"
	default:
		return "no_match"
	}
}

// MarshalText renders the kind by name in reports and JSON output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a kind name written by MarshalText.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind returns the Kind named value.
func ParseKind(value string) (Kind, error) {
	for _, k := range []Kind{NoMatch, Matched, FallbackSentence, FallbackDefault} {
		if strings.EqualFold(strings.TrimSpace(value), k.String()) {
			return k, nil
		}
	}
	return NoMatch, fmt.Errorf("unknown outcome kind %q", value)
}

// MatchResult is a resolved clip span in seconds. End is always greater than
// Start.
type MatchResult struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Duration returns End-Start.
func (r MatchResult) Duration() float64 {
	return r.End - r.Start
}

// Outcome is the tagged result of locating one quote.
type Outcome struct {
	Kind  Kind       `json:"kind"`
	Start StartMatch `json:"start"`
	End   EndMatch   `json:"end"`
	// Err explains a NoMatch outcome and wraps ErrNoStartMatch.
	Err error `json:"-"`
}

// Result returns the resolved span, or false for NoMatch.
func (o Outcome) Result() (MatchResult, bool) {
	if o.Kind == NoMatch {
		return MatchResult{}, false
	}
	return MatchResult{Start: o.Start.Timestamp, End: o.End.End}, true
}

func (o Outcome) String() string {
	r, ok := o.Result()
	if !ok {
		return fmt.Sprintf("%s (%v)", o.Kind, o.Err)
	}
	return fmt.Sprintf("%s %.2f-%.2f", o.Kind, r.Start, r.End)
}

// endSteps is the end-resolution policy, kept apart from the scoring so the
// fallback order can be exercised on its own.
type endSteps struct {
	windows  int
	window   func(w int) (EndMatch, bool)
	sentence func() (EndMatch, bool)
	fallback func() EndMatch
}

// run tries each window in turn, then the sentence boundary, then the
// default. It always produces an end.
func (s endSteps) run() (Kind, EndMatch) {
	for w := 1; w <= s.windows; w++ {
		if m, ok := s.window(w); ok {
			return Matched, m
		}
	}
	if m, ok := s.sentence(); ok {
		return FallbackSentence, m
	}
	return FallbackDefault, s.fallback()
}
