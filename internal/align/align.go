package align

import "fmt"

// Locate resolves quote against seq. It fails only when the start anchor
// cannot be placed; once a start exists an end is always produced.
func Locate(seq *Sequence, quote string) Outcome {
	startAnchor, endAnchor := ExtractAnchors(quote)
	if len(startAnchor) == 0 {
		return Outcome{Kind: NoMatch, Start: StartMatch{Index: -1}, Err: fmt.Errorf("%w: quote has no words", ErrNoStartMatch)}
	}

	start, err := LocateStart(seq, startAnchor)
	if err != nil {
		return Outcome{Kind: NoMatch, Start: start, Err: err}
	}

	search := newEndSearch(seq, endAnchor, start)
	kind, end := endSteps{
		windows:  EndWindows,
		window:   search.window,
		sentence: search.sentence,
		fallback: search.fallback,
	}.run()
	return Outcome{Kind: kind, Start: start, End: end}
}
