package align

import (
	"regexp"

	"clipsync/internal/textutil"
)

// MaxAnchorWords bounds the length of an anchor phrase and of every scored
// candidate window.
const MaxAnchorWords = 10

// AnchorPhrase is an ordered run of normalized words taken from one end of a
// quote.
type AnchorPhrase []string

var (
	ellipsisRe = regexp.MustCompile(`\.{3,}|…`)
	// "Bart Decrem: ..." style attribution at the head of a quote.
	speakerPrefixRe = regexp.MustCompile(`^\s*(?:[A-Z][\w'’.-]*\s+){0,3}[A-Z][\w'’.-]*:\s+`)
)

// ExtractAnchors splits quote on ellipses and returns the first words of the
// leading fragment and the last words of the trailing fragment. Without an
// ellipsis both anchors come from the same text and may be identical. Both are
// empty only when the quote contains no words.
func ExtractAnchors(quote string) (start, end AnchorPhrase) {
	quote = speakerPrefixRe.ReplaceAllString(quote, "")

	var segments [][]string
	for _, seg := range ellipsisRe.Split(quote, -1) {
		if words := textutil.Words(seg); len(words) > 0 {
			segments = append(segments, words)
		}
	}
	if len(segments) == 0 {
		return nil, nil
	}

	first := segments[0]
	last := segments[len(segments)-1]
	start = AnchorPhrase(first[:min(len(first), MaxAnchorWords)])
	end = AnchorPhrase(last[max(len(last)-MaxAnchorWords, 0):])
	return start, end
}
