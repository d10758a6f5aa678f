package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// strippedPunctuation lists the marks removed before comparison. Typographic
// apostrophes and quotes fold together with their ASCII forms.
const strippedPunctuation = ".,!?;:'\"‘’“”"

func isStripped(r rune) bool {
	return strings.ContainsRune(strippedPunctuation, r)
}

// Normalize lowercases s, removes sentence punctuation and quote marks, and
// collapses runs of whitespace to single spaces. It never fails; ellipsis
// handling is the caller's concern.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	// Casers carry state, so the chain is built per call.
	chain := transform.Chain(norm.NFC, runes.Remove(runes.Predicate(isStripped)), cases.Lower(language.Und))
	out, _, err := transform.String(chain, s)
	if err != nil {
		out = strings.ToLower(strings.Map(func(r rune) rune {
			if isStripped(r) {
				return -1
			}
			return r
		}, s))
	}
	return strings.Join(strings.Fields(out), " ")
}

// Words returns the normalized form of s split on whitespace.
func Words(s string) []string {
	return strings.Fields(Normalize(s))
}
