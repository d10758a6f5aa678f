// Package align recovers the start and end time of a curated quote inside a
// word-timestamped transcript that may have been regenerated since the quote
// was chosen.
//
// A quote is reduced to two anchor phrases: the first ten normalized words of
// its leading fragment and the last ten of its trailing fragment (quotes may
// elide their middle with "..."). The start anchor is fuzzy-matched across the
// whole transcript. The end anchor is searched in up to five expanding windows
// after the start; if none scores well enough the end falls back to the next
// sentence terminator and finally to a fixed three-minute clip.
//
// Scoring is positional: candidate and anchor words are compared pairwise,
// and a phrase scores 0.6 for overall overlap plus 0.4 for its longest
// unbroken run of matches, both relative to the longer of the two phrases.
// The thresholds (0.2 to accept a start, 0.3 to accept an end) and the
// first-seen tie-break are load-bearing: stored clip data was tuned against
// them.
package align
