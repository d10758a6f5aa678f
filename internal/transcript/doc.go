// Package transcript loads word-level, timestamped interview transcripts.
//
// Transcripts arrive in one of three on-disk shapes: hyperaudio-style HTML
// where every spoken word is a span carrying a millisecond onset (data-m) and
// optional duration (data-d), WhisperX JSON with per-word start/end seconds,
// or WebVTT cue files whose text is spread evenly across each cue. All of them
// are parsed into the same ordered []Word slice. FileSource resolves an
// interview id to the first available format in the configured order and
// reports missing or unreadable transcripts as ErrUnavailable.
package transcript
