package testsupport

import (
	"encoding/json"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"clipsync/internal/clips"
	"clipsync/internal/transcript"
)

// TimedWords lays text out as one word every step seconds from start, each
// lasting step seconds.
func TimedWords(text string, start, step float64) []transcript.Word {
	fields := strings.Fields(text)
	words := make([]transcript.Word, 0, len(fields))
	for i, f := range fields {
		words = append(words, transcript.Word{Text: f, Timestamp: start + float64(i)*step, Duration: step})
	}
	return words
}

// WriteTranscriptHTML renders words as hyperaudio word spans in
// <dir>/<interviewID>.html, preceded by a speaker label.
func WriteTranscriptHTML(t testing.TB, dir, interviewID string, words []transcript.Word) string {
	t.Helper()

	var b strings.Builder
	b.WriteString("<article><section><p><span class=\"speaker\" data-m=\"0\">Interviewer:</span>\n")
	for _, w := range words {
		fmt.Fprintf(&b, "<span data-m=\"%s\" data-d=\"%s\">%s</span> ",
			millis(w.Timestamp), millis(w.Duration), html.EscapeString(w.Text))
	}
	b.WriteString("</p></section></article>\n")

	path := filepath.Join(dir, interviewID+".html")
	mustWrite(t, path, []byte(b.String()))
	return path
}

func millis(seconds float64) string {
	return strconv.FormatFloat(seconds*1000, 'f', -1, 64)
}

// WriteDataset stores list as a JSON clip dataset at path.
func WriteDataset(t testing.TB, path string, list []clips.Clip) {
	t.Helper()

	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		t.Fatalf("marshal dataset: %v", err)
	}
	mustWrite(t, path, data)
}

// ReadDataset loads the dataset at path, failing the test on error.
func ReadDataset(t testing.TB, path string) *clips.Dataset {
	t.Helper()

	ds, err := clips.Load(path)
	if err != nil {
		t.Fatalf("load dataset: %v", err)
	}
	return ds
}

func mustWrite(t testing.TB, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
