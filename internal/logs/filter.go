package logs

import (
	"encoding/json"
	"strings"

	"clipsync/internal/logging"
)

// Query selects log entries. Empty fields match everything.
type Query struct {
	RunID        string
	InterviewID  string
	ClipID       string
	Component    string
	Level        string
	DecisionType string
	Search       string
}

// Empty reports whether q matches every line.
func (q Query) Empty() bool {
	return q == Query{}
}

// Match reports whether a JSON log line satisfies q. Lines that are not JSON
// objects only match an empty query or a Search term they contain.
func (q Query) Match(line string) bool {
	if q.Empty() {
		return true
	}
	if q.Search != "" && !strings.Contains(strings.ToLower(line), strings.ToLower(q.Search)) {
		return false
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		return q.onlySearch()
	}
	fields := []struct{ key, want string }{
		{logging.FieldRunID, q.RunID},
		{logging.FieldInterviewID, q.InterviewID},
		{logging.FieldClipID, q.ClipID},
		{logging.FieldComponent, q.Component},
		{logging.FieldDecisionType, q.DecisionType},
		{"level", strings.ToLower(q.Level)},
	}
	for _, f := range fields {
		if f.want == "" {
			continue
		}
		got, _ := entry[f.key].(string)
		if got != f.want {
			return false
		}
	}
	return true
}

func (q Query) onlySearch() bool {
	rest := q
	rest.Search = ""
	return rest.Empty()
}

// Filter returns the lines of lines that match q.
func Filter(lines []string, q Query) []string {
	if q.Empty() {
		return lines
	}
	out := lines[:0:0]
	for _, line := range lines {
		if q.Match(line) {
			out = append(out, line)
		}
	}
	return out
}
