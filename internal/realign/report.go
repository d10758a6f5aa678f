package realign

import (
	"math"
	"time"

	"clipsync/internal/align"
)

// Status is the per-clip result of a run.
type Status string

const (
	// StatusResolved means new times were computed and applied.
	StatusResolved Status = "resolved"
	// StatusUnresolved means the start anchor was not found; times are kept.
	StatusUnresolved Status = "unresolved"
	// StatusTranscriptUnavailable means the interview transcript could not be
	// loaded; times are kept.
	StatusTranscriptUnavailable Status = "transcript_unavailable"
	// StatusInvalid means the clip failed field validation and was skipped;
	// it is written back unchanged.
	StatusInvalid Status = "invalid"
)

// timeTolerance is the drift below which a resolved clip counts as unchanged.
const timeTolerance = 0.005

// Filter narrows a run.
type Filter struct {
	// InterviewID restricts the run to one interview when set.
	InterviewID string `json:"interview_id,omitempty"`
}

// ClipReport records what happened to one clip.
type ClipReport struct {
	ClipID      string     `json:"clip_id"`
	InterviewID string     `json:"interview_id"`
	Title       string     `json:"title,omitempty"`
	Status      Status     `json:"status"`
	Kind        align.Kind `json:"kind"`
	OldStart    float64    `json:"old_start"`
	OldEnd      float64    `json:"old_end"`
	NewStart    float64    `json:"new_start,omitempty"`
	NewEnd      float64    `json:"new_end,omitempty"`
	StartScore  float64    `json:"start_score,omitempty"`
	EndScore    float64    `json:"end_score,omitempty"`
	// VerifyScore is the cosine similarity between the quote and the
	// transcript text inside the new span.
	VerifyScore float64 `json:"verify_score,omitempty"`
	Reason      string  `json:"reason,omitempty"`
}

// Changed reports whether a resolved clip moved by more than the tolerance.
func (c ClipReport) Changed() bool {
	if c.Status != StatusResolved {
		return false
	}
	return math.Abs(c.NewStart-c.OldStart) > timeTolerance || math.Abs(c.NewEnd-c.OldEnd) > timeTolerance
}

// Report summarizes a run. Clips appear in dataset order.
type Report struct {
	RunID      string       `json:"run_id"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Filter     Filter       `json:"filter"`
	DryRun     bool         `json:"dry_run"`
	Clips      []ClipReport `json:"clips"`
}

// Counts tallies clip outcomes.
type Counts struct {
	Total       int `json:"total"`
	Resolved    int `json:"resolved"`
	Changed     int `json:"changed"`
	Unresolved  int `json:"unresolved"`
	Unavailable int `json:"transcript_unavailable"`
	Invalid     int `json:"invalid"`
	Matched     int `json:"matched"`
	Sentence    int `json:"sentence_fallback"`
	Default     int `json:"default_fallback"`
}

// Counts tallies the report.
func (r *Report) Counts() Counts {
	var c Counts
	for _, clip := range r.Clips {
		c.Total++
		switch clip.Status {
		case StatusResolved:
			c.Resolved++
			if clip.Changed() {
				c.Changed++
			}
			switch clip.Kind {
			case align.Matched:
				c.Matched++
			case align.FallbackSentence:
				c.Sentence++
			case align.FallbackDefault:
				c.Default++
			}
		case StatusUnresolved:
			c.Unresolved++
		case StatusTranscriptUnavailable:
			c.Unavailable++
		case StatusInvalid:
			c.Invalid++
		}
	}
	return c
}

// WithStatus returns the clip reports that have status s.
func (r *Report) WithStatus(s Status) []ClipReport {
	var out []ClipReport
	for _, clip := range r.Clips {
		if clip.Status == s {
			out = append(out, clip)
		}
	}
	return out
}

// Duration returns how long the run took.
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
