package realign

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"clipsync/internal/align"
	"clipsync/internal/clips"
	"clipsync/internal/logging"
	"clipsync/internal/textutil"
	"clipsync/internal/transcript"
)

// ErrUnknownInterview reports a filter naming an interview with no clips.
var ErrUnknownInterview = errors.New("no clips for interview")

// Resolver realigns clip datasets against a transcript source.
type Resolver struct {
	source  transcript.Source
	workers int
	logger  *slog.Logger
	now     func() time.Time
}

// NewResolver builds a Resolver running at most workers resolutions at once.
func NewResolver(source transcript.Source, workers int, logger *slog.Logger) *Resolver {
	return &Resolver{
		source:  source,
		workers: max(workers, 1),
		logger:  logging.NewComponentLogger(logger, "realign"),
		now:     time.Now,
	}
}

// loaded is one interview's transcript, or the reason it is missing.
type loaded struct {
	seq *align.Sequence
	err error
}

// Run resolves every clip selected by filter and returns an updated copy of
// ds together with the report. ds itself is never modified. The only error
// returned is context cancellation or an unknown filter interview; every
// other failure is recorded in the report.
func (r *Resolver) Run(ctx context.Context, ds *clips.Dataset, filter Filter) (*clips.Dataset, *Report, error) {
	report := &Report{
		RunID:     uuid.NewString(),
		StartedAt: r.now(),
		Filter:    filter,
	}
	ctx = logging.WithRunID(ctx, report.RunID)
	logger := logging.WithContext(ctx, r.logger)

	interviews := ds.Interviews()
	if filter.InterviewID != "" {
		if len(ds.ByInterview(filter.InterviewID)) == 0 {
			return nil, nil, fmt.Errorf("%w %q", ErrUnknownInterview, filter.InterviewID)
		}
		interviews = []string{filter.InterviewID}
	}

	logger.Info("realignment started",
		logging.String(logging.FieldEventType, "run_started"),
		logging.Int("interviews", len(interviews)),
		logging.Int("workers", r.workers),
	)

	var selected []clips.Clip
	for _, iv := range interviews {
		selected = append(selected, ds.ByInterview(iv)...)
	}

	// Invalid clips are reported on their own and never cost a transcript load.
	invalid := make([]error, len(selected))
	var needed []string
	seen := make(map[string]struct{}, len(interviews))
	for i, clip := range selected {
		if invalid[i] = clip.Validate(); invalid[i] != nil {
			continue
		}
		if _, ok := seen[clip.InterviewID]; !ok {
			seen[clip.InterviewID] = struct{}{}
			needed = append(needed, clip.InterviewID)
		}
	}

	transcripts, err := r.loadTranscripts(ctx, needed)
	if err != nil {
		return nil, nil, err
	}

	results := make([]ClipReport, len(selected))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, clip := range selected {
		if invalid[i] != nil {
			results[i] = r.skipClip(ctx, clip, invalid[i])
			continue
		}
		src := transcripts[clip.InterviewID]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.resolveClip(gctx, clip, src)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	out := ds.Clone()
	for _, res := range results {
		if res.Status != StatusResolved {
			continue
		}
		clip, _ := out.Get(res.ClipID)
		if err := out.Set(clip.WithTimes(res.NewStart, res.NewEnd)); err != nil {
			return nil, nil, err
		}
	}

	report.Clips = results
	report.FinishedAt = r.now()
	counts := report.Counts()
	logger.Info("realignment finished",
		logging.String(logging.FieldEventType, "run_finished"),
		logging.Int("clips", counts.Total),
		logging.Int("resolved", counts.Resolved),
		logging.Int("changed", counts.Changed),
		logging.Int("unresolved", counts.Unresolved),
		logging.Int("transcript_unavailable", counts.Unavailable),
		logging.Int("invalid", counts.Invalid),
		logging.Duration("run_duration", report.Duration()),
	)
	return out, report, nil
}

// loadTranscripts fetches each interview's transcript once, concurrently.
// Load failures are kept per interview rather than returned.
func (r *Resolver) loadTranscripts(ctx context.Context, interviews []string) (map[string]loaded, error) {
	results := make([]loaded, len(interviews))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, iv := range interviews {
		g.Go(func() error {
			t, err := r.source.Load(gctx, iv)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				logging.WarnWithContext(logging.WithContext(logging.WithInterviewID(gctx, iv), r.logger),
					"transcript unavailable; interview clips keep their times", "transcript_unavailable",
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "check paths.transcripts_dir and realign.transcript_formats"),
					logging.String(logging.FieldImpact, "clips for this interview are not realigned"),
				)
				results[i] = loaded{err: err}
				return nil
			}
			results[i] = loaded{seq: align.NewSequence(t.Words)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out := make(map[string]loaded, len(interviews))
	for i, iv := range interviews {
		out[iv] = results[i]
	}
	return out, nil
}

func newClipReport(clip clips.Clip) ClipReport {
	return ClipReport{
		ClipID:      clip.ID,
		InterviewID: clip.InterviewID,
		Title:       clip.Title,
		OldStart:    clip.StartTime,
		OldEnd:      clip.EndTime,
	}
}

func (r *Resolver) skipClip(ctx context.Context, clip clips.Clip, err error) ClipReport {
	rep := newClipReport(clip)
	rep.Status = StatusInvalid
	rep.Reason = err.Error()
	ctx = logging.WithClipID(logging.WithInterviewID(ctx, clip.InterviewID), clip.ID)
	logging.WarnWithContext(logging.WithContext(ctx, r.logger), "clip failed validation; skipping", "clip_invalid",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "fix the clip fields in the dataset"),
		logging.String(logging.FieldImpact, "clip keeps its previous times"),
	)
	return rep
}

func (r *Resolver) resolveClip(ctx context.Context, clip clips.Clip, src loaded) ClipReport {
	rep := newClipReport(clip)
	if src.err != nil {
		rep.Status = StatusTranscriptUnavailable
		rep.Reason = src.err.Error()
		return rep
	}

	ctx = logging.WithClipID(logging.WithInterviewID(ctx, clip.InterviewID), clip.ID)
	logger := logging.WithContext(ctx, r.logger)

	out := align.Locate(src.seq, clip.Transcript)
	rep.Kind = out.Kind
	rep.StartScore = out.Start.Score
	span, ok := out.Result()
	if !ok {
		rep.Status = StatusUnresolved
		rep.Reason = out.Err.Error()
		logging.WarnWithContext(logger, "clip start not found; keeping previous times", "clip_unresolved",
			logging.Error(out.Err),
			logging.Float64("start_score", out.Start.Score),
			logging.String(logging.FieldErrorHint, "check the clip quote against the transcript"),
			logging.String(logging.FieldImpact, "clip keeps its previous times"),
		)
		return rep
	}

	rep.Status = StatusResolved
	rep.NewStart, rep.NewEnd = span.Start, span.End
	rep.EndScore = out.End.Score
	rep.VerifyScore = verifyScore(src.seq, clip.Transcript, out)

	attrs := []logging.Attr{
		logging.String("outcome", out.Kind.String()),
		logging.Float64("start", span.Start),
		logging.Float64("end", span.End),
		logging.Float64("start_score", out.Start.Score),
		logging.Float64("verify_score", rep.VerifyScore),
	}
	if out.Kind != align.Matched {
		attrs = append(attrs, logging.DecisionAttrs("end_fallback", out.Kind.String(),
			textutil.Ternary(out.Kind == align.FallbackSentence,
				"no end window matched; ended at sentence boundary",
				"no end window or sentence boundary; used default duration"))...)
	}
	logger.Debug("clip resolved", logging.Args(attrs...)...)
	return rep
}

// Lookup is the outcome of locating one ad-hoc quote.
type Lookup struct {
	InterviewID string        `json:"interview_id"`
	Transcript  string        `json:"transcript"`
	Outcome     align.Outcome `json:"outcome"`
	// Excerpt is the transcript text inside the resolved span.
	Excerpt     string  `json:"excerpt,omitempty"`
	VerifyScore float64 `json:"verify_score,omitempty"`
	Reason      string  `json:"reason,omitempty"`
}

// Locate resolves a single quote against one interview's transcript without
// touching any dataset.
func (r *Resolver) Locate(ctx context.Context, interviewID, quote string) (*Lookup, error) {
	t, err := r.source.Load(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	seq := align.NewSequence(t.Words)
	out := align.Locate(seq, quote)
	res := &Lookup{InterviewID: interviewID, Transcript: t.Path, Outcome: out}
	if _, ok := out.Result(); ok {
		res.Excerpt = seq.Text(out.Start.Index, out.End.Index)
		res.VerifyScore = verifyScore(seq, quote, out)
	} else {
		res.Reason = out.Err.Error()
	}
	return res, nil
}

// verifyScore compares the quote with the transcript text inside the
// resolved span.
func verifyScore(seq *align.Sequence, quote string, out align.Outcome) float64 {
	span := seq.Text(out.Start.Index, out.End.Index)
	return textutil.CosineSimilarity(textutil.NewFingerprint(quote), textutil.NewFingerprint(span))
}
