package realign_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"clipsync/internal/align"
	"clipsync/internal/clips"
	"clipsync/internal/logging"
	"clipsync/internal/realign"
	"clipsync/internal/testsupport"
	"clipsync/internal/transcript"
)

const bartTranscript = "Well I went to the meeting. Andy was like, I've seen the light. " +
	"Software should be free, at least the operating system. " +
	"And we talked for hours about many other things that day. " +
	"Software that should be part of the commons in the way that the phone system is, is a utility. " +
	"Then we left."

const bartQuote = "Andy was like, I've seen the light. Software should be free, at least the operating system..." +
	"Software that should be part of the commons in the way that the phone system is, is a utility."

type fixture struct {
	source *transcript.FileSource
	words  []transcript.Word
	ds     *clips.Dataset
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	words := testsupport.TimedWords(bartTranscript, 100, 0.5)
	testsupport.WriteTranscriptHTML(t, cfg.Paths.TranscriptsDir, "bart-decrem", words)

	ds, err := clips.NewDataset([]clips.Clip{
		{ID: "bart-free-software", InterviewID: "bart-decrem", Transcript: bartQuote, StartTime: 1, EndTime: 2, Duration: 1},
		{ID: "ghost-clip", InterviewID: "ghost", Transcript: "nothing to see", StartTime: 5, EndTime: 50, Duration: 45},
		{ID: "bart-unmatched", InterviewID: "bart-decrem", Transcript: "zebu oxbow knurl", StartTime: 7, EndTime: 9, Duration: 2},
	})
	if err != nil {
		t.Fatal(err)
	}
	return fixture{
		source: transcript.NewFileSource(cfg.Paths.TranscriptsDir, nil),
		words:  words,
		ds:     ds,
	}
}

func wordAt(t *testing.T, words []transcript.Word, text string) transcript.Word {
	t.Helper()
	for _, w := range words {
		if w.Text == text {
			return w
		}
	}
	t.Fatalf("word %q missing", text)
	return transcript.Word{}
}

func TestRunResolvesAndReports(t *testing.T) {
	f := newFixture(t)
	r := realign.NewResolver(f.source, 4, logging.NewNop())

	out, report, err := r.Run(context.Background(), f.ds, realign.Filter{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.RunID == "" || report.FinishedAt.Before(report.StartedAt) {
		t.Fatalf("run metadata missing: %+v", report)
	}

	if len(report.Clips) != 3 {
		t.Fatalf("expected 3 clip reports, got %d", len(report.Clips))
	}
	counts := report.Counts()
	if counts.Resolved != 1 || counts.Unresolved != 1 || counts.Unavailable != 1 || counts.Matched != 1 || counts.Changed != 1 {
		t.Fatalf("unexpected counts: %+v", counts)
	}

	resolved := report.WithStatus(realign.StatusResolved)[0]
	andy := wordAt(t, f.words, "Andy")
	utility := wordAt(t, f.words, "utility.")
	if resolved.ClipID != "bart-free-software" || resolved.Kind != align.Matched {
		t.Fatalf("unexpected resolution: %+v", resolved)
	}
	if resolved.NewStart != andy.Timestamp || resolved.NewEnd != utility.End() {
		t.Fatalf("times = %v-%v, want %v-%v", resolved.NewStart, resolved.NewEnd, andy.Timestamp, utility.End())
	}
	if resolved.OldStart != 1 || resolved.OldEnd != 2 {
		t.Fatalf("old times not recorded: %+v", resolved)
	}
	if resolved.VerifyScore <= 0.5 || resolved.VerifyScore > 1 {
		t.Fatalf("verify score = %v", resolved.VerifyScore)
	}

	clip, _ := out.Get("bart-free-software")
	if clip.StartTime != andy.Timestamp || clip.EndTime != utility.End() || clip.Duration != utility.End()-andy.Timestamp {
		t.Fatalf("dataset copy not updated: %+v", clip)
	}
	unmatched, _ := out.Get("bart-unmatched")
	if unmatched.StartTime != 7 || unmatched.EndTime != 9 {
		t.Fatalf("unresolved clip changed: %+v", unmatched)
	}
	reason := report.WithStatus(realign.StatusUnresolved)[0].Reason
	if !strings.Contains(reason, align.ErrNoStartMatch.Error()) {
		t.Fatalf("unexpected unresolved reason %q", reason)
	}

	orig, _ := f.ds.Get("bart-free-software")
	if orig.StartTime != 1 {
		t.Fatal("source dataset was mutated")
	}
}

func TestRunReportsMissingTranscript(t *testing.T) {
	f := newFixture(t)
	r := realign.NewResolver(f.source, 2, nil)

	out, report, err := r.Run(context.Background(), f.ds, realign.Filter{InterviewID: "ghost"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(report.Clips) != 1 {
		t.Fatalf("filter not applied: %+v", report.Clips)
	}
	ghost := report.Clips[0]
	if ghost.Status != realign.StatusTranscriptUnavailable || ghost.ClipID != "ghost-clip" {
		t.Fatalf("unexpected report: %+v", ghost)
	}
	if !strings.Contains(ghost.Reason, transcript.ErrUnavailable.Error()) {
		t.Fatalf("reason %q does not mention unavailable transcript", ghost.Reason)
	}
	clip, _ := out.Get("ghost-clip")
	if clip.StartTime != 5 || clip.EndTime != 50 || clip.Duration != 45 {
		t.Fatalf("ghost clip changed: %+v", clip)
	}
	untouched, _ := out.Get("bart-free-software")
	if untouched.StartTime != 1 {
		t.Fatal("clip outside the filter was realigned")
	}
}

func TestRunUnknownInterview(t *testing.T) {
	f := newFixture(t)
	r := realign.NewResolver(f.source, 2, nil)
	if _, _, err := r.Run(context.Background(), f.ds, realign.Filter{InterviewID: "nobody"}); !errors.Is(err, realign.ErrUnknownInterview) {
		t.Fatalf("err = %v, want ErrUnknownInterview", err)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	f := newFixture(t)
	r := realign.NewResolver(f.source, 3, nil)

	first, _, err := r.Run(context.Background(), f.ds, realign.Filter{})
	if err != nil {
		t.Fatal(err)
	}
	second, report, err := r.Run(context.Background(), first, realign.Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if report.Counts().Changed != 0 {
		t.Fatalf("second run changed clips: %+v", report.Counts())
	}
	for _, c := range first.Clips() {
		again, _ := second.Get(c.ID)
		if again.StartTime != c.StartTime || again.EndTime != c.EndTime {
			t.Fatalf("%s moved on re-run: %+v vs %+v", c.ID, c, again)
		}
	}
}

type countingSource struct {
	inner transcript.Source
	mu    sync.Mutex
	loads map[string]int
}

func (s *countingSource) Load(ctx context.Context, id string) (*transcript.Transcript, error) {
	s.mu.Lock()
	s.loads[id]++
	s.mu.Unlock()
	return s.inner.Load(ctx, id)
}

func TestRunLoadsEachTranscriptOnce(t *testing.T) {
	f := newFixture(t)
	list := f.ds.Clips()
	for i := range 20 {
		list = append(list, clips.Clip{
			ID:          "bart-extra-" + string(rune('a'+i)),
			InterviewID: "bart-decrem",
			Transcript:  "we talked for hours about many other things",
		})
	}
	ds, err := clips.NewDataset(list)
	if err != nil {
		t.Fatal(err)
	}

	src := &countingSource{inner: f.source, loads: map[string]int{}}
	_, report, err := realign.NewResolver(src, 8, nil).Run(context.Background(), ds, realign.Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if src.loads["bart-decrem"] != 1 || src.loads["ghost"] != 1 {
		t.Fatalf("unexpected loads: %v", src.loads)
	}
	if report.Counts().Resolved != 21 {
		t.Fatalf("expected 21 resolved clips, got %+v", report.Counts())
	}
	if report.Clips[0].ClipID != "bart-free-software" || report.Clips[len(report.Clips)-1].ClipID != "ghost-clip" {
		t.Fatalf("report not grouped by interview in dataset order")
	}
}

func TestRunSkipsInvalidClips(t *testing.T) {
	f := newFixture(t)
	ds, err := clips.NewDataset([]clips.Clip{
		{ID: "bart-free-software", InterviewID: "bart-decrem", Transcript: bartQuote, StartTime: 1, EndTime: 2, Duration: 1},
		{ID: "bart-empty", InterviewID: "bart-decrem", Transcript: "", StartTime: 3, EndTime: 4, Duration: 1},
		{ID: "lost-negative", InterviewID: "lost", Transcript: bartQuote, StartTime: -2, EndTime: 4, Duration: 6},
	})
	if err != nil {
		t.Fatal(err)
	}

	src := &countingSource{inner: f.source, loads: map[string]int{}}
	out, report, err := realign.NewResolver(src, 2, logging.NewNop()).Run(context.Background(), ds, realign.Filter{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if src.loads["lost"] != 0 {
		t.Fatalf("transcript loaded for an interview with only invalid clips: %v", src.loads)
	}
	counts := report.Counts()
	if counts.Resolved != 1 || counts.Unresolved != 1 || counts.Invalid != 1 {
		t.Fatalf("unexpected counts: %+v", counts)
	}

	invalid := report.WithStatus(realign.StatusInvalid)
	if len(invalid) != 1 || invalid[0].ClipID != "lost-negative" || !strings.Contains(invalid[0].Reason, "StartTime") {
		t.Fatalf("unexpected invalid reports: %+v", invalid)
	}
	unresolved := report.WithStatus(realign.StatusUnresolved)
	if len(unresolved) != 1 || unresolved[0].ClipID != "bart-empty" || !strings.Contains(unresolved[0].Reason, "quote has no words") {
		t.Fatalf("unexpected unresolved reports: %+v", unresolved)
	}

	if c, _ := out.Get("lost-negative"); c.StartTime != -2 || c.EndTime != 4 || c.Duration != 6 {
		t.Fatalf("invalid clip changed: %+v", c)
	}
	if c, _ := out.Get("bart-free-software"); c.StartTime != wordAt(t, f.words, "Andy").Timestamp {
		t.Fatalf("valid clip not realigned: %+v", c)
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := realign.NewResolver(f.source, 2, nil).Run(ctx, f.ds, realign.Filter{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestLocate(t *testing.T) {
	f := newFixture(t)
	r := realign.NewResolver(f.source, 1, nil)

	res, err := r.Locate(context.Background(), "bart-decrem", "Software should be free, at least the operating system.")
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	span, ok := res.Outcome.Result()
	if !ok || span.Start != wordAt(t, f.words, "Software").Timestamp {
		t.Fatalf("unexpected outcome: %v", res.Outcome)
	}
	if !strings.HasPrefix(res.Excerpt, "Software should be free") || res.VerifyScore <= 0 {
		t.Fatalf("unexpected excerpt %q score %v", res.Excerpt, res.VerifyScore)
	}

	res, err = r.Locate(context.Background(), "bart-decrem", "zebu oxbow knurl")
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome.Kind != align.NoMatch || res.Reason == "" {
		t.Fatalf("expected no match with reason, got %+v", res)
	}

	if _, err := r.Locate(context.Background(), "ghost", "anything"); !errors.Is(err, transcript.ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}
