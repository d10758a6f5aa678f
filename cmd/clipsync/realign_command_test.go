package main

import (
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"clipsync/internal/clips"
	"clipsync/internal/history"
	"clipsync/internal/realign"
	"clipsync/internal/testsupport"
)

func TestRealignWritesDatasetAndHistory(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, "realign", "--json")
	if err != nil {
		t.Fatalf("realign: %v", err)
	}
	var result struct {
		RunID   string         `json:"run_id"`
		Counts  realign.Counts `json:"counts"`
		Written bool           `json:"written"`
		Backup  string         `json:"backup_path"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode realign output: %v\n%s", err, out)
	}
	if !result.Written || result.RunID == "" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Counts.Resolved != 1 || result.Counts.Unavailable != 1 {
		t.Fatalf("unexpected counts: %+v", result.Counts)
	}

	ds := testsupport.ReadDataset(t, env.cfg.Paths.ClipsPath)
	clip, _ := ds.Get("bart-free-software")
	if clip.StartTime != 103 || clip.EndTime <= clip.StartTime {
		t.Fatalf("dataset not rewritten: %+v", clip)
	}
	ghost, _ := ds.Get("ghost-clip")
	if ghost.StartTime != 5 || ghost.EndTime != 50 {
		t.Fatalf("ghost clip changed: %+v", ghost)
	}
	backup := testsupport.ReadDataset(t, clips.BackupPath(env.cfg.Paths.ClipsPath))
	if old, _ := backup.Get("bart-free-software"); old.StartTime != 1 {
		t.Fatalf("backup does not hold the previous dataset: %+v", old)
	}

	out, _, err = runCLI(t, env.configPath, "history", "--json")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	var runs []history.Run
	if err := json.Unmarshal([]byte(out), &runs); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != result.RunID || runs[0].Counts.Changed != 1 {
		t.Fatalf("unexpected history: %+v", runs)
	}

	out, _, err = runCLI(t, env.configPath, "history", "show", result.RunID[:8])
	if err != nil {
		t.Fatalf("history show: %v", err)
	}
	requireContains(t, out, "bart-free-software")
	requireContains(t, out, "ghost-clip")

	out, _, err = runCLI(t, env.configPath, "history", "clip", "bart-free-software")
	if err != nil {
		t.Fatalf("history clip: %v", err)
	}
	requireContains(t, out, result.RunID[:8])
	requireContains(t, out, "1:43.00")
}

func TestRealignTwiceChangesNothing(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, env.configPath, "realign"); err != nil {
		t.Fatalf("first realign: %v", err)
	}
	first, err := os.ReadFile(env.cfg.Paths.ClipsPath)
	if err != nil {
		t.Fatal(err)
	}
	out, _, err := runCLI(t, env.configPath, "realign")
	if err != nil {
		t.Fatalf("second realign: %v", err)
	}
	requireContains(t, out, "1 (0 changed")
	second, err := os.ReadFile(env.cfg.Paths.ClipsPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Fatal("second run rewrote the dataset with different content")
	}
}

func TestRealignDryRunLeavesDataset(t *testing.T) {
	env := setupCLITestEnv(t)
	before, err := os.ReadFile(env.cfg.Paths.ClipsPath)
	if err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, env.configPath, "realign", "--dry-run", "--interview", "bart-decrem")
	if err != nil {
		t.Fatalf("realign --dry-run: %v", err)
	}
	requireContains(t, out, "Realignment of bart-decrem")
	requireContains(t, out, "bart-free-software")
	requireContains(t, out, "Dry run")
	if strings.Contains(out, "ghost-clip") {
		t.Fatalf("filtered run listed another interview:\n%s", out)
	}

	after, err := os.ReadFile(env.cfg.Paths.ClipsPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Fatal("dry run modified the dataset")
	}
	if _, err := os.Stat(clips.BackupPath(env.cfg.Paths.ClipsPath)); !os.IsNotExist(err) {
		t.Fatalf("dry run wrote a backup: %v", err)
	}

	out, _, err = runCLI(t, env.configPath, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No runs recorded yet")
}

func TestRealignUnknownInterview(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, env.configPath, "realign", "--interview", "nobody")
	if !errors.Is(err, realign.ErrUnknownInterview) {
		t.Fatalf("expected unknown interview error, got %v", err)
	}
}

func TestRealignSkipsMalformedClips(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteDataset(t, env.cfg.Paths.ClipsPath, []clips.Clip{
		{ID: "bart-free-software", InterviewID: "bart-decrem", Transcript: testQuote, StartTime: 1, EndTime: 2, Duration: 1},
		{ID: "draft", InterviewID: "bart-decrem", Transcript: "", StartTime: 7, EndTime: 8, Duration: 1},
		{ID: "stray", InterviewID: "", Transcript: testQuote, StartTime: -1, EndTime: 4, Duration: 5},
	})

	out, _, err := runCLI(t, env.configPath, "realign", "--json")
	if err != nil {
		t.Fatalf("realign: %v", err)
	}
	var result struct {
		Counts  realign.Counts       `json:"counts"`
		Clips   []realign.ClipReport `json:"clips"`
		Written bool                 `json:"written"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode realign output: %v\n%s", err, out)
	}
	if !result.Written {
		t.Fatal("dataset not written")
	}
	if result.Counts.Resolved != 1 || result.Counts.Unresolved != 1 || result.Counts.Invalid != 1 {
		t.Fatalf("unexpected counts: %+v", result.Counts)
	}
	byID := make(map[string]realign.ClipReport, len(result.Clips))
	for _, c := range result.Clips {
		byID[c.ClipID] = c
	}
	if c := byID["draft"]; c.Status != realign.StatusUnresolved || !strings.Contains(c.Reason, "quote has no words") {
		t.Fatalf("draft report = %+v", c)
	}
	if c := byID["stray"]; c.Status != realign.StatusInvalid || !strings.Contains(c.Reason, "InterviewID is required") {
		t.Fatalf("stray report = %+v", c)
	}

	ds := testsupport.ReadDataset(t, env.cfg.Paths.ClipsPath)
	if good, _ := ds.Get("bart-free-software"); good.StartTime != 103 {
		t.Fatalf("good clip not realigned: %+v", good)
	}
	if draft, _ := ds.Get("draft"); draft.StartTime != 7 || draft.EndTime != 8 {
		t.Fatalf("draft clip changed: %+v", draft)
	}
	if stray, _ := ds.Get("stray"); stray.StartTime != -1 || stray.EndTime != 4 || stray.Transcript != testQuote {
		t.Fatalf("stray clip changed: %+v", stray)
	}
}

func TestRealignRefusesLockedDataset(t *testing.T) {
	env := setupCLITestEnv(t)

	lock := flock.New(clips.LockPath(env.cfg.Paths.ClipsPath))
	locked, err := lock.TryLock()
	if err != nil || !locked {
		t.Fatalf("take lock: %v %v", locked, err)
	}
	defer func() { _ = lock.Unlock() }()

	before, err := os.ReadFile(env.cfg.Paths.ClipsPath)
	if err != nil {
		t.Fatal(err)
	}
	_, _, err = runCLI(t, env.configPath, "realign")
	if !errors.Is(err, clips.ErrDatasetLocked) {
		t.Fatalf("expected locked dataset error, got %v", err)
	}
	after, err := os.ReadFile(env.cfg.Paths.ClipsPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Fatal("locked dataset was modified")
	}

	// Dry runs only read, so they proceed while another run holds the lock.
	if _, _, err := runCLI(t, env.configPath, "realign", "--dry-run"); err != nil {
		t.Fatalf("dry run while locked: %v", err)
	}
}

func TestLocateCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, "locate", "-i", "bart-decrem", "Software should be free, at least the operating system.")
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	requireContains(t, out, "[OK] matched")
	requireContains(t, out, "Software should be free, at least the operating system.")

	out, _, err = runCLI(t, env.configPath, "locate", "--interview", "bart-decrem", "--quote", "zebu oxbow knurl", "--json")
	if err != nil {
		t.Fatalf("locate --json: %v", err)
	}
	var res struct {
		Outcome struct {
			Kind string `json:"kind"`
		} `json:"outcome"`
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode locate: %v", err)
	}
	if res.Outcome.Kind != "no_match" || res.Reason == "" {
		t.Fatalf("unexpected lookup: %+v", res)
	}

	if _, _, err := runCLI(t, env.configPath, "locate", "--quote", "anything"); err == nil {
		t.Fatal("expected error without --interview")
	}
}
