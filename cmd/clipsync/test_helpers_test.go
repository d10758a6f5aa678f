package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clipsync/internal/clips"
	"clipsync/internal/config"
	"clipsync/internal/testsupport"
	"clipsync/internal/transcript"
)

const (
	testTranscript = "Well I went to the meeting. Andy was like, I've seen the light. " +
		"Software should be free, at least the operating system. " +
		"And we talked for hours about many other things that day. " +
		"Software that should be part of the commons in the way that the phone system is, is a utility. " +
		"Then we left."
	testQuote = "Andy was like, I've seen the light. Software should be free, at least the operating system..." +
		"Software that should be part of the commons in the way that the phone system is, is a utility."
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	words      []transcript.Word
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	homeDir := filepath.Join(testsupport.BaseDir(cfg), "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("CLIPSYNC_TRANSCRIPTS_DIR", "")
	t.Setenv("CLIPSYNC_CLIPS_PATH", "")

	words := testsupport.TimedWords(testTranscript, 100, 0.5)
	testsupport.WriteTranscriptHTML(t, cfg.Paths.TranscriptsDir, "bart-decrem", words)
	testsupport.WriteDataset(t, cfg.Paths.ClipsPath, []clips.Clip{
		{ID: "bart-free-software", InterviewID: "bart-decrem", Title: "Free software", Transcript: testQuote, StartTime: 1, EndTime: 2, Duration: 1},
		{ID: "ghost-clip", InterviewID: "ghost", Transcript: "nothing to see", StartTime: 5, EndTime: 50, Duration: 45},
	})

	configPath := filepath.Join(homeDir, ".config", "clipsync", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, words: words}
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
transcripts_dir = %q
clips_path = %q
state_dir = %q
log_dir = %q

[realign]
workers = %d
backup = true

[logging]
level = %q
`,
		cfg.Paths.TranscriptsDir,
		cfg.Paths.ClipsPath,
		cfg.Paths.StateDir,
		cfg.Paths.LogDir,
		cfg.Realign.Workers,
		cfg.Logging.Level,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
