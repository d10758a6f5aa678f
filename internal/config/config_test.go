package config_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"clipsync/internal/config"
	"clipsync/internal/transcript"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("CLIPSYNC_TRANSCRIPTS_DIR", "")
	t.Setenv("CLIPSYNC_CLIPS_PATH", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != filepath.Join(tempHome, ".config", "clipsync", "config.toml") {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "clipsync")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if !filepath.IsAbs(cfg.Paths.TranscriptsDir) || !strings.HasSuffix(cfg.Paths.TranscriptsDir, filepath.Join("public", "transcripts")) {
		t.Fatalf("unexpected transcripts dir: %q", cfg.Paths.TranscriptsDir)
	}
	if cfg.HistoryPath() != filepath.Join(wantState, "history.db") {
		t.Fatalf("unexpected history path: %q", cfg.HistoryPath())
	}
	if cfg.Realign.Workers != min(runtime.NumCPU(), 64) {
		t.Fatalf("unexpected workers: %d", cfg.Realign.Workers)
	}
	if strings.Join(cfg.Realign.TranscriptFormats, ",") != "html,json,vtt" {
		t.Fatalf("unexpected formats: %v", cfg.Realign.TranscriptFormats)
	}
	if !cfg.Realign.Backup || cfg.Realign.DryRun || !cfg.History.Enabled {
		t.Fatalf("unexpected realign/history defaults: %+v %+v", cfg.Realign, cfg.History)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "clipsync.toml")

	type payload struct {
		Paths struct {
			TranscriptsDir string `toml:"transcripts_dir"`
			ClipsPath      string `toml:"clips_path"`
		} `toml:"paths"`
		Realign struct {
			Workers           int      `toml:"workers"`
			TranscriptFormats []string `toml:"transcript_formats"`
		} `toml:"realign"`
		Logging struct {
			Format string `toml:"format"`
			Level  string `toml:"level"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Paths.TranscriptsDir = filepath.Join(tempDir, "transcripts")
	custom.Paths.ClipsPath = filepath.Join(tempDir, "clips.yaml")
	custom.Realign.Workers = 3
	custom.Realign.TranscriptFormats = []string{" VTT ", "html", "vtt"}
	custom.Logging.Format = "JSON"
	custom.Logging.Level = "Debug"

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if cfg.Paths.ClipsPath != custom.Paths.ClipsPath {
		t.Fatalf("unexpected clips path: %q", cfg.Paths.ClipsPath)
	}
	if cfg.Realign.Workers != 3 {
		t.Fatalf("unexpected workers: %d", cfg.Realign.Workers)
	}
	if strings.Join(cfg.Realign.TranscriptFormats, ",") != "vtt,html" {
		t.Fatalf("formats not normalized: %v", cfg.Realign.TranscriptFormats)
	}
	if got := cfg.TranscriptFormats(); len(got) != 2 || got[0] != transcript.FormatVTT || got[1] != transcript.FormatHTML {
		t.Fatalf("unexpected typed formats: %v", got)
	}
	if cfg.DatasetDir() != filepath.Dir(custom.Paths.ClipsPath) {
		t.Fatalf("unexpected dataset dir: %q", cfg.DatasetDir())
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("logging not normalized: %+v", cfg.Logging)
	}
}

func TestEnvFallbacksOverrideFile(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("CLIPSYNC_TRANSCRIPTS_DIR", filepath.Join(tempDir, "env-transcripts"))
	t.Setenv("CLIPSYNC_CLIPS_PATH", filepath.Join(tempDir, "env-clips.json"))

	cfg, _, _, err := config.Load(filepath.Join(tempDir, "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.TranscriptsDir != filepath.Join(tempDir, "env-transcripts") {
		t.Fatalf("env transcripts dir ignored: %q", cfg.Paths.TranscriptsDir)
	}
	if cfg.Paths.ClipsPath != filepath.Join(tempDir, "env-clips.json") {
		t.Fatalf("env clips path ignored: %q", cfg.Paths.ClipsPath)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"workers", "[realign]\nworkers = 500\n", "realign.workers"},
		{"format", "[realign]\ntranscript_formats = [\"srt\"]\n", "unsupported format"},
		{"log format", "[logging]\nformat = \"xml\"\n", "logging.format"},
		{"log level", "[logging]\nlevel = \"loud\"\n", "logging.level"},
		{"clips extension", "[paths]\nclips_path = \"clips.ts\"\n", "paths.clips_path"},
		{"unknown key", "[paths]\nclip_path = \"clips.json\"\n", "clip_path"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("CLIPSYNC_CLIPS_PATH", "")
			path := filepath.Join(t.TempDir(), "clipsync.toml")
			if err := os.WriteFile(path, []byte(tc.body), 0o644); err != nil {
				t.Fatal(err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatalf("expected error containing %q", tc.want)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestCreateSampleLoads(t *testing.T) {
	t.Setenv("CLIPSYNC_TRANSCRIPTS_DIR", "")
	t.Setenv("CLIPSYNC_CLIPS_PATH", "")
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.Logging.RetentionDays != 30 || !cfg.Realign.Backup {
		t.Fatalf("sample values not applied: %+v", cfg)
	}
}
