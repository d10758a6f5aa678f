package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"clipsync/internal/preflight"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.cfg.Paths.ClipsPath)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, "", "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, "", "config", "init", "--path", target); err == nil {
		t.Fatal("expected init to refuse overwriting without --overwrite")
	}
}

func TestDoctorPassesOnReadyWorkspace(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, "doctor")
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	requireContains(t, out, "Clip dataset")
	requireContains(t, out, "[WARN] 1 of 2 interviews missing: ghost")

	out, _, err = runCLI(t, env.configPath, "doctor", "--json")
	if err != nil {
		t.Fatalf("doctor --json: %v", err)
	}
	var results []preflight.Result
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("decode doctor: %v", err)
	}
	if len(results) != 6 {
		t.Fatalf("expected 6 checks, got %d", len(results))
	}
}

func TestDoctorFailsWithoutDataset(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.Remove(env.cfg.Paths.ClipsPath); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, env.configPath, "doctor")
	if err == nil {
		t.Fatalf("expected doctor to fail:\n%s", out)
	}
	requireContains(t, err.Error(), "1 check(s) failed")
	requireContains(t, out, "[ERROR]")
}

func TestLogsShowsRunWarnings(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Logging.Level = "warn"
	writeTestConfig(t, env.configPath, env.cfg)

	if _, _, err := runCLI(t, env.configPath, "realign"); err != nil {
		t.Fatalf("realign: %v", err)
	}
	out, _, err := runCLI(t, env.configPath, "logs", "--interview", "ghost", "-n", "0")
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	requireContains(t, out, "transcript unavailable")
	requireContains(t, out, `"interview_id":"ghost"`)

	out, _, err = runCLI(t, env.configPath, "logs", "--list")
	if err != nil {
		t.Fatalf("logs --list: %v", err)
	}
	requireContains(t, out, "clipsync-")
}
