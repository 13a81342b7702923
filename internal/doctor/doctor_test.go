package doctor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Srijith-23/Wake-Sleep-model/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	cfg.Paths.StateDir = filepath.Join(t.TempDir(), "state")
	return cfg
}

func findResult(t *testing.T, results []Result, name string) Result {
	t.Helper()
	for _, r := range results {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("no result named %q in %+v", name, results)
	return Result{}
}

func TestRunReportsMissingAPIKey(t *testing.T) {
	cfg := testConfig(t)
	cfg.Deepgram.APIKey = ""

	r := findResult(t, Run(cfg), "deepgram api key")
	if r.Pass {
		t.Fatalf("expected api key check to fail")
	}
	if !strings.Contains(r.Detail, "DEEPGRAM_API_KEY") {
		t.Fatalf("detail should mention env var: %q", r.Detail)
	}
}

func TestRunPassesWithConfiguredEnvironment(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t)

	script := filepath.Join(dir, "recorder.sh")
	if err := os.WriteFile(script, []byte("#!/usr/bin/env bash\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	cfgPath := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(cfgPath, []byte("# test\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	rulesPath := filepath.Join(dir, "subs.rules")
	if err := os.WriteFile(rulesPath, []byte("teh => the\nfoo => bar\n"), 0o600); err != nil {
		t.Fatalf("write rules: %v", err)
	}

	cfg.Paths.ConfigPath = cfgPath
	cfg.Paths.StateDir = filepath.Join(dir, "state")
	cfg.Audio.RecorderCommand = script
	cfg.Deepgram.APIKey = "key"
	cfg.Rules.Path = rulesPath

	for _, r := range Run(cfg) {
		if !r.Pass {
			t.Fatalf("check %q failed: %s", r.Name, r.Detail)
		}
	}

	r := findResult(t, Run(cfg), "rules file")
	if !strings.Contains(r.Detail, "2 rules") {
		t.Fatalf("expected rule count in detail, got %q", r.Detail)
	}
}

func TestRunMissingRulesFileIsNotFatal(t *testing.T) {
	cfg := testConfig(t)
	cfg.Rules.Path = filepath.Join(t.TempDir(), "absent.rules")

	r := findResult(t, Run(cfg), "rules file")
	if !r.Pass {
		t.Fatalf("missing rules file should not fail doctor: %+v", r)
	}
	if !strings.Contains(r.Detail, "disabled") {
		t.Fatalf("detail should note substitutions disabled: %q", r.Detail)
	}
}

func TestRunRejectsIdenticalTriggerPhrases(t *testing.T) {
	cfg := testConfig(t)
	cfg.Controller.WakeWord = "Go"
	cfg.Controller.SleepWord = "go"

	r := findResult(t, Run(cfg), "trigger phrases")
	if r.Pass {
		t.Fatalf("identical phrases should fail the check")
	}
}

func TestRunRejectsNonExecutableRecorderPath(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "not-exec")
	if err := os.WriteFile(plain, []byte("data"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg := testConfig(t)
	cfg.Audio.RecorderCommand = plain

	r := findResult(t, Run(cfg), "recorder command")
	if r.Pass {
		t.Fatalf("non-executable recorder should fail: %+v", r)
	}
}
