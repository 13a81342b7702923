package doctor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/Srijith-23/Wake-Sleep-model/internal/audio"
	"github.com/Srijith-23/Wake-Sleep-model/internal/config"
	"github.com/Srijith-23/Wake-Sleep-model/internal/rules"
)

// Result represents a diagnostic check.
type Result struct {
	Name   string
	Pass   bool
	Detail string
}

// Run executes doctor checks against the loaded configuration.
func Run(cfg *config.Config) []Result {
	return []Result{
		checkConfigFile(cfg.Paths.ConfigPath),
		checkRecorder(cfg.Audio.RecorderCommand),
		checkAPIKey(cfg.Deepgram.APIKey),
		checkTriggerPhrases(cfg),
		checkRulesFile(cfg.Rules.Path),
		checkStateDir(cfg.Paths.StateDir),
	}
}

func checkConfigFile(path string) Result {
	label := "config file"
	if path == "" {
		return Result{Name: label, Pass: false, Detail: "not set"}
	}
	if _, err := os.Stat(path); err != nil {
		return Result{Name: label, Pass: false, Detail: err.Error()}
	}
	return Result{Name: label, Pass: true, Detail: path}
}

func checkRecorder(raw string) Result {
	label := "recorder command"
	command, _, err := audio.ParseCommandLine(raw)
	if err != nil {
		return Result{Name: label, Pass: false, Detail: err.Error()}
	}
	if strings.Contains(command, "/") {
		info, err := os.Stat(command)
		if err != nil {
			return Result{Name: label, Pass: false, Detail: err.Error()}
		}
		if info.IsDir() || info.Mode().Perm()&0o111 == 0 {
			return Result{Name: label, Pass: false, Detail: "not an executable file"}
		}
		return Result{Name: label, Pass: true, Detail: command}
	}
	resolved, err := exec.LookPath(command)
	if err != nil {
		return Result{Name: label, Pass: false, Detail: err.Error()}
	}
	return Result{Name: label, Pass: true, Detail: resolved}
}

func checkAPIKey(key string) Result {
	label := "deepgram api key"
	if strings.TrimSpace(key) == "" {
		return Result{Name: label, Pass: false, Detail: "not set (set DEEPGRAM_API_KEY or deepgram.api_key)"}
	}
	return Result{Name: label, Pass: true, Detail: "configured"}
}

func checkTriggerPhrases(cfg *config.Config) Result {
	label := "trigger phrases"
	wake := strings.TrimSpace(cfg.Controller.WakeWord)
	sleep := strings.TrimSpace(cfg.Controller.SleepWord)
	if wake == "" || sleep == "" {
		return Result{Name: label, Pass: false, Detail: "wake_word and sleep_word must be non-empty"}
	}
	if strings.EqualFold(wake, sleep) {
		return Result{Name: label, Pass: false, Detail: "wake_word and sleep_word are identical"}
	}
	return Result{Name: label, Pass: true, Detail: fmt.Sprintf("wake=%q sleep=%q", wake, sleep)}
}

func checkRulesFile(path string) Result {
	label := "rules file"
	if path == "" {
		return Result{Name: label, Pass: true, Detail: "not configured (substitutions disabled)"}
	}
	if _, err := os.Stat(path); err != nil {
		// A missing rules file is a supported state, not a failure.
		return Result{Name: label, Pass: true, Detail: "not found (substitutions disabled)"}
	}
	engine, err := rules.NewEngine(path, 0)
	if err != nil {
		return Result{Name: label, Pass: false, Detail: err.Error()}
	}
	return Result{Name: label, Pass: true, Detail: fmt.Sprintf("%d rules loaded", engine.Count())}
}

func checkStateDir(dir string) Result {
	label := "state dir"
	if dir == "" {
		return Result{Name: label, Pass: false, Detail: "not set"}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{Name: label, Pass: false, Detail: err.Error()}
	}
	probe := filepath.Join(dir, ".doctor-probe")
	if err := os.WriteFile(probe, []byte("ok"), 0o600); err != nil {
		return Result{Name: label, Pass: false, Detail: "not writable: " + err.Error()}
	}
	_ = os.Remove(probe)
	return Result{Name: label, Pass: true, Detail: dir}
}
