package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Srijith-23/Wake-Sleep-model/internal/domain"
)

func TestBuildSuccess(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("DEEPGRAM_API_KEY", "test-key")

	services, err := Build(noopEventSink{}, "")
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if services.Controller == nil {
		t.Fatalf("expected controller")
	}
	if !services.Controller.Supported() {
		t.Fatalf("controller should be supported with api key and recorder configured")
	}
	if services.Config.Paths.ConfigPath == "" {
		t.Fatalf("expected config path to be recorded")
	}
	if services.Logger == nil {
		t.Fatalf("expected configured logger")
	}
}

func TestBuildWritesTemplateConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	services, err := Build(noopEventSink{}, "")
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if _, err := os.Stat(services.Config.Paths.ConfigPath); err != nil {
		t.Fatalf("expected template config on disk: %v", err)
	}
}

func TestBuildFailsOnInvalidRules(t *testing.T) {
	home := t.TempDir()
	rules := filepath.Join(home, "bad.rules")
	if err := os.WriteFile(rules, []byte("not a valid rule\n"), 0o600); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	t.Setenv("HOME", home)
	t.Setenv("WAKESLEEP_RULES_FILE", rules)

	_, err := Build(noopEventSink{}, "")
	if err == nil {
		t.Fatalf("expected build error due to invalid rules")
	}
}

func TestBuildFailsOnUnparsableRecorderCommand(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("WAKESLEEP_RECORDER_COMMAND", `ffmpeg "unterminated`)

	_, err := Build(noopEventSink{}, "")
	if err == nil {
		t.Fatalf("expected build error due to bad recorder command")
	}
}

type noopEventSink struct{}

func (noopEventSink) StateChanged(_ domain.ControllerState, _ domain.StateReason) {}
func (noopEventSink) InterimTranscript(_ string)                                  {}
func (noopEventSink) TranscriptAppended(_ domain.TranscriptEntry)                 {}
func (noopEventSink) TranscriptsCleared()                                         {}
func (noopEventSink) ControllerError(_ domain.ErrorCode, _ string)                {}
