package deepgram

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Srijith-23/Wake-Sleep-model/internal/ports"
)

func TestNewEngineDefaults(t *testing.T) {
	t.Parallel()

	e := NewEngine(Config{})
	if e.cfg.APIBaseURL != "https://api.deepgram.com/v1" {
		t.Fatalf("unexpected base url: %q", e.cfg.APIBaseURL)
	}
	if e.cfg.Model != "nova-2" {
		t.Fatalf("unexpected model: %q", e.cfg.Model)
	}
	if e.cfg.ChunkSize != 4096 {
		t.Fatalf("unexpected chunk size: %d", e.cfg.ChunkSize)
	}
	if e.cfg.NoSpeechTimeout != 8*time.Second {
		t.Fatalf("unexpected no-speech timeout: %v", e.cfg.NoSpeechTimeout)
	}
}

func TestEngineAvailability(t *testing.T) {
	t.Parallel()

	if NewEngine(Config{}).Available() {
		t.Fatalf("engine without key must be unavailable")
	}
	if NewEngine(Config{APIKey: "k"}).Available() {
		t.Fatalf("engine without capture must be unavailable")
	}
	if !NewEngine(Config{APIKey: "k", Capture: stubCapture{}}).Available() {
		t.Fatalf("configured engine must be available")
	}
}

func TestEngineNewSessionRequiresConfiguration(t *testing.T) {
	t.Parallel()

	if _, err := NewEngine(Config{}).NewSession(ports.SessionCallbacks{}); err == nil {
		t.Fatalf("expected configuration error")
	}

	session, err := NewEngine(Config{APIKey: "k", Capture: stubCapture{}}).NewSession(ports.SessionCallbacks{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session == nil {
		t.Fatalf("expected session handle")
	}
}

func TestBuildListenURLDefaults(t *testing.T) {
	t.Parallel()

	url, err := buildListenURL(Config{APIBaseURL: "https://api.deepgram.com/v1", Model: "nova-2"}, ports.SessionConfig{InterimResults: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(url, "wss://api.deepgram.com/v1/listen") {
		t.Fatalf("unexpected ws url: %s", url)
	}
	if !strings.Contains(url, "encoding=linear16") {
		t.Fatalf("expected default encoding in url: %s", url)
	}
	if !strings.Contains(url, "sample_rate=16000") {
		t.Fatalf("expected default sample_rate in url: %s", url)
	}
	if !strings.Contains(url, "channels=1") {
		t.Fatalf("expected default channels in url: %s", url)
	}
	if !strings.Contains(url, "interim_results=true") {
		t.Fatalf("expected interim_results in url: %s", url)
	}
}

func TestBuildListenURLWithLanguage(t *testing.T) {
	t.Parallel()

	cfg := Config{
		APIBaseURL:  "http://localhost:8080/v1",
		Model:       "m",
		SmartFormat: true,
		Audio:       ports.AudioConfig{SampleRate: 8000, Channels: 2},
	}
	url, err := buildListenURL(cfg, ports.SessionConfig{Language: "en-GB"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(url, "ws://localhost:8080/v1/listen") {
		t.Fatalf("unexpected ws url: %s", url)
	}
	if !strings.Contains(url, "language=en-GB") {
		t.Fatalf("expected language in url: %s", url)
	}
	if !strings.Contains(url, "smart_format=true") {
		t.Fatalf("expected smart_format in url: %s", url)
	}
	if !strings.Contains(url, "sample_rate=8000") {
		t.Fatalf("expected sample_rate in url: %s", url)
	}
}

func TestBuildListenURLSkipsAutoLanguage(t *testing.T) {
	t.Parallel()

	url, err := buildListenURL(Config{Model: "m"}, ports.SessionConfig{Language: "auto"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(url, "language=") {
		t.Fatalf("auto language must be omitted: %s", url)
	}
}

func TestBuildListenURLInvalidBase(t *testing.T) {
	t.Parallel()

	if _, err := buildListenURL(Config{APIBaseURL: ":// bad"}, ports.SessionConfig{}); err == nil {
		t.Fatalf("expected invalid base url error")
	}
}

type stubCapture struct{}

func (stubCapture) Start(context.Context, ports.AudioConfig) (ports.AudioSession, error) {
	return nil, context.Canceled
}
