package main

import (
	"errors"
	"testing"

	"github.com/Srijith-23/Wake-Sleep-model/internal/domain"
)

func TestStateReasonMessage(t *testing.T) {
	t.Parallel()

	cases := map[domain.StateReason]string{
		domain.ReasonControllerReady:   "Ready",
		domain.ReasonListeningStarted:  "Listening for the wake word",
		domain.ReasonWakeWordDetected:  "Wake word heard. Transcribing...",
		domain.ReasonSleepWordDetected: "Sleep word heard. Listening for the wake word",
		domain.ReasonStopped:           "Stopped",
		domain.ReasonInactivityTimeout: "No speech for a while. Stopped listening",
		domain.ReasonRestartExhausted:  "Speech recognition kept failing and was stopped",
	}

	for reason, want := range cases {
		reason := reason
		want := want
		t.Run(string(reason), func(t *testing.T) {
			t.Parallel()
			if got := stateReasonMessage(reason); got != want {
				t.Fatalf("unexpected message: %q", got)
			}
		})
	}

	if got := stateReasonMessage("unknown"); got != "" {
		t.Fatalf("expected empty unknown reason message, got %q", got)
	}
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	cases := map[domain.ErrorCode]string{
		domain.ErrorCodeStartup:          "Startup failed",
		domain.ErrorCodeUnsupported:      "Speech recognition is not available",
		domain.ErrorCodeSessionStart:     "Could not start listening",
		domain.ErrorCodeSessionStop:      "Could not stop cleanly",
		domain.ErrorCodeRecognition:      "Recognition error",
		domain.ErrorCodeRestartExhausted: "Speech recognition kept failing and was stopped",
		domain.ErrorCodeRules:            "Rules processing failed",
		domain.ErrorCodeClipboard:        "Clipboard write failed",
	}
	for code, want := range cases {
		code := code
		want := want
		t.Run(string(code), func(t *testing.T) {
			t.Parallel()
			if got := errorMessage(code, "ignored"); got != want {
				t.Fatalf("unexpected message: %q", got)
			}
		})
	}

	if got := errorMessage("unknown", "detail"); got != "detail" {
		t.Fatalf("expected detail fallback, got %q", got)
	}
	if got := errorMessage("unknown", ""); got != "Unknown error" {
		t.Fatalf("expected unknown fallback, got %q", got)
	}
}

func TestRequireReady(t *testing.T) {
	t.Parallel()

	app := &App{}
	if err := app.requireReady(); err == nil {
		t.Fatalf("expected uninitialized error")
	}

	bootErr := errors.New("boot")
	app.bootErr = bootErr
	if err := app.requireReady(); !errors.Is(err, bootErr) {
		t.Fatalf("expected boot error, got %v", err)
	}
}

func TestGetStatusWhenNotInitialized(t *testing.T) {
	t.Parallel()

	app := &App{}
	status := app.GetStatus()
	if status.State != domain.ControllerStateIdle || status.Listening || status.Supported {
		t.Fatalf("unexpected status: %+v", status)
	}

	app.bootErr = errors.New("boot")
	status = app.GetStatus()
	if status.State != domain.ControllerStateIdle || status.Error != "boot" {
		t.Fatalf("unexpected boot status: %+v", status)
	}
}

func TestGettersWhenNotInitialized(t *testing.T) {
	t.Parallel()

	app := &App{}
	if entries := app.GetTranscripts(); len(entries) != 0 {
		t.Fatalf("expected no transcripts, got %d", len(entries))
	}
	if interim := app.GetInterim(); interim != "" {
		t.Fatalf("expected empty interim, got %q", interim)
	}
	if settings := app.GetSettings(); settings != (domain.Settings{}) {
		t.Fatalf("expected zero settings, got %+v", settings)
	}

	// Must not panic with a nil controller.
	app.ClearTranscripts()
}
