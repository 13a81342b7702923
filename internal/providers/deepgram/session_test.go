package deepgram

import (
	"errors"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/Srijith-23/Wake-Sleep-model/internal/domain"
	"github.com/Srijith-23/Wake-Sleep-model/internal/ports"
)

func TestSessionConfigureAppliesToNextStart(t *testing.T) {
	t.Parallel()

	session := &Session{pending: ports.SessionConfig{InterimResults: true}}
	session.Configure(ports.SessionConfig{Continuous: true, InterimResults: true, Language: "en-US"})

	session.mu.Lock()
	defer session.mu.Unlock()
	if !session.pending.Continuous || session.pending.Language != "en-US" {
		t.Fatalf("unexpected pending config: %+v", session.pending)
	}
}

func TestSessionStopWithoutActiveRun(t *testing.T) {
	t.Parallel()

	session := &Session{}
	if err := session.Stop(); !errors.Is(err, ports.ErrSessionNotActive) {
		t.Fatalf("expected ErrSessionNotActive, got %v", err)
	}
}

func TestRunFinalCode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		continuous  bool
		code        string
		intentional bool
		completed   bool
		sawSpeech   bool
		err         error
		want        string
	}{
		{name: "explicit code wins", code: domain.EngineErrorService, err: errors.New("x"), want: domain.EngineErrorService},
		{name: "intentional stop aborts", intentional: true, err: errors.New("closed"), want: domain.EngineErrorAborted},
		{name: "single utterance completion is clean", completed: true, sawSpeech: true, want: ""},
		{name: "transport failure", err: errors.New("broken pipe"), sawSpeech: true, continuous: true, want: domain.EngineErrorNetwork},
		{name: "silent single utterance", continuous: false, want: domain.EngineErrorNoSpeech},
		{name: "clean continuous end", continuous: true, want: ""},
		{name: "spoken single utterance clean end", continuous: false, sawSpeech: true, want: ""},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			run := &sessionRun{runCfg: ports.SessionConfig{Continuous: tc.continuous}}
			run.code = tc.code
			run.err = tc.err
			run.intentional.Store(tc.intentional)
			run.completed.Store(tc.completed)
			run.sawSpeech.Store(tc.sawSpeech)

			if got := run.finalCode(); got != tc.want {
				t.Fatalf("finalCode() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRunSetErrIgnoresExpectedCloses(t *testing.T) {
	t.Parallel()

	run := &sessionRun{}
	run.setErr(&websocket.CloseError{Code: websocket.CloseNormalClosure, Text: "closed"})
	if run.err != nil {
		t.Fatalf("normal close must be ignored")
	}

	run.setErr(errors.New("boom"))
	if run.err == nil || run.err.Error() != "boom" {
		t.Fatalf("expected non-close error to be captured")
	}
}

func TestRunSetErrFirstWins(t *testing.T) {
	t.Parallel()

	run := &sessionRun{}
	run.setErr(errors.New("first"))
	run.setErr(errors.New("second"))
	if run.err == nil || run.err.Error() != "first" {
		t.Fatalf("expected first error to win, got %v", run.err)
	}
}

func TestRunSetCodeFirstWins(t *testing.T) {
	t.Parallel()

	run := &sessionRun{}
	run.setCode(domain.EngineErrorNoSpeech)
	run.setCode(domain.EngineErrorService)
	if run.code != domain.EngineErrorNoSpeech {
		t.Fatalf("expected first code to win, got %q", run.code)
	}
}

func TestExtractTranscript(t *testing.T) {
	t.Parallel()

	r1 := deepgramResponse{}
	r1.Channel.Alternatives = append(r1.Channel.Alternatives, struct {
		Transcript string "json:\"transcript\""
	}{Transcript: " channel "})
	if got := extractTranscript(r1); got != "channel" {
		t.Fatalf("unexpected transcript from channel: %q", got)
	}

	r2 := deepgramResponse{}
	r2.Results.Channels = append(r2.Results.Channels, struct {
		Alternatives []struct {
			Transcript string "json:\"transcript\""
		} "json:\"alternatives\""
	}{
		Alternatives: []struct {
			Transcript string "json:\"transcript\""
		}{{Transcript: "results"}},
	})
	if got := extractTranscript(r2); got != "results" {
		t.Fatalf("unexpected transcript from results: %q", got)
	}

	if got := extractTranscript(deepgramResponse{}); got != "" {
		t.Fatalf("expected empty transcript, got %q", got)
	}
}
