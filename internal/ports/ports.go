package ports

import (
	"context"
	"errors"
	"io"

	"github.com/Srijith-23/Wake-Sleep-model/internal/domain"
)

// Benign session lifecycle errors. Engines return these when Start or Stop
// is redundant; callers treat them as no-ops rather than failures.
var (
	ErrSessionAlreadyActive = errors.New("recognition session already started")
	ErrSessionNotActive     = errors.New("recognition session not started")
)

// AudioConfig describes how the microphone should be captured.
type AudioConfig struct {
	SampleRate  int
	Channels    int
	InputFormat string
	InputDevice string
}

// AudioSession is a live capture session.
type AudioSession interface {
	io.ReadCloser
	Stop() error
}

// AudioCapture creates microphone capture sessions.
type AudioCapture interface {
	Start(ctx context.Context, cfg AudioConfig) (AudioSession, error)
}

// SessionConfig carries the engine settings that may be reconfigured between
// session runs. Changes take effect on the next Start.
type SessionConfig struct {
	// Continuous keeps the session running across utterances. When false the
	// engine winds the run down after the first finalized utterance.
	Continuous bool
	// InterimResults enables delivery of unstable partial hypotheses.
	InterimResults bool
	// Language is a BCP-47 tag; empty means the engine default.
	Language string
}

// SessionCallbacks receive push events from a running recognition session.
// They are registered once, before the first Start, and are invoked from the
// session's own goroutines, never synchronously from Start or Stop.
type SessionCallbacks struct {
	// OnResult delivers a batch of recognized segments in engine order.
	OnResult func(batch []domain.ResultSegment)
	// OnError reports an engine error code such as "no-speech" or "network".
	OnError func(code string)
	// OnEnd fires exactly once per run when the session goes inactive,
	// whether the run ended cleanly, failed, or was stopped.
	OnEnd func()
}

// RecognitionSession is a reusable handle on the speech engine. A session
// alternates between active runs (Start..OnEnd) and inactive gaps; Configure
// may be called at any time and applies to the next run.
type RecognitionSession interface {
	Configure(cfg SessionConfig)
	// Start begins a run. Returns ErrSessionAlreadyActive when a run is
	// already in flight.
	Start() error
	// Stop requests teardown of the current run without waiting for pending
	// callbacks to drain. Returns ErrSessionNotActive when no run is active.
	Stop() error
}

// RecognitionEngine reports environment capability and hands out session
// handles bound to a fixed set of callbacks.
type RecognitionEngine interface {
	Available() bool
	NewSession(cb SessionCallbacks) (RecognitionSession, error)
}

// RulesEngine transforms transcripts using deterministic rules.
type RulesEngine interface {
	Apply(text string) (string, error)
}

// Clipboard writes text into the system clipboard.
type Clipboard interface {
	SetText(ctx context.Context, text string) error
}

// EventSink emits controller observations to a presentation layer.
type EventSink interface {
	StateChanged(state domain.ControllerState, reason domain.StateReason)
	// InterimTranscript carries the current volatile text; empty clears it.
	InterimTranscript(text string)
	TranscriptAppended(entry domain.TranscriptEntry)
	TranscriptsCleared()
	ControllerError(code domain.ErrorCode, detail string)
}
