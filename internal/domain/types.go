package domain

import (
	"time"

	"github.com/google/uuid"
)

// ControllerState models the wake-word gated transcription lifecycle.
type ControllerState string

const (
	ControllerStateIdle             ControllerState = "idle"
	ControllerStateListeningForWake ControllerState = "listening_for_wake"
	ControllerStateTranscribing     ControllerState = "transcribing"
)

// StateReason provides a structured reason for state transitions.
type StateReason string

const (
	ReasonControllerReady   StateReason = "ready"
	ReasonListeningStarted  StateReason = "listening_started"
	ReasonWakeWordDetected  StateReason = "wake_word_detected"
	ReasonSleepWordDetected StateReason = "sleep_word_detected"
	ReasonStopped           StateReason = "stopped"
	ReasonInactivityTimeout StateReason = "inactivity_timeout"
	ReasonRestartExhausted  StateReason = "restart_exhausted"
)

// ErrorCode identifies error conditions surfaced to observers.
type ErrorCode string

const (
	ErrorCodeStartup          ErrorCode = "startup"
	ErrorCodeUnsupported      ErrorCode = "unsupported"
	ErrorCodeSessionStart     ErrorCode = "session_start"
	ErrorCodeSessionStop      ErrorCode = "session_stop"
	ErrorCodeRecognition      ErrorCode = "recognition"
	ErrorCodeRestartExhausted ErrorCode = "restart_exhausted"
	ErrorCodeRules            ErrorCode = "rules"
	ErrorCodeClipboard        ErrorCode = "clipboard"
)

// Engine-level error codes. NoSpeech and Aborted are expected during normal
// operation, silence in single-utterance mode and intentional teardown, and
// are never surfaced; the rest are reported.
const (
	EngineErrorNoSpeech     = "no-speech"
	EngineErrorAborted      = "aborted"
	EngineErrorNetwork      = "network"
	EngineErrorService      = "service-error"
	EngineErrorAudioCapture = "audio-capture"
)

// ResultSegment is one recognized piece of text inside a result batch.
type ResultSegment struct {
	Text    string `json:"text"`
	IsFinal bool   `json:"isFinal"`
}

// TranscriptEntry is one finalized line of the transcript log.
type TranscriptEntry struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	Final     bool      `json:"final"`
}

// NewTranscriptEntry builds a finalized entry with a fresh identity.
func NewTranscriptEntry(text string) TranscriptEntry {
	return TranscriptEntry{
		ID:        uuid.NewString(),
		Text:      text,
		CreatedAt: time.Now(),
		Final:     true,
	}
}

// Settings are the user-tunable controls exposed by the settings surface.
type Settings struct {
	WakeWord  string `json:"wakeWord"`
	SleepWord string `json:"sleepWord"`
	Language  string `json:"language"`
}

// Status summarizes the controller for presentation layers.
type Status struct {
	Supported bool            `json:"supported"`
	State     ControllerState `json:"state"`
	Listening bool            `json:"listening"`
	Error     string          `json:"error,omitempty"`
}
