package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Srijith-23/Wake-Sleep-model/internal/domain"
)

// EventKind discriminates controller events delivered to the UI loop.
type EventKind string

const (
	EventState   EventKind = "state"
	EventInterim EventKind = "interim"
	EventFinal   EventKind = "final"
	EventCleared EventKind = "cleared"
	EventError   EventKind = "error"
)

// Event mirrors one controller callback.
type Event struct {
	Kind   EventKind
	State  domain.ControllerState
	Reason domain.StateReason
	Text   string
	Entry  domain.TranscriptEntry
	Code   domain.ErrorCode
	Detail string
}

// EventMsg wraps a controller event for bubbletea.
type EventMsg struct {
	Event Event
}

// Sink adapts ports.EventSink to a channel the TUI polls. The controller
// invokes sink methods with its lock held, so delivery must never block;
// events are dropped when the UI falls behind.
type Sink struct {
	ch chan Event
}

func NewSink() *Sink {
	return &Sink{ch: make(chan Event, 64)}
}

func (s *Sink) StateChanged(state domain.ControllerState, reason domain.StateReason) {
	s.push(Event{Kind: EventState, State: state, Reason: reason})
}

func (s *Sink) InterimTranscript(text string) {
	s.push(Event{Kind: EventInterim, Text: text})
}

func (s *Sink) TranscriptAppended(entry domain.TranscriptEntry) {
	s.push(Event{Kind: EventFinal, Entry: entry})
}

func (s *Sink) TranscriptsCleared() {
	s.push(Event{Kind: EventCleared})
}

func (s *Sink) ControllerError(code domain.ErrorCode, detail string) {
	s.push(Event{Kind: EventError, Code: code, Detail: detail})
}

func (s *Sink) push(ev Event) {
	select {
	case s.ch <- ev:
	default:
	}
}

// Wait returns a command that delivers the next controller event.
func (s *Sink) Wait() tea.Cmd {
	return func() tea.Msg {
		return EventMsg{Event: <-s.ch}
	}
}
