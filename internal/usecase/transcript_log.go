package usecase

import (
	"strings"

	"github.com/Srijith-23/Wake-Sleep-model/internal/domain"
)

// transcriptLog is the append-only record of finalized utterances plus the
// single mutable interim slot. It is not self-locking; the controller's
// mutex guards every access.
type transcriptLog struct {
	entries []domain.TranscriptEntry
	interim string
}

func newTranscriptLog() *transcriptLog {
	return &transcriptLog{}
}

// Append adds finalized text as a new entry and returns it. Existing
// entries are never rewritten.
func (l *transcriptLog) Append(text string) domain.TranscriptEntry {
	entry := domain.NewTranscriptEntry(text)
	l.entries = append(l.entries, entry)
	return entry
}

// Entries returns a copy so callers can hold the slice without racing
// future appends.
func (l *transcriptLog) Entries() []domain.TranscriptEntry {
	out := make([]domain.TranscriptEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// JoinedText flattens the finalized entries for clipboard export.
func (l *transcriptLog) JoinedText() string {
	if len(l.entries) == 0 {
		return ""
	}
	texts := make([]string, 0, len(l.entries))
	for _, entry := range l.entries {
		texts = append(texts, entry.Text)
	}
	return strings.Join(texts, "\n")
}

func (l *transcriptLog) SetInterim(text string) {
	l.interim = text
}

func (l *transcriptLog) Interim() string {
	return l.interim
}

// Clear drops every entry and the interim slot.
func (l *transcriptLog) Clear() {
	l.entries = nil
	l.interim = ""
}
