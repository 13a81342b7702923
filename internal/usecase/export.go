package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/Srijith-23/Wake-Sleep-model/internal/domain"
	"github.com/Srijith-23/Wake-Sleep-model/internal/ports"
)

// ErrNothingToCopy is returned when the transcript log holds no finalized
// text.
var ErrNothingToCopy = errors.New("no transcript to copy")

// TranscriptExporter copies the accumulated transcript into the system
// clipboard on demand.
type TranscriptExporter struct {
	clipboard ports.Clipboard
	events    ports.EventSink
}

func NewTranscriptExporter(clipboard ports.Clipboard, events ports.EventSink) TranscriptExporter {
	return TranscriptExporter{clipboard: clipboard, events: events}
}

// Copy writes text to the clipboard. Failures are reported through the
// event sink as well as returned, so the UI error surface stays consistent
// with controller errors.
func (e TranscriptExporter) Copy(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrNothingToCopy
	}
	if e.clipboard == nil {
		err := errors.New("clipboard is not available")
		e.events.ControllerError(domain.ErrorCodeClipboard, err.Error())
		return err
	}
	if err := e.clipboard.SetText(ctx, text); err != nil {
		e.events.ControllerError(domain.ErrorCodeClipboard, "transcript ready but clipboard write failed")
		return err
	}
	return nil
}
