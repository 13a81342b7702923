package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/Srijith-23/Wake-Sleep-model/internal/bootstrap"
	"github.com/Srijith-23/Wake-Sleep-model/internal/config"
	"github.com/Srijith-23/Wake-Sleep-model/internal/domain"
	"github.com/Srijith-23/Wake-Sleep-model/internal/usecase"
)

const (
	eventState   = "wakesleep:state"
	eventInterim = "wakesleep:interim"
	eventFinal   = "wakesleep:final"
	eventCleared = "wakesleep:cleared"
	eventError   = "wakesleep:error"
)

// App is the Wails application root. It implements ports.EventSink and
// forwards controller events to the frontend.
type App struct {
	ctx context.Context

	controller *usecase.TranscriptionController
	exporter   usecase.TranscriptExporter
	cfg        *config.Config
	bootErr    error
}

func NewApp() *App {
	return &App{}
}

func (a *App) startup(ctx context.Context) {
	a.ctx = ctx

	services, err := bootstrap.Build(a, "")
	if err != nil {
		a.bootErr = err
		a.ControllerError(domain.ErrorCodeStartup, err.Error())
		return
	}

	a.cfg = services.Config
	a.controller = services.Controller
	a.exporter = usecase.NewTranscriptExporter(&wailsClipboard{}, a)
	a.StateChanged(domain.ControllerStateIdle, domain.ReasonControllerReady)
}

func (a *App) shutdown(_ context.Context) {
	if a.controller != nil {
		a.controller.Close()
	}
}

// StartListening asks the controller to begin waiting for the wake word.
// Failures surface as observable status, not as a thrown error.
func (a *App) StartListening() domain.Status {
	if err := a.requireReady(); err != nil {
		a.ControllerError(domain.ErrorCodeStartup, err.Error())
		return domain.Status{State: domain.ControllerStateIdle, Error: err.Error()}
	}
	_ = a.controller.Start()
	return a.controller.Status()
}

// StopListening returns the controller to idle.
func (a *App) StopListening() domain.Status {
	if err := a.requireReady(); err != nil {
		a.ControllerError(domain.ErrorCodeStartup, err.Error())
		return domain.Status{State: domain.ControllerStateIdle, Error: err.Error()}
	}
	a.controller.Stop()
	return a.controller.Status()
}

// ClearTranscripts drops all finalized transcript entries.
func (a *App) ClearTranscripts() {
	if a.controller == nil {
		return
	}
	a.controller.ClearTranscripts()
}

// CopyTranscript copies the joined transcript to the system clipboard and
// returns the copied text.
func (a *App) CopyTranscript() (string, error) {
	if err := a.requireReady(); err != nil {
		return "", err
	}
	text := a.controller.TranscriptText()
	if err := a.exporter.Copy(a.ctx, text); err != nil {
		return "", err
	}
	return text, nil
}

// GetStatus returns the current controller status.
func (a *App) GetStatus() domain.Status {
	if a.controller == nil {
		status := domain.Status{State: domain.ControllerStateIdle}
		if a.bootErr != nil {
			status.Error = a.bootErr.Error()
		}
		return status
	}
	return a.controller.Status()
}

// GetTranscripts returns the finalized transcript entries in order.
func (a *App) GetTranscripts() []domain.TranscriptEntry {
	if a.controller == nil {
		return []domain.TranscriptEntry{}
	}
	return a.controller.Transcripts()
}

// GetInterim returns the current volatile transcript text.
func (a *App) GetInterim() string {
	if a.controller == nil {
		return ""
	}
	return a.controller.Interim()
}

// GetSettings returns the active trigger phrases and language.
func (a *App) GetSettings() domain.Settings {
	if a.controller == nil {
		return domain.Settings{}
	}
	return a.controller.Settings()
}

// SaveSettings persists settings to the config file and applies them to the
// running controller. Blank phrases keep their previous values.
func (a *App) SaveSettings(s domain.Settings) error {
	if err := a.requireReady(); err != nil {
		return err
	}

	if wake := strings.TrimSpace(s.WakeWord); wake != "" {
		a.cfg.Controller.WakeWord = wake
	}
	if sleep := strings.TrimSpace(s.SleepWord); sleep != "" {
		a.cfg.Controller.SleepWord = sleep
	}
	a.cfg.Controller.Language = strings.TrimSpace(s.Language)

	if err := config.Save(a.cfg, a.cfg.Paths.ConfigPath); err != nil {
		a.ControllerError(domain.ErrorCodeStartup, "could not save settings: "+err.Error())
		return err
	}
	a.controller.ApplySettings(s)
	return nil
}

// GetRuntimeInfo returns non-sensitive config for the UI.
func (a *App) GetRuntimeInfo() map[string]string {
	if a.bootErr != nil {
		return map[string]string{"error": a.bootErr.Error()}
	}
	if a.cfg == nil {
		return map[string]string{}
	}

	return map[string]string{
		"provider":   "Deepgram",
		"model":      a.cfg.Deepgram.Model,
		"language":   a.cfg.Controller.Language,
		"wakeWord":   a.cfg.Controller.WakeWord,
		"sleepWord":  a.cfg.Controller.SleepWord,
		"rulesFile":  a.cfg.Rules.Path,
		"audioInput": a.cfg.Audio.InputDevice,
		"configFile": a.cfg.Paths.ConfigPath,
	}
}

func (a *App) requireReady() error {
	if a.bootErr != nil {
		return a.bootErr
	}
	if a.controller == nil {
		return fmt.Errorf("application is not initialized")
	}
	return nil
}

// StateChanged emits controller lifecycle updates to the frontend.
func (a *App) StateChanged(state domain.ControllerState, reason domain.StateReason) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventState, map[string]string{
		"state":   string(state),
		"reason":  string(reason),
		"message": stateReasonMessage(reason),
	})
}

// InterimTranscript emits the volatile transcript text; empty clears it.
func (a *App) InterimTranscript(text string) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventInterim, map[string]string{"text": text})
}

// TranscriptAppended emits a newly finalized transcript entry.
func (a *App) TranscriptAppended(entry domain.TranscriptEntry) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventFinal, entry)
}

// TranscriptsCleared tells the frontend to drop its transcript view.
func (a *App) TranscriptsCleared() {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventCleared)
}

// ControllerError emits backend errors to the UI.
func (a *App) ControllerError(code domain.ErrorCode, detail string) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventError, map[string]string{
		"code":    string(code),
		"message": errorMessage(code, detail),
		"detail":  detail,
	})
}

func stateReasonMessage(reason domain.StateReason) string {
	switch reason {
	case domain.ReasonControllerReady:
		return "Ready"
	case domain.ReasonListeningStarted:
		return "Listening for the wake word"
	case domain.ReasonWakeWordDetected:
		return "Wake word heard. Transcribing..."
	case domain.ReasonSleepWordDetected:
		return "Sleep word heard. Listening for the wake word"
	case domain.ReasonStopped:
		return "Stopped"
	case domain.ReasonInactivityTimeout:
		return "No speech for a while. Stopped listening"
	case domain.ReasonRestartExhausted:
		return "Speech recognition kept failing and was stopped"
	default:
		return ""
	}
}

func errorMessage(code domain.ErrorCode, detail string) string {
	switch code {
	case domain.ErrorCodeStartup:
		return "Startup failed"
	case domain.ErrorCodeUnsupported:
		return "Speech recognition is not available"
	case domain.ErrorCodeSessionStart:
		return "Could not start listening"
	case domain.ErrorCodeSessionStop:
		return "Could not stop cleanly"
	case domain.ErrorCodeRecognition:
		return "Recognition error"
	case domain.ErrorCodeRestartExhausted:
		return "Speech recognition kept failing and was stopped"
	case domain.ErrorCodeRules:
		return "Rules processing failed"
	case domain.ErrorCodeClipboard:
		return "Clipboard write failed"
	default:
		if detail == "" {
			return "Unknown error"
		}
		return detail
	}
}

type wailsClipboard struct{}

func (c *wailsClipboard) SetText(ctx context.Context, text string) error {
	return runtime.ClipboardSetText(ctx, text)
}
