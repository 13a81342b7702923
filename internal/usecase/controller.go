package usecase

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Srijith-23/Wake-Sleep-model/internal/domain"
	"github.com/Srijith-23/Wake-Sleep-model/internal/ports"
)

// ErrUnsupported is returned by Start when no recognition engine is usable
// in the current environment.
var ErrUnsupported = errors.New("speech recognition is not available in this environment")

const (
	// DefaultInactivityTimeout bounds how long the controller waits for a
	// wake word before shutting itself off.
	DefaultInactivityTimeout = 2 * time.Minute
	// DefaultMaxRestartAttempts bounds consecutive engine restarts.
	DefaultMaxRestartAttempts = 3
)

// Config controls wake/sleep gating behavior.
type Config struct {
	WakeWord           string
	SleepWord          string
	Language           string
	InactivityTimeout  time.Duration
	MaxRestartAttempts int
}

func (c Config) normalized() Config {
	c.WakeWord = strings.TrimSpace(c.WakeWord)
	c.SleepWord = strings.TrimSpace(c.SleepWord)
	c.Language = strings.TrimSpace(c.Language)
	if c.InactivityTimeout <= 0 {
		c.InactivityTimeout = DefaultInactivityTimeout
	}
	if c.MaxRestartAttempts <= 0 {
		c.MaxRestartAttempts = DefaultMaxRestartAttempts
	}
	return c
}

// TranscriptionController owns the wake-word gated transcription lifecycle.
//
// A single mutex serializes the public commands, the recognition session
// callbacks, and the inactivity timer, so every transition observes a
// consistent snapshot of state, transcript log, and restart budget. The
// event sink is invoked with the lock held; sinks must hand events off and
// must not call back into the controller.
type TranscriptionController struct {
	engine ports.RecognitionEngine
	rules  ports.RulesEngine
	events ports.EventSink
	logger *logrus.Logger

	mu         sync.Mutex
	cfg        Config
	supported  bool
	session    ports.RecognitionSession
	state      domain.ControllerState
	continuous bool
	restarts   int
	lastErr    string
	log        *transcriptLog
	timer      *time.Timer
	timerSeq   uint64
	closed     bool
}

// NewTranscriptionController wires the controller to an engine and computes
// capability once. Callbacks are registered here, before any session run, so
// they can never observe a partially constructed controller.
func NewTranscriptionController(
	engine ports.RecognitionEngine,
	rules ports.RulesEngine,
	events ports.EventSink,
	logger *logrus.Logger,
	cfg Config,
) *TranscriptionController {
	if logger == nil {
		logger = logrus.New()
	}
	c := &TranscriptionController{
		engine: engine,
		rules:  rules,
		events: events,
		logger: logger,
		cfg:    cfg.normalized(),
		state:  domain.ControllerStateIdle,
		log:    newTranscriptLog(),
	}
	if engine != nil && engine.Available() {
		session, err := engine.NewSession(ports.SessionCallbacks{
			OnResult: c.handleResult,
			OnError:  c.handleError,
			OnEnd:    c.handleEnd,
		})
		if err != nil {
			logger.WithError(err).Error("recognition engine refused a session; controller disabled")
		} else {
			c.session = session
			c.supported = true
		}
	}
	return c
}

// Start moves the controller from Idle to ListeningForWake and activates a
// single-utterance recognition run. Calling Start while already listening is
// a no-op.
func (c *TranscriptionController) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.supported {
		c.reportErrorLocked(domain.ErrorCodeUnsupported, ErrUnsupported.Error())
		return ErrUnsupported
	}
	if c.state != domain.ControllerStateIdle {
		return nil
	}

	c.lastErr = ""
	c.restarts = 0
	c.configureSessionLocked(false)
	if err := c.session.Start(); err != nil && !isBenignStartErr(err) {
		c.reportErrorLocked(domain.ErrorCodeSessionStart, fmt.Sprintf("could not start recognition: %v", err))
		return err
	}
	c.setStateLocked(domain.ControllerStateListeningForWake, domain.ReasonListeningStarted)
	c.armInactivityTimerLocked()
	c.logger.WithField("wake_word", c.cfg.WakeWord).Info("listening for wake word")
	return nil
}

// Stop tears everything down and returns to Idle. Stop while Idle leaves
// state, transcripts, and interim text untouched.
func (c *TranscriptionController) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == domain.ControllerStateIdle {
		return
	}
	c.stopLocked(domain.ReasonStopped)
	c.logger.Info("stopped listening")
}

// ClearTranscripts empties the transcript log and the interim slot without
// touching the state machine or the session.
func (c *TranscriptionController) ClearTranscripts() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearInterimLocked()
	c.log.Clear()
	c.events.TranscriptsCleared()
}

// ApplySettings swaps the trigger phrases and language. The phrases apply to
// the next result batch; the language applies when the next session run
// starts.
func (c *TranscriptionController) ApplySettings(s domain.Settings) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if wake := strings.TrimSpace(s.WakeWord); wake != "" {
		c.cfg.WakeWord = wake
	}
	if sleep := strings.TrimSpace(s.SleepWord); sleep != "" {
		c.cfg.SleepWord = sleep
	}
	c.cfg.Language = strings.TrimSpace(s.Language)
	if c.session != nil {
		c.configureSessionLocked(c.continuous)
	}
}

// Close releases the session and timer. The controller must not be used
// afterwards.
func (c *TranscriptionController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if c.state != domain.ControllerStateIdle {
		c.stopLocked(domain.ReasonStopped)
	}
	c.closed = true
}

// Supported reports whether a recognition engine is usable.
func (c *TranscriptionController) Supported() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.supported
}

// State returns the current lifecycle state.
func (c *TranscriptionController) State() domain.ControllerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastError returns the most recent surfaced error, or empty when the last
// Start succeeded and nothing failed since.
func (c *TranscriptionController) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Interim returns the current volatile transcript text.
func (c *TranscriptionController) Interim() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.log.Interim()
}

// Transcripts returns a copy of the finalized transcript entries in append
// order.
func (c *TranscriptionController) Transcripts() []domain.TranscriptEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.log.Entries()
}

// TranscriptText joins the finalized entries for export.
func (c *TranscriptionController) TranscriptText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.log.JoinedText()
}

// Settings returns the active trigger phrases and language.
func (c *TranscriptionController) Settings() domain.Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.Settings{
		WakeWord:  c.cfg.WakeWord,
		SleepWord: c.cfg.SleepWord,
		Language:  c.cfg.Language,
	}
}

// Status summarizes the controller for presentation layers.
func (c *TranscriptionController) Status() domain.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.Status{
		Supported: c.supported,
		State:     c.state,
		Listening: c.state != domain.ControllerStateIdle,
		Error:     c.lastErr,
	}
}

// handleResult dispatches a recognition batch according to the current
// state. Batches that arrive after the controller went Idle are stale and
// dropped.
func (c *TranscriptionController) handleResult(batch []domain.ResultSegment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.state == domain.ControllerStateIdle {
		return
	}

	var finals []string
	var lastInterim string
	for _, seg := range batch {
		if seg.IsFinal {
			finals = append(finals, seg.Text)
		} else {
			lastInterim = seg.Text
		}
	}

	switch c.state {
	case domain.ControllerStateListeningForWake:
		c.armInactivityTimerLocked()
		candidate := strings.TrimSpace(strings.Join(finals, " "))
		if candidate == "" {
			candidate = lastInterim
		}
		if containsPhrase(candidate, c.cfg.WakeWord) {
			c.logger.Info("wake word detected")
			c.wakeLocked()
		}
		// Anything heard while gating that does not wake us is discarded.

	case domain.ControllerStateTranscribing:
		for _, text := range finals {
			if containsPhrase(text, c.cfg.SleepWord) {
				c.logger.Info("sleep word detected")
				c.sleepLocked()
				// The rest of the batch, interim included, dies with the
				// triggering utterance.
				return
			}
			c.appendFinalLocked(text)
		}
		if trimmed := strings.TrimSpace(lastInterim); trimmed != "" {
			c.setInterimLocked(trimmed)
		}
	}
}

// handleError filters engine error codes. Silence and intentional teardown
// are part of normal operation and never surfaced.
func (c *TranscriptionController) handleError(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	switch code {
	case domain.EngineErrorNoSpeech, domain.EngineErrorAborted:
		c.logger.WithField("code", code).Debug("ignoring transient recognition error")
		return
	}
	c.logger.WithField("code", code).Warn("recognition error")
	c.reportErrorLocked(domain.ErrorCodeRecognition, fmt.Sprintf("recognition error: %s", code))
}

// handleEnd restarts the engine while the controller is logically listening,
// up to the restart budget. The counter resets on wake detection and on
// explicit Start, so ordinary pauses never hit the ceiling.
func (c *TranscriptionController) handleEnd() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.state == domain.ControllerStateIdle {
		return
	}

	c.restarts++
	if c.restarts > c.cfg.MaxRestartAttempts {
		c.logger.WithField("attempts", c.restarts-1).Error("recognition kept dying; giving up")
		c.reportErrorLocked(domain.ErrorCodeRestartExhausted, "speech recognition stopped and could not be recovered")
		c.stopLocked(domain.ReasonRestartExhausted)
		return
	}

	c.logger.WithFields(logrus.Fields{
		"attempt": c.restarts,
		"limit":   c.cfg.MaxRestartAttempts,
	}).Debug("recognition session ended; restarting")
	if err := c.session.Start(); err != nil && !isBenignStartErr(err) {
		c.reportErrorLocked(domain.ErrorCodeSessionStart, fmt.Sprintf("could not restart recognition: %v", err))
	}
}

// wakeLocked opens the transcription gate. Recognition switches to
// continuous mode with no inactivity deadline, and the restart budget is
// granted afresh. The triggering utterance is never logged.
func (c *TranscriptionController) wakeLocked() {
	c.cancelInactivityTimerLocked()
	c.clearInterimLocked()
	c.restarts = 0
	c.configureSessionLocked(true)
	c.setStateLocked(domain.ControllerStateTranscribing, domain.ReasonWakeWordDetected)
	c.cycleSessionLocked()
}

// sleepLocked closes the gate and resumes wake-word listening.
func (c *TranscriptionController) sleepLocked() {
	c.clearInterimLocked()
	c.configureSessionLocked(false)
	c.setStateLocked(domain.ControllerStateListeningForWake, domain.ReasonSleepWordDetected)
	c.armInactivityTimerLocked()
	c.cycleSessionLocked()
}

// stopLocked is the common teardown for explicit stop, inactivity timeout,
// and restart exhaustion.
func (c *TranscriptionController) stopLocked(reason domain.StateReason) {
	c.cancelInactivityTimerLocked()
	c.clearInterimLocked()
	c.restarts = 0
	if c.session != nil {
		if err := c.session.Stop(); err != nil && !isBenignStopErr(err) {
			c.reportErrorLocked(domain.ErrorCodeSessionStop, fmt.Sprintf("could not stop recognition cleanly: %v", err))
		}
	}
	c.setStateLocked(domain.ControllerStateIdle, reason)
}

// cycleSessionLocked stops the active run so the next end event restarts it
// under the reconfigured session settings.
func (c *TranscriptionController) cycleSessionLocked() {
	if err := c.session.Stop(); err != nil && !isBenignStopErr(err) {
		c.reportErrorLocked(domain.ErrorCodeSessionStop, fmt.Sprintf("could not cycle recognition: %v", err))
	}
}

func (c *TranscriptionController) configureSessionLocked(continuous bool) {
	c.continuous = continuous
	c.session.Configure(ports.SessionConfig{
		Continuous:     continuous,
		InterimResults: true,
		Language:       c.cfg.Language,
	})
}

// appendFinalLocked runs finalized text through the rules engine and appends
// it to the log. Rules failures keep the raw text; losing words is worse
// than losing formatting.
func (c *TranscriptionController) appendFinalLocked(text string) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return
	}
	if c.rules != nil {
		transformed, err := c.rules.Apply(trimmed)
		if err != nil {
			c.logger.WithError(err).Warn("substitution rules failed; keeping raw transcript")
			c.reportErrorLocked(domain.ErrorCodeRules, "substitution rules failed; raw transcript kept")
		} else if t := strings.TrimSpace(transformed); t != "" {
			trimmed = t
		}
	}
	entry := c.log.Append(trimmed)
	c.clearInterimLocked()
	c.events.TranscriptAppended(entry)
}

func (c *TranscriptionController) setInterimLocked(text string) {
	if c.log.Interim() == text {
		return
	}
	c.log.SetInterim(text)
	c.events.InterimTranscript(text)
}

func (c *TranscriptionController) clearInterimLocked() {
	if c.log.Interim() == "" {
		return
	}
	c.log.SetInterim("")
	c.events.InterimTranscript("")
}

func (c *TranscriptionController) setStateLocked(state domain.ControllerState, reason domain.StateReason) {
	if c.state == state {
		return
	}
	c.state = state
	c.events.StateChanged(state, reason)
}

func (c *TranscriptionController) reportErrorLocked(code domain.ErrorCode, detail string) {
	c.lastErr = detail
	c.events.ControllerError(code, detail)
}

// armInactivityTimerLocked (re)starts the wake-word deadline. The sequence
// number fences a timer that fires after it was superseded.
func (c *TranscriptionController) armInactivityTimerLocked() {
	c.cancelInactivityTimerLocked()
	c.timerSeq++
	seq := c.timerSeq
	c.timer = time.AfterFunc(c.cfg.InactivityTimeout, func() {
		c.onInactivity(seq)
	})
}

func (c *TranscriptionController) cancelInactivityTimerLocked() {
	c.timerSeq++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *TranscriptionController) onInactivity(seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.timerSeq || c.closed || c.state != domain.ControllerStateListeningForWake {
		return
	}
	c.logger.WithField("timeout", c.cfg.InactivityTimeout).Info("no wake word heard; going idle")
	c.stopLocked(domain.ReasonInactivityTimeout)
}

// Engines wrap redundant start/stop conditions inconsistently, so match the
// sentinels first and fall back to the conventional message substrings.
func isBenignStartErr(err error) bool {
	if errors.Is(err, ports.ErrSessionAlreadyActive) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "already started")
}

func isBenignStopErr(err error) bool {
	if errors.Is(err, ports.ErrSessionNotActive) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not started") || strings.Contains(msg, "not running")
}
