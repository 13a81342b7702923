package deepgram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/Srijith-23/Wake-Sleep-model/internal/domain"
	"github.com/Srijith-23/Wake-Sleep-model/internal/ports"
)

var dialer = &websocket.Dialer{HandshakeTimeout: 10 * time.Second}

// Session is a reusable handle on the Deepgram engine. Each Start opens a
// fresh websocket plus microphone capture (a "run"); Stop tears the run
// down without waiting for callback delivery, which always happens from the
// run's own goroutines.
type Session struct {
	cfg Config
	cb  ports.SessionCallbacks

	mu      sync.Mutex
	pending ports.SessionConfig
	run     *sessionRun
}

// Configure stores settings for the next run. An active run is unaffected.
func (s *Session) Configure(cfg ports.SessionConfig) {
	s.mu.Lock()
	s.pending = cfg
	s.mu.Unlock()
}

// Start opens a run with the most recently configured settings.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.run != nil {
		return ports.ErrSessionAlreadyActive
	}
	runCfg := s.pending

	wsURL, err := buildListenURL(s.cfg, runCfg)
	if err != nil {
		return err
	}
	headers := http.Header{}
	headers.Set("Authorization", "Token "+s.cfg.APIKey)

	ctx, cancel := context.WithCancel(context.Background())
	conn, _, err := dialer.DialContext(ctx, wsURL, headers)
	if err != nil {
		cancel()
		return fmt.Errorf("failed to connect to Deepgram websocket: %w", err)
	}

	audio, err := s.cfg.Capture.Start(ctx, s.cfg.Audio)
	if err != nil {
		_ = conn.Close()
		cancel()
		return fmt.Errorf("failed to start audio capture: %w", err)
	}

	run := &sessionRun{
		runCfg:    runCfg,
		cb:        s.cb,
		conn:      conn,
		audio:     audio,
		cancel:    cancel,
		chunkSize: s.cfg.ChunkSize,
		logger: s.cfg.Logger.WithFields(logrus.Fields{
			"component":  "deepgram",
			"continuous": runCfg.Continuous,
		}),
	}
	if !runCfg.Continuous {
		run.armNoSpeechTimer(s.cfg.NoSpeechTimeout)
	}

	run.wg.Add(2)
	go run.readLoop()
	go run.writeLoop()
	s.run = run
	go s.supervise(run)

	run.logger.Debug("recognition run started")
	return nil
}

// Stop signals teardown of the active run. The run's goroutines deliver the
// trailing error/end callbacks on their own; Stop never blocks on them.
func (s *Session) Stop() error {
	s.mu.Lock()
	run := s.run
	s.mu.Unlock()
	if run == nil {
		return ports.ErrSessionNotActive
	}
	run.intentional.Store(true)
	run.close()
	return nil
}

// supervise waits for the run's loops, releases resources, and delivers the
// terminal callbacks. The run is detached before OnEnd so a callback may
// immediately Start the next run.
func (s *Session) supervise(run *sessionRun) {
	run.wg.Wait()
	run.close()

	code := run.finalCode()
	run.logger.WithField("code", code).Debug("recognition run finished")

	s.mu.Lock()
	if s.run == run {
		s.run = nil
	}
	s.mu.Unlock()

	if code != "" && s.cb.OnError != nil {
		s.cb.OnError(code)
	}
	if s.cb.OnEnd != nil {
		s.cb.OnEnd()
	}
}

type sessionRun struct {
	runCfg    ports.SessionConfig
	cb        ports.SessionCallbacks
	conn      *websocket.Conn
	audio     ports.AudioSession
	cancel    context.CancelFunc
	chunkSize int
	logger    *logrus.Entry

	wg        sync.WaitGroup
	closeOnce sync.Once

	intentional atomic.Bool
	completed   atomic.Bool
	sawSpeech   atomic.Bool

	timerMu       sync.Mutex
	noSpeechTimer *time.Timer

	errMu sync.Mutex
	err   error
	code  string
}

// close releases the run's resources and unblocks both loops. Safe to call
// from any goroutine, any number of times.
func (r *sessionRun) close() {
	r.closeOnce.Do(func() {
		r.stopNoSpeechTimer()
		r.cancel()
		_ = r.audio.Stop()
		_ = r.conn.Close()
	})
}

func (r *sessionRun) armNoSpeechTimer(timeout time.Duration) {
	r.timerMu.Lock()
	defer r.timerMu.Unlock()
	r.noSpeechTimer = time.AfterFunc(timeout, func() {
		if r.sawSpeech.Load() {
			return
		}
		r.setCode(domain.EngineErrorNoSpeech)
		r.close()
	})
}

func (r *sessionRun) stopNoSpeechTimer() {
	r.timerMu.Lock()
	defer r.timerMu.Unlock()
	if r.noSpeechTimer != nil {
		r.noSpeechTimer.Stop()
		r.noSpeechTimer = nil
	}
}

// readLoop turns Deepgram messages into result batches. In single-utterance
// mode the run winds down after the first finalized utterance, mirroring
// how the controller expects gated listening to behave.
func (r *sessionRun) readLoop() {
	defer r.wg.Done()

	for {
		_, payload, err := r.conn.ReadMessage()
		if err != nil {
			r.setErr(fmt.Errorf("failed to read recognition event: %w", err))
			r.close()
			return
		}

		var response deepgramResponse
		if err := json.Unmarshal(payload, &response); err != nil {
			continue
		}

		if strings.EqualFold(response.Type, "Error") {
			message := strings.TrimSpace(response.Message)
			if message == "" {
				message = "deepgram returned an unknown error"
			}
			r.logger.WithField("message", message).Warn("recognition service error")
			r.setCode(domain.EngineErrorService)
			r.close()
			return
		}

		transcript := extractTranscript(response)
		if transcript == "" {
			continue
		}

		r.sawSpeech.Store(true)
		r.stopNoSpeechTimer()

		isFinal := response.IsFinal || response.SpeechFinal
		if r.cb.OnResult != nil {
			r.cb.OnResult([]domain.ResultSegment{{Text: transcript, IsFinal: isFinal}})
		}

		if !r.runCfg.Continuous && response.SpeechFinal {
			r.completed.Store(true)
			r.close()
			return
		}
	}
}

// writeLoop pumps microphone chunks into the websocket. It is the only
// writer on the connection.
func (r *sessionRun) writeLoop() {
	defer r.wg.Done()

	buf := make([]byte, r.chunkSize)
	for {
		n, err := r.audio.Read(buf)
		if n > 0 {
			chunk := append([]byte(nil), buf[:n]...)
			if werr := r.conn.WriteMessage(websocket.BinaryMessage, chunk); werr != nil {
				r.setErr(fmt.Errorf("failed to send audio: %w", werr))
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !r.intentional.Load() && !r.completed.Load() {
				r.setCode(domain.EngineErrorAudioCapture)
				r.setErr(fmt.Errorf("audio capture error: %w", err))
			}
			// Ask the service to flush whatever it still holds.
			_ = r.conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"CloseStream"}`))
			return
		}
	}
}

// finalCode maps the run outcome to an engine error code, or empty for a
// clean end. Intentional teardown reports "aborted", which the controller
// treats as noise.
func (r *sessionRun) finalCode() string {
	r.errMu.Lock()
	defer r.errMu.Unlock()
	if r.code != "" {
		return r.code
	}
	if r.intentional.Load() {
		return domain.EngineErrorAborted
	}
	if r.completed.Load() {
		return ""
	}
	if r.err != nil {
		return domain.EngineErrorNetwork
	}
	if !r.runCfg.Continuous && !r.sawSpeech.Load() {
		return domain.EngineErrorNoSpeech
	}
	return ""
}

// setErr records the first meaningful transport error. Expected close
// conditions are not errors.
func (r *sessionRun) setErr(err error) {
	if err == nil {
		return
	}
	if websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived,
	) {
		return
	}
	if errors.Is(err, net.ErrClosed) {
		return
	}

	r.errMu.Lock()
	defer r.errMu.Unlock()
	if r.err == nil {
		r.err = err
	}
}

func (r *sessionRun) setCode(code string) {
	r.errMu.Lock()
	defer r.errMu.Unlock()
	if r.code == "" {
		r.code = code
	}
}

type deepgramResponse struct {
	Type        string `json:"type"`
	Message     string `json:"message"`
	IsFinal     bool   `json:"is_final"`
	SpeechFinal bool   `json:"speech_final"`

	Channel struct {
		Alternatives []struct {
			Transcript string `json:"transcript"`
		} `json:"alternatives"`
	} `json:"channel"`

	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string `json:"transcript"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

func extractTranscript(response deepgramResponse) string {
	if len(response.Channel.Alternatives) > 0 {
		if text := strings.TrimSpace(response.Channel.Alternatives[0].Transcript); text != "" {
			return text
		}
	}
	if len(response.Results.Channels) > 0 && len(response.Results.Channels[0].Alternatives) > 0 {
		return strings.TrimSpace(response.Results.Channels[0].Alternatives[0].Transcript)
	}
	return ""
}
