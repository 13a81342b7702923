package deepgram

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Srijith-23/Wake-Sleep-model/internal/ports"
)

// Config controls the Deepgram websocket engine.
type Config struct {
	APIKey      string
	APIBaseURL  string
	Model       string
	SmartFormat bool

	// Capture provides microphone audio for each session run.
	Capture ports.AudioCapture
	Audio   ports.AudioConfig

	ChunkSize int
	// NoSpeechTimeout bounds how long a single-utterance run waits for the
	// first transcript before reporting no-speech.
	NoSpeechTimeout time.Duration

	Logger *logrus.Logger
}

// Engine implements ports.RecognitionEngine on top of the Deepgram live
// transcription websocket.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "https://api.deepgram.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "nova-2"
	}
	if cfg.ChunkSize < 256 {
		cfg.ChunkSize = 4096
	}
	if cfg.NoSpeechTimeout <= 0 {
		cfg.NoSpeechTimeout = 8 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	return &Engine{cfg: cfg}
}

// Available reports whether the engine can open sessions at all. It is
// computed from configuration, not probed over the network.
func (e *Engine) Available() bool {
	return strings.TrimSpace(e.cfg.APIKey) != "" && e.cfg.Capture != nil
}

// NewSession hands out a reusable session handle bound to cb.
func (e *Engine) NewSession(cb ports.SessionCallbacks) (ports.RecognitionSession, error) {
	if !e.Available() {
		return nil, fmt.Errorf("deepgram engine is not configured: missing API key or audio capture")
	}
	return &Session{
		cfg: e.cfg,
		cb:  cb,
		pending: ports.SessionConfig{
			InterimResults: true,
		},
	}, nil
}

func buildListenURL(cfg Config, runCfg ports.SessionConfig) (string, error) {
	base := strings.TrimSpace(cfg.APIBaseURL)
	if base == "" {
		base = "https://api.deepgram.com/v1"
	}

	if strings.HasPrefix(base, "https://") {
		base = "wss://" + strings.TrimPrefix(base, "https://")
	} else if strings.HasPrefix(base, "http://") {
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	base = strings.TrimRight(base, "/")

	listenURL, err := url.Parse(base + "/listen")
	if err != nil {
		return "", fmt.Errorf("invalid Deepgram API base URL: %w", err)
	}

	sampleRate := cfg.Audio.SampleRate
	if sampleRate <= 0 {
		sampleRate = 16000
	}
	channels := cfg.Audio.Channels
	if channels <= 0 {
		channels = 1
	}

	query := listenURL.Query()
	query.Set("model", cfg.Model)
	query.Set("encoding", "linear16")
	query.Set("sample_rate", fmt.Sprintf("%d", sampleRate))
	query.Set("channels", fmt.Sprintf("%d", channels))
	query.Set("interim_results", fmt.Sprintf("%t", runCfg.InterimResults))
	query.Set("smart_format", fmt.Sprintf("%t", cfg.SmartFormat))
	if lang := strings.TrimSpace(runCfg.Language); lang != "" && !strings.EqualFold(lang, "auto") {
		query.Set("language", lang)
	}
	listenURL.RawQuery = query.Encode()
	return listenURL.String(), nil
}
