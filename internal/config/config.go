package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultWakeWord  = "hi"
	DefaultSleepWord = "bye"

	defaultInactivitySec  = 120
	defaultRestartCeiling = 3
	defaultNoSpeechSec    = 8

	defaultConfigDir     = ".config/wakesleep"
	defaultStateDirLinux = ".local/state/wakesleep"
)

// Config holds user configuration loaded from TOML with environment
// overrides.
type Config struct {
	Controller ControllerConfig `toml:"controller"`
	Deepgram   DeepgramConfig   `toml:"deepgram"`
	Audio      AudioConfig      `toml:"audio"`
	Rules      RulesConfig      `toml:"rules"`
	Logging    LoggingConfig    `toml:"logging"`
	Paths      PathsConfig      `toml:"paths"`
}

type ControllerConfig struct {
	WakeWord             string `toml:"wake_word"`
	SleepWord            string `toml:"sleep_word"`
	Language             string `toml:"language"`
	InactivityTimeoutSec int    `toml:"inactivity_timeout_sec"`
	MaxRestartAttempts   int    `toml:"max_restart_attempts"`
}

// InactivityTimeout converts the configured seconds into a duration.
func (c ControllerConfig) InactivityTimeout() time.Duration {
	return time.Duration(c.InactivityTimeoutSec) * time.Second
}

type DeepgramConfig struct {
	APIKey             string `toml:"api_key"`
	APIBaseURL         string `toml:"api_base_url"`
	Model              string `toml:"model"`
	SmartFormat        bool   `toml:"smart_format"`
	NoSpeechTimeoutSec int    `toml:"no_speech_timeout_sec"`
}

func (c DeepgramConfig) NoSpeechTimeout() time.Duration {
	return time.Duration(c.NoSpeechTimeoutSec) * time.Second
}

type AudioConfig struct {
	RecorderCommand string `toml:"recorder_command"`
	InputFormat     string `toml:"input_format"`
	InputDevice     string `toml:"input_device"`
	SampleRate      int    `toml:"sample_rate"`
	Channels        int    `toml:"channels"`
	ChunkSize       int    `toml:"chunk_size"`
}

type RulesConfig struct {
	Path           string `toml:"path"`
	IterationLimit int    `toml:"iteration_limit"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // text, json
	Stdout bool   `toml:"stdout"`
}

type PathsConfig struct {
	StateDir   string `toml:"state_dir"`
	LogPath    string `toml:"log_path"`
	ConfigPath string `toml:"-"`
}

// Default returns Config populated with defaults.
func Default() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.New("could not determine home directory")
	}

	stateDir := filepath.Join(home, defaultStateDirLinux)
	// macOS keeps state under ~/Library/Application Support.
	if runtime.GOOS == "darwin" {
		stateDir = filepath.Join(home, "Library", "Application Support", "wakesleep")
	}

	cfg := &Config{}

	cfg.Controller.WakeWord = DefaultWakeWord
	cfg.Controller.SleepWord = DefaultSleepWord
	cfg.Controller.InactivityTimeoutSec = defaultInactivitySec
	cfg.Controller.MaxRestartAttempts = defaultRestartCeiling

	cfg.Deepgram.APIBaseURL = "https://api.deepgram.com/v1"
	cfg.Deepgram.Model = "nova-2"
	cfg.Deepgram.SmartFormat = true
	cfg.Deepgram.NoSpeechTimeoutSec = defaultNoSpeechSec

	cfg.Audio.RecorderCommand = "ffmpeg"
	cfg.Audio.InputFormat = "pulse"
	cfg.Audio.InputDevice = "default"
	cfg.Audio.SampleRate = 16000
	cfg.Audio.Channels = 1
	cfg.Audio.ChunkSize = 4096

	cfg.Rules.Path = filepath.Join(home, defaultConfigDir, "substitutions.rules")
	cfg.Rules.IterationLimit = 30

	cfg.Logging.Level = "info"
	cfg.Logging.Format = "text"

	cfg.Paths.StateDir = stateDir
	cfg.Paths.LogPath = filepath.Join(stateDir, "wakesleep.log")

	return cfg, nil
}

// Load reads config from path, writing a template on first run, then layers
// environment overrides and sanitizes the result. An empty path means the
// default location.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	if path == "" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, defaultConfigDir, "config.toml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err := Save(cfg, path); err != nil {
				return nil, err
			}
			cfg.Paths.ConfigPath = path
			applyEnvOverrides(cfg)
			sanitize(cfg)
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	cfg.Paths.ConfigPath = path
	applyEnvOverrides(cfg)
	sanitize(cfg)
	return cfg, nil
}

// Save writes cfg to path, creating parent directories as needed.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o600)
}

// EnsureStateDirs creates the state and log directories.
func EnsureStateDirs(cfg *Config) error {
	for _, p := range []string{cfg.Paths.StateDir, filepath.Dir(cfg.Paths.LogPath)} {
		if p == "" {
			continue
		}
		if err := os.MkdirAll(p, 0o755); err != nil {
			return err
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.Controller.WakeWord, "WAKESLEEP_WAKE_WORD")
	overrideString(&cfg.Controller.SleepWord, "WAKESLEEP_SLEEP_WORD")
	overrideString(&cfg.Controller.Language, "WAKESLEEP_LANGUAGE")
	overrideInt(&cfg.Controller.InactivityTimeoutSec, "WAKESLEEP_INACTIVITY_TIMEOUT_SEC")
	overrideInt(&cfg.Controller.MaxRestartAttempts, "WAKESLEEP_MAX_RESTART_ATTEMPTS")

	overrideString(&cfg.Deepgram.APIKey, "DEEPGRAM_API_KEY")
	overrideString(&cfg.Deepgram.APIBaseURL, "DEEPGRAM_API_BASE")
	overrideString(&cfg.Deepgram.Model, "DEEPGRAM_MODEL")
	overrideBool(&cfg.Deepgram.SmartFormat, "DEEPGRAM_SMART_FORMAT")

	overrideString(&cfg.Audio.RecorderCommand, "WAKESLEEP_RECORDER_COMMAND")
	overrideString(&cfg.Audio.InputFormat, "WAKESLEEP_AUDIO_INPUT_FORMAT")
	overrideString(&cfg.Audio.InputDevice, "WAKESLEEP_AUDIO_INPUT_DEVICE")
	overrideInt(&cfg.Audio.SampleRate, "WAKESLEEP_SAMPLE_RATE")
	overrideInt(&cfg.Audio.Channels, "WAKESLEEP_CHANNELS")

	overrideString(&cfg.Rules.Path, "WAKESLEEP_RULES_FILE")
	overrideString(&cfg.Logging.Level, "WAKESLEEP_LOG_LEVEL")
	overrideString(&cfg.Logging.Format, "WAKESLEEP_LOG_FORMAT")
}

// sanitize backfills values that would otherwise break the controller, in
// particular blank trigger phrases, which must never match.
func sanitize(cfg *Config) {
	if strings.TrimSpace(cfg.Controller.WakeWord) == "" {
		cfg.Controller.WakeWord = DefaultWakeWord
	}
	if strings.TrimSpace(cfg.Controller.SleepWord) == "" {
		cfg.Controller.SleepWord = DefaultSleepWord
	}
	if cfg.Controller.InactivityTimeoutSec <= 0 {
		cfg.Controller.InactivityTimeoutSec = defaultInactivitySec
	}
	if cfg.Controller.MaxRestartAttempts <= 0 {
		cfg.Controller.MaxRestartAttempts = defaultRestartCeiling
	}
	if cfg.Deepgram.NoSpeechTimeoutSec <= 0 {
		cfg.Deepgram.NoSpeechTimeoutSec = defaultNoSpeechSec
	}
	if cfg.Audio.SampleRate <= 0 {
		cfg.Audio.SampleRate = 16000
	}
	if cfg.Audio.Channels <= 0 {
		cfg.Audio.Channels = 1
	}
	if cfg.Audio.ChunkSize < 256 {
		cfg.Audio.ChunkSize = 4096
	}
	if cfg.Rules.IterationLimit <= 0 {
		cfg.Rules.IterationLimit = 30
	}
}

func overrideString(target *string, key string) {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		*target = value
	}
}

func overrideInt(target *int, key string) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return
	}
	if parsed, err := strconv.Atoi(value); err == nil {
		*target = parsed
	}
}

func overrideBool(target *bool, key string) {
	switch strings.TrimSpace(strings.ToLower(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		*target = true
	case "0", "false", "no", "off":
		*target = false
	}
}
