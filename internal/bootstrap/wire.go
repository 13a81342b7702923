package bootstrap

import (
	"github.com/Srijith-23/Wake-Sleep-model/internal/audio"
	"github.com/Srijith-23/Wake-Sleep-model/internal/config"
	"github.com/Srijith-23/Wake-Sleep-model/internal/logging"
	"github.com/Srijith-23/Wake-Sleep-model/internal/ports"
	"github.com/Srijith-23/Wake-Sleep-model/internal/providers/deepgram"
	"github.com/Srijith-23/Wake-Sleep-model/internal/rules"
	"github.com/Srijith-23/Wake-Sleep-model/internal/usecase"

	"github.com/sirupsen/logrus"
)

// Services is the assembled runtime graph.
type Services struct {
	Controller *usecase.TranscriptionController
	Config     *config.Config
	Logger     *logrus.Logger
	Rules      *rules.Engine
}

// Build wires all backend dependencies for the current runtime. An empty
// configPath selects the default config location.
func Build(eventSink ports.EventSink, configPath string) (Services, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return Services{}, err
	}

	logger, err := logging.Configure(cfg)
	if err != nil {
		return Services{}, err
	}

	rulesEngine, err := rules.NewEngine(cfg.Rules.Path, cfg.Rules.IterationLimit)
	if err != nil {
		return Services{}, err
	}

	command, extraArgs, err := audio.ParseCommandLine(cfg.Audio.RecorderCommand)
	if err != nil {
		return Services{}, err
	}

	engine := deepgram.NewEngine(deepgram.Config{
		APIKey:      cfg.Deepgram.APIKey,
		APIBaseURL:  cfg.Deepgram.APIBaseURL,
		Model:       cfg.Deepgram.Model,
		SmartFormat: cfg.Deepgram.SmartFormat,
		Capture:     audio.NewCapture(command, extraArgs...),
		Audio: ports.AudioConfig{
			SampleRate:  cfg.Audio.SampleRate,
			Channels:    cfg.Audio.Channels,
			InputFormat: cfg.Audio.InputFormat,
			InputDevice: cfg.Audio.InputDevice,
		},
		ChunkSize:       cfg.Audio.ChunkSize,
		NoSpeechTimeout: cfg.Deepgram.NoSpeechTimeout(),
		Logger:          logger,
	})

	controller := usecase.NewTranscriptionController(engine, rulesEngine, eventSink, logger, usecase.Config{
		WakeWord:           cfg.Controller.WakeWord,
		SleepWord:          cfg.Controller.SleepWord,
		Language:           cfg.Controller.Language,
		InactivityTimeout:  cfg.Controller.InactivityTimeout(),
		MaxRestartAttempts: cfg.Controller.MaxRestartAttempts,
	})

	return Services{Controller: controller, Config: cfg, Logger: logger, Rules: rulesEngine}, nil
}
