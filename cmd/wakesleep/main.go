package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/Srijith-23/Wake-Sleep-model/internal/bootstrap"
	"github.com/Srijith-23/Wake-Sleep-model/internal/config"
	"github.com/Srijith-23/Wake-Sleep-model/internal/doctor"
	"github.com/Srijith-23/Wake-Sleep-model/internal/tui"
)

const version = "0.1.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	root := &cobra.Command{
		Use:   "wakesleep",
		Short: "Hands-free transcription gated by trigger phrases",
		Long: `Wake Sleep listens on your mic, waits for a wake word, and transcribes
speech through Deepgram until it hears the sleep word. Trigger utterances
never land in the transcript.

Run without arguments for the interactive TUI.

Env overrides: WAKESLEEP_WAKE_WORD, WAKESLEEP_SLEEP_WORD, WAKESLEEP_LANGUAGE,
               DEEPGRAM_API_KEY, DEEPGRAM_MODEL, WAKESLEEP_LOG_LEVEL/FORMAT`,
		DisableFlagsInUseLine: true,
		SilenceUsage:          true,
	}

	root.Version = version
	root.SetVersionTemplate("wakesleep v{{.Version}}\n")

	cfgPath := root.PersistentFlags().StringP("config", "c", "", "Path to config file (TOML). Defaults to ~/.config/wakesleep/config.toml")
	root.CompletionOptions.DisableDefaultCmd = true

	root.RunE = func(cmd *cobra.Command, args []string) error {
		return runTUI(*cfgPath)
	}

	root.AddCommand(newDoctorCmd(cfgPath))
	root.AddCommand(newConfigCmd(cfgPath))

	return root.Execute()
}

func runTUI(cfgPath string) error {
	sink := tui.NewSink()
	services, err := bootstrap.Build(sink, cfgPath)
	if err != nil {
		return err
	}
	defer services.Controller.Close()

	model := tui.New(services.Controller, sink)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

// newDoctorCmd runs environment checks.
func newDoctorCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check dependencies and config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			results := doctor.Run(cfg)
			failed := false
			for _, r := range results {
				status := "ok"
				if !r.Pass {
					status = "fail"
					failed = true
				}
				fmt.Printf("%-18s %-4s %s\n", r.Name, status, r.Detail)
			}
			if failed {
				return fmt.Errorf("doctor found issues")
			}
			return nil
		},
	}
}

// newConfigCmd inspects the effective configuration.
func newConfigCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective config (secrets redacted)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			redacted := *cfg
			if redacted.Deepgram.APIKey != "" {
				redacted.Deepgram.APIKey = "<set>"
			}
			out, err := toml.Marshal(redacted)
			if err != nil {
				return err
			}
			fmt.Print(string(out))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			fmt.Println(cfg.Paths.ConfigPath)
			return nil
		},
	})

	return cmd
}
