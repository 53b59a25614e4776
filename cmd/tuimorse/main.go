// Package main provides the CLI entrypoint for tuimorse.
package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/tuimorse/internal/actuator"
	"github.com/verte-zerg/tuimorse/internal/config"
	"github.com/verte-zerg/tuimorse/internal/history"
	"github.com/verte-zerg/tuimorse/internal/model"
	"github.com/verte-zerg/tuimorse/internal/morse"
	"github.com/verte-zerg/tuimorse/internal/playback"
	"github.com/verte-zerg/tuimorse/internal/store"
	"github.com/verte-zerg/tuimorse/internal/tui"
)

const (
	defaultUnitMs  = 200
	defaultBackend = actuator.BackendAuto
	defaultPairing = string(playback.PairingTimeline)
)

var (
	playUnitMs    int
	playWPM       int
	playBackend   string
	playPairing   string
	playFrequency float64
	debugLogging  bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuimorse [text]",
		Short:         "Play text as Morse code",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayerCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.IntVar(&playUnitMs, "unit-ms", defaultUnitMs, "length of one dot in milliseconds")
	flags.IntVar(&playWPM, "wpm", 0, "words per minute (PARIS); overrides --unit-ms when set")
	flags.StringVar(&playBackend, "backend", defaultBackend, "output backend: "+strings.Join(actuator.Names(), ", "))
	flags.StringVar(&playPairing, "pairing", defaultPairing, "pulse pairing for pulse backends: timeline, paired")
	flags.Float64Var(&playFrequency, "frequency", actuator.DefaultFrequency, "tone frequency in Hz")
	flags.BoolVar(&debugLogging, "debug", false, "enable debug logging")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newEncodeCmd())
	rootCmd.AddCommand(newDecodeCmd())
	rootCmd.AddCommand(newPatternCmd())
	rootCmd.AddCommand(newTableCmd())
	rootCmd.AddCommand(newDrillCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

// loadFileConfig reads the config file overlaid with the environment.
func loadFileConfig() (config.FileConfig, error) {
	cfg, err := config.Load(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// resolvePlayback merges config, environment, and explicitly set flags.
func resolvePlayback(cmd *cobra.Command, fileCfg config.FileConfig) (model.Config, error) {
	applyIntConfig(cmd, "unit-ms", &playUnitMs, fileCfg.Playback.UnitMs)
	applyIntConfig(cmd, "wpm", &playWPM, fileCfg.Playback.WPM)
	applyStringConfig(cmd, "backend", &playBackend, fileCfg.Playback.Backend)
	applyStringConfig(cmd, "pairing", &playPairing, fileCfg.Playback.Pairing)
	applyFloatConfig(cmd, "frequency", &playFrequency, fileCfg.Playback.Frequency)

	cfg := model.Config{
		UnitMs:    playUnitMs,
		WPM:       playWPM,
		Backend:   playBackend,
		Pairing:   playPairing,
		Frequency: playFrequency,
	}
	return cfg, validateConfig(cfg)
}

func runPlayerCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	cfg, err := resolvePlayback(cmd, fileCfg)
	if err != nil {
		return err
	}

	zl, err := newLogger(config.DefaultLogPath(), debugLogging)
	if err != nil {
		return err
	}
	defer syncLogger(zl)
	logger := zl.Sugar()

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	// The screen already shows progress; text pulses would corrupt it.
	d, err := openDispatcher(cfg, io.Discard, logger)
	if err != nil {
		return err
	}
	rec := history.NewRecorder(st, logger)
	d.Subscribe(rec.Handle)

	m := tui.NewModel(tui.Options{
		Player:   d,
		Recorder: rec,
		History:  st,
		Logger:   logger,
		Unit:     cfg.Unit(),
		Backend:  d.Backend(),
		Strategy: d.Strategy(),
		Text:     strings.Join(args, " "),
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	d.Subscribe(tui.Forward(program))
	logger.Infow("starting player", "backend", d.Backend(), "strategy", d.Strategy(), "unit", cfg.Unit())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	d.Stop()
	return nil
}

func openDispatcher(cfg model.Config, out io.Writer, logger *zap.SugaredLogger) (*playback.Dispatcher, error) {
	pairing, err := playback.ParsePairing(cfg.Pairing)
	if err != nil {
		return nil, err
	}
	act, err := actuator.Open(cfg.Backend, actuator.Options{
		Frequency: cfg.Frequency,
		Unit:      cfg.Unit(),
		Output:    out,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}
	d, err := playback.New(act, playback.Options{
		Timing:  morse.Timing{Unit: cfg.Unit()},
		Pairing: pairing,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("backend %s: %w", act.Name(), err)
	}
	return d, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tuimorse configuration
# Uncomment a value to enable it. TUIMORSE_* environment variables override
# this file, and CLI flags override both.

[playback]
# unit-ms = %d            # Dot length in milliseconds
# wpm = 20                # Words per minute; overrides unit-ms
# backend = %q        # One of: %s
# pairing = %q    # timeline or paired
# frequency = %.0f         # Tone frequency in Hz

[drill]
# groups = %d              # Number of groups (or words) per drill
# group-size = %d          # Characters per random group
# chars = "KMRSUAPTLO"    # Character set for random groups
# wordlist = "%s"   # Used automatically when present and chars is unset
# max-len = 6             # Skip longer words from the word list
`,
		defaultUnitMs,
		defaultBackend,
		strings.Join(actuator.Names(), ", "),
		defaultPairing,
		actuator.DefaultFrequency,
		defaultDrillGroups,
		defaultDrillGroupSize,
		config.DefaultWordListPath(),
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.UnitMs <= 0 {
		return fmt.Errorf("--unit-ms must be > 0")
	}
	if cfg.WPM < 0 {
		return fmt.Errorf("--wpm must be >= 0")
	}
	if cfg.Frequency <= 0 {
		return fmt.Errorf("--frequency must be > 0")
	}
	if _, err := playback.ParsePairing(cfg.Pairing); err != nil {
		return err
	}
	for _, name := range actuator.Names() {
		if strings.EqualFold(strings.TrimSpace(cfg.Backend), name) {
			return nil
		}
	}
	return fmt.Errorf("unknown backend %q (available: %s)", cfg.Backend, strings.Join(actuator.Names(), ", "))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
