package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuimorse/internal/actuator"
	"github.com/verte-zerg/tuimorse/internal/config"
	"github.com/verte-zerg/tuimorse/internal/history"
	"github.com/verte-zerg/tuimorse/internal/morse"
	"github.com/verte-zerg/tuimorse/internal/playback"
	"github.com/verte-zerg/tuimorse/internal/store"
)

var (
	encodePlay     bool
	patternVerbose bool
)

func newEncodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode <text>",
		Short: "Print the Morse code for text",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runEncodeCmd,
	}
	cmd.Flags().BoolVar(&encodePlay, "play", false, "play the code after printing it")
	return cmd
}

func runEncodeCmd(cmd *cobra.Command, args []string) error {
	input := strings.Join(args, " ")
	code := morse.Encode(input)
	if code == "" {
		return fmt.Errorf("no encodable characters in %q", input)
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), code); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if !encodePlay {
		return nil
	}
	return playText(cmd, input)
}

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <morse>",
		Short: "Decode Morse code (letters separated by spaces, words by /)",
		// Dash-led tokens such as "-.-." would otherwise parse as flags.
		DisableFlagParsing: true,
		RunE:               runDecodeCmd,
	}
}

func runDecodeCmd(cmd *cobra.Command, args []string) error {
	if len(args) > 0 && args[0] == "--" {
		args = args[1:]
	}
	if len(args) == 1 && (args[0] == "-h" || args[0] == "--help") {
		return cmd.Help()
	}
	if len(args) == 0 {
		return fmt.Errorf("requires at least 1 arg(s), only received 0")
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), morse.Decode(strings.Join(args, " "))); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newPatternCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pattern <text>",
		Short: "Print the actuation timeline in milliseconds",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runPatternCmd,
	}
	cmd.Flags().BoolVarP(&patternVerbose, "verbose", "v", false, "print one row per element")
	return cmd
}

func runPatternCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	cfg, err := resolvePlayback(cmd, fileCfg)
	if err != nil {
		return err
	}
	code := morse.Encode(strings.Join(args, " "))
	p := morse.BuildPattern(code, morse.Timing{Unit: cfg.Unit()})
	out := cmd.OutOrStdout()

	if patternVerbose {
		t := table.NewWriter()
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"#", "Element", "Offset", "Duration", "Symbol"})
		var offset time.Duration
		for i, e := range p {
			t.AppendRow(table.Row{i, e.Kind, offset, e.Duration, string(code[e.Pos])})
			offset += e.Duration
		}
		t.SetColumnConfigs([]table.ColumnConfig{
			{Number: 3, Align: text.AlignRight},
			{Number: 4, Align: text.AlignRight},
		})
		if _, err := fmt.Fprintln(out, t.Render()); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	durations := lo.Map(p.Durations(), func(ms int64, _ int) string { return fmt.Sprintf("%d", ms) })
	if _, err := fmt.Fprintf(out, "[%s]\ntotal %dms, %d symbols, %d tokens, unit %s\n",
		strings.Join(durations, ", "), p.Total().Milliseconds(), p.Symbols(), morse.Groups(code), cfg.Unit()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newTableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "table",
		Short: "List every supported character and its code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t := table.NewWriter()
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Char", "Morse", "Char", "Morse", "Char", "Morse"})
			symbols := morse.Symbols()
			for _, chunk := range lo.Chunk(symbols, 3) {
				row := table.Row{}
				for _, r := range chunk {
					code, _ := morse.Lookup(r)
					row = append(row, string(r), code)
				}
				t.AppendRow(row)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return err
		},
	}
}

// playText plays input on the configured backend and waits until it ends
// or the user interrupts. The session is saved to history either way.
func playText(cmd *cobra.Command, input string) error {
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	cfg, err := resolvePlayback(cmd, fileCfg)
	if err != nil {
		return err
	}
	zl, err := newLogger("", debugLogging)
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

	out := cmd.OutOrStdout()
	d, err := openDispatcher(cfg, out, logger)
	if err != nil {
		return err
	}
	rec := history.NewRecorder(st, logger)
	d.Subscribe(rec.Handle)
	done := make(chan playback.Event, 1)
	d.Subscribe(func(ev playback.Event) {
		if ev.Kind.Final() {
			done <- ev
		}
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	code := morse.Encode(input)
	rec.Expect(input, code)
	ok, err := d.Start(code)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("nothing to play")
	}

	var ev playback.Event
	select {
	case ev = <-done:
	case <-ctx.Done():
		d.Stop()
		ev = <-done
	}
	if d.Backend() == actuator.BackendText && ev.Kind == playback.EventCompleted {
		writeLine(out)
	}
	logErrf("%s: %d/%d symbols in %s (%s/%s)\n", ev.Kind, ev.Session.Fired, ev.Session.Planned,
		ev.At.Sub(ev.Session.StartedAt).Round(10*time.Millisecond), d.Backend(), d.Strategy())
	return nil
}

func writeLine(w io.Writer) {
	if _, err := fmt.Fprintln(w); err != nil {
		// Best-effort newline after text pulses.
		_ = err
	}
}
