package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/tuimorse/internal/config"
	"github.com/verte-zerg/tuimorse/internal/historyui"
	"github.com/verte-zerg/tuimorse/internal/model"
	"github.com/verte-zerg/tuimorse/internal/stats"
	"github.com/verte-zerg/tuimorse/internal/store"
)

const defaultCurveWindow = 20

var (
	historySince       string
	historyLast        int
	historyCurveWindow int
	historyOutcome     string
	historyTop         int
	historyTUI         bool
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show playback history",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&historyCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().StringVar(&historyOutcome, "outcome", "", "only completed, cancelled, or failed sessions")
	cmd.Flags().IntVar(&historyTop, "top", 10, "number of most played characters to list")
	cmd.Flags().BoolVar(&historyTUI, "tui", false, "browse history interactively")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if historySince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", historySince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	switch historyOutcome {
	case "", model.OutcomeCompleted, model.OutcomeCancelled, model.OutcomeFailed:
	default:
		return fmt.Errorf("invalid --outcome value %q", historyOutcome)
	}

	cfg := model.HistoryConfig{
		Since:       sinceTime,
		Last:        historyLast,
		CurveWindow: historyCurveWindow,
		Outcome:     historyOutcome,
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if historyTUI {
		program := tea.NewProgram(historyui.NewModel(st, cfg), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run history UI: %w", err)
		}
		return nil
	}

	report, err := stats.BuildReport(cmd.Context(), st, cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	useColor := false
	if f, ok := out.(*os.File); ok {
		useColor = term.IsTerminal(int(f.Fd())) && os.Getenv("NO_COLOR") == ""
	}
	if err := stats.RenderSummary(out, report.Sessions); err != nil {
		return err
	}
	if err := stats.RenderSessions(out, report.Sessions, useColor); err != nil {
		return err
	}
	if len(report.Sessions) > 1 {
		if err := stats.RenderCurves(out, report.Sessions, cfg.CurveWindow, stats.PlotOptions{}); err != nil {
			return err
		}
	}
	if err := stats.RenderCharTable(out, report.CharAggsWindow); err != nil {
		return err
	}
	if top := stats.TopChars(report.CharAggsAll, historyTop); len(top) > 0 {
		if _, err := fmt.Fprintf(out, "Most played: %v\n", top); err != nil {
			return err
		}
	}
	return nil
}
