package stats

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/verte-zerg/tuimorse/internal/model"
)

const textColumnWidth = 32

// RenderSessions prints one table row per session, oldest first.
func RenderSessions(w io.Writer, sessions []model.SessionAggregate, useColor bool) error {
	if len(sessions) == 0 {
		return nil
	}
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Ended", "Text", "Outcome", "Chars", "Pulses", "Played", "WPM"})
	for _, s := range sessions {
		_, wpm := SessionMetrics(s.Chars, s.DurationMs)
		outcome := s.Outcome
		if useColor {
			outcome = outcomeColor(s.Outcome)(outcome)
		}
		id := s.UUID
		if len(id) > 8 {
			id = id[:8]
		}
		t.AppendRow(table.Row{
			id,
			s.EndedAt.Local().Format("2006-01-02 15:04"),
			text.Trim(s.Text, textColumnWidth),
			outcome,
			s.Chars,
			s.Fired,
			(time.Duration(s.DurationMs) * time.Millisecond).Round(100 * time.Millisecond),
			fmt.Sprintf("%.1f", wpm),
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
		{Number: 8, Align: text.AlignRight},
	})
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func outcomeColor(outcome string) func(a ...interface{}) string {
	switch outcome {
	case model.OutcomeCompleted:
		return text.FgGreen.Sprint
	case model.OutcomeCancelled:
		return text.FgYellow.Sprint
	default:
		return text.FgHiRed.Sprint
	}
}
