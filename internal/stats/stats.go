// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/verte-zerg/tuimorse/internal/model"
)

const sparkChars = " .:-=+*#%@"

// SessionMetrics computes characters per minute and words per minute for a
// session. A word is five characters.
func SessionMetrics(chars int, durationMs int64) (cpm, wpm float64) {
	if durationMs <= 0 {
		return 0, 0
	}
	minutes := float64(durationMs) / 60000.0
	cpm = float64(chars) / minutes
	return cpm, cpm / 5.0
}

// Completion is the share of the planned timeline that actually played.
func Completion(s model.SessionAggregate) float64 {
	if s.PlannedMs <= 0 {
		return 0
	}
	return math.Min(1, float64(s.DurationMs)/float64(s.PlannedMs))
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		out[i] = sum / float64(min(i+1, window))
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := lo.Min(values), lo.Max(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints totals and averages for sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	byOutcome := lo.CountValuesBy(sessions, func(s model.SessionAggregate) string { return s.Outcome })
	var totalCPM, bestWPM float64
	var played time.Duration
	for _, s := range sessions {
		cpm, wpm := SessionMetrics(s.Chars, s.DurationMs)
		totalCPM += cpm
		bestWPM = math.Max(bestWPM, wpm)
		played += time.Duration(s.DurationMs) * time.Millisecond
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d (completed %d, cancelled %d, failed %d)", len(sessions),
			byOutcome[model.OutcomeCompleted], byOutcome[model.OutcomeCancelled], byOutcome[model.OutcomeFailed]),
		fmt.Sprintf("Play time: %s", played.Round(time.Second)),
		fmt.Sprintf("Avg CPM: %.2f", totalCPM/float64(len(sessions))),
		fmt.Sprintf("Best WPM: %.2f", bestWPM),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves plots the moving-average speed and completion of sessions.
func RenderCurves(w io.Writer, sessions []model.SessionAggregate, window int, opts PlotOptions) error {
	if len(sessions) == 0 {
		return nil
	}
	wpms := lo.Map(sessions, func(s model.SessionAggregate, _ int) float64 {
		_, wpm := SessionMetrics(s.Chars, s.DurationMs)
		return wpm
	})
	done := lo.Map(sessions, func(s model.SessionAggregate, _ int) float64 {
		return Completion(s) * 100
	})
	if err := Plot(w, "WPM", MovingAverage(wpms, window), opts); err != nil {
		return err
	}
	return Plot(w, "Completion %", MovingAverage(done, window), opts)
}
