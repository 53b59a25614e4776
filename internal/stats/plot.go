package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/term"
)

const (
	defaultPlotHeight   = 6
	minPlotWidth        = 10
	terminalWidthBackup = 80
	axisWidth           = 10
	colorReset          = "\x1b[0m"
	colorBars           = "\x1b[36m"
)

// Eighth-block glyphs, lowest first.
var barGlyphs = []rune(" ▁▂▃▄▅▆▇█")

// PlotOptions sizes a plot. Zero values mean auto width, default height, and
// color only on a terminal.
type PlotOptions struct {
	Width      int
	Height     int
	ForceColor bool
}

// Plot renders values as a column chart, resampled to the plot width.
func Plot(w io.Writer, title string, values []float64, opts PlotOptions) error {
	if len(values) == 0 {
		return nil
	}
	height := opts.Height
	if height <= 0 {
		height = defaultPlotHeight
	}
	width := opts.Width
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	width = max(width, minPlotWidth)
	values = resample(values, width)

	minVal, maxVal := lo.Min(values), lo.Max(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		minVal--
		maxVal++
	}
	levels := height * (len(barGlyphs) - 1)
	heights := lo.Map(values, func(v float64, _ int) int {
		return int(math.Round((v - minVal) / (maxVal - minVal) * float64(levels)))
	})

	useColor := shouldUseColor(w, opts.ForceColor)
	lines := []string{title}
	for row := height - 1; row >= 0; row-- {
		label := ""
		switch row {
		case height - 1:
			label = fmt.Sprintf("%.1f", maxVal)
		case 0:
			label = fmt.Sprintf("%.1f", minVal)
		}
		var b strings.Builder
		fmt.Fprintf(&b, "%*s │ ", axisWidth-3, label)
		if useColor {
			b.WriteString(colorBars)
		}
		base := row * (len(barGlyphs) - 1)
		for _, h := range heights {
			fill := max(0, min(h-base, len(barGlyphs)-1))
			b.WriteRune(barGlyphs[fill])
		}
		if useColor {
			b.WriteString(colorReset)
		}
		lines = append(lines, strings.TrimRight(b.String(), " "))
	}
	lines = append(lines, "")
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// PlotWidthFor returns the plot width that fits in totalWidth columns.
func PlotWidthFor(totalWidth int) int {
	return max(totalWidth-axisWidth, minPlotWidth)
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if force {
		return true
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// resample averages values into width buckets, or stretches them when
// there are fewer values than columns.
func resample(values []float64, width int) []float64 {
	out := make([]float64, width)
	n := len(values)
	for x := 0; x < width; x++ {
		from := x * n / width
		to := (x + 1) * n / width
		if to <= from {
			out[x] = values[from]
			continue
		}
		out[x] = lo.Sum(values[from:to]) / float64(to-from)
	}
	return out
}
