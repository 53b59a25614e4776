// Package historyui provides the interactive history browser.
package historyui

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuimorse/internal/model"
	"github.com/verte-zerg/tuimorse/internal/morse"
	"github.com/verte-zerg/tuimorse/internal/stats"
)

const (
	tabOverview = iota
	tabSessions
	tabChars
)

const plotHeight = 6

var outcomeFilters = []string{"", model.OutcomeCompleted, model.OutcomeCancelled, model.OutcomeFailed}

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// Model implements the Bubble Tea history UI.
type Model struct {
	src stats.Source
	cfg model.HistoryConfig

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	overview  viewport.Model
	sessions  table.Model
	chars     table.Model

	width  int
	height int
}

// NewModel constructs a history UI model.
func NewModel(src stats.Source, cfg model.HistoryConfig) *Model {
	m := &Model{
		src:      src,
		cfg:      cfg,
		tabs:     []string{"Overview", "Sessions", "Characters"},
		overview: viewport.New(0, 0),
		sessions: newTable(sessionColumns()),
		chars:    newTable(charColumns()),
	}
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderOverview()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "o":
			m.cfg.Outcome = nextOutcome(m.cfg.Outcome)
			m.refreshReport()
			return m, nil
		case "=":
			m.cfg.CurveWindow++
			m.refreshReport()
			return m, nil
		case "-":
			if m.cfg.CurveWindow > 1 {
				m.cfg.CurveWindow--
				m.refreshReport()
			}
			return m, nil
		}
		var cmd tea.Cmd
		switch m.activeTab {
		case tabSessions:
			m.sessions, cmd = m.sessions.Update(msg)
		case tabChars:
			m.chars, cmd = m.chars.Update(msg)
		default:
			m.overview, cmd = m.overview.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	var body string
	switch m.activeTab {
	case tabSessions:
		body = m.sessions.View()
	case tabChars:
		body = m.chars.View()
	default:
		body = m.overview.View()
	}
	if len(m.report.Sessions) == 0 && m.errMsg == "" {
		body = "No sessions found."
	}
	footer := headerStyle.Render("Nav: left/right  Scroll: up/down  Outcome: o  Window: -/=  Quit: q")
	if m.errMsg != "" {
		footer += "\n" + errorStyle.Render(m.errMsg)
	}
	return strings.Join([]string{m.renderTabs(), m.renderFilterSummary(), body, footer}, "\n")
}

func (m *Model) updateLayout() {
	bodyHeight := max(m.height-6, 1)
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	m.sessions.SetWidth(m.width)
	m.sessions.SetHeight(bodyHeight)
	m.chars.SetWidth(m.width)
	m.chars.SetHeight(bodyHeight)
}

func (m *Model) moveTab(delta int) {
	m.activeTab = (m.activeTab + delta + len(m.tabs)) % len(m.tabs)
	m.sessions.Blur()
	m.chars.Blur()
	switch m.activeTab {
	case tabSessions:
		m.sessions.Focus()
	case tabChars:
		m.chars.Focus()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderFilterSummary() string {
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = fmt.Sprintf("%d", m.cfg.Last)
	}
	outcome := m.cfg.Outcome
	if outcome == "" {
		outcome = "any"
	}
	return headerStyle.Render(fmt.Sprintf("Settings: outcome=%s  since=%s  last=%s  window=%d",
		outcome, since, last, m.cfg.CurveWindow))
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.src, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		m.overview.SetContent("Failed to load history.")
		return
	}
	m.errMsg = ""
	m.report = report
	m.sessions.SetRows(sessionRows(report.Sessions))
	m.chars.SetRows(charRows(report.CharAggsAll))
	m.renderOverview()
}

func (m *Model) renderOverview() {
	if m.errMsg != "" {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	var buf bytes.Buffer
	if err := stats.RenderSummary(&buf, m.report.Sessions); err != nil {
		m.errMsg = err.Error()
		return
	}
	if len(m.report.Sessions) > 1 {
		opts := stats.PlotOptions{Width: stats.PlotWidthFor(width), Height: plotHeight}
		if err := stats.RenderCurves(&buf, m.report.Sessions, m.cfg.CurveWindow, opts); err != nil {
			m.errMsg = err.Error()
			return
		}
	}
	m.overview.SetContent(strings.TrimRight(buf.String(), "\n"))
}

func newTable(columns []table.Column) table.Model {
	t := table.New(table.WithColumns(columns), table.WithHeight(1))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#F0F0F0")).
		Background(lipgloss.Color("#4A4A4A"))
	t.SetStyles(styles)
	return t
}

func sessionColumns() []table.Column {
	return []table.Column{
		{Title: "Ended", Width: 16},
		{Title: "Text", Width: 24},
		{Title: "Outcome", Width: 9},
		{Title: "Chars", Width: 5},
		{Title: "Played", Width: 8},
		{Title: "WPM", Width: 5},
	}
}

// sessionRows lists sessions newest first.
func sessionRows(sessions []model.SessionAggregate) []table.Row {
	rows := make([]table.Row, 0, len(sessions))
	for i := len(sessions) - 1; i >= 0; i-- {
		s := sessions[i]
		_, wpm := stats.SessionMetrics(s.Chars, s.DurationMs)
		rows = append(rows, table.Row{
			s.EndedAt.Local().Format("2006-01-02 15:04"),
			s.Text,
			s.Outcome,
			fmt.Sprintf("%d", s.Chars),
			(time.Duration(s.DurationMs) * time.Millisecond).Round(100 * time.Millisecond).String(),
			fmt.Sprintf("%.1f", wpm),
		})
	}
	return rows
}

func charColumns() []table.Column {
	return []table.Column{
		{Title: "Char", Width: 4},
		{Title: "Morse", Width: 8},
		{Title: "Played", Width: 7},
	}
}

func charRows(aggs []model.CharAggregate) []table.Row {
	counts := make(map[string]int, len(aggs))
	for _, agg := range aggs {
		counts[agg.Char] = agg.Count
	}
	order := stats.TopChars(aggs, len(aggs))
	rows := make([]table.Row, 0, len(order))
	for _, ch := range order {
		code := ""
		if runes := []rune(ch); len(runes) == 1 {
			code, _ = morse.Lookup(runes[0])
		}
		rows = append(rows, table.Row{ch, code, fmt.Sprintf("%d", counts[ch])})
	}
	return rows
}

func nextOutcome(current string) string {
	for i, o := range outcomeFilters {
		if o == current {
			return outcomeFilters[(i+1)%len(outcomeFilters)]
		}
	}
	return ""
}
