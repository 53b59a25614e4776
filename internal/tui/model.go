// Package tui provides the Bubble Tea Morse playback interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/tuimorse/internal/model"
	"github.com/verte-zerg/tuimorse/internal/playback"
)

// Player is the dispatcher surface the screen drives.
type Player interface {
	Start(code string) (bool, error)
	Stop() bool
}

// Expecter receives the source text of a playback before it starts.
type Expecter interface {
	Expect(text, code string)
}

// HistoryLister loads past sessions for the footer.
type HistoryLister interface {
	ListSessions(ctx context.Context, cfg model.HistoryConfig) ([]model.SessionAggregate, error)
}

// Options wires a Model.
type Options struct {
	Player   Player
	Recorder Expecter
	History  HistoryLister
	Logger   *zap.SugaredLogger
	Unit     time.Duration
	Backend  string
	Strategy string
	// Text pre-fills the input.
	Text string
	// Copy defaults to the system clipboard.
	Copy func(string) error
}

type eventMsg struct {
	ev playback.Event
}

// Forward returns a dispatcher subscriber that hands events to the program
// in order. Start and Stop emit from inside Update, so delivery runs on its
// own goroutine.
func Forward(p *tea.Program) func(playback.Event) {
	queue := make(chan playback.Event, 256)
	go func() {
		for ev := range queue {
			p.Send(eventMsg{ev: ev})
		}
	}()
	return func(ev playback.Event) {
		queue <- ev
	}
}

// Model implements the Bubble Tea playback UI.
type Model struct {
	opts  Options
	input textinput.Model
	state model.SessionState

	width  int
	height int

	sessionID string
	playing   string
	current   int
	fired     int
	planned   int

	notice      string
	lastOutcome string
	lastPlayed  time.Duration

	historySessions int
	historyPlayed   time.Duration
}

var (
	titleStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	idleStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	playedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	pendingStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentTokenStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	currentStyle      = currentTokenStyle.Bold(true).Underline(true)
	noticeStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs the playback TUI model.
func NewModel(opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	if opts.Copy == nil {
		opts.Copy = clipboard.WriteAll
	}
	input := textinput.New()
	input.Placeholder = "Type text to send"
	input.Prompt = "> "
	input.Focus()

	m := &Model{opts: opts, input: input, current: -1}
	if opts.Text != "" {
		m.input.SetValue(opts.Text)
		m.state = m.state.WithText(opts.Text)
	}
	m.loadFooterStats()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width*7/10-len(m.input.Prompt)-1, 1)
		return m, nil
	case eventMsg:
		m.handleEvent(msg.ev)
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			if m.state.CanStop() {
				m.opts.Player.Stop()
			}
			return m, tea.Quit
		case tea.KeyEnter:
			m.start()
			return m, nil
		case tea.KeyEsc:
			m.stop()
			return m, nil
		case tea.KeyCtrlY:
			m.copyMorse()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != m.state.Text {
		m.state = m.state.WithText(m.input.Value())
		m.notice = ""
	}
	return m, cmd
}

func (m *Model) start() {
	if !m.state.CanStart() {
		return
	}
	code := m.state.Morse
	if m.opts.Recorder != nil {
		m.opts.Recorder.Expect(m.state.Text, code)
	}
	ok, err := m.opts.Player.Start(code)
	if err != nil {
		m.notice = err.Error()
		m.lastOutcome = model.OutcomeFailed
		return
	}
	if !ok {
		return
	}
	m.state = m.state.Started()
	m.playing = code
	m.current = -1
	m.fired = 0
	m.notice = ""
}

func (m *Model) stop() {
	if !m.state.CanStop() {
		return
	}
	m.opts.Player.Stop()
}

func (m *Model) copyMorse() {
	if m.state.Morse == "" {
		return
	}
	if err := m.opts.Copy(m.state.Morse); err != nil {
		m.opts.Logger.Warnw("failed to copy morse", "error", err)
		m.notice = "clipboard unavailable"
		return
	}
	m.notice = "Morse copied"
}

func (m *Model) handleEvent(ev playback.Event) {
	// A pulse can race ahead of the started event on the real clock.
	if m.sessionID != ev.Session.ID && !ev.Kind.Final() && m.state.Playing {
		m.sessionID = ev.Session.ID
		m.playing = ev.Session.Morse
		m.planned = ev.Session.Planned
	}
	if ev.Session.ID != m.sessionID {
		return
	}
	switch ev.Kind {
	case playback.EventStarted:
		m.planned = ev.Session.Planned
	case playback.EventPulse:
		if ev.Pulse.Index < len(ev.Session.Pattern) {
			m.current = ev.Session.Pattern[ev.Pulse.Index].Pos
		}
		m.fired = ev.Session.Fired
	case playback.EventFailed:
		if ev.Err != nil {
			m.notice = ev.Err.Error()
		}
	case playback.EventCompleted, playback.EventCancelled:
		m.state = m.state.Stopped()
		m.current = -1
		m.sessionID = ""
		m.fired = ev.Session.Fired
		m.lastOutcome = ev.Kind.String()
		m.lastPlayed = ev.At.Sub(ev.Session.StartedAt)
		m.historySessions++
		m.historyPlayed += m.lastPlayed
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	code := m.state.Morse
	current := -1
	if m.state.Playing {
		code = m.playing
		current = m.current
	}
	styled := buildStyledRunes(code, current)
	if m.width == 0 || m.height == 0 {
		return m.input.View() + "\n" + renderStyledRunes(styled)
	}
	contentWidth := max(int(float64(m.width)*0.70), 1)
	parts := []string{titleStyle.Render("tuimorse"), "", m.input.View(), ""}
	if code != "" {
		parts = append(parts, wrapStyledRunes(styled, contentWidth))
	}
	if m.notice != "" {
		parts = append(parts, "", noticeStyle.Render(m.notice))
	}
	content := lipgloss.NewStyle().Width(contentWidth).Render(strings.Join(parts, "\n"))
	footer := m.renderFooter()
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) loadFooterStats() {
	if m.opts.History == nil {
		return
	}
	sessions, err := m.opts.History.ListSessions(context.Background(), model.HistoryConfig{})
	if err != nil {
		m.opts.Logger.Warnw("failed to load session history", "error", err)
		return
	}
	m.historySessions = len(sessions)
	for _, s := range sessions {
		m.historyPlayed += time.Duration(s.DurationMs) * time.Millisecond
	}
}

func (m *Model) renderFooter() string {
	status := "Idle · enter play"
	if m.state.Playing {
		status = fmt.Sprintf("Playing %d/%d · esc stop", m.fired, m.planned)
	}
	segments := []string{status}
	if m.lastOutcome != "" {
		segments = append(segments, fmt.Sprintf("Last %s %s", m.lastOutcome, m.lastPlayed.Round(100*time.Millisecond)))
	}
	segments = append(segments,
		fmt.Sprintf("History %d · %s", m.historySessions, m.historyPlayed.Round(time.Second)),
		fmt.Sprintf("%s/%s @ %s", m.opts.Backend, m.opts.Strategy, m.opts.Unit),
		"ctrl+y copy",
	)
	return footerStyle.Render(strings.Join(segments, "  "))
}
