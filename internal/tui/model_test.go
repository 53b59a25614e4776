package tui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tuimorse/internal/model"
	"github.com/verte-zerg/tuimorse/internal/morse"
	"github.com/verte-zerg/tuimorse/internal/playback"
)

type fakePlayer struct {
	starts []string
	stops  int
	err    error
}

func (f *fakePlayer) Start(code string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.starts = append(f.starts, code)
	return true, nil
}

func (f *fakePlayer) Stop() bool {
	f.stops++
	return true
}

type fakeExpecter struct {
	text, code string
}

func (f *fakeExpecter) Expect(text, code string) {
	f.text, f.code = text, code
}

func typeText(m *Model, text string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func session(id, code string) playback.Session {
	p := morse.BuildPattern(code, morse.DefaultTiming())
	return playback.Session{ID: id, Morse: code, Pattern: p, Planned: p.Symbols(), StartedAt: time.Unix(0, 0)}
}

func TestEnterStartsOnlyWithMorse(t *testing.T) {
	player := &fakePlayer{}
	rec := &fakeExpecter{}
	m := NewModel(Options{Player: player, Recorder: rec, Copy: func(string) error { return nil }})

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if len(player.starts) != 0 {
		t.Fatalf("start must be disabled for empty input")
	}

	typeText(m, "sos")
	if m.state.Morse != "... --- ..." {
		t.Fatalf("unexpected morse %q", m.state.Morse)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if len(player.starts) != 1 || player.starts[0] != "... --- ..." {
		t.Fatalf("unexpected starts: %v", player.starts)
	}
	if rec.text != "sos" || rec.code != "... --- ..." {
		t.Fatalf("recorder not told about the text: %+v", rec)
	}
	if !m.state.Playing {
		t.Fatalf("expected playing state")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if len(player.starts) != 1 {
		t.Fatalf("start must be disabled while playing")
	}
}

func TestEscStopsOnlyWhilePlaying(t *testing.T) {
	player := &fakePlayer{}
	m := NewModel(Options{Player: player})
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if player.stops != 0 {
		t.Fatalf("stop must be hidden while idle")
	}
	typeText(m, "e")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if player.stops != 1 {
		t.Fatalf("expected one stop, got %d", player.stops)
	}
}

func TestEventsDriveHighlightAndIdle(t *testing.T) {
	player := &fakePlayer{}
	m := NewModel(Options{Player: player, Text: "sos"})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	s := session("a", "... --- ...")
	// Second dot of the first S is pattern element 2.
	s.Fired = 2
	m.Update(eventMsg{ev: playback.Event{Kind: playback.EventPulse, Session: s, Pulse: morse.Pulse{Index: 2}}})
	if m.current != 1 || m.fired != 2 {
		t.Fatalf("expected highlight at byte 1 with 2 fired, got %d/%d", m.current, m.fired)
	}
	m.Update(eventMsg{ev: playback.Event{Kind: playback.EventStarted, Session: s}})
	if m.planned != 9 {
		t.Fatalf("expected 9 planned symbols, got %d", m.planned)
	}

	m.Update(eventMsg{ev: playback.Event{Kind: playback.EventCompleted, Session: s, At: time.Unix(5, 400_000_000)}})
	if m.state.Playing || m.current != -1 {
		t.Fatalf("expected idle after completion")
	}
	if m.lastOutcome != model.OutcomeCompleted || m.lastPlayed != 5400*time.Millisecond || m.historySessions != 1 {
		t.Fatalf("unexpected footer state: %s %s %d", m.lastOutcome, m.lastPlayed, m.historySessions)
	}

	// Late events of a finished session are ignored.
	m.Update(eventMsg{ev: playback.Event{Kind: playback.EventPulse, Session: s, Pulse: morse.Pulse{Index: 4}}})
	if m.current != -1 {
		t.Fatalf("stale pulse changed the highlight")
	}
}

func TestStartErrorShowsNotice(t *testing.T) {
	player := &fakePlayer{err: errors.New("speaker busy")}
	m := NewModel(Options{Player: player, Text: "e"})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.state.Playing || m.notice != "speaker busy" {
		t.Fatalf("expected idle with notice, got %+v %q", m.state, m.notice)
	}
}

func TestCopyMorse(t *testing.T) {
	var copied string
	m := NewModel(Options{Player: &fakePlayer{}, Text: "Hi", Copy: func(s string) error {
		copied = s
		return nil
	}})
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	if copied != ".... .." {
		t.Fatalf("unexpected clipboard content %q", copied)
	}
}

func TestCtrlCStopsBeforeQuit(t *testing.T) {
	player := &fakePlayer{}
	m := NewModel(Options{Player: player, Text: "e"})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if player.stops != 1 {
		t.Fatalf("expected playback stopped before quit")
	}
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit message")
	}
}
