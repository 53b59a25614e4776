package model

import "github.com/verte-zerg/tuimorse/internal/morse"

// SessionState is the screen state: typed text, its Morse rendering, and
// whether playback is running. Transitions return a new value.
type SessionState struct {
	Text    string
	Morse   string
	Playing bool
}

// WithText replaces the text and re-encodes it. A running playback keeps
// the Morse it started with; only the displayed value changes.
func (s SessionState) WithText(text string) SessionState {
	s.Text = text
	s.Morse = morse.Encode(text)
	return s
}

// CanStart reports whether the start control is enabled.
func (s SessionState) CanStart() bool {
	return s.Morse != "" && !s.Playing
}

// CanStop reports whether the stop control is shown.
func (s SessionState) CanStop() bool {
	return s.Playing
}

// Started marks playback as running.
func (s SessionState) Started() SessionState {
	s.Playing = true
	return s
}

// Stopped marks playback as idle.
func (s SessionState) Stopped() SessionState {
	s.Playing = false
	return s
}
