package model

import (
	"testing"
	"time"
)

func TestSessionStateTransitions(t *testing.T) {
	var s SessionState
	if s.CanStart() || s.CanStop() {
		t.Fatalf("empty state must have both controls disabled")
	}
	s = s.WithText("sos")
	if s.Morse != "... --- ..." {
		t.Fatalf("unexpected morse %q", s.Morse)
	}
	if !s.CanStart() {
		t.Fatalf("expected start enabled")
	}
	playing := s.Started()
	if playing.CanStart() || !playing.CanStop() {
		t.Fatalf("playing state must only allow stop")
	}
	if s.Playing {
		t.Fatalf("transition mutated the original value")
	}
	if playing.Stopped().Playing {
		t.Fatalf("expected idle after stop")
	}
}

func TestSessionStateUnsupportedText(t *testing.T) {
	s := SessionState{}.WithText("###")
	if s.Morse != "" || s.CanStart() {
		t.Fatalf("unsupported text must not enable start")
	}
}

func TestConfigUnit(t *testing.T) {
	if (Config{}).Unit() != 200*time.Millisecond {
		t.Fatalf("expected default unit")
	}
	if (Config{UnitMs: 120}).Unit() != 120*time.Millisecond {
		t.Fatalf("expected unit from milliseconds")
	}
	if (Config{UnitMs: 120, WPM: 20}).Unit() != 60*time.Millisecond {
		t.Fatalf("expected wpm to win")
	}
}
