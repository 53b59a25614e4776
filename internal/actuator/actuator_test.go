package actuator

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func TestTextPulseWidth(t *testing.T) {
	var buf bytes.Buffer
	text := NewText(&buf, 100*time.Millisecond)
	if err := text.Pulse(100 * time.Millisecond); err != nil {
		t.Fatalf("pulse: %v", err)
	}
	if err := text.Pulse(300 * time.Millisecond); err != nil {
		t.Fatalf("pulse: %v", err)
	}
	if err := text.Cancel(); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if buf.String() != "█ ███ \n" {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestTextPulseError(t *testing.T) {
	text := NewText(failingWriter{}, 0)
	if err := text.Pulse(time.Second); err == nil {
		t.Fatalf("expected write error")
	}
}

func TestBellPulseRunsBeep(t *testing.T) {
	bell := NewBell(600, zaptest.NewLogger(t).Sugar())
	got := make(chan int, 1)
	bell.beep = func(freq float64, durationMs int) error {
		if freq != 600 {
			t.Errorf("unexpected frequency %v", freq)
		}
		got <- durationMs
		return nil
	}
	if err := bell.Pulse(250 * time.Millisecond); err != nil {
		t.Fatalf("pulse: %v", err)
	}
	select {
	case ms := <-got:
		if ms != 250 {
			t.Fatalf("expected 250ms beep, got %d", ms)
		}
	case <-time.After(time.Second):
		t.Fatalf("beep was not called")
	}
}

func TestBellReportsBeepFailure(t *testing.T) {
	bell := NewBell(600, zaptest.NewLogger(t).Sugar())
	boom := errors.New("no beeper")
	bell.beep = func(float64, int) error { return boom }
	got := make(chan error, 1)
	bell.OnError(func(err error) { got <- err })
	if err := bell.Pulse(100 * time.Millisecond); err != nil {
		t.Fatalf("pulse: %v", err)
	}
	select {
	case err := <-got:
		if !errors.Is(err, boom) {
			t.Fatalf("unexpected error %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("failure was not reported")
	}
}

func TestOpenByName(t *testing.T) {
	var buf bytes.Buffer
	act, err := Open("TEXT", Options{Output: &buf})
	if err != nil {
		t.Fatalf("open text: %v", err)
	}
	if _, ok := act.(PulseActuator); !ok {
		t.Fatalf("text backend must accept pulses")
	}
	bell, err := Open(BackendBell, Options{})
	if err != nil || bell.Name() != BackendBell {
		t.Fatalf("open bell: %v", err)
	}
	if _, err := Open("vibrator", Options{}); err == nil || !strings.Contains(err.Error(), "unknown backend") {
		t.Fatalf("expected unknown backend error, got %v", err)
	}
}

func TestOpenAutoWithoutSpeakerUsesBell(t *testing.T) {
	if SpeakerAvailable {
		t.Skip("speaker built in; auto depends on the audio device")
	}
	act, err := Open(BackendAuto, Options{})
	if err != nil {
		t.Fatalf("open auto: %v", err)
	}
	if act.Name() != BackendBell {
		t.Fatalf("expected bell fallback, got %s", act.Name())
	}
}
