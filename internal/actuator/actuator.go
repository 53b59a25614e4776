// Package actuator provides the output backends that play a Morse pattern.
package actuator

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gen2brain/beeep"
	"go.uber.org/zap"

	"github.com/verte-zerg/tuimorse/internal/morse"
)

// ErrUnavailable is returned when a backend cannot run in this build or on this host.
var ErrUnavailable = errors.New("actuator unavailable")

// Actuator is the part every backend shares.
type Actuator interface {
	Name() string
	// Cancel stops any feedback in progress. It is safe to call repeatedly.
	Cancel() error
}

// PatternActuator accepts a whole pattern in one request.
type PatternActuator interface {
	Actuator
	ActuatePattern(p morse.Pattern) error
}

// PulseActuator accepts one duration per request. Pulse must not block
// for the length of the pulse.
type PulseActuator interface {
	Actuator
	Pulse(d time.Duration) error
}

// ErrorReporter is implemented by backends whose failures surface after
// the request returned.
type ErrorReporter interface {
	// OnError registers fn for late failures. Call it before the first request.
	OnError(fn func(error))
}

// Options configures backends opened by name.
type Options struct {
	Frequency float64
	Unit      time.Duration
	Output    io.Writer
	Logger    *zap.SugaredLogger
}

// Backend names accepted by Open.
const (
	BackendAuto    = "auto"
	BackendSpeaker = "speaker"
	BackendBell    = "bell"
	BackendText    = "text"
)

// Names lists the backends Open understands.
func Names() []string {
	return []string{BackendAuto, BackendSpeaker, BackendBell, BackendText}
}

// Open returns the backend called name. "auto" prefers the speaker and
// falls back to the console bell.
func Open(name string, opts Options) (Actuator, error) {
	if opts.Frequency <= 0 {
		opts.Frequency = DefaultFrequency
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", BackendAuto:
		if !SpeakerAvailable {
			opts.Logger.Debugw("speaker not built in, using bell")
			return NewBell(opts.Frequency, opts.Logger), nil
		}
		sp, err := NewSpeaker(opts.Frequency)
		if err == nil {
			return sp, nil
		}
		opts.Logger.Infow("speaker unavailable, using bell", "error", err)
		return NewBell(opts.Frequency, opts.Logger), nil
	case BackendSpeaker:
		sp, err := NewSpeaker(opts.Frequency)
		if err != nil {
			return nil, fmt.Errorf("failed to open speaker: %w", err)
		}
		return sp, nil
	case BackendBell:
		return NewBell(opts.Frequency, opts.Logger), nil
	case BackendText:
		out := opts.Output
		if out == nil {
			out = os.Stdout
		}
		return NewText(out, opts.Unit), nil
	default:
		return nil, fmt.Errorf("unknown backend %q (available: %s)", name, strings.Join(Names(), ", "))
	}
}

// DefaultFrequency is the standard CW side tone in Hz.
const DefaultFrequency = 700.0

// Bell plays each pulse as a system beep.
type Bell struct {
	frequency float64
	logger    *zap.SugaredLogger
	beep      func(freq float64, durationMs int) error
	onError   func(error)
}

// NewBell returns a pulse backend on top of the system beeper.
func NewBell(frequency float64, logger *zap.SugaredLogger) *Bell {
	return &Bell{frequency: frequency, logger: logger, beep: beeep.Beep}
}

// Name implements Actuator.
func (b *Bell) Name() string { return BackendBell }

// OnError implements ErrorReporter.
func (b *Bell) OnError(fn func(error)) { b.onError = fn }

// Pulse implements PulseActuator. The beep runs on its own goroutine since
// beeep blocks for the whole tone; its error goes to the OnError hook.
func (b *Bell) Pulse(d time.Duration) error {
	durationMs := int(d.Milliseconds())
	if durationMs <= 0 {
		return nil
	}
	go func() {
		err := b.beep(b.frequency, durationMs)
		if err == nil {
			return
		}
		if b.onError != nil {
			b.onError(fmt.Errorf("beep failed: %w", err))
			return
		}
		b.logger.Warnw("beep failed", "error", err)
	}()
	return nil
}

// Cancel implements Actuator. A system beep cannot be interrupted once it starts.
func (b *Bell) Cancel() error { return nil }

// Text renders pulses as bars on a writer, one cell per unit.
type Text struct {
	w    io.Writer
	unit time.Duration
}

// NewText returns a pulse backend that writes to w.
func NewText(w io.Writer, unit time.Duration) *Text {
	if unit <= 0 {
		unit = morse.DefaultUnit
	}
	return &Text{w: w, unit: unit}
}

// Name implements Actuator.
func (t *Text) Name() string { return BackendText }

// Pulse implements PulseActuator.
func (t *Text) Pulse(d time.Duration) error {
	cells := int(d / t.unit)
	if cells < 1 {
		cells = 1
	}
	if _, err := fmt.Fprint(t.w, strings.Repeat("█", cells)+" "); err != nil {
		return fmt.Errorf("failed to write pulse: %w", err)
	}
	return nil
}

// Cancel implements Actuator.
func (t *Text) Cancel() error {
	_, err := fmt.Fprintln(t.w)
	return err
}
