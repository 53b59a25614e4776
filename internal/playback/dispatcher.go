// Package playback schedules a Morse pattern on an actuator and tracks the
// single active playback session.
package playback

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/verte-zerg/tuimorse/internal/actuator"
	"github.com/verte-zerg/tuimorse/internal/clock"
	"github.com/verte-zerg/tuimorse/internal/morse"
)

// ErrNoStrategy is returned for an actuator that accepts neither patterns nor pulses.
var ErrNoStrategy = errors.New("actuator accepts neither patterns nor pulses")

// Pairing selects how the sequential strategy derives pulses from a pattern.
type Pairing string

const (
	// PairingTimeline actuates every dot and dash at its real offset.
	PairingTimeline Pairing = "timeline"
	// PairingPaired groups the flat pattern by even/odd index into
	// (actuate, pause) pairs. Gaps land on the actuate side of some pairs.
	PairingPaired Pairing = "paired"
)

// ParsePairing validates a pairing name. Empty means timeline.
func ParsePairing(s string) (Pairing, error) {
	switch Pairing(strings.ToLower(strings.TrimSpace(s))) {
	case "", PairingTimeline:
		return PairingTimeline, nil
	case PairingPaired:
		return PairingPaired, nil
	default:
		return "", fmt.Errorf("unknown pairing %q (available: timeline, paired)", s)
	}
}

// Session describes one playback from start to completion or cancellation.
type Session struct {
	ID        string
	Morse     string
	Pattern   morse.Pattern
	Backend   string
	Strategy  string
	Unit      time.Duration
	StartedAt time.Time
	Total     time.Duration
	Planned   int
	Fired     int
	// Failures counts actuations that failed while the session was active.
	Failures int
}

// Options configures a Dispatcher. Zero values fall back to defaults.
type Options struct {
	Clock   clock.Clock
	Timing  morse.Timing
	Pairing Pairing
	Logger  *zap.SugaredLogger
	Now     func() time.Time
}

// Dispatcher is the Idle/Playing state machine. At most one session is
// active; Start while playing is a no-op.
type Dispatcher struct {
	mu        sync.Mutex
	act       actuator.Actuator
	strategy  strategy
	clock     clock.Clock
	timing    morse.Timing
	logger    *zap.SugaredLogger
	now       func() time.Time
	gen       uint64
	active    *activeSession
	listeners []func(Event)
}

type activeSession struct {
	Session
	gen     uint64
	handles []clock.Handle
	// batched actuators give no per-pulse feedback; count on completion.
	firedOnComplete bool
}

// New builds a dispatcher. The strategy is fixed here from the actuator's
// capability: batched for pattern actuators, sequential for pulse actuators.
func New(act actuator.Actuator, opts Options) (*Dispatcher, error) {
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.Timing.Unit <= 0 {
		opts.Timing = morse.DefaultTiming()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Pairing == "" {
		opts.Pairing = PairingTimeline
	}
	var st strategy
	switch a := act.(type) {
	case actuator.PatternActuator:
		st = batched{act: a}
	case actuator.PulseActuator:
		st = sequential{act: a, pairing: opts.Pairing}
	default:
		return nil, ErrNoStrategy
	}
	d := &Dispatcher{
		act:      act,
		strategy: st,
		clock:    opts.Clock,
		timing:   opts.Timing,
		logger:   opts.Logger,
		now:      opts.Now,
	}
	if r, ok := act.(actuator.ErrorReporter); ok {
		r.OnError(d.reportFailure)
	}
	return d, nil
}

// Strategy names the selected strategy.
func (d *Dispatcher) Strategy() string {
	return d.strategy.name()
}

// Backend names the actuator.
func (d *Dispatcher) Backend() string {
	return d.act.Name()
}

// Subscribe registers fn for every event. Events are delivered outside the
// dispatcher lock, so fn may call back into the dispatcher.
func (d *Dispatcher) Subscribe(fn func(Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, fn)
}

// IsPlaying reports whether a session is active.
func (d *Dispatcher) IsPlaying() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active != nil
}

// Snapshot returns a copy of the active session.
func (d *Dispatcher) Snapshot() (Session, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.active == nil {
		return Session{}, false
	}
	return d.active.Session, true
}

// Start plays code. It returns false without error when code is empty or a
// session is already playing. If the actuator rejects the request the
// dispatcher stays idle and the error is returned.
func (d *Dispatcher) Start(code string) (bool, error) {
	if code == "" {
		return false, nil
	}
	d.mu.Lock()
	if d.active != nil {
		d.mu.Unlock()
		return false, nil
	}
	d.gen++
	pattern := morse.BuildPattern(code, d.timing)
	s := &activeSession{
		gen: d.gen,
		Session: Session{
			ID:        uuid.NewString(),
			Morse:     code,
			Pattern:   pattern,
			Backend:   d.act.Name(),
			Strategy:  d.strategy.name(),
			Unit:      d.timing.Unit,
			StartedAt: d.now(),
			Total:     pattern.Total(),
		},
	}
	d.active = s
	if err := d.strategy.schedule(d, s); err != nil {
		for _, h := range s.handles {
			h.Stop()
		}
		d.active = nil
		d.mu.Unlock()
		d.logger.Warnw("playback failed to start", "session", s.ID, "backend", s.Backend, "error", err)
		d.emit(Event{Kind: EventFailed, Session: s.Session, At: d.now(), Err: err})
		return false, fmt.Errorf("failed to start playback: %w", err)
	}
	snap := s.Session
	d.mu.Unlock()

	d.logger.Debugw("playback started", "session", snap.ID, "strategy", snap.Strategy, "total", snap.Total)
	d.emit(Event{Kind: EventStarted, Session: snap, At: snap.StartedAt})
	return true, nil
}

// Stop cancels the active session. Pending pulses are unscheduled and any
// callback already in flight sees a stale generation and does nothing.
// It returns false when nothing was playing.
func (d *Dispatcher) Stop() bool {
	d.mu.Lock()
	s := d.active
	if s == nil {
		d.mu.Unlock()
		return false
	}
	for _, h := range s.handles {
		h.Stop()
	}
	d.gen++
	d.active = nil
	cancelErr := d.act.Cancel()
	d.mu.Unlock()

	if cancelErr != nil {
		d.logger.Warnw("actuator cancel failed", "session", s.ID, "error", cancelErr)
	}
	d.logger.Debugw("playback cancelled", "session", s.ID, "fired", s.Fired)
	d.emit(Event{Kind: EventCancelled, Session: s.Session, At: d.now(), Err: cancelErr})
	return true
}

// after schedules fn for session s. Must be called with d.mu held.
func (d *Dispatcher) after(s *activeSession, delay time.Duration, fn func(gen uint64)) {
	gen := s.gen
	s.handles = append(s.handles, d.clock.AfterFunc(delay, func() { fn(gen) }))
}

// current returns the active session if it still belongs to gen. Must be
// called with d.mu held.
func (d *Dispatcher) current(gen uint64) *activeSession {
	if d.active == nil || d.active.gen != gen {
		return nil
	}
	return d.active
}

func (d *Dispatcher) firePulse(gen uint64, pulse morse.Pulse, act actuator.PulseActuator) {
	d.mu.Lock()
	s := d.current(gen)
	if s == nil {
		d.mu.Unlock()
		return
	}
	err := act.Pulse(pulse.Duration)
	if err == nil {
		s.Fired++
	} else {
		s.Failures++
	}
	snap := s.Session
	d.mu.Unlock()

	if err != nil {
		d.logger.Warnw("pulse failed", "session", snap.ID, "offset", pulse.Offset, "error", err)
		d.emit(Event{Kind: EventFailed, Session: snap, Pulse: pulse, At: d.now(), Err: err})
		return
	}
	d.emit(Event{Kind: EventPulse, Session: snap, Pulse: pulse, At: d.now()})
}

// reportFailure charges a late actuator failure to the active session. A
// failure arriving while idle is only logged.
func (d *Dispatcher) reportFailure(err error) {
	d.mu.Lock()
	s := d.active
	if s == nil {
		d.mu.Unlock()
		d.logger.Warnw("actuator failed while idle", "backend", d.act.Name(), "error", err)
		return
	}
	s.Failures++
	snap := s.Session
	d.mu.Unlock()

	d.logger.Warnw("actuator failed", "session", snap.ID, "error", err)
	d.emit(Event{Kind: EventFailed, Session: snap, At: d.now(), Err: err})
}

func (d *Dispatcher) complete(gen uint64) {
	d.mu.Lock()
	s := d.current(gen)
	if s == nil {
		d.mu.Unlock()
		return
	}
	d.active = nil
	if s.firedOnComplete {
		s.Fired = s.Planned
	}
	d.mu.Unlock()

	d.logger.Debugw("playback completed", "session", s.ID, "fired", s.Fired)
	d.emit(Event{Kind: EventCompleted, Session: s.Session, At: d.now()})
}

func (d *Dispatcher) emit(ev Event) {
	d.mu.Lock()
	listeners := make([]func(Event), len(d.listeners))
	copy(listeners, d.listeners)
	d.mu.Unlock()
	for _, fn := range listeners {
		fn(ev)
	}
}
