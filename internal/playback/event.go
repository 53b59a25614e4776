package playback

import (
	"time"

	"github.com/verte-zerg/tuimorse/internal/morse"
)

// EventKind classifies dispatcher events.
type EventKind int

// Event kinds, in the order a session normally produces them.
const (
	EventStarted EventKind = iota
	EventPulse
	EventFailed
	EventCompleted
	EventCancelled
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventPulse:
		return "pulse"
	case EventFailed:
		return "failed"
	case EventCompleted:
		return "completed"
	case EventCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Final reports whether the event ends its session.
func (k EventKind) Final() bool {
	return k == EventCompleted || k == EventCancelled
}

// Event is delivered to subscribers. Session is a snapshot taken when the
// event happened. Pulse is set for pulse and pulse-failure events. A failed
// event with Session.Failures == 0 is a start the actuator rejected.
type Event struct {
	Kind    EventKind
	Session Session
	Pulse   morse.Pulse
	At      time.Time
	Err     error
}
