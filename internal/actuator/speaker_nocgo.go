//go:build !((linux && cgo) || windows || darwin)

package actuator

import "github.com/verte-zerg/tuimorse/internal/morse"

// SpeakerAvailable reports whether this build can drive the audio device.
const SpeakerAvailable = false

// Speaker is a stub; audio output needs cgo on Linux and other unix hosts.
type Speaker struct{}

// NewSpeaker always fails in this build.
func NewSpeaker(float64) (*Speaker, error) {
	return nil, ErrUnavailable
}

// Name implements Actuator.
func (s *Speaker) Name() string { return BackendSpeaker }

// ActuatePattern implements PatternActuator.
func (s *Speaker) ActuatePattern(morse.Pattern) error { return ErrUnavailable }

// Cancel implements Actuator.
func (s *Speaker) Cancel() error { return nil }
