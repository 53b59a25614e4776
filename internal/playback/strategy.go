package playback

import "github.com/verte-zerg/tuimorse/internal/actuator"

// strategy realizes a session's pattern on the actuator. schedule runs
// with the dispatcher lock held and must not block.
type strategy interface {
	name() string
	schedule(d *Dispatcher, s *activeSession) error
}

// batched hands the whole pattern to the actuator and only schedules the
// return to idle.
type batched struct {
	act actuator.PatternActuator
}

func (batched) name() string { return "batched" }

func (b batched) schedule(d *Dispatcher, s *activeSession) error {
	if err := b.act.ActuatePattern(s.Pattern); err != nil {
		return err
	}
	s.Planned = s.Pattern.Symbols()
	s.firedOnComplete = true
	d.after(s, s.Total, d.complete)
	return nil
}

// sequential schedules one deferred pulse per actuation, then the return
// to idle at the grand total.
type sequential struct {
	act     actuator.PulseActuator
	pairing Pairing
}

func (q sequential) name() string { return "sequential-" + string(q.pairing) }

func (q sequential) schedule(d *Dispatcher, s *activeSession) error {
	pulses, total := s.Pattern.Pulses()
	if q.pairing == PairingPaired {
		pulses, total = s.Pattern.PairedPulses()
	}
	s.Planned = len(pulses)
	for _, pulse := range pulses {
		d.after(s, pulse.Offset, func(gen uint64) { d.firePulse(gen, pulse, q.act) })
	}
	d.after(s, total, d.complete)
	return nil
}
