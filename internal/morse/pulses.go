package morse

import "time"

// Pair is one (actuate, pause) step of the sequential strategy.
type Pair struct {
	Actuate time.Duration
	Pause   time.Duration
}

// Pulse is a single actuation at an offset from playback start.
// Index points back into the pattern element it came from.
type Pulse struct {
	Offset   time.Duration
	Duration time.Duration
	Index    int
}

// PairDurations groups a flat list by even/odd index. A trailing
// unpaired entry gets a zero pause.
func PairDurations(durations []time.Duration) []Pair {
	pairs := make([]Pair, 0, (len(durations)+1)/2)
	for i := 0; i < len(durations); i += 2 {
		pair := Pair{Actuate: durations[i]}
		if i+1 < len(durations) {
			pair.Pause = durations[i+1]
		}
		pairs = append(pairs, pair)
	}
	return pairs
}

// PairedPulses schedules every even-index entry as a pulse, regardless of
// its role, at the running sum of the previous pairs. Two adjacent gaps
// therefore shift the pairing and a gap may be actuated.
func (p Pattern) PairedPulses() ([]Pulse, time.Duration) {
	durations := make([]time.Duration, len(p))
	for i, e := range p {
		durations[i] = e.Duration
	}
	var offset time.Duration
	pulses := make([]Pulse, 0, len(durations)/2+1)
	for i, pair := range PairDurations(durations) {
		pulses = append(pulses, Pulse{Offset: offset, Duration: pair.Actuate, Index: 2 * i})
		offset += pair.Actuate + pair.Pause
	}
	return pulses, offset
}

// Pulses schedules one pulse per dot or dash at its real position in the timeline.
func (p Pattern) Pulses() ([]Pulse, time.Duration) {
	var offset time.Duration
	pulses := make([]Pulse, 0, len(p)/2+1)
	for i, e := range p {
		if e.Kind.Actuates() {
			pulses = append(pulses, Pulse{Offset: offset, Duration: e.Duration, Index: i})
		}
		offset += e.Duration
	}
	return pulses, offset
}
