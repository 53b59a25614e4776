//go:build (linux && cgo) || windows || darwin

package actuator

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/verte-zerg/tuimorse/internal/morse"
)

// SpeakerAvailable reports whether this build can drive the audio device.
const SpeakerAvailable = true

const sampleRate = beep.SampleRate(44100)

var (
	speakerOnce sync.Once
	speakerErr  error
)

// Speaker plays a whole pattern as a tone sequence on the default audio device.
type Speaker struct {
	frequency float64
}

// NewSpeaker initializes the audio device once per process.
func NewSpeaker(frequency float64) (*Speaker, error) {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(sampleRate, sampleRate.N(time.Second/10))
	})
	if speakerErr != nil {
		return nil, speakerErr
	}
	return &Speaker{frequency: frequency}, nil
}

// Name implements Actuator.
func (s *Speaker) Name() string { return BackendSpeaker }

// ActuatePattern implements PatternActuator.
func (s *Speaker) ActuatePattern(p morse.Pattern) error {
	streamers := make([]beep.Streamer, 0, len(p))
	for _, e := range p {
		n := sampleRate.N(e.Duration)
		if e.Kind.Actuates() {
			streamers = append(streamers, newTone(n, s.frequency))
		} else {
			streamers = append(streamers, beep.Silence(n))
		}
	}
	speaker.Clear()
	speaker.Play(beep.Seq(streamers...))
	return nil
}

// Cancel implements Actuator.
func (s *Speaker) Cancel() error {
	speaker.Clear()
	return nil
}

// tone is a sine wave with a short fade at both ends to avoid clicks.
type tone struct {
	samples   int
	position  int
	frequency float64
}

func newTone(samples int, frequency float64) *tone {
	return &tone{samples: samples, frequency: frequency}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	fade := t.samples / 20
	if fade < 10 {
		fade = 10
	}
	for i := range samples {
		if t.position >= t.samples {
			return i, i > 0
		}
		phase := 2 * math.Pi * t.frequency * float64(t.position) / float64(sampleRate)
		envelope := 1.0
		switch {
		case t.position < fade:
			envelope = float64(t.position) / float64(fade)
		case t.position > t.samples-fade:
			envelope = float64(t.samples-t.position) / float64(fade)
		}
		v := math.Sin(phase) * envelope * 0.5
		samples[i][0] = v
		samples[i][1] = v
		t.position++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }
