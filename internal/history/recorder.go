// Package history persists finished playback sessions.
package history

import (
	"context"
	"sort"
	"sync"
	"unicode"

	"go.uber.org/zap"

	"github.com/verte-zerg/tuimorse/internal/model"
	"github.com/verte-zerg/tuimorse/internal/morse"
	"github.com/verte-zerg/tuimorse/internal/playback"
)

// Inserter is the part of the store the recorder needs.
type Inserter interface {
	InsertSession(ctx context.Context, rec model.SessionRecord, chars []model.CharCount) (int64, error)
}

// Recorder turns dispatcher events into history rows. Text for a session
// is registered with Expect before Start, since the dispatcher only sees Morse.
type Recorder struct {
	store  Inserter
	logger *zap.SugaredLogger

	mu      sync.Mutex
	pending map[string]string
	saved   int
}

// NewRecorder returns a recorder writing to store.
func NewRecorder(store Inserter, logger *zap.SugaredLogger) *Recorder {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Recorder{store: store, logger: logger, pending: map[string]string{}}
}

// Expect associates the source text with the Morse string about to be played.
func (r *Recorder) Expect(text, code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending[code] = text
}

// Saved returns the number of sessions written.
func (r *Recorder) Saved() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saved
}

// Handle is a playback.Dispatcher subscriber. A session that completed with
// failed actuations is stored as failed.
func (r *Recorder) Handle(ev playback.Event) {
	outcome := ""
	switch {
	case ev.Kind == playback.EventCompleted && ev.Session.Failures > 0:
		outcome = model.OutcomeFailed
	case ev.Kind == playback.EventCompleted:
		outcome = model.OutcomeCompleted
	case ev.Kind == playback.EventCancelled:
		outcome = model.OutcomeCancelled
	case ev.Kind == playback.EventFailed && ev.Session.Failures == 0:
		// Rejected at start; the session never played.
		outcome = model.OutcomeFailed
	default:
		return
	}

	r.mu.Lock()
	text, ok := r.pending[ev.Session.Morse]
	if ok {
		delete(r.pending, ev.Session.Morse)
	} else {
		text = morse.Decode(ev.Session.Morse)
	}
	r.mu.Unlock()

	s := ev.Session
	rec := model.SessionRecord{
		UUID:       s.ID,
		StartedAt:  s.StartedAt,
		EndedAt:    ev.At,
		Text:       text,
		Morse:      s.Morse,
		UnitMs:     s.Unit.Milliseconds(),
		Backend:    s.Backend,
		Strategy:   s.Strategy,
		Outcome:    outcome,
		Planned:    s.Planned,
		Fired:      s.Fired,
		PlannedMs:  s.Total.Milliseconds(),
		DurationMs: ev.At.Sub(s.StartedAt).Milliseconds(),
	}
	if _, err := r.store.InsertSession(context.Background(), rec, CountChars(text)); err != nil {
		r.logger.Warnw("failed to save session", "session", s.ID, "error", err)
		return
	}
	r.mu.Lock()
	r.saved++
	r.mu.Unlock()
}

// CountChars counts the encodable, non-space characters of text, uppercased.
func CountChars(text string) []model.CharCount {
	counts := map[rune]int{}
	for _, r := range text {
		r = unicode.ToUpper(r)
		if r == ' ' || !morse.Supported(r) {
			continue
		}
		counts[r]++
	}
	out := make([]model.CharCount, 0, len(counts))
	for r, n := range counts {
		out = append(out, model.CharCount{Char: string(r), Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Char < out[j].Char })
	return out
}
