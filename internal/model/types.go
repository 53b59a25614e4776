// Package model defines shared data structures.
package model

import (
	"time"

	"github.com/verte-zerg/tuimorse/internal/morse"
)

// Config defines playback settings after config, env, and flags are merged.
type Config struct {
	UnitMs    int
	WPM       int
	Backend   string
	Pairing   string
	Frequency float64
}

// Unit returns the Morse unit. WPM wins over UnitMs when both are set.
func (c Config) Unit() time.Duration {
	if c.WPM > 0 {
		return morse.UnitFromWPM(c.WPM)
	}
	if c.UnitMs > 0 {
		return time.Duration(c.UnitMs) * time.Millisecond
	}
	return morse.DefaultUnit
}

// DrillConfig defines drill text generation.
type DrillConfig struct {
	Groups    int
	GroupSize int
	Chars     string
	Wordlist  string
	// MaxLen drops longer words from the word list. Zero keeps all.
	MaxLen int
}

// HistoryConfig defines filters and options for history output.
type HistoryConfig struct {
	Since       *time.Time
	Last        int
	CurveWindow int
	Outcome     string
}

// Session outcomes.
const (
	OutcomeCompleted = "completed"
	OutcomeCancelled = "cancelled"
	OutcomeFailed    = "failed"
)

// SessionRecord captures a finished playback session.
type SessionRecord struct {
	UUID       string
	StartedAt  time.Time
	EndedAt    time.Time
	Text       string
	Morse      string
	UnitMs     int64
	Backend    string
	Strategy   string
	Outcome    string
	Planned    int
	Fired      int
	PlannedMs  int64
	DurationMs int64
}

// CharCount stores how often a character was sent in a session.
type CharCount struct {
	Char  string
	Count int
}

// CharAggregate aggregates character counts across sessions.
type CharAggregate struct {
	Char  string
	Count int
}

// SessionAggregate summarizes a session for reporting.
type SessionAggregate struct {
	SessionID  int64
	UUID       string
	EndedAt    time.Time
	Text       string
	Outcome    string
	Chars      int
	Fired      int
	PlannedMs  int64
	DurationMs int64
}
