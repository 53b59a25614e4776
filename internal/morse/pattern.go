package morse

import (
	"fmt"
	"time"

	"github.com/samber/lo"
)

// DefaultUnit is the dot length used when nothing else is configured.
const DefaultUnit = 200 * time.Millisecond

// Kind is the role of a pattern element.
type Kind uint8

// Element kinds. Dot and Dash actuate, the rest are pauses.
const (
	Dot Kind = iota
	Dash
	SymbolGap
	LetterGap
	WordGap
)

func (k Kind) String() string {
	switch k {
	case Dot:
		return "dot"
	case Dash:
		return "dash"
	case SymbolGap:
		return "symbol-gap"
	case LetterGap:
		return "letter-gap"
	case WordGap:
		return "word-gap"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Actuates reports whether the element drives the actuator.
func (k Kind) Actuates() bool {
	return k == Dot || k == Dash
}

// Timing holds the base unit all durations are multiples of.
type Timing struct {
	Unit time.Duration
}

// DefaultTiming returns a 200ms unit.
func DefaultTiming() Timing {
	return Timing{Unit: DefaultUnit}
}

// UnitFromWPM converts words per minute to a unit using the PARIS word (50 units).
func UnitFromWPM(wpm int) time.Duration {
	if wpm <= 0 {
		return DefaultUnit
	}
	return time.Duration(float64(time.Minute) / (50 * float64(wpm)))
}

// Duration returns the length of an element of kind k.
func (t Timing) Duration(k Kind) time.Duration {
	unit := t.Unit
	if unit <= 0 {
		unit = DefaultUnit
	}
	switch k {
	case Dash, LetterGap:
		return 3 * unit
	case WordGap:
		return 7 * unit
	default:
		return unit
	}
}

// Element is one entry of a pattern. Pos is the byte offset in the
// Morse string of the token that produced it.
type Element struct {
	Kind     Kind
	Duration time.Duration
	Pos      int
}

// Pattern is the flat timeline built from a Morse string.
type Pattern []Element

// BuildPattern walks a Morse string and emits the timeline. A symbol gap
// is only emitted between two symbols of the same letter.
func BuildPattern(code string, t Timing) Pattern {
	pattern := make(Pattern, 0, 2*len(code))
	first := true
	emit := func(k Kind, pos int) {
		pattern = append(pattern, Element{Kind: k, Duration: t.Duration(k), Pos: pos})
	}
	for i := 0; i < len(code); i++ {
		switch code[i] {
		case '.', '-':
			if !first {
				emit(SymbolGap, i)
			}
			if code[i] == '.' {
				emit(Dot, i)
			} else {
				emit(Dash, i)
			}
			first = false
		case ' ':
			emit(LetterGap, i)
			first = true
		case '/':
			emit(WordGap, i)
			first = true
		}
	}
	return pattern
}

// Durations returns the pattern as milliseconds, in emission order.
func (p Pattern) Durations() []int64 {
	return lo.Map(p, func(e Element, _ int) int64 {
		return e.Duration.Milliseconds()
	})
}

// Total is the sum of every element.
func (p Pattern) Total() time.Duration {
	return lo.SumBy(p, func(e Element) time.Duration { return e.Duration })
}

// Symbols counts the actuating elements.
func (p Pattern) Symbols() int {
	return lo.CountBy(p, func(e Element) bool { return e.Kind.Actuates() })
}
