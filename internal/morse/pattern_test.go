package morse

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestBuildPatternSOS(t *testing.T) {
	p := BuildPattern("... --- ...", DefaultTiming())
	want := []int64{
		200, 200, 200, 200, 200,
		600,
		600, 200, 600, 200, 600,
		600,
		200, 200, 200, 200, 200,
	}
	if got := p.Durations(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected durations:\nwant %v\ngot  %v", want, got)
	}
	if p.Total() != 5400*time.Millisecond {
		t.Fatalf("unexpected total: %v", p.Total())
	}
	if p.Symbols() != 9 {
		t.Fatalf("expected 9 symbols, got %d", p.Symbols())
	}
}

func TestBuildPatternWordBreak(t *testing.T) {
	p := BuildPattern(Encode("E T"), DefaultTiming())
	want := []Kind{Dot, LetterGap, WordGap, LetterGap, Dash}
	if len(p) != len(want) {
		t.Fatalf("expected %d elements, got %d", len(want), len(p))
	}
	for i, k := range want {
		if p[i].Kind != k {
			t.Fatalf("element %d: expected %s, got %s", i, k, p[i].Kind)
		}
	}
	if p.Total() != 3400*time.Millisecond {
		t.Fatalf("unexpected total: %v", p.Total())
	}
}

func TestBuildPatternSingleCharacters(t *testing.T) {
	timing := DefaultTiming()
	for _, r := range Symbols() {
		code, _ := Lookup(r)
		p := BuildPattern(Encode(string(r)), timing)
		if p.Symbols() != len(code) {
			t.Fatalf("%q: expected %d symbols, got %d", r, len(code), p.Symbols())
		}
		if len(p) != 2*len(code)-1 {
			t.Fatalf("%q: expected %d elements, got %d", r, 2*len(code)-1, len(p))
		}
		for i, e := range p {
			wantGap := i%2 == 1
			if wantGap != (e.Kind == SymbolGap) {
				t.Fatalf("%q: element %d has kind %s", r, i, e.Kind)
			}
		}
	}
}

func TestBuildPatternPositions(t *testing.T) {
	code := ".- -"
	p := BuildPattern(code, DefaultTiming())
	for _, e := range p {
		if e.Pos < 0 || e.Pos >= len(code) {
			t.Fatalf("position %d out of range", e.Pos)
		}
	}
	if p[0].Pos != 0 || p[2].Pos != 1 || p[len(p)-1].Pos != 3 {
		t.Fatalf("unexpected positions: %+v", p)
	}
}

func TestTotalMonotonic(t *testing.T) {
	timing := DefaultTiming()
	base := "The quick brown fox, 42!"
	symbols := append(Symbols(), ' ')
	for i := 0; i <= len(base); i++ {
		prefix := base[:i]
		prev := BuildPattern(Encode(prefix), timing).Total()
		for _, r := range symbols {
			next := BuildPattern(Encode(prefix+string(r)), timing).Total()
			if next < prev {
				t.Fatalf("appending %q to %q decreased total: %v -> %v", r, prefix, prev, next)
			}
		}
	}
}

func TestTimingScales(t *testing.T) {
	timing := Timing{Unit: 50 * time.Millisecond}
	if timing.Duration(Dash) != 150*time.Millisecond || timing.Duration(WordGap) != 350*time.Millisecond {
		t.Fatalf("unexpected scaled durations")
	}
	if UnitFromWPM(20) != 60*time.Millisecond {
		t.Fatalf("expected 60ms unit at 20 WPM, got %v", UnitFromWPM(20))
	}
	if (Timing{}).Duration(Dot) != DefaultUnit {
		t.Fatalf("zero unit should fall back to default")
	}
}

func TestKindString(t *testing.T) {
	names := make([]string, 0, 5)
	for _, k := range []Kind{Dot, Dash, SymbolGap, LetterGap, WordGap} {
		names = append(names, k.String())
	}
	if strings.Join(names, ",") != "dot,dash,symbol-gap,letter-gap,word-gap" {
		t.Fatalf("unexpected names: %v", names)
	}
}
