package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// buildStyledRunes styles a Morse string around the symbol being played.
// current is a byte offset into code, or -1 when idle.
func buildStyledRunes(code string, current int) []styledRune {
	symbols := []rune(code)
	tokens := findTokens(symbols)
	currentToken := tokenAt(tokens, current)

	out := make([]styledRune, 0, len(symbols))
	for i, r := range symbols {
		style := idleStyle
		switch {
		case current < 0:
		case i == current:
			style = currentStyle
		case currentToken != nil && i >= currentToken.start && i < currentToken.end:
			style = currentTokenStyle
		case i < current:
			style = playedStyle
		default:
			style = pendingStyle
		}
		out = append(out, styledRune{
			s:       style.Render(string(r)),
			width:   runewidth.RuneWidth(r),
			isSpace: r == ' ',
		})
	}
	return out
}

type tokenRange struct {
	start int
	end   int
}

func findTokens(symbols []rune) []tokenRange {
	tokens := []tokenRange{}
	start := -1
	for i, r := range symbols {
		if r == ' ' {
			if start != -1 {
				tokens = append(tokens, tokenRange{start: start, end: i})
				start = -1
			}
			continue
		}
		if start == -1 {
			start = i
		}
	}
	if start != -1 {
		tokens = append(tokens, tokenRange{start: start, end: len(symbols)})
	}
	return tokens
}

func tokenAt(tokens []tokenRange, pos int) *tokenRange {
	if pos < 0 {
		return nil
	}
	for i := range tokens {
		if pos >= tokens[i].start && pos < tokens[i].end {
			return &tokens[i]
		}
	}
	return nil
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes breaks lines at the last space that fits, or mid-token
// when a token is wider than the line.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
