package morse

import (
	"strings"
	"unicode"
)

// Encode converts text to Morse tokens separated by single spaces.
// Characters without a token are dropped.
func Encode(text string) string {
	var b strings.Builder
	for _, r := range text {
		code, ok := table[upper(r)]
		if !ok {
			continue
		}
		b.WriteString(code)
		b.WriteByte(' ')
	}
	return strings.TrimSuffix(b.String(), " ")
}

// Decode converts Morse back to uppercase text. Unknown tokens are skipped.
func Decode(code string) string {
	var b strings.Builder
	for i, word := range strings.Split(code, " "+WordBreak+" ") {
		if i > 0 {
			b.WriteRune(' ')
		}
		for _, token := range strings.Fields(word) {
			if token == WordBreak {
				b.WriteRune(' ')
				continue
			}
			if r, ok := reverse[token]; ok {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

// Groups returns the number of tokens in an encoded string.
func Groups(code string) int {
	return len(strings.Fields(code))
}

func upper(r rune) rune {
	return unicode.ToUpper(r)
}
