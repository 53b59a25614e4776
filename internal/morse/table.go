// Package morse converts text to Morse code and Morse code to timed patterns.
package morse

import "sort"

// WordBreak is the token a space encodes to.
const WordBreak = "/"

var table = map[rune]string{
	'A': ".-", 'B': "-...", 'C': "-.-.", 'D': "-..", 'E': ".",
	'F': "..-.", 'G': "--.", 'H': "....", 'I': "..", 'J': ".---",
	'K': "-.-", 'L': ".-..", 'M': "--", 'N': "-.", 'O': "---",
	'P': ".--.", 'Q': "--.-", 'R': ".-.", 'S': "...", 'T': "-",
	'U': "..-", 'V': "...-", 'W': ".--", 'X': "-..-", 'Y': "-.--",
	'Z': "--..",
	'1': ".----", '2': "..---", '3': "...--", '4': "....-", '5': ".....",
	'6': "-....", '7': "--...", '8': "---..", '9': "----.", '0': "-----",
	' ': WordBreak,
	'.': ".-.-.-", ',': "--..--", '?': "..--..", '\'': ".----.",
	'!': "-.-.--", '/': "-..-.", '(': "-.--.", ')': "-.--.-",
	'&': ".-...", ':': "---...", ';': "-.-.-.", '=': "-...-",
	'+': ".-.-.", '-': "-....-", '_': "..--.-", '"': ".-..-.",
	'$': "...-..-", '@': ".--.-.",
}

var reverse map[string]rune

func init() {
	reverse = make(map[string]rune, len(table))
	for r, code := range table {
		if r != ' ' {
			reverse[code] = r
		}
	}
}

// Lookup returns the Morse token for an uppercase character.
func Lookup(r rune) (string, bool) {
	code, ok := table[r]
	return code, ok
}

// Supported reports whether r (after uppercasing) has a Morse token.
func Supported(r rune) bool {
	_, ok := table[upper(r)]
	return ok
}

// Symbols returns every encodable character except space, sorted.
func Symbols() []rune {
	out := make([]rune, 0, len(table))
	for r := range table {
		if r == ' ' {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
