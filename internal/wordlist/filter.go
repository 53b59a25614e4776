// Package wordlist provides word list filtering helpers.
package wordlist

import (
	"strings"

	"github.com/samber/lo"

	"github.com/verte-zerg/tuimorse/internal/morse"
)

// FilterFunc returns true when a word should be kept.
type FilterFunc func(string) bool

// Encodable keeps words whose every rune has a Morse code.
func Encodable(word string) bool {
	if strings.TrimSpace(word) == "" {
		return false
	}
	for _, r := range word {
		if r == ' ' || !morse.Supported(r) {
			return false
		}
	}
	return true
}

// Filter returns the words accepted by every filter, in order.
func Filter(words []string, filters ...FilterFunc) []string {
	return lo.Filter(words, func(word string, _ int) bool {
		for _, keep := range filters {
			if !keep(word) {
				return false
			}
		}
		return true
	})
}

// MaxLen keeps words no longer than n runes.
func MaxLen(n int) FilterFunc {
	return func(word string) bool {
		return n <= 0 || len([]rune(word)) <= n
	}
}
