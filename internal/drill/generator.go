// Package drill builds practice text for Morse playback.
package drill

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode"

	"github.com/samber/lo"

	"github.com/verte-zerg/tuimorse/internal/morse"
)

// DefaultChars is the A-Z set used when none is configured.
const DefaultChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Generator produces randomized drill text.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a deterministic Generator.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Charset uppercases chars and keeps only distinct encodable runes.
// Empty input yields DefaultChars.
func Charset(chars string) ([]rune, error) {
	if strings.TrimSpace(chars) == "" {
		chars = DefaultChars
	}
	set := lo.Uniq(lo.FilterMap([]rune(chars), func(r rune, _ int) (rune, bool) {
		r = unicode.ToUpper(r)
		return r, r != ' ' && morse.Supported(r)
	}))
	if len(set) == 0 {
		return nil, fmt.Errorf("no encodable characters in %q", chars)
	}
	return set, nil
}

// Groups returns count groups of size random characters from set.
func (g *Generator) Groups(set []rune, count, size int) []string {
	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		group := make([]rune, size)
		for j := range group {
			group[j] = set[g.rnd.Intn(len(set))]
		}
		result = append(result, string(group))
	}
	return result
}

// Words selects count words uniformly.
func (g *Generator) Words(words []string, count int) []string {
	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		result = append(result, words[g.rnd.Intn(len(words))])
	}
	return result
}

// WordsWeighted selects words with a bias toward focus characters.
func (g *Generator) WordsWeighted(words []string, count int, focus map[rune]struct{}, factor float64) []string {
	weights := make([]float64, len(words))
	total := 0.0
	for i, word := range words {
		hits := lo.CountBy([]rune(strings.ToUpper(word)), func(r rune) bool {
			_, ok := focus[r]
			return ok
		})
		w := 1.0 + float64(hits)*factor
		weights[i] = w
		total += w
	}

	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		r := g.rnd.Float64() * total
		acc := 0.0
		idx := 0
		for j, w := range weights {
			acc += w
			if r <= acc {
				idx = j
				break
			}
		}
		result = append(result, words[idx])
	}
	return result
}
