package stats

import (
	"sort"

	"github.com/verte-zerg/tuimorse/internal/model"
)

// TopChars returns the top N characters by play count.
func TopChars(aggs []model.CharAggregate, n int) []string {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	items := make([]model.CharAggregate, len(aggs))
	copy(items, aggs)
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].Char < items[j].Char
		}
		return items[i].Count > items[j].Count
	})
	n = min(n, len(items))
	out := make([]string, 0, n)
	for _, item := range items[:n] {
		out = append(out, item.Char)
	}
	return out
}

// LeastPracticed returns up to top characters of set with the fewest plays.
// Characters never played count as zero and come first.
func LeastPracticed(aggs []model.CharAggregate, set []rune, top int) map[rune]struct{} {
	counts := make(map[string]int, len(aggs))
	for _, agg := range aggs {
		counts[agg.Char] = agg.Count
	}
	candidates := make([]rune, len(set))
	copy(candidates, set)
	sort.Slice(candidates, func(i, j int) bool {
		ci, cj := counts[string(candidates[i])], counts[string(candidates[j])]
		if ci == cj {
			return candidates[i] < candidates[j]
		}
		return ci < cj
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	out := make(map[rune]struct{}, top)
	for _, r := range candidates[:top] {
		out[r] = struct{}{}
	}
	return out
}
