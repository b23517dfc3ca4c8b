package history

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// Suggest ranks candidates against query. An empty query returns the first
// limit candidates unchanged; limit <= 0 means no limit.
func Suggest(query string, candidates []string, limit int) []string {
	query = strings.TrimSpace(query)
	var out []string
	if query == "" {
		out = append(out, candidates...)
	} else {
		for _, m := range fuzzy.Find(query, candidates) {
			out = append(out, m.Str)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Filter returns the indexes of items whose key fuzzy-matches query, best
// match first. An empty query keeps every index in order.
func Filter(query string, n int, key func(i int) string) []int {
	query = strings.TrimSpace(query)
	idx := make([]int, 0, n)
	if query == "" {
		for i := 0; i < n; i++ {
			idx = append(idx, i)
		}
		return idx
	}
	keys := make([]string, n)
	for i := range keys {
		keys[i] = key(i)
	}
	for _, m := range fuzzy.Find(query, keys) {
		idx = append(idx, m.Index)
	}
	return idx
}
