package match

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"

	"github.com/runger/tmenu/internal/item"
)

// caseBonus is added for every matched rune whose case equals the query's.
const caseBonus = 1

// keySource adapts an item slice to fuzzy.Source.
type keySource struct {
	items []item.Item
	key   func(item.Item) string
}

func (s keySource) String(i int) string { return s.key(s.items[i]) }
func (s keySource) Len() int            { return len(s.items) }

func (e *Engine) computeFuzzy(query string, items []item.Item) Result {
	if strings.TrimSpace(query) == "" {
		hits := make([]Hit, len(items))
		for i, it := range items {
			hits[i] = Hit{ID: it.ID, Tier: TierFuzzy}
		}
		return newResult(hits)
	}

	src := keySource{items: items, key: e.Key}
	matches := fuzzy.FindFromNoSort(query, src)

	type scored struct {
		hit  Hit
		size int
	}

	qrunes := []rune(query)
	found := make([]scored, 0, len(matches))
	for _, m := range matches {
		// The scorer always folds case; sensitive mode needs an exact subsequence.
		if e.cfg.Case == CaseSensitive && !isSubsequence(m.Str, qrunes) {
			continue
		}
		it := items[m.Index]
		score := m.Score + caseMatches(m.Str, m.MatchedIndexes, qrunes)*caseBonus
		found = append(found, scored{
			hit:  Hit{ID: it.ID, Tier: TierFuzzy, Score: score},
			size: len(it.Text),
		})
	}

	if !e.cfg.NoSort {
		slices.SortStableFunc(found, func(a, b scored) int {
			if a.hit.Score != b.hit.Score {
				return b.hit.Score - a.hit.Score
			}
			return a.size - b.size
		})
	}

	hits := make([]Hit, len(found))
	for i, f := range found {
		hits[i] = f.hit
	}
	return newResult(hits)
}

// caseMatches counts matched runes that equal the query rune exactly.
func caseMatches(s string, idx []int, q []rune) int {
	n := 0
	for i, at := range idx {
		if i >= len(q) || at >= len(s) {
			break
		}
		r, _ := utf8.DecodeRuneInString(s[at:])
		if r == q[i] {
			n++
		}
	}
	return n
}

// isSubsequence reports whether every rune of sub appears in s in order.
func isSubsequence(s string, sub []rune) bool {
	i := 0
	for _, r := range s {
		if i == len(sub) {
			break
		}
		if r == sub[i] {
			i++
		}
	}
	return i == len(sub)
}
