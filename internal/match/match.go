// Package match derives the ordered result list for a query.
//
// Two algorithms are available. Tokenizing mode splits the query on
// whitespace and keeps items containing every token, ordered in tiers
// (exact, prefix, substring). Fuzzy mode keeps items containing the query
// as a subsequence and orders them by score.
package match

import (
	"slices"
	"strings"

	"github.com/runger/tmenu/internal/item"
)

// Mode selects the matching algorithm.
type Mode int

const (
	ModeTokenize Mode = iota // Whitespace tokens, tiered ordering
	ModeFuzzy                // Subsequence match, score ordering
)

// String returns the config spelling of the mode.
func (m Mode) String() string {
	if m == ModeFuzzy {
		return "fuzzy"
	}
	return "tokenize"
}

// ParseMode converts a config string into a Mode.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "tokenize", "":
		return ModeTokenize, true
	case "fuzzy":
		return ModeFuzzy, true
	default:
		return ModeTokenize, false
	}
}

// Tier is the match-quality bucket of a hit.
type Tier int

const (
	TierExact Tier = iota
	TierPrefix
	TierSubstring
	TierFuzzy
)

func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierPrefix:
		return "prefix"
	case TierSubstring:
		return "substring"
	case TierFuzzy:
		return "fuzzy"
	default:
		return "unknown"
	}
}

// Config controls how queries are matched.
type Config struct {
	Mode           Mode
	Case           CaseMode
	NoSort         bool // Keep store order; no tiering or score sort
	MatchSecondary bool // Match on secondary text when an item has one
}

// Engine computes results for a fixed Config.
type Engine struct {
	cfg  Config
	fold folder
}

// NewEngine creates an engine. The case strategy is resolved once here.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg, fold: cfg.Case.folder()}
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Key returns the text an item is matched against.
func (e *Engine) Key(it item.Item) string {
	if e.cfg.MatchSecondary && it.HasSecondary() {
		return it.Secondary
	}
	return it.Text
}

// Compute returns the ordered hits for query over items. It is a pure
// function of its inputs.
func (e *Engine) Compute(query string, items []item.Item) Result {
	if len(items) == 0 {
		return Result{}
	}
	if e.cfg.Mode == ModeFuzzy {
		return e.computeFuzzy(query, items)
	}
	return e.computeTokens(query, items)
}

// Tokenize splits a query on whitespace.
func Tokenize(query string) []string {
	return strings.Fields(query)
}

func (e *Engine) computeTokens(query string, items []item.Item) Result {
	tokens := Tokenize(query)
	for i, tok := range tokens {
		tokens[i] = e.fold(tok)
	}
	foldedQuery := e.fold(query)

	var exact, priority, prefix, substr []Hit
	for _, it := range items {
		key := e.fold(e.Key(it))
		if !containsAll(key, tokens) {
			continue
		}

		if e.cfg.NoSort {
			exact = append(exact, Hit{ID: it.ID, Tier: tierFor(key, foldedQuery, tokens)})
			continue
		}

		switch tier := tierFor(key, foldedQuery, tokens); {
		case tier == TierExact:
			exact = append(exact, Hit{ID: it.ID, Tier: TierExact})
		case tier == TierPrefix && it.Priority:
			priority = append(priority, Hit{ID: it.ID, Tier: TierPrefix})
		case tier == TierPrefix:
			prefix = append(prefix, Hit{ID: it.ID, Tier: TierPrefix})
		default:
			substr = append(substr, Hit{ID: it.ID, Tier: TierSubstring})
		}
	}

	hits := slices.Concat(exact, priority, prefix, substr)
	return newResult(hits)
}

// tierFor classifies a key that already contains every token.
func tierFor(key, query string, tokens []string) Tier {
	if len(tokens) == 0 || key == query {
		return TierExact
	}
	if strings.HasPrefix(key, tokens[0]) {
		return TierPrefix
	}
	return TierSubstring
}

func containsAll(key string, tokens []string) bool {
	for _, tok := range tokens {
		if !strings.Contains(key, tok) {
			return false
		}
	}
	return true
}
