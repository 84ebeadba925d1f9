package prompt

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// DefaultSuggestionLimit caps the number of branch suggestions.
const DefaultSuggestionLimit = 10

// BranchCompleter completes the last entry of a branch list, ranking
// candidates with fuzzy matching.
type BranchCompleter struct {
	branches []string
	limit    int
}

// NewBranchCompleter creates a completer over branches.
func NewBranchCompleter(branches []string) *BranchCompleter {
	return &BranchCompleter{branches: branches, limit: DefaultSuggestionLimit}
}

// Complete returns full input values: the already typed entries followed
// by each candidate for the entry being typed. Entries already chosen are
// not suggested again.
func (c *BranchCompleter) Complete(input string) []string {
	if len(c.branches) == 0 {
		return nil
	}

	cut := strings.LastIndexFunc(input, isListSeparator)
	token := input[cut+1:]
	lead := input[:cut+1]

	chosen := map[string]bool{}
	for _, b := range ParseList(input[:cut+1]) {
		chosen[b] = true
	}
	var candidates []string
	for _, b := range c.branches {
		if !chosen[b] {
			candidates = append(candidates, b)
		}
	}

	var ranked []string
	if token == "" {
		ranked = candidates
	} else {
		for _, m := range fuzzy.Find(token, candidates) {
			ranked = append(ranked, m.Str)
		}
	}
	if len(ranked) > c.limit {
		ranked = ranked[:c.limit]
	}

	suggestions := make([]string, 0, len(ranked))
	for _, b := range ranked {
		suggestions = append(suggestions, lead+b)
	}
	return suggestions
}
