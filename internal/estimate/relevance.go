package estimate

import (
	"sort"
	"strings"

	domain "github.com/bluberry-labs/price-engine/pkg/types"
)

const (
	exactMatchPoints    = 2.0
	substringPoints     = 1.0
	matchRatioBonusMax  = 3.0
	minSignificantToken = 3
)

// RelevanceScore measures how well a listing title matches a search term.
// Both are tokenized on whitespace; each significant search token earns 2
// points for an exact token match in the title or 1 point for a substring
// match, plus a bonus proportional to the fraction of tokens matched exactly.
// Tokens shorter than 3 characters are ignored unless fully numeric (model
// numbers like "15" carry real signal).
func RelevanceScore(search, title string) float64 {
	searchTokens := significantTokens(search)
	if len(searchTokens) == 0 {
		return 0
	}

	titleLower := strings.ToLower(title)
	titleTokens := map[string]struct{}{}
	for _, tok := range strings.Fields(titleLower) {
		titleTokens[tok] = struct{}{}
	}

	var score float64
	exact := 0
	for _, tok := range searchTokens {
		if _, ok := titleTokens[tok]; ok {
			score += exactMatchPoints
			exact++
			continue
		}
		if strings.Contains(titleLower, tok) {
			score += substringPoints
		}
	}

	score += matchRatioBonusMax * float64(exact) / float64(len(searchTokens))
	return score
}

func significantTokens(s string) []string {
	var tokens []string
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		if len(tok) >= minSignificantToken || isNumeric(tok) {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// RankByRelevance scores each sample against the search term, sorts by
// relevance descending (stable, so API response order breaks ties), and
// returns the top max(10, half) samples.
func RankByRelevance(search string, samples []domain.ListingSample) []domain.ListingSample {
	ranked := make([]domain.ListingSample, len(samples))
	copy(ranked, samples)

	for i := range ranked {
		ranked[i].Relevance = RelevanceScore(search, ranked[i].Title)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Relevance > ranked[j].Relevance
	})

	keep := len(ranked) / 2
	if keep < 10 {
		keep = 10
	}
	if keep > len(ranked) {
		keep = len(ranked)
	}
	return ranked[:keep]
}
