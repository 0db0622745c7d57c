// Package search ranks node names against a free-form query string. Used
// by the REST server and the REPL for fuzzy lookup of nodes by name.
package search

import (
	"sort"
	"strings"
	"unicode"

	"github.com/agext/levenshtein"
)

// MatchResult represents a single search match result.
type MatchResult struct {
	Name  string
	Score float64
}

// FindNodesBySimilarity ranks names against query using a combination of
// Levenshtein similarity and token overlap, returning the top matches.
func FindNodesBySimilarity(query string, names []string, limit int) []string {
	if query == "" || len(names) == 0 {
		return nil
	}
	if limit <= 0 {
		limit = 10
	}

	queryLower := strings.ToLower(query)
	queryTokens := tokenize(queryLower)

	var results []MatchResult
	for _, name := range names {
		if name == "" {
			continue
		}
		score := calculateScore(queryLower, queryTokens, name)
		if score > 0.3 {
			results = append(results, MatchResult{Name: name, Score: score})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Name < results[j].Name
	})

	if len(results) > limit {
		results = results[:limit]
	}
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Name
	}
	return out
}

// calculateScore blends edit-distance similarity of the full strings with
// the fraction of query tokens present in the candidate.
func calculateScore(queryLower string, queryTokens []string, name string) float64 {
	nameLower := strings.ToLower(name)

	if queryLower == nameLower {
		return 1.0
	}
	if strings.Contains(nameLower, queryLower) {
		return 0.9
	}

	sim := levenshtein.Similarity(queryLower, nameLower, nil)

	overlap := 0.0
	if len(queryTokens) > 0 {
		nameTokens := tokenize(nameLower)
		hits := 0
		for _, qt := range queryTokens {
			for _, nt := range nameTokens {
				if qt == nt || strings.Contains(nt, qt) {
					hits++
					break
				}
			}
		}
		overlap = float64(hits) / float64(len(queryTokens))
	}

	score := 0.6*sim + 0.4*overlap
	return score
}

// tokenize splits a string on non-alphanumeric boundaries and camelCase
// humps.
func tokenize(s string) []string {
	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, strings.ToLower(cur.String()))
			cur.Reset()
		}
	}
	var prev rune
	for _, r := range s {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r) && unicode.IsLower(prev):
			flush()
			cur.WriteRune(r)
		default:
			cur.WriteRune(r)
		}
		prev = r
	}
	flush()
	return tokens
}
