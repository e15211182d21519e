// Package resolver maps free-text user input to a catalog item name using
// token-set similarity. It is a pure ranking function: the best candidate is
// always returned with its score, and threshold enforcement belongs to the
// caller. Scoring is order-insensitive over tokens and case-insensitive, so
// "orb divine" still lands on "Divine Orb".
package resolver

import (
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/wanichchakorn/poe2-pcm-discordbot/internal/models"
)

// DefaultThreshold is the confidence score a match must exceed before the
// caller treats it as found. A score at or below it renders as "no match".
const DefaultThreshold = 60

// Resolve ranks candidates against the query and returns the single best
// match. Ties go to the first candidate in catalog order, so results are
// reproducible. Empty candidates yield score 0, not an error.
func Resolve(query string, candidates []string) models.MatchResult {
	result := models.MatchResult{Query: query}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || len(candidates) == 0 {
		return result
	}

	for _, candidate := range candidates {
		score := fuzzy.TokenSetRatio(q, strings.ToLower(candidate))
		if score > result.Score || result.Name == "" {
			result.Name = candidate
			result.Score = score
		}
	}

	return result
}
