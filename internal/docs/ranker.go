package docs

import (
	"sort"
	"strings"

	"github.com/mykushyn/prismiq/internal/model"
)

// queryTokens lowercases the query, splits it on whitespace and simple
// punctuation, and keeps the deduplicated tokens longer than three
// characters. Short words carry no signal for keyword scoring.
func queryTokens(query string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return r == ' ' || r == ',' || r == '.' || r == '!' || r == '?'
	})
	tokens := make(map[string]struct{})
	for _, f := range fields {
		if len(f) > 3 {
			tokens[f] = struct{}{}
		}
	}
	return tokens
}

// Rank scores chunks against the query by keyword overlap and returns up to
// topK of them, best first. The score of a chunk is the number of distinct
// query tokens that occur anywhere in its text, case-insensitively; the
// match is a plain substring test, deliberately not token-boundary-aware.
// Zero-score chunks are discarded and ties keep the original chunk order.
func Rank(chunks []model.DocumentChunk, query string, topK int) []model.DocumentChunk {
	tokens := queryTokens(query)
	if len(tokens) == 0 || topK <= 0 {
		return nil
	}

	type scored struct {
		chunk model.DocumentChunk
		score int
	}
	var ranked []scored
	for _, chunk := range chunks {
		lower := strings.ToLower(chunk.Text)
		score := 0
		for token := range tokens {
			if strings.Contains(lower, token) {
				score++
			}
		}
		if score > 0 {
			ranked = append(ranked, scored{chunk: chunk, score: score})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if len(ranked) > topK {
		ranked = ranked[:topK]
	}
	result := make([]model.DocumentChunk, 0, len(ranked))
	for _, s := range ranked {
		result = append(result, s.chunk)
	}
	return result
}
