// Package query turns free-text brand queries into the subreddit filter
// string used to scope Reddit retrieval.
package query

import "strings"

// stopwords are generic product-name noise that make bad subreddit
// candidates ("Samsung S23 Ultra" should search r/samsung+s23, not
// r/ultra).
var stopwords = map[string]struct{}{
	"and":   {},
	"the":   {},
	"for":   {},
	"vs":    {},
	"pro":   {},
	"max":   {},
	"ultra": {},
	"phone": {},
	"plus":  {},
}

// Normalize derives the subreddit filter for a raw user query:
// lowercased whitespace tokens, stopwords and single characters dropped,
// deduplicated preserving first occurrence, joined with "+". A query made
// entirely of stopwords yields the empty string, which downstream treats
// as "zero matches", not as an error.
func Normalize(raw string) string {
	seen := make(map[string]struct{})
	var keywords []string

	for _, token := range strings.Fields(strings.ToLower(raw)) {
		if len(token) <= 1 {
			continue
		}
		if _, skip := stopwords[token]; skip {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		keywords = append(keywords, token)
	}

	return strings.Join(keywords, "+")
}
