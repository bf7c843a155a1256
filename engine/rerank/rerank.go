// Package rerank re-scores vector search candidates by lexical similarity.
// Vector search is recall-oriented; this stage applies a cheaper, more
// precise TF-IDF signal and removes near-zero matches before synthesis.
package rerank

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/MedAssistAI/medqa-mvp/engine/domain"
)

// Minimum rune length for a query token to count in the answer keyword filter.
const minKeywordLen = 3

// Lexical is a stateless TF-IDF re-ranker. Safe for concurrent use.
type Lexical struct{}

// Filter re-ranks hits by TF-IDF cosine similarity against the query, drops
// zero-similarity candidates, then keeps only hits whose answer contains at
// least one long query token. If the keyword step empties a non-empty
// TF-IDF-filtered set, the single top-scoring hit is returned instead, so
// the pipeline always has a candidate when any hit matched lexically at all.
func (Lexical) Filter(query string, hits []domain.SearchHit) []domain.SearchHit {
	ranked := rankBySimilarity(query, hits)
	if len(ranked) == 0 {
		return nil
	}

	keywords := longTokens(query)
	kept := make([]domain.SearchHit, 0, len(ranked))
	for _, hit := range ranked {
		answer := strings.ToLower(hit.Answer)
		for _, kw := range keywords {
			if strings.Contains(answer, kw) {
				kept = append(kept, hit)
				break
			}
		}
	}
	if len(kept) == 0 {
		return ranked[:1]
	}
	return kept
}

// rankBySimilarity sorts hits by descending TF-IDF cosine score and drops
// those with no lexical overlap. The sort is stable, so ties keep the vector
// search order and repeated calls are deterministic.
func rankBySimilarity(query string, hits []domain.SearchHit) []domain.SearchHit {
	if len(hits) == 0 {
		return nil
	}

	docs := make([]string, len(hits))
	for i, h := range hits {
		docs[i] = h.Question + " " + h.Answer
	}
	scores := tfidfScores(query, docs)

	order := make([]int, len(hits))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	ranked := make([]domain.SearchHit, 0, len(hits))
	for _, idx := range order {
		if scores[idx] > 0 {
			ranked = append(ranked, hits[idx])
		}
	}
	return ranked
}

// longTokens returns lowercased whitespace-split query tokens longer than
// minKeywordLen runes, with edge punctuation stripped.
func longTokens(query string) []string {
	var tokens []string
	for _, word := range strings.Fields(strings.ToLower(query)) {
		word = strings.Trim(word, "?,!.")
		if utf8.RuneCountInString(word) > minKeywordLen {
			tokens = append(tokens, word)
		}
	}
	return tokens
}
