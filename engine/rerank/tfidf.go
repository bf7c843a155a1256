package rerank

import (
	"math"
	"regexp"
	"strings"
)

// Word tokens of two or more letters/digits, unicode-aware.
var tokenRe = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

func tokenize(s string) []string {
	return tokenRe.FindAllString(strings.ToLower(s), -1)
}

// tfidfScores computes cosine similarities between the query and each
// document in a TF-IDF space fitted jointly over len(docs) copies of the
// query plus the documents themselves. The joint fit keeps term-document
// frequencies comparable between the query and the candidates.
//
// IDF uses the smooth form ln((1+N)/(1+df))+1 and vectors are l2-normalized,
// so scores land in [0,1] and are exactly zero when no terms are shared.
func tfidfScores(query string, docs []string) []float64 {
	n := len(docs)
	if n == 0 {
		return nil
	}

	queryTF := termCounts(tokenize(query))
	docTFs := make([]map[string]int, n)
	for i, d := range docs {
		docTFs[i] = termCounts(tokenize(d))
	}

	// Document frequencies over the joint corpus: the query counts n times.
	df := make(map[string]int)
	for term := range queryTF {
		df[term] += n
	}
	for _, tf := range docTFs {
		for term := range tf {
			df[term]++
		}
	}

	total := 2 * n
	idf := make(map[string]float64, len(df))
	for term, count := range df {
		idf[term] = math.Log(float64(1+total)/float64(1+count)) + 1
	}

	queryVec := weigh(queryTF, idf)
	scores := make([]float64, n)
	for i, tf := range docTFs {
		scores[i] = dot(queryVec, weigh(tf, idf))
	}
	return scores
}

func termCounts(tokens []string) map[string]int {
	counts := make(map[string]int, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}
	return counts
}

// weigh builds an l2-normalized tf-idf vector.
func weigh(tf map[string]int, idf map[string]float64) map[string]float64 {
	vec := make(map[string]float64, len(tf))
	var norm float64
	for term, count := range tf {
		w := float64(count) * idf[term]
		vec[term] = w
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for term := range vec {
			vec[term] /= norm
		}
	}
	return vec
}

func dot(a, b map[string]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for term, w := range a {
		sum += w * b[term]
	}
	return sum
}
