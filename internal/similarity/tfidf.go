// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package similarity builds a TF-IDF vector space from a reference corpus
// and scores candidate texts by their maximum cosine similarity to any
// single reference document.
package similarity

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// maxFeatures caps the vocabulary at the highest-frequency terms in the
// reference corpus.
const maxFeatures = 1000

// minTokenLen drops single-character tokens before ngram construction.
const minTokenLen = 2

// Model is a TF-IDF vector space fit on a reference corpus. The vocabulary
// covers unigrams and adjacent bigrams, with English stop words removed.
// Out-of-vocabulary terms in candidate texts contribute nothing.
type Model struct {
	vocab     map[string]int // term -> column index
	idf       []float64
	reference [][]float64 // L2-normalized reference vectors
}

// Fit builds the vocabulary, IDF weights, and reference vectors from the
// given documents. An empty corpus yields a model that scores everything 0.
// Documents with empty text produce zero vectors and never cause an error.
func Fit(docs []string) *Model {
	m := &Model{vocab: make(map[string]int)}
	if len(docs) == 0 {
		return m
	}

	counts := make([]map[string]int, len(docs))
	corpusFreq := make(map[string]int)
	docFreq := make(map[string]int)
	for i, doc := range docs {
		c := termCounts(doc)
		counts[i] = c
		for term, n := range c {
			corpusFreq[term] += n
			docFreq[term]++
		}
	}

	// Keep the maxFeatures most frequent terms, ties broken alphabetically
	// so the vocabulary is deterministic.
	terms := make([]string, 0, len(corpusFreq))
	for term := range corpusFreq {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if corpusFreq[terms[i]] != corpusFreq[terms[j]] {
			return corpusFreq[terms[i]] > corpusFreq[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > maxFeatures {
		terms = terms[:maxFeatures]
	}
	sort.Strings(terms)
	for i, term := range terms {
		m.vocab[term] = i
	}

	// Smoothed IDF: ln((1+n) / (1+df)) + 1.
	n := float64(len(docs))
	m.idf = make([]float64, len(terms))
	for term, col := range m.vocab {
		m.idf[col] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	m.reference = make([][]float64, len(docs))
	for i, c := range counts {
		m.reference[i] = m.vectorFromCounts(c)
	}
	return m
}

// Empty reports whether the model has no vocabulary; callers should treat
// the similarity signal as disabled when it does.
func (m *Model) Empty() bool {
	return len(m.vocab) == 0
}

// Similarities projects each text into the reference vector space and
// returns its maximum cosine similarity to any reference document, each
// value in [0, 1].
func (m *Model) Similarities(texts []string) []float64 {
	sims := make([]float64, len(texts))
	if m.Empty() {
		return sims
	}
	for i, text := range texts {
		v := m.vectorFromCounts(termCounts(text))
		best := 0.0
		for _, ref := range m.reference {
			if s := dot(v, ref); s > best {
				best = s
			}
		}
		// Normalized vectors with non-negative weights bound the dot
		// product to [0, 1]; the clamp guards rounding.
		sims[i] = math.Min(best, 1.0)
	}
	return sims
}

// vectorFromCounts builds an L2-normalized TF-IDF vector over the model
// vocabulary. An all-out-of-vocabulary document yields the zero vector.
func (m *Model) vectorFromCounts(counts map[string]int) []float64 {
	v := make([]float64, len(m.vocab))
	var norm float64
	for term, n := range counts {
		col, ok := m.vocab[term]
		if !ok {
			continue
		}
		w := float64(n) * m.idf[col]
		v[col] = w
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range v {
			v[i] /= norm
		}
	}
	return v
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

// termCounts tokenizes text and counts unigrams and adjacent bigrams.
// Tokens are lowercased runs of letters and digits; single characters and
// stop words are removed before bigram construction.
func termCounts(text string) map[string]int {
	tokens := tokenize(text)
	counts := make(map[string]int, len(tokens)*2)
	for i, tok := range tokens {
		counts[tok]++
		if i+1 < len(tokens) {
			counts[tok+" "+tokens[i+1]]++
		}
	}
	return counts
}

func tokenize(text string) []string {
	var tokens []string
	var b strings.Builder
	flush := func() {
		if b.Len() >= minTokenLen {
			tok := b.String()
			if !stopWords[tok] {
				tokens = append(tokens, tok)
			}
		}
		b.Reset()
	}
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}
