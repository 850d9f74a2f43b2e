// Package rag implements hybrid document retrieval: lexical BM25 scoring
// blended with hashed term-frequency vector similarity, plus a small bonus
// for direct term overlap with the query.
package rag

import (
	"log"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/SankarSubbayya/Finnie/pkg/store"
)

// BM25 parameters and blend weights
const (
	bm25K1 = 1.2
	bm25B  = 0.75

	lexicalWeight = 0.6
	vectorWeight  = 0.4
	overlapWeight = 0.1

	embeddingDim = 128
)

// Filters narrows a search. A zero value matches every document.
type Filters struct {
	Level string
}

type indexedDoc struct {
	doc        store.Document
	termCounts map[string]int
	length     int
	embedding  []float64
}

// Retriever searches a fixed document set. The index is built once at
// construction; Search is read-only and safe for concurrent use.
type Retriever struct {
	docs      []indexedDoc
	idf       map[string]float64
	avgDocLen float64
	logger    *log.Logger
}

// NewRetriever indexes the documents for hybrid search
func NewRetriever(documents []store.Document, logger *log.Logger) *Retriever {
	r := &Retriever{
		idf:    make(map[string]float64),
		logger: logger,
	}

	docFreqs := make(map[string]int)
	totalLen := 0
	for _, doc := range documents {
		terms := tokenize(doc.Content)
		counts := make(map[string]int)
		for _, term := range terms {
			counts[term]++
		}
		for term := range counts {
			docFreqs[term]++
		}
		totalLen += len(terms)
		r.docs = append(r.docs, indexedDoc{
			doc:        doc,
			termCounts: counts,
			length:     len(terms),
			embedding:  embed(terms),
		})
	}

	if len(r.docs) > 0 {
		r.avgDocLen = float64(totalLen) / float64(len(r.docs))
	}
	// Lucene-style idf: log(1+x) stays positive even for terms present in
	// most documents, so common terms never subtract from the score.
	n := float64(len(r.docs))
	for term, df := range docFreqs {
		r.idf[term] = math.Log(1 + (n-float64(df)+0.5)/(float64(df)+0.5))
	}

	return r
}

// Search returns the top k documents for the query, scored by the hybrid
// blend. Documents failing the filters or sharing no terms with the query
// are excluded. An empty query or empty index returns nil.
func (r *Retriever) Search(query string, k int, filters Filters) []store.Document {
	terms := tokenize(query)
	if len(terms) == 0 || len(r.docs) == 0 {
		return nil
	}
	queryEmbedding := embed(terms)
	querySet := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		querySet[term] = struct{}{}
	}

	type scored struct {
		doc   store.Document
		score float64
	}
	var results []scored
	for _, idx := range r.docs {
		if filters.Level != "" && idx.doc.Level != filters.Level {
			continue
		}

		// Hashed embeddings collide across unrelated terms, so the vector
		// component alone must not qualify a document.
		overlap := 0
		for term := range querySet {
			if _, ok := idx.termCounts[term]; ok {
				overlap++
			}
		}
		if overlap == 0 {
			continue
		}

		lexical := r.bm25(terms, idx)
		vector := cosine(queryEmbedding, idx.embedding)
		bonus := float64(overlap) / float64(len(querySet))

		score := lexicalWeight*lexical + vectorWeight*vector + overlapWeight*bonus
		if score <= 0 {
			continue
		}
		results = append(results, scored{doc: idx.doc, score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})
	if k > 0 && len(results) > k {
		results = results[:k]
	}

	out := make([]store.Document, len(results))
	for i, res := range results {
		doc := res.doc
		doc.Score = res.score
		out[i] = doc
	}

	if r.logger != nil {
		r.logger.Printf("[RAG] Retrieved %d documents for query (%d candidates indexed)", len(out), len(r.docs))
	}
	return out
}

func (r *Retriever) bm25(queryTerms []string, idx indexedDoc) float64 {
	score := 0.0
	for _, term := range queryTerms {
		tf, ok := idx.termCounts[term]
		if !ok {
			continue
		}
		idf := r.idf[term]
		numerator := float64(tf) * (bm25K1 + 1)
		denominator := float64(tf) + bm25K1*(1-bm25B+bm25B*float64(idx.length)/r.avgDocLen)
		score += idf * numerator / denominator
	}
	return score
}

// tokenize lower-cases and splits on non-alphanumeric runs
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// embed builds a normalized hashed term-frequency vector. The same
// function embeds documents and queries, so cosine similarity is
// meaningful without an external model.
func embed(terms []string) []float64 {
	vec := make([]float64, embeddingDim)
	for _, term := range terms {
		vec[termHash(term)%embeddingDim]++
	}
	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

func termHash(term string) int {
	h := 2166136261
	for i := 0; i < len(term); i++ {
		h ^= int(term[i])
		h *= 16777619
		h &= 0x7fffffff
	}
	return h
}

func cosine(a, b []float64) float64 {
	dot := 0.0
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot
}
