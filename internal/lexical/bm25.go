// Package lexical ranks FAQ chunks with BM25. The index is rebuilt
// from the full corpus on every request; the corpus is small enough
// that caching it keyed by corpus version is not worth the bookkeeping.
package lexical

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/siitkit/faqrag/internal/vectordb"
)

// BM25 parameters. k1 controls term-frequency saturation, b controls
// document-length normalization.
const (
	k1 = 1.5
	b  = 0.75
)

// BM25 is an in-memory lexical index over a document set.
type BM25 struct {
	docs      []vectordb.Document
	termFreqs []map[string]int
	docLens   []int
	avgDocLen float64
	idf       map[string]float64
}

// NewBM25 builds the index from the corpus.
func NewBM25(docs []vectordb.Document) *BM25 {
	r := &BM25{
		docs:      docs,
		termFreqs: make([]map[string]int, len(docs)),
		docLens:   make([]int, len(docs)),
		idf:       make(map[string]float64),
	}

	docFreq := make(map[string]int)
	total := 0

	for i, doc := range docs {
		tokens := Tokenize(doc.Content)
		tf := make(map[string]int, len(tokens))
		for _, t := range tokens {
			tf[t]++
		}
		r.termFreqs[i] = tf
		r.docLens[i] = len(tokens)
		total += len(tokens)

		for term := range tf {
			docFreq[term]++
		}
	}

	if len(docs) > 0 {
		r.avgDocLen = float64(total) / float64(len(docs))
	}

	n := float64(len(docs))
	for term, df := range docFreq {
		r.idf[term] = math.Log(1 + (n-float64(df)+0.5)/(float64(df)+0.5))
	}

	return r
}

// Rank returns up to k documents ordered by descending BM25 score.
// Documents that share no terms with the query are not returned.
func (r *BM25) Rank(query string, k int) []vectordb.Document {
	if len(r.docs) == 0 || k <= 0 {
		return nil
	}

	queryTerms := Tokenize(query)

	type scored struct {
		idx   int
		score float64
	}
	var results []scored

	for i := range r.docs {
		score := r.score(queryTerms, i)
		if score > 0 {
			results = append(results, scored{idx: i, score: score})
		}
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].score > results[b].score
	})

	if len(results) > k {
		results = results[:k]
	}

	docs := make([]vectordb.Document, len(results))
	for i, s := range results {
		docs[i] = r.docs[s.idx]
	}
	return docs
}

func (r *BM25) score(queryTerms []string, docIdx int) float64 {
	tf := r.termFreqs[docIdx]
	docLen := float64(r.docLens[docIdx])

	var score float64
	for _, term := range queryTerms {
		freq := float64(tf[term])
		if freq == 0 {
			continue
		}
		idf := r.idf[term]
		norm := 1 - b + b*docLen/r.avgDocLen
		score += idf * freq * (k1 + 1) / (freq + k1*norm)
	}
	return score
}

// Tokenize lowercases text and splits it into runs of letters and
// digits. Thai has no word boundaries, so a contiguous Thai run stays
// one token; that is coarse but symmetric between corpus and query.
func Tokenize(text string) []string {
	lower := strings.ToLower(text)
	return strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
