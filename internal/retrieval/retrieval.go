// Package retrieval merges dense vector search with lexical BM25
// ranking. Hybrid mode fuses the two ranked lists by weighted voting;
// vector-only mode passes raw relevance scores through so the caller
// can apply a minimum-score gate.
package retrieval

import (
	"context"
	"sort"

	"github.com/siitkit/faqrag/internal/lexical"
	"github.com/siitkit/faqrag/internal/vectordb"
)

// Source weights for hybrid fusion. Vectors are favored a bit for
// paraphrases.
const (
	vectorWeight  = 0.6
	lexicalWeight = 0.4
)

// Outcome is a tagged result: hybrid retrieval yields an ordered list
// with no unified score, vector-only retrieval yields scored documents.
// Exactly one of Ranked/Scored is populated, per Hybrid.
type Outcome struct {
	Hybrid bool
	Ranked []vectordb.Document
	Scored []vectordb.ScoredDocument
}

// Docs returns the retrieved documents in rank order regardless of mode.
func (o Outcome) Docs() []vectordb.Document {
	if o.Hybrid {
		return o.Ranked
	}
	docs := make([]vectordb.Document, len(o.Scored))
	for i, s := range o.Scored {
		docs[i] = s.Document
	}
	return docs
}

// Empty reports whether retrieval produced no documents.
func (o Outcome) Empty() bool {
	if o.Hybrid {
		return len(o.Ranked) == 0
	}
	return len(o.Scored) == 0
}

// TopScore returns the best relevance score. ok is false in hybrid
// mode and on empty results.
func (o Outcome) TopScore() (float32, bool) {
	if o.Hybrid || len(o.Scored) == 0 {
		return 0, false
	}
	return o.Scored[0].Score, true
}

// Retriever runs retrieval against a vector index, optionally fused
// with a per-request BM25 index over the same corpus.
type Retriever struct {
	index      vectordb.Index
	k          int
	useLexical bool
}

func New(index vectordb.Index, k int, useLexical bool) *Retriever {
	if k <= 0 {
		k = 4
	}
	return &Retriever{index: index, k: k, useLexical: useLexical}
}

// Retrieve runs one retrieval pass for query.
func (r *Retriever) Retrieve(ctx context.Context, query string) (Outcome, error) {
	if !r.useLexical {
		scored, err := r.index.SearchWithScores(ctx, query, r.k)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Scored: scored}, nil
	}

	scored, err := r.index.SearchWithScores(ctx, query, r.k)
	if err != nil {
		return Outcome{}, err
	}
	vectorDocs := make([]vectordb.Document, len(scored))
	for i, s := range scored {
		vectorDocs[i] = s.Document
	}

	corpus, err := r.index.FetchAll(ctx)
	if err != nil {
		return Outcome{}, err
	}
	lexicalDocs := lexical.NewBM25(corpus).Rank(query, r.k)

	return Outcome{
		Hybrid: true,
		Ranked: merge(vectorDocs, lexicalDocs),
	}, nil
}

// merge fuses two ranked lists by weighted rank voting: each list
// contributes weight/(rank+1) per document, a document in both lists
// accumulates both contributions, and identity is the rendered source
// line. Ties keep first-seen order.
func merge(vectorDocs, lexicalDocs []vectordb.Document) []vectordb.Document {
	type entry struct {
		doc   vectordb.Document
		score float64
		order int
	}
	entries := make(map[string]*entry)
	var keys []string

	vote := func(docs []vectordb.Document, weight float64) {
		for rank, doc := range docs {
			id := doc.Metadata.SourceLine()
			e, ok := entries[id]
			if !ok {
				e = &entry{doc: doc, order: len(keys)}
				entries[id] = e
				keys = append(keys, id)
			}
			e.score += weight / float64(rank+1)
		}
	}
	vote(vectorDocs, vectorWeight)
	vote(lexicalDocs, lexicalWeight)

	merged := make([]*entry, 0, len(keys))
	for _, id := range keys {
		merged = append(merged, entries[id])
	}
	sort.SliceStable(merged, func(a, b int) bool {
		if merged[a].score != merged[b].score {
			return merged[a].score > merged[b].score
		}
		return merged[a].order < merged[b].order
	})

	docs := make([]vectordb.Document, len(merged))
	for i, e := range merged {
		docs[i] = e.doc
	}
	return docs
}
