package vectordb

import "context"

// Index is the nearest-neighbor interface the pipeline consumes. The
// persistence layout behind it is owned by the index library and
// treated as opaque.
type Index interface {
	// AddDocuments embeds and stores documents. Used by ingestion only.
	AddDocuments(ctx context.Context, docs []Document) error

	// SearchWithScores returns the k most relevant documents for the
	// query, ordered by descending relevance score.
	SearchWithScores(ctx context.Context, query string, k int) ([]ScoredDocument, error)

	// FetchAll materializes the whole corpus, metadata preserved. The
	// lexical retriever is rebuilt from this on every request.
	FetchAll(ctx context.Context) ([]Document, error)

	// Count returns the number of stored documents.
	Count() int
}
