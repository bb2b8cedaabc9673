package vectordb

import (
	"context"
	"fmt"

	chromem "github.com/philippgille/chromem-go"

	"github.com/siitkit/faqrag/internal/embeddings"
)

// ChromemIndex implements Index on top of a persistent chromem-go
// database. The path is created lazily on first open and the named
// collection on first use.
type ChromemIndex struct {
	db         *chromem.DB
	collection *chromem.Collection
}

// Open opens (creating if absent) the collection at path.
func Open(path, collection string, embedder embeddings.Embedder) (*ChromemIndex, error) {
	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, fmt.Errorf("open index at %s: %w", path, err)
	}

	col, err := db.GetOrCreateCollection(collection, nil, embeddings.ToChromemFunc(embedder))
	if err != nil {
		return nil, fmt.Errorf("open collection %q: %w", collection, err)
	}

	return &ChromemIndex{db: db, collection: col}, nil
}

func (s *ChromemIndex) AddDocuments(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	chromDocs := make([]chromem.Document, len(docs))
	for i, doc := range docs {
		chromDocs[i] = chromem.Document{
			ID:       doc.ID,
			Content:  doc.Content,
			Metadata: metadataToMap(doc.Metadata),
		}
	}

	return s.collection.AddDocuments(ctx, chromDocs, 1)
}

func (s *ChromemIndex) SearchWithScores(ctx context.Context, query string, k int) ([]ScoredDocument, error) {
	if k <= 0 {
		k = 4
	}

	// chromem-go requires nResults <= collection size.
	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	results, err := s.collection.Query(ctx, query, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("index query: %w", err)
	}

	scored := make([]ScoredDocument, len(results))
	for i, r := range results {
		scored[i] = ScoredDocument{
			Document: Document{
				ID:       r.ID,
				Content:  r.Content,
				Metadata: mapToMetadata(r.Metadata),
			},
			Score: r.Similarity,
		}
	}

	return scored, nil
}

// fetchSeed is the query text used for full scans. chromem-go has no
// list-all operation, so FetchAll issues a query sized to the whole
// collection; the seed text only influences ordering, which the
// lexical retriever ignores.
const fetchSeed = "faq"

func (s *ChromemIndex) FetchAll(ctx context.Context) ([]Document, error) {
	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}

	results, err := s.collection.Query(ctx, fetchSeed, count, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("index full scan: %w", err)
	}

	docs := make([]Document, len(results))
	for i, r := range results {
		docs[i] = Document{
			ID:       r.ID,
			Content:  r.Content,
			Metadata: mapToMetadata(r.Metadata),
		}
	}

	return docs, nil
}

func (s *ChromemIndex) Count() int {
	return s.collection.Count()
}

// metadataToMap flattens Metadata for chromem storage.
func metadataToMap(m Metadata) map[string]string {
	return map[string]string{
		"title":    m.Title,
		"section":  m.Section,
		"question": m.Question,
		"source":   m.Source,
	}
}

func mapToMetadata(m map[string]string) Metadata {
	return Metadata{
		Title:    m["title"],
		Section:  m["section"],
		Question: m["question"],
		Source:   m["source"],
	}
}
