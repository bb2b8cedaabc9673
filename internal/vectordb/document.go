package vectordb

import (
	"fmt"
	"strings"
)

// Document is one FAQ chunk: a Markdown subsection plus the header
// hierarchy it was cut from. Documents are produced by ingestion and
// never mutated afterwards.
type Document struct {
	ID       string
	Content  string
	Metadata Metadata
}

// Metadata holds the header hierarchy of a chunk. Fields are empty
// strings when the corresponding header level was absent; Source is
// always the originating filename.
type Metadata struct {
	Title    string
	Section  string
	Question string
	Source   string
}

// SourceLine renders the citation line for this chunk. The rendered
// line doubles as the document's identity for deduplication.
func (m Metadata) SourceLine() string {
	return strings.TrimSpace(fmt.Sprintf("• %s › %s (%s)", m.Title, m.Section, m.Source))
}

// ScoredDocument pairs a document with its relevance score.
// Higher is more relevant; chromem-go yields cosine similarity.
type ScoredDocument struct {
	Document Document
	Score    float32
}
