// Package ingest turns Markdown FAQ files into vector store documents.
// Files are split along the header hierarchy: # becomes the chunk
// title, ## the section, ### the question. Header text lives in
// metadata, not in the chunk body.
package ingest

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/siitkit/faqrag/internal/vectordb"
)

// SplitMarkdown cuts one file into header-scoped chunks. Metadata
// fields stay empty when the corresponding header level is absent;
// Source is always set. Chunk body whitespace is collapsed to single
// spaces.
func SplitMarkdown(file File) []vectordb.Document {
	root := goldmark.New().Parser().Parse(text.NewReader(file.Content))

	var chunks []vectordb.Document
	meta := vectordb.Metadata{Source: file.Name}
	var parts []string

	flush := func() {
		body := normalizeWhitespace(strings.Join(parts, " "))
		parts = nil
		if body == "" {
			return
		}
		chunks = append(chunks, vectordb.Document{
			ID:       fmt.Sprintf("chunk:%s:%03d", file.Name, len(chunks)),
			Content:  body,
			Metadata: meta,
		})
	}

	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		if h, ok := n.(*ast.Heading); ok {
			flush()
			title := strings.TrimSpace(inlineText(h, file.Content))
			switch h.Level {
			case 1:
				meta.Title = title
				meta.Section = ""
				meta.Question = ""
			case 2:
				meta.Section = title
				meta.Question = ""
			case 3:
				meta.Question = title
			}
			return ast.WalkSkipChildren, nil
		}

		// Leaf blocks (paragraphs, list item text, code) carry their
		// raw source lines; container blocks are walked through.
		if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
			for i := 0; i < n.Lines().Len(); i++ {
				seg := n.Lines().At(i)
				parts = append(parts, string(seg.Value(file.Content)))
			}
			return ast.WalkSkipChildren, nil
		}

		return ast.WalkContinue, nil
	})
	flush()

	return chunks
}

// inlineText concatenates the text segments under an inline container.
func inlineText(n ast.Node, source []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			sb.Write(t.Segment.Value(source))
			continue
		}
		sb.WriteString(inlineText(c, source))
	}
	return sb.String()
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
