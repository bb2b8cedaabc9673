package ingest

import (
	"context"
	"fmt"

	"github.com/schollz/progressbar/v3"

	"github.com/siitkit/faqrag/internal/vectordb"
)

// Stats summarizes one ingestion run.
type Stats struct {
	Files     int
	Chunks    int
	Titles    int
	Sections  int
	Questions int
}

// Build splits the loaded files and embeds every chunk into the index.
// Zero chunks from a non-empty file set is a configuration error:
// the Markdown had no usable content.
func Build(ctx context.Context, index vectordb.Index, files []File, showProgress bool) (*Stats, error) {
	var chunks []vectordb.Document
	for _, f := range files {
		chunks = append(chunks, SplitMarkdown(f)...)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no chunks produced; check your Markdown formatting")
	}

	var bar *progressbar.ProgressBar
	if showProgress {
		bar = progressbar.NewOptions(len(chunks),
			progressbar.OptionSetDescription("Embedding chunks"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	// One document per call keeps the progress bar honest; embedding
	// latency dwarfs the per-call overhead.
	for _, chunk := range chunks {
		if err := index.AddDocuments(ctx, []vectordb.Document{chunk}); err != nil {
			return nil, fmt.Errorf("indexing chunk %s: %w", chunk.ID, err)
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	stats := &Stats{Files: len(files), Chunks: len(chunks)}
	for _, c := range chunks {
		if c.Metadata.Title != "" {
			stats.Titles++
		}
		if c.Metadata.Section != "" {
			stats.Sections++
		}
		if c.Metadata.Question != "" {
			stats.Questions++
		}
	}
	return stats, nil
}
