// Package pipeline sequences a single question through expansion,
// hybrid retrieval, relevance gating, and answer composition. When
// retrieval runs but yields no adequate evidence the pipeline emits a
// fixed sentinel and never touches the model; infrastructure failures
// surface as errors instead.
package pipeline

import (
	"context"
	"fmt"

	"github.com/siitkit/faqrag/internal/answer"
	"github.com/siitkit/faqrag/internal/expand"
	"github.com/siitkit/faqrag/internal/lang"
	"github.com/siitkit/faqrag/internal/llm"
	"github.com/siitkit/faqrag/internal/retrieval"
	"github.com/siitkit/faqrag/internal/vectordb"
)

// Request carries everything one query needs. Nothing here outlives
// the call.
type Request struct {
	Question   string
	IndexPath  string
	Collection string
	Model      string
	K          int
	MinScore   float32
	UseLexical bool
	ReplyLang  lang.Mode
}

// Result is a terminal pipeline outcome: either a composed Markdown
// answer or the sentinel.
type Result struct {
	Answer        string
	Sentinel      bool
	ExpandedQuery string
	Outcome       retrieval.Outcome
}

// Opener opens the vector index for a path and collection name.
type Opener func(path, collection string) (vectordb.Index, error)

// Pipeline answers student questions over an indexed FAQ corpus.
type Pipeline struct {
	open   Opener
	client llm.Client
}

func New(open Opener, client llm.Client) *Pipeline {
	return &Pipeline{open: open, client: client}
}

// Run executes the full pipeline for one question.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	index, err := p.open(req.IndexPath, req.Collection)
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}

	retriever := retrieval.New(index, req.K, req.UseLexical)
	expanded := expand.Expand(req.Question)

	outcome, err := retriever.Retrieve(ctx, expanded)
	if err != nil {
		return nil, fmt.Errorf("retrieval: %w", err)
	}

	if outcome.Hybrid {
		// Hybrid fusion carries no unified score; an empty merge is
		// the only rejection signal.
		if outcome.Empty() {
			return &Result{Answer: answer.Sentinel, Sentinel: true, ExpandedQuery: expanded, Outcome: outcome}, nil
		}
	} else {
		if belowGate(outcome, req.MinScore) {
			// One retry on the re-expanded query. Expansion is
			// idempotent, so this only fires when the first pass
			// already used a rewritten query.
			if expanded != req.Question {
				outcome, err = retriever.Retrieve(ctx, expand.Expand(expanded))
				if err != nil {
					return nil, fmt.Errorf("retrieval retry: %w", err)
				}
			}
			if belowGate(outcome, req.MinScore) {
				return &Result{Answer: answer.Sentinel, Sentinel: true, ExpandedQuery: expanded, Outcome: outcome}, nil
			}
		}
	}

	// The reply language mirrors the raw question, not the expanded one.
	instruction := lang.ReplyInstruction(req.ReplyLang, req.Question)

	text, err := answer.Compose(ctx, p.client, req.Question, outcome.Docs(), instruction, req.Model)
	if err != nil {
		return nil, err
	}

	return &Result{Answer: text, ExpandedQuery: expanded, Outcome: outcome}, nil
}

func belowGate(o retrieval.Outcome, minScore float32) bool {
	top, ok := o.TopScore()
	return !ok || top < minScore
}
