// Package answer composes the final Markdown reply from retrieved FAQ
// chunks. The model is held to the retrieved context by the prompt, and
// a Sources section is guaranteed on every composed answer: either the
// model writes one or a deterministic footer is appended from chunk
// metadata.
package answer

import (
	"context"
	"fmt"
	"strings"

	"github.com/siitkit/faqrag/internal/llm"
	"github.com/siitkit/faqrag/internal/vectordb"
)

// Sentinel is the fixed fallback reply for insufficient evidence. The
// orchestrator emits it without calling the model; the prompt also
// instructs the model to use it verbatim when the context lacks the
// answer.
const Sentinel = "Ask CPE/DE Secretary for more information"

// chunkSeparator joins chunk contents inside the prompt context.
const chunkSeparator = "\n\n---\n\n"

// maxAnswerTokens bounds the model reply.
const maxAnswerTokens = 500

const sourcesMarker = "**Sources:**"

const promptTemplate = `You are an academic support assistant for SIIT students.
Use ONLY the provided context to answer.
%s

Context:
%s

---
Student question: %s

Rules:
- If the answer is in context: reply concisely in bullet points, include any relevant links and a short "Next steps".
- If NOT in context: reply exactly with:
  ` + Sentinel + `
- Always end with a short "Sources" section listing the FAQ titles/sections.

Return format (Markdown):
- **Answer:** ...
- **Next steps:** ...
- **Sources:** • <title> › <section> (file)`

// BuildPrompt renders the prompt for a question over the given chunks.
func BuildPrompt(question string, docs []vectordb.Document, langInstruction string) string {
	contents := make([]string, len(docs))
	for i, d := range docs {
		contents[i] = d.Content
	}
	context := strings.Join(contents, chunkSeparator)
	return fmt.Sprintf(promptTemplate, langInstruction, context, question)
}

// FormatSources renders one citation line per distinct chunk,
// deduplicated, first-seen order. A placeholder is returned when no
// chunk carries metadata.
func FormatSources(docs []vectordb.Document) string {
	seen := make(map[string]bool)
	var lines []string
	for _, d := range docs {
		m := d.Metadata
		if m.Title == "" && m.Section == "" && m.Source == "" {
			continue
		}
		line := m.SourceLine()
		if !seen[line] {
			lines = append(lines, line)
			seen[line] = true
		}
	}
	if len(lines) == 0 {
		return "• (no sources metadata)"
	}
	return strings.Join(lines, "\n")
}

// Compose renders the prompt, invokes the model deterministically
// (temperature 0), and guarantees the reply ends with a Sources
// section.
func Compose(ctx context.Context, client llm.Client, question string, docs []vectordb.Document, langInstruction, model string) (string, error) {
	prompt := BuildPrompt(question, docs, langInstruction)

	resp, err := client.Complete(ctx, llm.Request{
		Model:       model,
		Prompt:      prompt,
		MaxTokens:   maxAnswerTokens,
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("model invocation: %w", err)
	}

	text := resp.Content
	if !strings.Contains(text, sourcesMarker) {
		text = fmt.Sprintf("%s\n\n%s\n%s", strings.TrimRight(text, " \t\n"), sourcesMarker, FormatSources(docs))
	}
	return text, nil
}
