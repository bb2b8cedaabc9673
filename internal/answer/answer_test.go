package answer

import (
	"context"
	"strings"
	"testing"

	"github.com/siitkit/faqrag/internal/llm"
	"github.com/siitkit/faqrag/internal/vectordb"
)

// mockClient returns a canned reply and records requests.
type mockClient struct {
	reply    string
	requests []llm.Request
}

func (m *mockClient) Complete(_ context.Context, req llm.Request) (*llm.Response, error) {
	m.requests = append(m.requests, req)
	return &llm.Response{Content: m.reply}, nil
}

func (m *mockClient) Name() string { return "mock" }

func metaDoc(title, section, source string) vectordb.Document {
	return vectordb.Document{
		Content:  "content of " + title,
		Metadata: vectordb.Metadata{Title: title, Section: section, Source: source},
	}
}

func TestFormatSourcesDeduplicates(t *testing.T) {
	docs := []vectordb.Document{
		metaDoc("T1", "S1", "F1"),
		metaDoc("T1", "S1", "F1"),
		metaDoc("T2", "S2", "F2"),
	}

	got := FormatSources(docs)
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), got)
	}
	if lines[0] != "• T1 › S1 (F1)" {
		t.Errorf("first line = %q", lines[0])
	}
	if lines[1] != "• T2 › S2 (F2)" {
		t.Errorf("second line = %q", lines[1])
	}
}

func TestFormatSourcesPlaceholder(t *testing.T) {
	docs := []vectordb.Document{
		{Content: "bare chunk"},
	}
	if got := FormatSources(docs); got != "• (no sources metadata)" {
		t.Errorf("FormatSources = %q", got)
	}
}

func TestBuildPromptContainsParts(t *testing.T) {
	docs := []vectordb.Document{
		metaDoc("Transcript", "How to request", "faq.md"),
		metaDoc("Housing", "Apply", "faq.md"),
	}

	prompt := BuildPrompt("How do I get a transcript?", docs, "Reply in English.")

	for _, want := range []string{
		"Reply in English.",
		"content of Transcript",
		"content of Housing",
		"\n\n---\n\n",
		"Student question: How do I get a transcript?",
		Sentinel,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestComposeAppendsSources(t *testing.T) {
	client := &mockClient{reply: "- **Answer:** something helpful\n- **Next steps:** do it"}
	docs := []vectordb.Document{metaDoc("Transcript", "How to request", "faq.md")}

	got, err := Compose(context.Background(), client, "q", docs, "Reply in English.", "gpt-4o-mini")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "**Sources:**\n• Transcript › How to request (faq.md)") {
		t.Errorf("expected appended sources footer, got %q", got)
	}
}

func TestComposeKeepsModelSources(t *testing.T) {
	reply := "- **Answer:** x\n- **Sources:** • Transcript › How to request (faq.md)"
	client := &mockClient{reply: reply}
	docs := []vectordb.Document{metaDoc("Other", "Sec", "other.md")}

	got, err := Compose(context.Background(), client, "q", docs, "Reply in English.", "gpt-4o-mini")
	if err != nil {
		t.Fatal(err)
	}
	if got != reply {
		t.Errorf("model-authored sources must be left alone, got %q", got)
	}
}

func TestComposeIsDeterministicRequest(t *testing.T) {
	client := &mockClient{reply: "ok"}
	_, err := Compose(context.Background(), client, "q", nil, "Reply in English.", "gpt-4o-mini")
	if err != nil {
		t.Fatal(err)
	}
	if len(client.requests) != 1 {
		t.Fatalf("expected 1 model call, got %d", len(client.requests))
	}
	req := client.requests[0]
	if req.Temperature != 0 {
		t.Errorf("Temperature = %v, want 0", req.Temperature)
	}
	if req.MaxTokens != maxAnswerTokens {
		t.Errorf("MaxTokens = %d, want %d", req.MaxTokens, maxAnswerTokens)
	}
	if req.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q", req.Model)
	}
}
