package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/siitkit/faqrag/internal/answer"
	"github.com/siitkit/faqrag/internal/lang"
	"github.com/siitkit/faqrag/internal/llm"
	"github.com/siitkit/faqrag/internal/vectordb"
)

// fakeIndex serves canned results and counts calls.
type fakeIndex struct {
	scored      []vectordb.ScoredDocument
	corpus      []vectordb.Document
	searchErr   error
	searchCalls int
}

func (f *fakeIndex) AddDocuments(_ context.Context, docs []vectordb.Document) error {
	f.corpus = append(f.corpus, docs...)
	return nil
}

func (f *fakeIndex) SearchWithScores(_ context.Context, _ string, k int) ([]vectordb.ScoredDocument, error) {
	f.searchCalls++
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if len(f.scored) > k {
		return f.scored[:k], nil
	}
	return f.scored, nil
}

func (f *fakeIndex) FetchAll(_ context.Context) ([]vectordb.Document, error) {
	return f.corpus, nil
}

func (f *fakeIndex) Count() int { return len(f.corpus) }

// mockClient records completion calls.
type mockClient struct {
	reply string
	calls int
	last  llm.Request
}

func (m *mockClient) Complete(_ context.Context, req llm.Request) (*llm.Response, error) {
	m.calls++
	m.last = req
	return &llm.Response{Content: m.reply}, nil
}

func (m *mockClient) Name() string { return "mock" }

func newTestPipeline(index vectordb.Index, client llm.Client) *Pipeline {
	return New(func(_, _ string) (vectordb.Index, error) {
		return index, nil
	}, client)
}

func baseRequest(question string) Request {
	return Request{
		Question:   question,
		IndexPath:  "chroma",
		Collection: "siit-faqs",
		Model:      "gpt-4o-mini",
		K:          4,
		MinScore:   0.55,
		UseLexical: true,
		ReplyLang:  lang.ModeAuto,
	}
}

func TestHybridAnswerWithSources(t *testing.T) {
	chunk := vectordb.Document{
		ID:      "chunk:faq.md:000",
		Content: "Submit the transcript request form at the registrar counter.",
		Metadata: vectordb.Metadata{
			Title:    "Transcript",
			Section:  "How to request",
			Question: "How do I request a SIIT Transcript/Certificate document?",
			Source:   "faq.md",
		},
	}
	index := &fakeIndex{
		scored: []vectordb.ScoredDocument{{Document: chunk, Score: 0.9}},
		corpus: []vectordb.Document{chunk},
	}
	client := &mockClient{reply: "- **Answer:** submit the form\n- **Next steps:** visit the counter"}

	result, err := newTestPipeline(index, client).Run(context.Background(),
		baseRequest("How do I request a SIIT Transcript/Certificate document?"))
	if err != nil {
		t.Fatal(err)
	}

	if result.Sentinel {
		t.Fatal("expected an answer, got sentinel")
	}
	if !strings.Contains(result.Answer, "**Answer:**") {
		t.Errorf("missing answer section: %q", result.Answer)
	}
	if !strings.Contains(result.Answer, "Transcript › How to request") {
		t.Errorf("missing sources line: %q", result.Answer)
	}
	if client.calls != 1 {
		t.Errorf("expected 1 model call, got %d", client.calls)
	}
}

func TestHybridEmptyCorpusEmitsSentinel(t *testing.T) {
	index := &fakeIndex{}
	client := &mockClient{reply: "should never be used"}

	result, err := newTestPipeline(index, client).Run(context.Background(),
		baseRequest("any question at all"))
	if err != nil {
		t.Fatal(err)
	}

	if !result.Sentinel {
		t.Fatal("expected sentinel outcome")
	}
	if result.Answer != answer.Sentinel {
		t.Errorf("Answer = %q, want exact sentinel", result.Answer)
	}
	if strings.Contains(result.Answer, "Sources") {
		t.Error("sentinel must not carry a sources section")
	}
	if client.calls != 0 {
		t.Errorf("model must not be invoked, got %d calls", client.calls)
	}
}

func TestVectorOnlyGateRetriesOnceThenSentinel(t *testing.T) {
	chunk := vectordb.Document{
		Content:  "something vaguely related",
		Metadata: vectordb.Metadata{Title: "Other", Source: "faq.md"},
	}
	index := &fakeIndex{
		scored: []vectordb.ScoredDocument{{Document: chunk, Score: 0.40}},
	}
	client := &mockClient{reply: "unused"}

	// "transcript" without "certificate" expands, so the retry fires.
	req := baseRequest("How do I request a transcript?")
	req.UseLexical = false

	result, err := newTestPipeline(index, client).Run(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}

	if !result.Sentinel {
		t.Fatal("expected sentinel outcome")
	}
	if index.searchCalls != 2 {
		t.Errorf("expected exactly 2 search calls (original + retry), got %d", index.searchCalls)
	}
	if client.calls != 0 {
		t.Errorf("model must not be invoked, got %d calls", client.calls)
	}
}

func TestVectorOnlyGateNoRetryWhenUnexpanded(t *testing.T) {
	index := &fakeIndex{
		scored: []vectordb.ScoredDocument{{
			Document: vectordb.Document{Content: "x", Metadata: vectordb.Metadata{Source: "f.md"}},
			Score:    0.10,
		}},
	}
	client := &mockClient{}

	// No expansion trigger fires, so the query is unchanged and there
	// is nothing new to retry with.
	req := baseRequest("completely unrelated words")
	req.UseLexical = false

	result, err := newTestPipeline(index, client).Run(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}

	if !result.Sentinel {
		t.Fatal("expected sentinel outcome")
	}
	if index.searchCalls != 1 {
		t.Errorf("expected a single search call, got %d", index.searchCalls)
	}
}

func TestVectorOnlyAboveGateAnswers(t *testing.T) {
	chunk := vectordb.Document{
		Content:  "Renew the student card at the registrar.",
		Metadata: vectordb.Metadata{Title: "Student card", Section: "Renewal", Source: "faq.md"},
	}
	index := &fakeIndex{
		scored: []vectordb.ScoredDocument{{Document: chunk, Score: 0.82}},
	}
	client := &mockClient{reply: "- **Answer:** renew at registrar"}

	req := baseRequest("Where do I renew my student card / citizen ID / passport?")
	req.UseLexical = false

	result, err := newTestPipeline(index, client).Run(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}

	if result.Sentinel {
		t.Fatal("expected an answer")
	}
	if index.searchCalls != 1 {
		t.Errorf("expected 1 search call, got %d", index.searchCalls)
	}
	if client.calls != 1 {
		t.Errorf("expected 1 model call, got %d", client.calls)
	}
}

func TestAutoReplyLanguageMirrorsThaiQuestion(t *testing.T) {
	chunk := vectordb.Document{
		Content:  "Student card replacement takes three days.",
		Metadata: vectordb.Metadata{Title: "Student card", Section: "Lost card", Source: "faq.md"},
	}
	index := &fakeIndex{
		scored: []vectordb.ScoredDocument{{Document: chunk, Score: 0.9}},
	}
	client := &mockClient{reply: "- **Answer:** ..."}

	req := baseRequest("ทำบัตรนักศึกษาหายต้องทำอย่างไร")
	req.UseLexical = false

	if _, err := newTestPipeline(index, client).Run(context.Background(), req); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(client.last.Prompt, "Reply in Thai.") {
		t.Error("expected Thai reply instruction in prompt")
	}
}

func TestRetrievalErrorIsNotSentinel(t *testing.T) {
	index := &fakeIndex{searchErr: errors.New("index unreachable")}
	client := &mockClient{}

	_, err := newTestPipeline(index, client).Run(context.Background(),
		baseRequest("any question"))
	if err == nil {
		t.Fatal("expected an error")
	}
	if strings.Contains(err.Error(), answer.Sentinel) {
		t.Error("infrastructure failure must not be converted into the sentinel")
	}
	if client.calls != 0 {
		t.Errorf("model must not be invoked on retrieval failure, got %d calls", client.calls)
	}
}

func TestOpenerErrorPropagates(t *testing.T) {
	pipe := New(func(_, _ string) (vectordb.Index, error) {
		return nil, errors.New("corrupt index directory")
	}, &mockClient{})

	_, err := pipe.Run(context.Background(), baseRequest("q"))
	if err == nil || !strings.Contains(err.Error(), "opening index") {
		t.Errorf("expected opening index error, got %v", err)
	}
}
