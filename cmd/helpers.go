package cmd

import (
	"fmt"

	"github.com/siitkit/faqrag/internal/config"
	"github.com/siitkit/faqrag/internal/lang"
	"github.com/siitkit/faqrag/internal/embeddings"
	"github.com/siitkit/faqrag/internal/llm"
	"github.com/siitkit/faqrag/internal/pipeline"
	"github.com/siitkit/faqrag/internal/vectordb"
)

// loadConfig loads and validates the config file, with flag overrides
// applied by the callers before validation.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// resolveAPIKey resolves the OpenAI credential or fails with a hint.
// interactive enables the masked terminal prompt fallback.
func resolveAPIKey(cfg *config.Config, interactive bool) (string, error) {
	key, ok := cfg.ResolveAPIKey(interactive)
	if !ok {
		return "", fmt.Errorf("OPENAI_API_KEY is not set; export it, add api_key to %s, or run interactively", cfgFile)
	}
	return key, nil
}

// newPipeline wires the production pipeline: a chromem-backed index
// opener with OpenAI embeddings and an OpenAI chat client, both using
// the explicitly passed credential.
func newPipeline(cfg *config.Config, apiKey string) *pipeline.Pipeline {
	embedder := embeddings.NewOpenAIEmbedder(apiKey, cfg.EmbeddingModel)
	opener := func(path, collection string) (vectordb.Index, error) {
		return vectordb.Open(path, collection, embedder)
	}
	client := llm.NewOpenAIClient(apiKey, cfg.Model)
	return pipeline.New(opener, client)
}

// requestFromConfig builds the pipeline request template for cfg.
func requestFromConfig(cfg *config.Config) pipeline.Request {
	return pipeline.Request{
		IndexPath:  cfg.IndexPath,
		Collection: cfg.Collection,
		Model:      cfg.Model,
		K:          cfg.K,
		MinScore:   float32(cfg.MinScore),
		UseLexical: cfg.UseLexical,
		ReplyLang:  lang.Mode(cfg.ReplyLang),
	}
}
