package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/siitkit/faqrag/internal/lang"
)

// Config is the top-level faqrag configuration, corresponding to
// .faqrag.yml. Every field can also be set per invocation via CLI
// flags; the file only supplies defaults.
type Config struct {
	DataPath       string  `yaml:"data_path" koanf:"data_path"`
	IndexPath      string  `yaml:"index_path" koanf:"index_path"`
	Collection     string  `yaml:"collection" koanf:"collection"`
	Model          string  `yaml:"model" koanf:"model"`
	EmbeddingModel string  `yaml:"embedding_model" koanf:"embedding_model"`
	K              int     `yaml:"k" koanf:"k"`
	MinScore       float64 `yaml:"min_score" koanf:"min_score"`
	UseLexical     bool    `yaml:"use_lexical" koanf:"use_lexical"`
	ReplyLang      string  `yaml:"reply_lang" koanf:"reply_lang"`
	Port           int     `yaml:"port" koanf:"port"`
	APIKey         string  `yaml:"api_key" koanf:"api_key"`
}

// DefaultConfig mirrors the tool's built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		DataPath:       "data",
		IndexPath:      "chroma",
		Collection:     "siit-faqs",
		Model:          "gpt-4o-mini",
		EmbeddingModel: "text-embedding-3-small",
		K:              4,
		MinScore:       0.55,
		UseLexical:     true,
		ReplyLang:      string(lang.ModeAuto),
		Port:           8080,
	}
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (FAQRAG_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// FAQRAG_MIN_SCORE -> min_score, etc.
	if err := k.Load(env.Provider("FAQRAG_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "FAQRAG_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if c.IndexPath == "" {
		return fmt.Errorf("index_path is required")
	}
	if c.Collection == "" {
		return fmt.Errorf("collection is required")
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.K <= 0 {
		return fmt.Errorf("k must be positive")
	}
	if c.MinScore < 0 || c.MinScore > 1 {
		return fmt.Errorf("min_score must be in [0, 1]")
	}
	if !lang.Valid(lang.Mode(c.ReplyLang)) {
		return fmt.Errorf("invalid reply_lang %q: must be one of auto, th, en", c.ReplyLang)
	}
	return nil
}
