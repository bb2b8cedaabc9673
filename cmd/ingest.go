package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/siitkit/faqrag/internal/embeddings"
	"github.com/siitkit/faqrag/internal/ingest"
	"github.com/siitkit/faqrag/internal/vectordb"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Build the vector index from Markdown FAQs",
	Long: `Loads every .md file under the data folder, splits it into
header-scoped chunks (# title, ## section, ### question), and embeds
the chunks into the local vector index.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().String("data-path", "", "folder containing .md files (overrides config)")
	ingestCmd.Flags().String("index-path", "", "vector index folder (overrides config)")
	ingestCmd.Flags().String("collection", "", "index collection name (overrides config)")
	ingestCmd.Flags().Bool("reset", false, "delete the existing index folder before building")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if v, _ := flags.GetString("data-path"); v != "" {
		cfg.DataPath = v
	}
	if v, _ := flags.GetString("index-path"); v != "" {
		cfg.IndexPath = v
	}
	if v, _ := flags.GetString("collection"); v != "" {
		cfg.Collection = v
	}
	reset, _ := flags.GetBool("reset")

	if err := cfg.Validate(); err != nil {
		return err
	}

	apiKey, err := resolveAPIKey(cfg, true)
	if err != nil {
		return err
	}

	fmt.Printf("[1/4] Loading markdown from: %s\n", cfg.DataPath)
	files, err := ingest.LoadMarkdownFiles(cfg.DataPath)
	if err != nil {
		return err
	}
	fmt.Printf("       Loaded %d files\n", len(files))

	if reset {
		fmt.Printf("[2/4] --reset specified: removing %s\n", cfg.IndexPath)
		if err := os.RemoveAll(cfg.IndexPath); err != nil {
			return fmt.Errorf("removing %s: %w", cfg.IndexPath, err)
		}
	} else {
		fmt.Println("[2/4] Keeping existing index (use --reset to rebuild)")
	}

	fmt.Printf("[3/4] Opening index at: %s (collection: %s)\n", cfg.IndexPath, cfg.Collection)
	embedder := embeddings.NewOpenAIEmbedder(apiKey, cfg.EmbeddingModel)
	index, err := vectordb.Open(cfg.IndexPath, cfg.Collection, embedder)
	if err != nil {
		return err
	}

	fmt.Println("[4/4] Splitting into header-aware chunks and embedding…")
	stats, err := ingest.Build(context.Background(), index, files, true)
	if err != nil {
		return err
	}

	fmt.Println("Done.")
	fmt.Printf("   Chunks: %d | Titles: %d | Sections: %d | Questions: %d\n",
		stats.Chunks, stats.Titles, stats.Sections, stats.Questions)
	fmt.Printf("   Persisted to: %s\n", cfg.IndexPath)
	return nil
}
