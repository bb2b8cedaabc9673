package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query [question...]",
	Short: "Ask a question over the indexed FAQs",
	Long: `Runs the full answering pipeline for one question and prints the
Markdown reply. The fixed fallback line is printed when retrieval finds
no adequate evidence.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().String("index-path", "", "vector index folder (overrides config)")
	queryCmd.Flags().String("collection", "", "index collection name (overrides config)")
	queryCmd.Flags().String("model", "", "OpenAI chat model (overrides config)")
	queryCmd.Flags().Int("k", 0, "top-K documents to retrieve (overrides config)")
	queryCmd.Flags().Float64("min-score", -1, "min relevance, vector-only mode (overrides config)")
	queryCmd.Flags().Bool("no-lexical", false, "disable BM25 and use pure vector search")
	queryCmd.Flags().String("reply-lang", "", "answer language: auto (mirror), th, or en")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return fmt.Errorf("please provide a question")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if v, _ := flags.GetString("index-path"); v != "" {
		cfg.IndexPath = v
	}
	if v, _ := flags.GetString("collection"); v != "" {
		cfg.Collection = v
	}
	if v, _ := flags.GetString("model"); v != "" {
		cfg.Model = v
	}
	if v, _ := flags.GetInt("k"); v > 0 {
		cfg.K = v
	}
	if flags.Changed("min-score") {
		cfg.MinScore, _ = flags.GetFloat64("min-score")
	}
	if v, _ := flags.GetBool("no-lexical"); v {
		cfg.UseLexical = false
	}
	if v, _ := flags.GetString("reply-lang"); v != "" {
		cfg.ReplyLang = v
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	apiKey, err := resolveAPIKey(cfg, true)
	if err != nil {
		return err
	}

	pipe := newPipeline(cfg, apiKey)
	req := requestFromConfig(cfg)
	req.Question = question

	result, err := pipe.Run(context.Background(), req)
	if err != nil {
		return err
	}

	fmt.Println(result.Answer)
	return nil
}
