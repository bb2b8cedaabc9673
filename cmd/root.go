package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "faqrag",
	Short: "Retrieval-augmented FAQ answering for SIIT students",
	Long: `faqrag indexes Markdown FAQ documents into a local vector store and
answers student questions over them: hybrid vector+BM25 retrieval,
bilingual query expansion, and answer composition with cited sources.
When retrieval finds no adequate evidence the tool replies with a fixed
"ask a human" fallback instead of guessing.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".faqrag.yml", "config file path")
}
