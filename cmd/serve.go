package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/siitkit/faqrag/internal/history"
	"github.com/siitkit/faqrag/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the answering pipeline over HTTP",
	Long: `Starts an HTTP server exposing POST /api/query for front-ends.
Served queries are recorded in a local SQLite history database.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "listen port (overrides config)")
	serveCmd.Flags().Bool("allow-all", false, "allow all CORS origins (dev mode)")
	serveCmd.Flags().Bool("no-history", false, "disable query history logging")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if v, _ := flags.GetInt("port"); v > 0 {
		cfg.Port = v
	}
	allowAll, _ := flags.GetBool("allow-all")
	noHistory, _ := flags.GetBool("no-history")

	if err := cfg.Validate(); err != nil {
		return err
	}

	// Server startup is non-interactive: the key must come from config
	// or the environment.
	apiKey, err := resolveAPIKey(cfg, false)
	if err != nil {
		return err
	}

	var hist *history.Store
	if !noHistory {
		histPath := filepath.Join(cfg.IndexPath, "faqrag.db")
		hist, err = history.Open(histPath)
		if err != nil {
			return err
		}
		defer hist.Close()
		fmt.Fprintf(os.Stderr, "  History: %s\n", histPath)
	}

	srv := server.New(server.Config{
		Port:     cfg.Port,
		AllowAll: allowAll,
		Defaults: requestFromConfig(cfg),
	}, newPipeline(cfg, apiKey), hist)

	// Graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nShutting down server...")
		srv.Shutdown(context.Background())
	}()

	fmt.Fprintf(os.Stderr, "faqrag v%s starting on port %d (index=%s, collection=%s)\n",
		Version, cfg.Port, cfg.IndexPath, cfg.Collection)

	return srv.Start()
}
