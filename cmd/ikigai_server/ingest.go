package main

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jmorgan/ikigai-copilot/internal/config"
	"github.com/jmorgan/ikigai-copilot/internal/db"
	"github.com/jmorgan/ikigai-copilot/internal/knowledge"
	"github.com/jmorgan/ikigai-copilot/internal/llm"
	"github.com/jmorgan/ikigai-copilot/internal/observability"
	"github.com/jmorgan/ikigai-copilot/internal/vectorstore"
)

var ingestMimeType string

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "Ingest a document into the knowledge base",
	Long:  "Extract text from a PDF, HTML, or plain-text file, chunk it, embed the chunks, and store them in the knowledge base used for chat context.",
	Args:  cobra.ExactArgs(1),
	RunE:  runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestMimeType, "mime", "", "MIME type of the file (default: inferred from extension)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	mimeType := ingestMimeType
	if mimeType == "" {
		mimeType = mime.TypeByExtension(filepath.Ext(path))
	}
	if mimeType == "" {
		return fmt.Errorf("cannot infer MIME type of %s; pass --mime", path)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	model, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), cfg.GeminiAPIKey)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}
	defer model.Close()

	index := vectorstore.NewPostgresIndex(database.Pool(), model)
	svc := knowledge.NewService(index)

	chunks, err := svc.AddDocument(ctx, filepath.Base(path), mimeType, data)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	observability.NewPrinter(os.Stdout).PrintIngestSummary(filepath.Base(path), chunks)
	return nil
}
