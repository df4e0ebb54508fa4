package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmorgan/ikigai-copilot/internal/llm"
	"github.com/jmorgan/ikigai-copilot/internal/observability"
	"github.com/jmorgan/ikigai-copilot/internal/recommend"
	"github.com/jmorgan/ikigai-copilot/internal/types"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend <input.json>",
	Short: "Run the recommendation pipeline once without persisting",
	Long:  "Read ikigai inputs (interests, skills, values) from a JSON file, run the career-recommendation pipeline against the model, and print the result. Nothing is written to the database.",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecommend,
}

func init() {
	rootCmd.AddCommand(recommendCmd)
}

// discardStore satisfies the pipeline's store dependency for dry runs.
type discardStore struct{}

func (discardStore) SaveRecommendation(_ context.Context, _, _ string, _ *types.RecommendationOutput) error {
	return nil
}

func runRecommend(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	var input types.IkigaiInput
	if err := json.Unmarshal(data, &input); err != nil {
		return fmt.Errorf("invalid input file: %w", err)
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	ctx := context.Background()
	model, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), apiKey)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}
	defer model.Close()

	svc, err := recommend.NewService(model, llm.FenceBraceNormalizer{}, discardStore{})
	if err != nil {
		return err
	}

	_, rec, err := svc.Recommend(ctx, "cli", input)
	if err != nil {
		return fmt.Errorf("recommendation failed: %w", err)
	}

	observability.NewPrinter(os.Stdout).PrintRecommendation(rec)
	return nil
}
