// Package recommend implements the career-recommendation pipeline: one
// structured-output model call over the user's ikigai data, validated
// against the recommendation schema and persisted under a fresh session id.
package recommend

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jmorgan/ikigai-copilot/internal/llm"
	"github.com/jmorgan/ikigai-copilot/internal/pipeline"
	"github.com/jmorgan/ikigai-copilot/internal/schemas"
	"github.com/jmorgan/ikigai-copilot/internal/types"
)

// State channels.
const (
	chIkigaiData = "ikigaiData"
	chUserID     = "userId"
	chAIResult   = "aiResult"
)

// Store persists validated recommendations.
type Store interface {
	SaveRecommendation(ctx context.Context, userID, sessionID string, rec *types.RecommendationOutput) error
}

// Service wires the recommendation chain over its collaborators.
type Service struct {
	model      llm.Client
	normalizer llm.ResponseNormalizer
	store      Store
	validate   *validator.Validate
	chain      *pipeline.CompiledChain
}

// NewService builds and compiles the recommendation chain.
func NewService(model llm.Client, normalizer llm.ResponseNormalizer, store Store) (*Service, error) {
	s := &Service{
		model:      model,
		normalizer: normalizer,
		store:      store,
		validate:   validator.New(),
	}

	chain := pipeline.New("recommendation").
		AddChannel(chIkigaiData, types.IkigaiInput{}).
		AddChannel(chUserID, "").
		AddChannel(chAIResult, (*types.RecommendationOutput)(nil)).
		AddStep("generate", s.generate).
		AddEdge(pipeline.Start, "generate").
		AddEdge("generate", pipeline.End)

	compiled, err := chain.Compile()
	if err != nil {
		return nil, err
	}
	s.chain = compiled
	return s, nil
}

// Recommend validates the ikigai input, runs the chain, persists the
// result under a fresh session id, and returns both. No step is retried;
// any failure surfaces as a single error.
func (s *Service) Recommend(ctx context.Context, userID string, input types.IkigaiInput) (string, *types.RecommendationOutput, error) {
	if err := s.validate.Struct(input); err != nil {
		return "", nil, err
	}

	final, err := s.chain.Invoke(ctx, pipeline.State{
		chIkigaiData: input,
		chUserID:     userID,
	})
	if err != nil {
		return "", nil, err
	}

	result, _ := final[chAIResult].(*types.RecommendationOutput)
	if result == nil {
		return "", nil, fmt.Errorf("recommendation pipeline produced no result")
	}

	sessionID := uuid.New().String()
	if err := s.store.SaveRecommendation(ctx, userID, sessionID, result); err != nil {
		return "", nil, fmt.Errorf("failed to persist recommendation: %w", err)
	}
	return sessionID, result, nil
}

// generate renders the prompt, invokes the model once, and parses and
// schema-validates the output. Parse and schema failures are distinct
// model-output errors; neither is retried or repaired.
func (s *Service) generate(ctx context.Context, st pipeline.State) (pipeline.State, error) {
	input := st[chIkigaiData].(types.IkigaiInput)

	text, err := s.model.GenerateContent(ctx, buildPrompt(input), llm.TierStandard)
	if err != nil {
		return nil, fmt.Errorf("model call failed: %w", err)
	}

	cleaned := s.normalizer.Normalize(text)

	var probe map[string]any
	if err := json.Unmarshal([]byte(cleaned), &probe); err != nil {
		return nil, &llm.ModelOutputError{Stage: "parse", Cause: err}
	}

	if err := schemas.ValidateJSONString(schemas.RecommendationOutput, cleaned); err != nil {
		return nil, &llm.ModelOutputError{Stage: "schema", Cause: err}
	}

	var result types.RecommendationOutput
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, &llm.ModelOutputError{Stage: "parse", Cause: err}
	}

	return pipeline.State{chAIResult: &result}, nil
}
