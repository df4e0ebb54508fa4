// Package roadmap implements roadmap generation (profile + target job →
// 90-day phase/task plan) and idempotent task-completion updates.
package roadmap

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/jmorgan/ikigai-copilot/internal/llm"
	"github.com/jmorgan/ikigai-copilot/internal/pipeline"
	"github.com/jmorgan/ikigai-copilot/internal/schemas"
	"github.com/jmorgan/ikigai-copilot/internal/types"
)

// State channels.
const (
	chUserID     = "userId"
	chJobDetails = "jobDetails"
	chPlan       = "plan"
)

// ProfileStore reads the caller's profile.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (*types.UserProfile, error)
}

// Store persists roadmaps and applies task-completion updates.
type Store interface {
	CreateRoadmap(ctx context.Context, userID string, job types.JobDetails, phases []types.RoadmapPhase) (string, error)
	GetRoadmap(ctx context.Context, userID, roadmapID string) (*types.Roadmap, error)
	AddCompletedTask(ctx context.Context, userID, roadmapID, task string) error
	RemoveCompletedTask(ctx context.Context, userID, roadmapID, task string) error
}

// Service wires the roadmap chain over its collaborators.
type Service struct {
	model      llm.Client
	normalizer llm.ResponseNormalizer
	profiles   ProfileStore
	store      Store
	validate   *validator.Validate
	chain      *pipeline.CompiledChain
}

// NewService builds and compiles the roadmap chain.
func NewService(model llm.Client, normalizer llm.ResponseNormalizer, profiles ProfileStore, store Store) (*Service, error) {
	s := &Service{
		model:      model,
		normalizer: normalizer,
		profiles:   profiles,
		store:      store,
		validate:   validator.New(),
	}

	chain := pipeline.New("roadmap").
		AddChannel(chUserID, "").
		AddChannel(chJobDetails, types.JobDetails{}).
		AddChannel(chPlan, []types.RoadmapPhase(nil)).
		AddStep("generate_plan", s.generatePlan).
		AddEdge(pipeline.Start, "generate_plan").
		AddEdge("generate_plan", pipeline.End)

	compiled, err := chain.Compile()
	if err != nil {
		return nil, err
	}
	s.chain = compiled
	return s, nil
}

// CreateRoadmapForJob generates a 90-day plan bridging the caller's profile
// and the target job, persists it with an empty completed-task set, and
// returns the new roadmap id alongside the plan.
func (s *Service) CreateRoadmapForJob(ctx context.Context, userID string, job types.JobDetails) (*types.Roadmap, error) {
	if err := s.validate.Struct(job); err != nil {
		return nil, err
	}

	final, err := s.chain.Invoke(ctx, pipeline.State{
		chUserID:     userID,
		chJobDetails: job,
	})
	if err != nil {
		return nil, err
	}

	phases, _ := final[chPlan].([]types.RoadmapPhase)
	if len(phases) == 0 {
		return nil, fmt.Errorf("roadmap pipeline produced no plan")
	}

	id, err := s.store.CreateRoadmap(ctx, userID, job, phases)
	if err != nil {
		return nil, fmt.Errorf("failed to persist roadmap: %w", err)
	}
	return &types.Roadmap{
		ID:             id,
		JobDetails:     job,
		Roadmap:        phases,
		CompletedTasks: []string{},
	}, nil
}

// GetRoadmap returns one roadmap with its completion state.
func (s *Service) GetRoadmap(ctx context.Context, userID, roadmapID string) (*types.Roadmap, error) {
	return s.store.GetRoadmap(ctx, userID, roadmapID)
}

// UpdateTaskStatus adds or removes a task title from the roadmap's
// completed set. Both directions are idempotent: completing an
// already-completed task or clearing an absent one is a no-op.
func (s *Service) UpdateTaskStatus(ctx context.Context, userID, roadmapID string, update types.RoadmapUpdate) error {
	if err := s.validate.Struct(update); err != nil {
		return err
	}
	if *update.IsCompleted {
		return s.store.AddCompletedTask(ctx, userID, roadmapID, update.Task)
	}
	return s.store.RemoveCompletedTask(ctx, userID, roadmapID, update.Task)
}

// generatePlan invokes the model once with profile and target job, then
// parses and schema-validates the plan.
func (s *Service) generatePlan(ctx context.Context, st pipeline.State) (pipeline.State, error) {
	userID := st[chUserID].(string)
	job := st[chJobDetails].(types.JobDetails)

	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	text, err := s.model.GenerateContent(ctx, buildPrompt(profile, job), llm.TierAdvanced)
	if err != nil {
		return nil, fmt.Errorf("model call failed: %w", err)
	}

	cleaned := s.normalizer.Normalize(text)

	var probe map[string]any
	if err := json.Unmarshal([]byte(cleaned), &probe); err != nil {
		return nil, &llm.ModelOutputError{Stage: "parse", Cause: err}
	}
	if err := schemas.ValidateJSONString(schemas.RoadmapPlan, cleaned); err != nil {
		return nil, &llm.ModelOutputError{Stage: "schema", Cause: err}
	}

	var plan struct {
		Roadmap90Days []types.RoadmapPhase `json:"roadmap90Days"`
	}
	if err := json.Unmarshal([]byte(cleaned), &plan); err != nil {
		return nil, &llm.ModelOutputError{Stage: "parse", Cause: err}
	}
	return pipeline.State{chPlan: plan.Roadmap90Days}, nil
}
