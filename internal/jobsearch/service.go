// Package jobsearch implements the personalized job-search pipeline: three
// sequential model calls (profile synthesis, query generation, ranking)
// around one external search-tool call, followed by a deterministic repair
// pass and schema validation. Latency-heavy by design; no caching across
// calls.
package jobsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jmorgan/ikigai-copilot/internal/llm"
	"github.com/jmorgan/ikigai-copilot/internal/pipeline"
	"github.com/jmorgan/ikigai-copilot/internal/schemas"
	"github.com/jmorgan/ikigai-copilot/internal/types"
)

// State channels.
const (
	chUserID      = "userId"
	chQuery       = "query"
	chSummary     = "professionalSummary"
	chSearchQuery = "generatedQuery"
	chListings    = "rawListings"
	chResult      = "result"
)

// ProfileStore reads the caller's profile.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (*types.UserProfile, error)
}

// RoadmapStore reads the caller's primary (oldest-created) roadmap.
type RoadmapStore interface {
	GetPrimaryRoadmap(ctx context.Context, userID string) (*types.Roadmap, error)
}

// Service wires the job-search chain over its collaborators.
type Service struct {
	model      llm.Client
	normalizer llm.ResponseNormalizer
	tool       SearchTool
	profiles   ProfileStore
	roadmaps   RoadmapStore
	validate   *validator.Validate
	chain      *pipeline.CompiledChain
}

// NewService builds and compiles the job-search chain.
func NewService(model llm.Client, normalizer llm.ResponseNormalizer, tool SearchTool, profiles ProfileStore, roadmaps RoadmapStore) (*Service, error) {
	s := &Service{
		model:      model,
		normalizer: normalizer,
		tool:       tool,
		profiles:   profiles,
		roadmaps:   roadmaps,
		validate:   validator.New(),
	}

	chain := pipeline.New("job_search").
		AddChannel(chUserID, "").
		AddChannel(chQuery, "").
		AddChannel(chSummary, "").
		AddChannel(chSearchQuery, "").
		AddChannel(chListings, []types.RawJobListing(nil)).
		AddChannel(chResult, (*types.JobSearchOutput)(nil)).
		AddStep("synthesize_profile", s.synthesizeProfile).
		AddStep("generate_query", s.generateQuery).
		AddStep("fetch_listings", s.fetchListings).
		AddStep("rank_and_personalize", s.rankAndPersonalize).
		AddEdge(pipeline.Start, "synthesize_profile").
		AddEdge("synthesize_profile", "generate_query").
		AddEdge("generate_query", "fetch_listings").
		AddEdge("fetch_listings", "rank_and_personalize").
		AddEdge("rank_and_personalize", pipeline.End)

	compiled, err := chain.Compile()
	if err != nil {
		return nil, err
	}
	s.chain = compiled
	return s, nil
}

// Search runs the full pipeline for one search phrase.
func (s *Service) Search(ctx context.Context, userID string, input types.JobSearchInput) (*types.JobSearchOutput, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}

	final, err := s.chain.Invoke(ctx, pipeline.State{
		chUserID: userID,
		chQuery:  input.Query,
	})
	if err != nil {
		return nil, err
	}

	result, _ := final[chResult].(*types.JobSearchOutput)
	if result == nil {
		return nil, fmt.Errorf("job search pipeline produced no result")
	}
	return result, nil
}

// synthesizeProfile compresses the stored profile and primary roadmap into
// a keyword-rich free-text identity summary. Absent profile or roadmap is
// not an error; the model sees an explicit null.
func (s *Service) synthesizeProfile(ctx context.Context, st pipeline.State) (pipeline.State, error) {
	userID := st[chUserID].(string)

	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	roadmap, err := s.roadmaps.GetPrimaryRoadmap(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load primary roadmap: %w", err)
	}

	summary, err := s.model.GenerateContent(ctx, synthesisPrompt(profile, roadmap), llm.TierStandard)
	if err != nil {
		return nil, fmt.Errorf("profile synthesis failed: %w", err)
	}
	return pipeline.State{chSummary: summary}, nil
}

// generateQuery distills the summary and raw query into one search phrase.
// A single short string is all that comes back, so the lite tier suffices.
func (s *Service) generateQuery(ctx context.Context, st pipeline.State) (pipeline.State, error) {
	prompt := queryGenPrompt(st[chSummary].(string), st[chQuery].(string))
	generated, err := s.model.GenerateContent(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, fmt.Errorf("query generation failed: %w", err)
	}
	return pipeline.State{chSearchQuery: strings.TrimSpace(generated)}, nil
}

func (s *Service) fetchListings(ctx context.Context, st pipeline.State) (pipeline.State, error) {
	listings, err := s.tool.Search(ctx, st[chSearchQuery].(string))
	if err != nil {
		return nil, fmt.Errorf("job search tool failed: %w", err)
	}
	return pipeline.State{chListings: listings}, nil
}

// rankAndPersonalize partitions the listings into the three buckets, runs
// the repair pass over the loosely-parsed result, and schema-validates the
// repaired document before decoding it strictly.
func (s *Service) rankAndPersonalize(ctx context.Context, st pipeline.State) (pipeline.State, error) {
	userID := st[chUserID].(string)
	listings := st[chListings].([]types.RawJobListing)

	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	text, err := s.model.GenerateContent(ctx, rankingPrompt(profile, listings), llm.TierStandard)
	if err != nil {
		return nil, fmt.Errorf("ranking call failed: %w", err)
	}

	cleaned := s.normalizer.Normalize(text)

	var doc map[string]any
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return nil, &llm.ModelOutputError{Stage: "parse", Cause: err}
	}

	repairOutput(doc)

	repaired, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode repaired output: %w", err)
	}
	if err := schemas.ValidateJSONString(schemas.JobSearchOutput, string(repaired)); err != nil {
		return nil, &llm.ModelOutputError{Stage: "schema", Cause: err}
	}

	var result types.JobSearchOutput
	if err := json.Unmarshal(repaired, &result); err != nil {
		return nil, &llm.ModelOutputError{Stage: "parse", Cause: err}
	}
	return pipeline.State{chResult: &result}, nil
}
