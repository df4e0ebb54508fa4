package jobsearch

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"

	"github.com/jmorgan/ikigai-copilot/internal/llm"
	"github.com/jmorgan/ikigai-copilot/internal/types"
)

// fakeModel replays scripted responses, one per GenerateContent call.
type fakeModel struct {
	replies []string
	errAt   int // 1-based call index that fails, 0 for never
	calls   int
	prompts []string
	tiers   []llm.ModelTier
}

func (f *fakeModel) GenerateContent(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	f.tiers = append(f.tiers, tier)
	if f.errAt != 0 && f.calls == f.errAt {
		return "", errors.New("model unavailable")
	}
	if f.calls > len(f.replies) {
		return "", errors.New("no scripted reply")
	}
	return f.replies[f.calls-1], nil
}

func (f *fakeModel) GenerateChat(_ context.Context, _ []llm.Message, _ llm.ModelTier) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeModel) Close() error { return nil }

type fakeTool struct {
	listings  []types.RawJobListing
	err       error
	lastQuery string
}

func (f *fakeTool) Search(_ context.Context, query string) ([]types.RawJobListing, error) {
	f.lastQuery = query
	return f.listings, f.err
}

type fakeProfiles struct {
	profile *types.UserProfile
	err     error
}

func (f *fakeProfiles) GetProfile(_ context.Context, _ string) (*types.UserProfile, error) {
	return f.profile, f.err
}

type fakeRoadmaps struct {
	roadmap *types.Roadmap
	err     error
}

func (f *fakeRoadmaps) GetPrimaryRoadmap(_ context.Context, _ string) (*types.Roadmap, error) {
	return f.roadmap, f.err
}

const rankedOutput = `{
  "passionRoles": [
    {"title": "AI Product Engineer", "company": "Google", "location": "Remote", "description": "Build AI products", "url": "https://careers.google.com/jobs", "personalizedFit": "Matches your AI interest"}
  ],
  "strengthRoles": [
    {"title": "Healthcare Data Analyst", "company": "United Health", "description": "Analyze clinical data", "url": "https://careers.unitedhealthgroup.com/", "personalizedFit": "Uses your SQL skills"}
  ],
  "growthRoles": []
}`

func scriptedModel(ranked string) *fakeModel {
	return &fakeModel{replies: []string{"summary text", "data analyst remote", ranked}}
}

func newTestService(t *testing.T, model *fakeModel, tool *fakeTool, profiles *fakeProfiles, roadmaps *fakeRoadmaps) *Service {
	t.Helper()
	svc, err := NewService(model, &llm.FenceBraceNormalizer{}, tool, profiles, roadmaps)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return svc
}

func TestSearch_RunsThreeModelCallsInOrder(t *testing.T) {
	model := scriptedModel(rankedOutput)
	tool := &fakeTool{listings: []types.RawJobListing{{Title: "A", Company: "B", URL: "https://a.example"}}}
	svc := newTestService(t, model, tool, &fakeProfiles{}, &fakeRoadmaps{})

	out, err := svc.Search(context.Background(), "u1", types.JobSearchInput{Query: "remote data jobs"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if model.calls != 3 {
		t.Errorf("model calls = %d, want 3", model.calls)
	}
	if tool.lastQuery != "data analyst remote" {
		t.Errorf("tool query = %q, want the generated query", tool.lastQuery)
	}
	if len(out.PassionRoles) != 1 || out.PassionRoles[0].PersonalizedFit == "" {
		t.Errorf("passionRoles = %+v", out.PassionRoles)
	}

	// The ranking prompt carries the raw listings, not the generated query.
	if !strings.Contains(model.prompts[2], `"title":"A"`) {
		t.Error("ranking prompt should embed the fetched listings")
	}
	// The query-gen prompt carries both summary and the raw user phrase.
	if !strings.Contains(model.prompts[1], "summary text") || !strings.Contains(model.prompts[1], "remote data jobs") {
		t.Error("query-gen prompt should embed the summary and the user request")
	}
}

func TestSearch_QueryGenerationUsesLiteTier(t *testing.T) {
	model := scriptedModel(rankedOutput)
	tool := &fakeTool{listings: []types.RawJobListing{{Title: "A", Company: "B", URL: "https://a.example"}}}
	svc := newTestService(t, model, tool, &fakeProfiles{}, &fakeRoadmaps{})

	if _, err := svc.Search(context.Background(), "u1", types.JobSearchInput{Query: "remote data jobs"}); err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	want := []llm.ModelTier{llm.TierStandard, llm.TierLite, llm.TierStandard}
	for i, tier := range want {
		if model.tiers[i] != tier {
			t.Errorf("call %d tier = %q, want %q", i+1, model.tiers[i], tier)
		}
	}
}

func TestSearch_EmptyQueryRejectedBeforeAnyCall(t *testing.T) {
	model := scriptedModel(rankedOutput)
	svc := newTestService(t, model, &fakeTool{}, &fakeProfiles{}, &fakeRoadmaps{})

	_, err := svc.Search(context.Background(), "u1", types.JobSearchInput{})
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("error type = %T, want validator.ValidationErrors", err)
	}
	if model.calls != 0 {
		t.Error("model must not be called for an empty query")
	}
}

func TestSearch_RepairPassFixesMalformedListing(t *testing.T) {
	// Wrong-typed description and an invalid url must be repaired, not fatal.
	broken := `{
	  "passionRoles": [{"title": "X", "company": "Y", "description": 42, "url": "bad"}],
	  "strengthRoles": [],
	  "growthRoles": []
	}`
	svc := newTestService(t, scriptedModel(broken), &fakeTool{}, &fakeProfiles{}, &fakeRoadmaps{})

	out, err := svc.Search(context.Background(), "u1", types.JobSearchInput{Query: "q"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	job := out.PassionRoles[0]
	if job.Description != "" {
		t.Errorf("description = %q, want coerced empty string", job.Description)
	}
	if job.URL != types.PlaceholderJobURL {
		t.Errorf("url = %q, want placeholder", job.URL)
	}
	if job.Title != "X" || job.Company != "Y" {
		t.Errorf("title/company altered: %+v", job)
	}
}

func TestSearch_WellFormedURLPassesThroughUnchanged(t *testing.T) {
	svc := newTestService(t, scriptedModel(rankedOutput), &fakeTool{}, &fakeProfiles{}, &fakeRoadmaps{})

	out, err := svc.Search(context.Background(), "u1", types.JobSearchInput{Query: "q"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if out.PassionRoles[0].URL != "https://careers.google.com/jobs" {
		t.Errorf("url = %q, want original preserved", out.PassionRoles[0].URL)
	}
}

func TestSearch_MissingBucketFailsSchemaAfterRepair(t *testing.T) {
	// Repair never invents buckets; a missing one is a structural mismatch.
	missingBucket := `{"passionRoles": [], "strengthRoles": []}`
	svc := newTestService(t, scriptedModel(missingBucket), &fakeTool{}, &fakeProfiles{}, &fakeRoadmaps{})

	_, err := svc.Search(context.Background(), "u1", types.JobSearchInput{Query: "q"})
	var moe *llm.ModelOutputError
	if !errors.As(err, &moe) {
		t.Fatalf("error = %v, want *llm.ModelOutputError", err)
	}
	if moe.Stage != "schema" {
		t.Errorf("stage = %s, want schema", moe.Stage)
	}
}

func TestSearch_UnparseableRankingIsModelOutputError(t *testing.T) {
	svc := newTestService(t, scriptedModel("not json at all"), &fakeTool{}, &fakeProfiles{}, &fakeRoadmaps{})

	_, err := svc.Search(context.Background(), "u1", types.JobSearchInput{Query: "q"})
	var moe *llm.ModelOutputError
	if !errors.As(err, &moe) {
		t.Fatalf("error = %v, want *llm.ModelOutputError", err)
	}
	if moe.Stage != "parse" {
		t.Errorf("stage = %s, want parse", moe.Stage)
	}
}

func TestSearch_ToolFailureAbortsBeforeRankingCall(t *testing.T) {
	model := scriptedModel(rankedOutput)
	tool := &fakeTool{err: errors.New("provider down")}
	svc := newTestService(t, model, tool, &fakeProfiles{}, &fakeRoadmaps{})

	if _, err := svc.Search(context.Background(), "u1", types.JobSearchInput{Query: "q"}); err == nil {
		t.Fatal("expected tool failure to propagate")
	}
	if model.calls != 2 {
		t.Errorf("model calls = %d, want 2 (ranking call never made)", model.calls)
	}
}

func TestSearch_SynthesisFailureAbortsRun(t *testing.T) {
	model := &fakeModel{replies: []string{"", "", ""}, errAt: 1}
	svc := newTestService(t, model, &fakeTool{}, &fakeProfiles{}, &fakeRoadmaps{})

	if _, err := svc.Search(context.Background(), "u1", types.JobSearchInput{Query: "q"}); err == nil {
		t.Fatal("expected synthesis failure to propagate")
	}
	if model.calls != 1 {
		t.Errorf("model calls = %d, want 1", model.calls)
	}
}

func TestSearch_AbsentProfileAndRoadmapAreNotErrors(t *testing.T) {
	model := scriptedModel(rankedOutput)
	svc := newTestService(t, model, &fakeTool{}, &fakeProfiles{profile: nil}, &fakeRoadmaps{roadmap: nil})

	if _, err := svc.Search(context.Background(), "u1", types.JobSearchInput{Query: "q"}); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if !strings.Contains(model.prompts[0], "PROFILE: null") {
		t.Error("synthesis prompt should render an absent profile as null")
	}
}

func TestIsAbsoluteURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"https://example.com/job", true},
		{"http://a.b/c?d=e", true},
		{"bad", false},
		{"/relative/path", false},
		{"example.com/no-scheme", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isAbsoluteURL(tt.in); got != tt.want {
			t.Errorf("isAbsoluteURL(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
