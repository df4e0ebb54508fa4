package jobsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jmorgan/ikigai-copilot/internal/types"
)

// SearchTool fetches raw job listings for an already-optimized query
// string. No pagination handling at this layer.
type SearchTool interface {
	Search(ctx context.Context, query string) ([]types.RawJobListing, error)
}

// SerpAPIClient queries the SerpApi google_jobs engine.
type SerpAPIClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewSerpAPIClient returns a client against the public SerpApi endpoint.
// httpClient may be nil to use http.DefaultClient.
func NewSerpAPIClient(apiKey string, httpClient *http.Client) *SerpAPIClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &SerpAPIClient{
		apiKey:  apiKey,
		baseURL: "https://serpapi.com/search.json",
		client:  httpClient,
	}
}

type serpJobsResponse struct {
	JobsResults []struct {
		Title       string `json:"title"`
		CompanyName string `json:"company_name"`
		Location    string `json:"location"`
		Description string `json:"description"`
		ShareLink   string `json:"share_link"`
	} `json:"jobs_results"`
	Error string `json:"error"`
}

func (c *SerpAPIClient) Search(ctx context.Context, query string) ([]types.RawJobListing, error) {
	params := url.Values{}
	params.Set("engine", "google_jobs")
	params.Set("q", query)
	params.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("job search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("job search returned status %d", resp.StatusCode)
	}

	var body serpJobsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	if body.Error != "" {
		return nil, fmt.Errorf("job search provider error: %s", body.Error)
	}

	listings := make([]types.RawJobListing, 0, len(body.JobsResults))
	for _, j := range body.JobsResults {
		listings = append(listings, types.RawJobListing{
			Title:       j.Title,
			Company:     j.CompanyName,
			Location:    j.Location,
			Description: j.Description,
			URL:         j.ShareLink,
		})
	}
	return listings, nil
}

// SimulatedTool returns a fixed set of listings. Used when no provider
// API key is configured, so the pipeline stays exercisable end to end.
type SimulatedTool struct{}

func (SimulatedTool) Search(_ context.Context, _ string) ([]types.RawJobListing, error) {
	return []types.RawJobListing{
		{Title: "AI Product Engineer", Company: "Google", Location: "Remote", Description: "Build the next generation of AI products...", URL: "https://careers.google.com/jobs"},
		{Title: "Healthcare Data Analyst", Company: "United Health", Location: "Hyderabad, India", Description: "Analyze clinical data to improve patient outcomes...", URL: "https://careers.unitedhealthgroup.com/"},
		{Title: "Cloud Solutions Architect", Company: "Microsoft", Location: "Bangalore, India", Description: "Design and implement cloud infrastructure for enterprise clients...", URL: "https://careers.microsoft.com/"},
		{Title: "Junior Project Coordinator", Company: "Tech Solutions Inc.", Location: "Remote", Description: "Assist senior project managers in a fast-paced tech environment.", URL: "https://example.com/jobs"},
	}, nil
}
