package types

// PlaceholderJobURL replaces model-generated URLs that fail to parse.
const PlaceholderJobURL = "https://example.com/job"

// JobSearchInput is the caller's raw search phrase.
type JobSearchInput struct {
	Query string `json:"query" validate:"required,min=1"`
}

// JobDetails describes one job posting. URL must be a syntactically valid
// absolute URI; the job-search repair pass substitutes PlaceholderJobURL
// for anything else.
type JobDetails struct {
	Title           string `json:"title" validate:"required"`
	Company         string `json:"company" validate:"required"`
	Location        string `json:"location,omitempty"`
	Description     string `json:"description"`
	URL             string `json:"url" validate:"required,url"`
	PersonalizedFit string `json:"personalizedFit,omitempty"`
	IsSteppingStone bool   `json:"isSteppingStone,omitempty"`
}

// RawJobListing is an unranked posting returned by the job-search tool.
type RawJobListing struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// JobSearchOutput partitions ranked listings into three buckets by fit
// rationale. A job belongs to exactly one bucket within a result set.
type JobSearchOutput struct {
	PassionRoles  []JobDetails `json:"passionRoles"`
	StrengthRoles []JobDetails `json:"strengthRoles"`
	GrowthRoles   []JobDetails `json:"growthRoles"`
}
