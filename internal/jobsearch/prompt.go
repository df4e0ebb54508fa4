package jobsearch

import (
	"encoding/json"
	"fmt"

	"github.com/jmorgan/ikigai-copilot/internal/types"
)

// jsonOrNull mirrors the store payloads into prompt text. A nil profile or
// roadmap renders as "null" so the model sees an explicit absence.
func jsonOrNull(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

func synthesisPrompt(profile *types.UserProfile, roadmap *types.Roadmap) string {
	return fmt.Sprintf("Synthesize this user profile and career roadmap into a concise, keyword-rich summary of their professional identity, skills, and goals.\nPROFILE: %s\nROADMAP: %s",
		jsonOrNull(profile), jsonOrNull(roadmap))
}

func queryGenPrompt(professionalSummary, userRequest string) string {
	return fmt.Sprintf("You are an expert technical recruiter. Based on the user's professional summary and their search request, generate the optimal search query string for a job API. Respond with the query string only.\nUSER SUMMARY: %s\nUSER REQUEST: %q",
		professionalSummary, userRequest)
}

func rankingPrompt(profile *types.UserProfile, listings []types.RawJobListing) string {
	return fmt.Sprintf(`You are a career strategist. Given a user's full profile and a list of jobs, categorize these jobs into three lists: 1. 'passionRoles' (aligning with user's interests), 2. 'strengthRoles' (matching existing skills), and 3. 'growthRoles' (strategic stepping stones). For each job, add a 'personalizedFit' summary.
USER PROFILE: %s
JOB LISTINGS: %s
Respond ONLY with a valid JSON object matching this schema: { "passionRoles": [], "strengthRoles": [], "growthRoles": [] }`,
		jsonOrNull(profile), jsonOrNull(listings))
}
