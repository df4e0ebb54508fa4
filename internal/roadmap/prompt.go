package roadmap

import (
	"encoding/json"
	"fmt"

	"github.com/jmorgan/ikigai-copilot/internal/types"
)

func jsonOrNull(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

func buildPrompt(profile *types.UserProfile, job types.JobDetails) string {
	return fmt.Sprintf(`You are a career coach. A user with the following profile wants to apply for a specific job. Create a detailed, 90-day action plan (roadmap) that bridges their current skill set with the job's requirements. Identify skill gaps and create a checklist of concrete tasks (learning, projects, networking) to make them a top candidate.
USER PROFILE: %s
TARGET JOB: %s
Respond ONLY with a JSON object with the format: { "roadmap90Days": [ { "phase": "Month 1: Foundation", "tasks": ["Task 1", "Task 2"] } ] }`,
		jsonOrNull(profile), jsonOrNull(job))
}
