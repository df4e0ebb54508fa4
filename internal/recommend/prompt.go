package recommend

import (
	"fmt"
	"strings"

	"github.com/jmorgan/ikigai-copilot/internal/types"
)

// formatHint is the literal output shape embedded in the prompt. The model
// is asked for this exact structure; schema validation enforces it.
const formatHint = `{
  "personalizedSummary": "...",
  "recommendedCareers": [
    { "title": "...", "description": "...", "whyFit": "...", "ikigaiAlignment": { "love": "...", "goodAt": "...", "worldNeeds": "...", "paidFor": "..." } }
  ],
  "skillDevelopmentPlan": [
    { "skill": "SQL", "type": "technical" },
    { "skill": "Communication", "type": "soft" }
  ],
  "roadmap90Days": [
    { "phase": "Week 1-4", "tasks": ["Task 1", "Task 2"] },
    { "phase": "Month 2", "tasks": ["Task 1", "Task 2"] },
    { "phase": "Month 3", "tasks": ["Task 1", "Task 2"] }
  ]
}`

func buildPrompt(input types.IkigaiInput) string {
	var sb strings.Builder
	sb.WriteString("You are an expert career advisor.\nGiven the user's Ikigai data:\n")
	fmt.Fprintf(&sb, "- Interests: %s\n", strings.Join(input.Interests, ", "))
	fmt.Fprintf(&sb, "- Skills: %s\n", strings.Join(input.Skills, ", "))
	fmt.Fprintf(&sb, "- Values: %s\n", strings.Join(input.Values, ", "))
	if input.PersonalityType != "" {
		fmt.Fprintf(&sb, "- Personality: %s\n", input.PersonalityType)
	}
	if input.Location != "" {
		fmt.Fprintf(&sb, "- Location: %s\n", input.Location)
	}
	if len(input.Goals) > 0 {
		fmt.Fprintf(&sb, "- Goals: %s\n", strings.Join(input.Goals, ", "))
	}

	sb.WriteString(`
Instructions:
- Create a personalizedSummary.
- Recommend 2 diverse career paths with title, description, whyFit, and ikigaiAlignment.
- Provide a skillDevelopmentPlan with a mix of technical and soft skills.
- Create a detailed 90-day roadmap with 3 phases (Week 1-4, Month 2, Month 3) and 2-3 specific tasks per phase.
- Return ONLY valid JSON matching this format (no markdown, no backticks):
`)
	sb.WriteString(formatHint)
	return sb.String()
}
