package chat

import (
	"fmt"
	"strings"

	"github.com/jmorgan/ikigai-copilot/internal/types"
)

const notProvided = "Not provided"

// systemPrompt renders the system instruction with the user's profile block
// and any retrieved knowledge-base context.
func systemPrompt(profileContext, kbContext string) string {
	return fmt.Sprintf(`You are 'Ikigai Guide', a career co-pilot AI. Your primary directive is to provide personalized career advice based exclusively on the user's profile data provided below.

CRITICAL INSTRUCTION: Do NOT ask the user for information that is already present in their profile. Synthesize your answer using the data provided.

---
USER PROFILE CONTEXT
%s
---
KNOWLEDGE BASE CONTEXT
%s
---

If the profile context is missing or empty, you may ask clarifying questions. Otherwise, use the data to directly answer the user's query.`, profileContext, kbContext)
}

// formatProfileContext renders the profile fields the model should ground
// its advice on. Absent optional fields render as "Not provided" rather
// than being omitted.
func formatProfileContext(p *types.UserProfile) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "- Skills: %s\n", listOrDefault(p.Skills))
	fmt.Fprintf(&sb, "- Interests: %s\n", listOrDefault(p.Interests))
	fmt.Fprintf(&sb, "- Values: %s\n", listOrDefault(p.Values))
	fmt.Fprintf(&sb, "- Career Goals: %s\n", stringOrDefault(p.CareerGoals))
	fmt.Fprintf(&sb, "- Job Preferences: %s", formatJobPreferences(p.JobPreferences))
	return sb.String()
}

func formatJobPreferences(jp *types.JobPreferences) string {
	if jp == nil {
		return notProvided
	}

	var parts []string
	if len(jp.JobTitles) > 0 {
		parts = append(parts, "Job Titles: "+strings.Join(jp.JobTitles, ", "))
	}
	if len(jp.WorkModels) > 0 {
		parts = append(parts, "Work Models: "+strings.Join(jp.WorkModels, ", "))
	}
	if len(jp.TargetIndustries) > 0 {
		parts = append(parts, "Industries: "+strings.Join(jp.TargetIndustries, ", "))
	}
	if len(parts) == 0 {
		return notProvided
	}
	return strings.Join(parts, "; ")
}

func listOrDefault(items []string) string {
	if len(items) == 0 {
		return notProvided
	}
	return strings.Join(items, ", ")
}

func stringOrDefault(s string) string {
	if s == "" {
		return notProvided
	}
	return s
}
