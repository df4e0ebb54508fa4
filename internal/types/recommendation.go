package types

// IkigaiInput is the validated input for the recommendation pipeline.
type IkigaiInput struct {
	Interests       []string `json:"interests" validate:"required,min=1,dive,required"`
	Skills          []string `json:"skills" validate:"required,min=1,dive,required"`
	Values          []string `json:"values" validate:"required,min=1,dive,required"`
	PersonalityType string   `json:"personalityType,omitempty"`
	Location        string   `json:"location,omitempty"`
	Goals           []string `json:"goals,omitempty"`
}

// IkigaiAlignment maps a recommended career onto the four ikigai axes.
type IkigaiAlignment struct {
	Love       string `json:"love"`
	GoodAt     string `json:"goodAt"`
	WorldNeeds string `json:"worldNeeds"`
	PaidFor    string `json:"paidFor"`
}

// RecommendedCareer is one career path in a recommendation.
type RecommendedCareer struct {
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	WhyFit          string          `json:"whyFit"`
	IkigaiAlignment IkigaiAlignment `json:"ikigaiAlignment"`
}

// SkillPlanItem is one entry of the skill development plan.
type SkillPlanItem struct {
	Skill string `json:"skill"`
	Type  string `json:"type"`
}

// RoadmapPhase is one phase of a 90-day plan with its task checklist.
type RoadmapPhase struct {
	Phase string   `json:"phase"`
	Tasks []string `json:"tasks"`
}

// RecommendationOutput is the structured result of the recommendation
// pipeline. Produced exactly once per request and persisted under a fresh
// session id, never updated in place.
type RecommendationOutput struct {
	PersonalizedSummary  string              `json:"personalizedSummary"`
	RecommendedCareers   []RecommendedCareer `json:"recommendedCareers"`
	SkillDevelopmentPlan []SkillPlanItem     `json:"skillDevelopmentPlan"`
	Roadmap90Days        []RoadmapPhase      `json:"roadmap90Days"`
}
