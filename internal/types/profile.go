package types

// WorkExperience is one entry in a profile's work history.
type WorkExperience struct {
	ID          string `json:"id,omitempty"`
	Role        string `json:"role" validate:"required"`
	Company     string `json:"company" validate:"required"`
	StartDate   string `json:"startDate" validate:"required"`
	EndDate     string `json:"endDate,omitempty"`
	Description string `json:"description,omitempty"`
}

// Education is one entry in a profile's education history.
type Education struct {
	ID             string `json:"id,omitempty"`
	Institution    string `json:"institution" validate:"required"`
	Degree         string `json:"degree" validate:"required"`
	FieldOfStudy   string `json:"fieldOfStudy,omitempty"`
	GraduationDate string `json:"graduationDate" validate:"required"`
}

// JobPreferences captures what kinds of roles the user is looking for.
type JobPreferences struct {
	JobTitles        []string `json:"jobTitles,omitempty"`
	WorkModels       []string `json:"workModels,omitempty" validate:"omitempty,dive,oneof=Remote Hybrid On-site"`
	TargetIndustries []string `json:"targetIndustries,omitempty"`
}

// ProfileLinks holds a user's external links.
type ProfileLinks struct {
	LinkedIn  string `json:"linkedin,omitempty" validate:"omitempty,url"`
	GitHub    string `json:"github,omitempty" validate:"omitempty,url"`
	Portfolio string `json:"portfolio,omitempty" validate:"omitempty,url"`
}

// UserProfile is a partial record of optional fields. Updates are
// field-level merges: only supplied fields overwrite stored ones. The
// absence of a profile is a distinct state from an empty profile.
type UserProfile struct {
	FullName          string           `json:"fullName,omitempty"`
	Headline          string           `json:"headline,omitempty"`
	Location          string           `json:"location,omitempty"`
	Summary           string           `json:"summary,omitempty"`
	ProfilePictureURL string           `json:"profilePictureUrl,omitempty" validate:"omitempty,url"`
	ResumePath        string           `json:"resumePath,omitempty"`
	Skills            []string         `json:"skills,omitempty"`
	Interests         []string         `json:"interests,omitempty"`
	Values            []string         `json:"values,omitempty"`
	WorkExperience    []WorkExperience `json:"workExperience,omitempty" validate:"omitempty,dive"`
	Education         []Education      `json:"education,omitempty" validate:"omitempty,dive"`
	CareerGoals       string           `json:"careerGoals,omitempty"`
	JobPreferences    *JobPreferences  `json:"jobPreferences,omitempty"`
	Links             *ProfileLinks    `json:"links,omitempty"`
}
