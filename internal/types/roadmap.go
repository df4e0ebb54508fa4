package types

import "time"

// Roadmap is a persisted 90-day plan toward a target job. CompletedTasks
// is the only mutable field after creation; it has set semantics keyed by
// task title.
type Roadmap struct {
	ID             string         `json:"id"`
	JobDetails     JobDetails     `json:"jobDetails"`
	Roadmap        []RoadmapPhase `json:"roadmap"`
	CompletedTasks []string       `json:"completedTasks"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// RoadmapUpdate is the request body for toggling a task's completion.
type RoadmapUpdate struct {
	Task        string `json:"task" validate:"required"`
	IsCompleted *bool  `json:"isCompleted" validate:"required"`
}
