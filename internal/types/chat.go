// Package types defines the domain records shared across the pipelines,
// stores, and HTTP layer.
package types

import "time"

// Chat message roles.
const (
	RoleUser = "user"
	RoleAI   = "ai"
)

// ChatMessage is one turn in a chat session. Messages are written once and
// never mutated; sessions order them by CreatedAt ascending.
type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// ChatInput is the request body for posting a chat message.
type ChatInput struct {
	Content string `json:"content" validate:"required,min=1"`
}

// Session is chat session metadata. LastUpdatedAt is refreshed on every
// message append; session lists are sorted by it descending.
type Session struct {
	ID            string    `json:"sessionId"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}
