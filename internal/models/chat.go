package models

import "time"

// Conversation roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ConversationTurn is a single role/text pair in the rolling conversation
// history supplied to the completion provider.
type ConversationTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatEntry records one answered question. Entries are appended after each
// question and never mutated afterwards.
type ChatEntry struct {
	ID         string        `json:"id" badgerhold:"key"`
	Question   string        `json:"question"`
	Answer     string        `json:"answer"`
	Sources    []string      `json:"sources,omitempty"`
	ImagePaths []string      `json:"image_paths,omitempty"`
	Elapsed    time.Duration `json:"elapsed"`
	CreatedAt  time.Time     `json:"created_at"`
}
