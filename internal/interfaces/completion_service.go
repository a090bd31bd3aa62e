package interfaces

import (
	"context"
)

// Message represents a single message in a chat conversation
type Message struct {
	// Role identifies the message sender: "user", "assistant", or "system"
	Role string

	// Content contains the text content of the message
	Content string
}

// CompletionService defines the external text-generation capability. The
// system prompt carries the assembled website context; history is the rolling
// conversation window in chronological order.
type CompletionService interface {
	// Complete generates an answer from the system prompt and history.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout control
	//   - systemPrompt: Instruction block with the retrieval context embedded
	//   - history: Conversation turns in chronological order
	//
	// Returns:
	//   - string: Generated assistant response
	//   - error: Error if the completion transport fails
	Complete(ctx context.Context, systemPrompt string, history []Message) (string, error)

	// Provider returns the provider name ("groq", "claude", "gemini").
	Provider() string

	// Close releases resources held by the provider client.
	Close() error
}
