package ai

import "context"

// Role is the author of a chat message
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a chat completion request
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// CompletionOptions overrides client defaults for a single call.
// Zero values keep the client defaults.
type CompletionOptions struct {
	Model       string
	Temperature float64
	MaxTokens   int
	JSONMode    bool
}

// Completer turns a conversation into the assistant's reply text
type Completer interface {
	Complete(ctx context.Context, messages []Message, opts *CompletionOptions) (string, error)
}
