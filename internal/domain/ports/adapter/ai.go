package adapter

import "context"

// Message represents one prompt message.
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// CompletionAdapter is the port for LLM text completion. The orchestrator
// treats the returned text as opaque and parses it itself.
type CompletionAdapter interface {
	// Complete sends the system prompt plus messages and returns the raw
	// assistant text.
	Complete(ctx context.Context, model, system string, messages []Message) (string, error)

	// CountTokens returns a best-effort prompt token estimate, used for
	// metrics only.
	CountTokens(ctx context.Context, model string, messages []Message) (int, error)
}
