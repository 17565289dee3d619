package chat

import (
	"context"

	"github.com/tmc/langchaingo/llms"
)

// Adapter abstracts chat completion providers.
type Adapter interface {
	// Reply submits one inference call: the transcript snapshot plus the
	// tool schemas offered for this exchange. It returns the assistant
	// text and any tool calls the model emitted.
	Reply(ctx context.Context, history []Message, tools []llms.Tool) (text string, toolCalls []ToolCall, err error)
}
