package chat

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

// Message is one turn in a conversation transcript. Messages are
// append-only: once added to a Transcript they are never mutated.
type Message struct {
	Role    Role
	Content string

	// For assistant messages: the tool calls they issued.
	ToolCalls []ToolCall

	// For tool messages: the ID of the call being answered.
	ToolCallID string
	ToolName   string
}

// ToolCall is a model-issued request to run a named tool. Arguments is
// the raw JSON object string exactly as the model emitted it.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}
