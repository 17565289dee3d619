package agent

import (
	"context"

	"medichat/internal/chat"
)

// InstructionRouter is the instruction-based policy: every turn runs a
// single agent whose system message enumerates the routing rules, and
// the model itself decides which tool (if any) to call. Compliance is a
// model concern, not enforced in code.
type InstructionRouter struct {
	agent Agent
}

func NewInstructionRouter(a Agent) *InstructionRouter {
	return &InstructionRouter{agent: a}
}

func (r *InstructionRouter) Select(ctx context.Context, t *chat.Transcript, userText string, exchange int) (chat.Route, error) {
	return chat.Route{
		Agent:  r.agent.Name,
		System: r.agent.System,
		Tools:  r.agent.Tools,
		Final:  true,
	}, nil
}
