package agent

import (
	"context"
	"fmt"
	"strings"

	"medichat/internal/chat"
)

const selectorPrompt = `You are a STRICT routing manager.

AVAILABLE AGENTS:
%s

ROUTING RULES (MANDATORY):
1. If the user query is medical in ANY form, select MedicalAssistant ONLY.
2. If the query is policy or document related, select SummaryAgent ONLY.
3. NEVER select more than one agent.
4. After the selected agent responds, do not call any other agent.

Reply with exactly one agent name.`

// SelectorRouter is the selector-based policy: an explicit model call
// picks exactly one participant for the first exchange; the closing
// participant (by convention the last one) summarizes on the second.
// A turn ends on the sentinel token or when the exchange budget runs
// out, whichever comes first.
type SelectorRouter struct {
	adapter      chat.Adapter
	participants []Agent
	intents      *intentMatcher
}

// NewSelectorRouter builds the policy over a fixed participant set. The
// last participant doubles as the summarizer for follow-up exchanges.
func NewSelectorRouter(adapter chat.Adapter, participants ...Agent) *SelectorRouter {
	return &SelectorRouter{
		adapter:      adapter,
		participants: participants,
		intents:      newIntentMatcher(),
	}
}

func (r *SelectorRouter) Select(ctx context.Context, t *chat.Transcript, userText string, exchange int) (chat.Route, error) {
	if len(r.participants) == 0 {
		return chat.Route{}, fmt.Errorf("selector has no participants")
	}

	// Re-selection after a response is forbidden: follow-up exchanges
	// always go to the closing summarizer.
	if exchange > 0 {
		closer := r.participants[len(r.participants)-1]
		return r.route(closer, true), nil
	}

	chosen, err := r.choose(ctx, userText)
	if err != nil {
		return chat.Route{}, &chat.InferenceError{Err: err}
	}
	return r.route(chosen, false), nil
}

func (r *SelectorRouter) route(a Agent, final bool) chat.Route {
	return chat.Route{
		Agent:    a.Name,
		System:   a.System,
		Tools:    a.Tools,
		Sentinel: sentinel,
		Final:    final,
	}
}

// choose asks the model for exactly one participant name and applies the
// tie-break and fallback rules over its reply.
func (r *SelectorRouter) choose(ctx context.Context, userText string) (Agent, error) {
	var roster strings.Builder
	for _, p := range r.participants {
		fmt.Fprintf(&roster, "- %s: %s\n", p.Name, p.Description)
	}

	history := []chat.Message{
		{Role: chat.RoleSystem, Content: fmt.Sprintf(selectorPrompt, roster.String())},
		{Role: chat.RoleUser, Content: userText},
	}
	reply, _, err := r.adapter.Reply(ctx, history, nil)
	if err != nil {
		return Agent{}, fmt.Errorf("selector call failed: %w", err)
	}

	var named []Agent
	for _, p := range r.participants {
		if strings.Contains(strings.ToLower(reply), strings.ToLower(p.Name)) {
			named = append(named, p)
		}
	}

	switch len(named) {
	case 1:
		return named[0], nil
	case 0:
		return r.fallback(userText), nil
	default:
		// The model named several despite the rules. Medical routing
		// takes precedence when it applies at all.
		if r.intents.Medical(userText) {
			for _, p := range named {
				if p.Name == MedicalAssistant().Name {
					return p, nil
				}
			}
		}
		return named[0], nil
	}
}

func (r *SelectorRouter) fallback(userText string) Agent {
	if r.intents.Medical(userText) {
		for _, p := range r.participants {
			if p.Name == MedicalAssistant().Name {
				return p
			}
		}
	}
	return r.participants[0]
}
