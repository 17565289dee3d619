package chat

import "context"

// Route is the agent context chosen for one exchange of a turn: whose
// instructions the model runs under, which registered tools it may call,
// and how the turn ends.
type Route struct {
	// Agent labels the frames produced by this exchange.
	Agent string

	// System overrides the seeded system message for this exchange.
	System string

	// Tools lists the registered tool names offered to the model.
	// Empty means the exchange runs without tools.
	Tools []string

	// Sentinel, when non-empty, is a token whose presence in the final
	// assistant text ends the turn. It is stripped before the text is
	// emitted.
	Sentinel string

	// Final marks the turn done after this exchange regardless of
	// sentinel or remaining turn budget.
	Final bool
}

// Router decides which agent context applies to an exchange. exchange is
// zero-based within the current user turn; routers that hand the second
// exchange to a fixed participant key off it.
type Router interface {
	Select(ctx context.Context, t *Transcript, userText string, exchange int) (Route, error)
}
