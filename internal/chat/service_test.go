package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"medichat/internal/tools"

	"github.com/tmc/langchaingo/llms"
)

// scriptedAdapter replays a fixed sequence of model replies.
type scriptedAdapter struct {
	replies []scriptedReply
	calls   int
}

type scriptedReply struct {
	text      string
	toolCalls []ToolCall
	err       error
}

func (a *scriptedAdapter) Reply(_ context.Context, _ []Message, _ []llms.Tool) (string, []ToolCall, error) {
	if a.calls >= len(a.replies) {
		return "", nil, errors.New("script exhausted")
	}
	r := a.replies[a.calls]
	a.calls++
	return r.text, r.toolCalls, r.err
}

type staticRouter struct {
	route Route
}

func (r *staticRouter) Select(context.Context, *Transcript, string, int) (Route, error) {
	return r.route, nil
}

type addTool struct{}

func (addTool) Name() string        { return "add" }
func (addTool) Description() string { return "adds two numbers" }
func (addTool) Schema() tools.Schema {
	return tools.Schema{
		"a": {Type: "number", Description: "left operand", Required: true},
		"b": {Type: "number", Description: "right operand", Required: true},
	}
}
func (addTool) Execute(_ context.Context, args map[string]any) (string, error) {
	return "42", nil
}

type failTool struct{}

func (failTool) Name() string         { return "fail" }
func (failTool) Description() string  { return "always fails" }
func (failTool) Schema() tools.Schema { return tools.Schema{} }
func (failTool) Execute(context.Context, map[string]any) (string, error) {
	return "", errors.New("backend unavailable")
}

func collectFrames(frames *[]Frame) Emitter {
	return EmitterFunc(func(f Frame) { *frames = append(*frames, f) })
}

func newTestRegistry(t *testing.T) *tools.Registry {
	t.Helper()
	r := tools.NewRegistry()
	r.MustRegister(addTool{})
	r.MustRegister(failTool{})
	return r
}

func TestService_DirectAnswer(t *testing.T) {
	adapter := &scriptedAdapter{replies: []scriptedReply{
		{text: "just an answer"},
	}}
	var frames []Frame
	svc := NewService(adapter, newTestRegistry(t),
		&staticRouter{route: Route{Agent: "assistant", Final: true}},
		NewTranscript("rules"), collectFrames(&frames))

	if err := svc.Turn(context.Background(), "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(frames) != 1 {
		t.Fatalf("expected 1 frame for a direct answer, got %d", len(frames))
	}
	if frames[0].Type != FrameAssistant || frames[0].Content != "just an answer" {
		t.Fatalf("unexpected frame: %+v", frames[0])
	}
	for _, f := range frames {
		if f.Type == FrameThought {
			t.Fatalf("direct answer must not produce thought frames")
		}
	}
}

func TestService_ToolCallFrameOrder(t *testing.T) {
	adapter := &scriptedAdapter{replies: []scriptedReply{
		{toolCalls: []ToolCall{{ID: "call_1", Name: "add", Arguments: `{"a":40,"b":2}`}}},
		{text: "the sum is 42"},
	}}
	var frames []Frame
	svc := NewService(adapter, newTestRegistry(t),
		&staticRouter{route: Route{Agent: "assistant", Tools: []string{"add"}, Final: true}},
		NewTranscript("rules"), collectFrames(&frames))

	if err := svc.Turn(context.Background(), "what is 40+2?"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(frames) != 3 {
		t.Fatalf("expected announce/result/answer frames, got %d: %+v", len(frames), frames)
	}
	if frames[0].Type != FrameThought || !strings.Contains(frames[0].Content, "calling tool add") {
		t.Fatalf("expected call announcement first, got %+v", frames[0])
	}
	if frames[1].Type != FrameThought || !strings.Contains(frames[1].Content, "returned 42") {
		t.Fatalf("expected tool result second, got %+v", frames[1])
	}
	if frames[2].Type != FrameAssistant || frames[2].Content != "the sum is 42" {
		t.Fatalf("expected final answer last, got %+v", frames[2])
	}
}

func TestService_ToolResultLinkedByCallID(t *testing.T) {
	adapter := &scriptedAdapter{replies: []scriptedReply{
		{toolCalls: []ToolCall{{ID: "call_abc", Name: "add", Arguments: `{"a":1,"b":2}`}}},
		{text: "done"},
	}}
	tr := NewTranscript("rules")
	svc := NewService(adapter, newTestRegistry(t),
		&staticRouter{route: Route{Agent: "assistant", Tools: []string{"add"}, Final: true}},
		tr, nil)

	if err := svc.Turn(context.Background(), "add"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	issued := map[string]bool{}
	for _, m := range tr.Messages() {
		switch m.Role {
		case RoleAssistant:
			for _, tc := range m.ToolCalls {
				issued[tc.ID] = true
			}
		case RoleTool:
			if !issued[m.ToolCallID] {
				t.Fatalf("tool result %q references no prior assistant call", m.ToolCallID)
			}
		}
	}
	if !issued["call_abc"] {
		t.Fatalf("expected call_abc in transcript")
	}
}

func TestService_ToolFailureFeedsBack(t *testing.T) {
	adapter := &scriptedAdapter{replies: []scriptedReply{
		{toolCalls: []ToolCall{{ID: "call_1", Name: "fail", Arguments: `{}`}}},
		{text: "the tool is unavailable right now"},
	}}
	var frames []Frame
	tr := NewTranscript("rules")
	svc := NewService(adapter, newTestRegistry(t),
		&staticRouter{route: Route{Agent: "assistant", Tools: []string{"fail"}, Final: true}},
		tr, collectFrames(&frames))

	if err := svc.Turn(context.Background(), "try it"); err != nil {
		t.Fatalf("a tool failure must not fail the turn: %v", err)
	}

	var sawError bool
	for _, f := range frames {
		if f.Type == FrameError {
			sawError = true
		}
	}
	if !sawError {
		t.Fatalf("expected an error frame for the failed call")
	}

	var toolMsg *Message
	for _, m := range tr.Messages() {
		if m.Role == RoleTool {
			m := m
			toolMsg = &m
		}
	}
	if toolMsg == nil {
		t.Fatalf("failed call left no tool message in the transcript")
	}
	if !strings.HasPrefix(toolMsg.Content, "error: ") {
		t.Fatalf("expected structured failure result, got %q", toolMsg.Content)
	}
}

func TestService_LoopLimit(t *testing.T) {
	// A model that asks for a tool forever.
	replies := make([]scriptedReply, 0, 10)
	for i := 0; i < 10; i++ {
		replies = append(replies, scriptedReply{
			toolCalls: []ToolCall{{ID: "call", Name: "add", Arguments: `{"a":1,"b":1}`}},
		})
	}
	adapter := &scriptedAdapter{replies: replies}
	tr := NewTranscript("rules")
	svc := NewService(adapter, newTestRegistry(t),
		&staticRouter{route: Route{Agent: "assistant", Tools: []string{"add"}, Final: true}},
		tr, nil, WithMaxRounds(3))

	err := svc.Turn(context.Background(), "loop forever")
	var limit *LoopLimitError
	if !errors.As(err, &limit) {
		t.Fatalf("expected LoopLimitError, got %v", err)
	}
	if limit.Rounds != 3 {
		t.Fatalf("expected bound of 3 rounds, got %d", limit.Rounds)
	}
	if adapter.calls != 3 {
		t.Fatalf("expected exactly 3 model calls, got %d", adapter.calls)
	}

	// The failed turn must not leave partial state behind.
	if tr.Len() != 1 {
		t.Fatalf("expected transcript rollback, got %d messages", tr.Len())
	}
}

func TestService_InferenceErrorRollsBack(t *testing.T) {
	adapter := &scriptedAdapter{replies: []scriptedReply{
		{err: errors.New("connection refused")},
	}}
	tr := NewTranscript("rules")
	svc := NewService(adapter, newTestRegistry(t),
		&staticRouter{route: Route{Agent: "assistant", Final: true}},
		tr, nil)

	err := svc.Turn(context.Background(), "hi")
	var inf *InferenceError
	if !errors.As(err, &inf) {
		t.Fatalf("expected InferenceError, got %v", err)
	}
	if tr.Len() != 1 {
		t.Fatalf("expected transcript rollback, got %d messages", tr.Len())
	}

	// The session survives: a later turn starts clean.
	adapter.replies = append(adapter.replies, scriptedReply{text: "recovered"})
	if err := svc.Turn(context.Background(), "hi again"); err != nil {
		t.Fatalf("session did not recover: %v", err)
	}
}

func TestService_EmptyInputRejected(t *testing.T) {
	svc := NewService(&scriptedAdapter{}, newTestRegistry(t),
		&staticRouter{route: Route{Final: true}}, NewTranscript("rules"), nil)
	if err := svc.Turn(context.Background(), "   "); err == nil {
		t.Fatalf("expected error for blank input")
	}
}

// exchangeRouter records the exchange indices it was asked about and
// hands every exchange to the same agent without marking it final.
type exchangeRouter struct {
	exchanges []int
}

func (r *exchangeRouter) Select(_ context.Context, _ *Transcript, _ string, exchange int) (Route, error) {
	r.exchanges = append(r.exchanges, exchange)
	return Route{Agent: "participant", Sentinel: "TERMINATE"}, nil
}

func TestService_TurnBudgetEndsTeamTurn(t *testing.T) {
	adapter := &scriptedAdapter{replies: []scriptedReply{
		{text: "specialist answer"},
		{text: "summary of the answer"},
	}}
	router := &exchangeRouter{}
	var frames []Frame
	svc := NewService(adapter, newTestRegistry(t), router,
		NewTranscript("rules"), collectFrames(&frames))

	// Neither reply carries the sentinel, so the turn budget is what
	// ends the turn, and that is a normal completion.
	if err := svc.Turn(context.Background(), "hello"); err != nil {
		t.Fatalf("hitting the turn budget must not be an error: %v", err)
	}
	if len(router.exchanges) != 2 || router.exchanges[0] != 0 || router.exchanges[1] != 1 {
		t.Fatalf("expected exchanges [0 1], got %v", router.exchanges)
	}
	if len(frames) != 2 {
		t.Fatalf("expected one assistant frame per exchange, got %d", len(frames))
	}
}

func TestService_SentinelEndsTurnEarly(t *testing.T) {
	adapter := &scriptedAdapter{replies: []scriptedReply{
		{text: "final answer TERMINATE"},
		{text: "never reached"},
	}}
	router := &exchangeRouter{}
	var frames []Frame
	svc := NewService(adapter, newTestRegistry(t), router,
		NewTranscript("rules"), collectFrames(&frames), WithMaxTurns(5))

	if err := svc.Turn(context.Background(), "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(router.exchanges) != 1 {
		t.Fatalf("sentinel should end the turn after one exchange, got %d", len(router.exchanges))
	}
	if frames[0].Content != "final answer" {
		t.Fatalf("sentinel not stripped from emitted text: %q", frames[0].Content)
	}
}

func TestStripSentinel(t *testing.T) {
	tests := []struct {
		in       string
		sentinel string
		want     string
		saw      bool
	}{
		{"All done. TERMINATE", "TERMINATE", "All done.", true},
		{"No marker here", "TERMINATE", "No marker here", false},
		{"TERMINATE", "TERMINATE", "", true},
		{"anything", "", "anything", false},
	}
	for _, tt := range tests {
		got, saw := stripSentinel(tt.in, tt.sentinel)
		if got != tt.want || saw != tt.saw {
			t.Errorf("stripSentinel(%q) = %q/%v, want %q/%v", tt.in, got, saw, tt.want, tt.saw)
		}
	}
}
