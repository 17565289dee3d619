package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"medichat/internal/tools"

	"github.com/tmc/langchaingo/llms"
)

const (
	// DefaultMaxRounds bounds model/tool round-trips within one exchange.
	// The loop fails the turn instead of chasing an uncooperative model
	// forever.
	DefaultMaxRounds = 8

	// DefaultMaxTurns bounds agent exchanges per user turn. Matches the
	// selector team's two-exchange budget (specialist then summarizer).
	DefaultMaxTurns = 2
)

// Service drives one session's turns: it routes each user message to an
// agent context, runs the bounded tool-calling loop against the model,
// and streams thought/assistant frames through the emitter. A Service
// owns its transcript and is used from a single goroutine.
type Service struct {
	adapter    Adapter
	registry   *tools.Registry
	router     Router
	transcript *Transcript
	emitter    Emitter
	maxRounds  int
	maxTurns   int
}

type ServiceOption func(*Service)

// WithMaxRounds overrides the per-exchange tool round-trip bound.
func WithMaxRounds(n int) ServiceOption {
	return func(s *Service) {
		if n > 0 {
			s.maxRounds = n
		}
	}
}

// WithMaxTurns overrides the per-turn exchange bound.
func WithMaxTurns(n int) ServiceOption {
	return func(s *Service) {
		if n > 0 {
			s.maxTurns = n
		}
	}
}

// WithWindow sets the transcript's context-window policy.
func WithWindow(p WindowPolicy) ServiceOption {
	return func(s *Service) { s.transcript.SetWindow(p) }
}

func NewService(adapter Adapter, registry *tools.Registry, router Router, transcript *Transcript, emitter Emitter, opts ...ServiceOption) *Service {
	if emitter == nil {
		emitter = EmitterFunc(func(Frame) {})
	}
	s := &Service{
		adapter:    adapter,
		registry:   registry,
		router:     router,
		transcript: transcript,
		emitter:    emitter,
		maxRounds:  DefaultMaxRounds,
		maxTurns:   DefaultMaxTurns,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Transcript exposes the session log, mainly for inspection in tests and
// status handlers.
func (s *Service) Transcript() *Transcript { return s.transcript }

// Turn processes one user message to completion. On error the turn's
// partial transcript state is discarded and the error is returned for the
// gateway to surface as an error frame; the session itself stays usable.
func (s *Service) Turn(ctx context.Context, input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return errors.New("empty input")
	}

	mark := s.transcript.Len()
	s.transcript.Append(Message{Role: RoleUser, Content: input})

	for exchange := 0; ; exchange++ {
		route, err := s.router.Select(ctx, s.transcript, input, exchange)
		if err != nil {
			s.transcript.Truncate(mark)
			return err
		}

		content, err := s.runExchange(ctx, route)
		if err != nil {
			s.transcript.Truncate(mark)
			return err
		}

		stripped, sawSentinel := stripSentinel(content, route.Sentinel)
		s.emitter.Emit(NewFrame(FrameAssistant, route.Agent, stripped))

		if route.Final || sawSentinel || exchange+1 >= s.maxTurns {
			return nil
		}
	}
}

// runExchange is the tool-calling state machine for one agent context:
// submit the snapshot, execute any requested tool calls in emission
// order, feed results back, and repeat until the model answers in text
// or the round bound trips.
func (s *Service) runExchange(ctx context.Context, route Route) (string, error) {
	var schemas []llms.Tool
	if len(route.Tools) > 0 {
		var err error
		schemas, err = s.registry.LLMTools(route.Tools...)
		if err != nil {
			return "", err
		}
	}

	for round := 0; round < s.maxRounds; round++ {
		history := s.transcript.Snapshot(route.System)
		text, calls, err := s.adapter.Reply(ctx, history, schemas)
		if err != nil {
			return "", &InferenceError{Err: err}
		}

		if len(calls) == 0 {
			text = strings.TrimSpace(text)
			if text == "" {
				return "", &InferenceError{Err: errors.New("empty response from model")}
			}
			s.transcript.Append(Message{Role: RoleAssistant, Content: text})
			return text, nil
		}

		s.transcript.Append(Message{Role: RoleAssistant, Content: text, ToolCalls: calls})

		// Sequential on purpose: a call may depend on the previous
		// result, and in-order thought frames keep the client narrative
		// coherent.
		for _, tc := range calls {
			s.emitter.Emit(NewFrame(FrameThought, route.Agent,
				fmt.Sprintf("calling tool %s with arguments %s", tc.Name, tc.Arguments)))

			result, err := s.registry.Dispatch(ctx, tc.Name, tc.Arguments)
			if err != nil {
				// The failure goes into the transcript so the model can
				// recover, and to the client so the turn is not silent
				// about it. Every issued call still gets its answer.
				result = "error: " + err.Error()
				s.emitter.Emit(NewFrame(FrameError, route.Agent, err.Error()))
			} else {
				s.emitter.Emit(NewFrame(FrameThought, route.Agent,
					fmt.Sprintf("tool %s returned %s", tc.Name, result)))
			}

			s.transcript.Append(Message{
				Role:       RoleTool,
				Content:    result,
				ToolCallID: tc.ID,
				ToolName:   tc.Name,
			})
		}
	}

	return "", &LoopLimitError{Rounds: s.maxRounds}
}

// stripSentinel removes the terminal token from the assistant text and
// reports whether it was present.
func stripSentinel(text, sentinel string) (string, bool) {
	if sentinel == "" || !strings.Contains(text, sentinel) {
		return text, false
	}
	return strings.TrimSpace(strings.ReplaceAll(text, sentinel, "")), true
}
