package chat

import "time"

// FrameKind identifies the event frames streamed to a client while a
// turn is running.
type FrameKind string

const (
	FrameThought       FrameKind = "thought"
	FrameAssistant     FrameKind = "assistant"
	FrameTaskCompleted FrameKind = "task_completed"
	FrameError         FrameKind = "error"
)

// Frame is one outbound event on the streaming connection.
type Frame struct {
	Type      FrameKind `json:"type"`
	Source    string    `json:"source"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Emitter receives frames in the order they are produced. Implementations
// must not block indefinitely; a failed emit is remembered by the caller
// and ends the session after the turn.
type Emitter interface {
	Emit(f Frame)
}

// NewFrame stamps a frame with the current UTC time.
func NewFrame(kind FrameKind, source, content string) Frame {
	return Frame{
		Type:      kind,
		Source:    source,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// EmitterFunc adapts a function to the Emitter interface.
type EmitterFunc func(f Frame)

func (fn EmitterFunc) Emit(f Frame) { fn(f) }
