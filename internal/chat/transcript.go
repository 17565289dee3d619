package chat

// WindowPolicy selects which stored messages are sent upstream on an
// inference call. The transcript itself always keeps everything; only
// the view handed to the model is shaped here.
type WindowPolicy func(msgs []Message) []Message

// FullHistory sends the whole transcript. This is the default and matches
// the unbounded-context behavior a session starts with.
func FullHistory(msgs []Message) []Message { return msgs }

// MostRecent keeps the seeded system message plus the last n messages.
func MostRecent(n int) WindowPolicy {
	return func(msgs []Message) []Message {
		if n <= 0 || len(msgs) <= n+1 {
			return msgs
		}
		out := make([]Message, 0, n+1)
		out = append(out, msgs[0])
		out = append(out, msgs[len(msgs)-n:]...)
		return out
	}
}

// Transcript is the append-only conversation log for one session. It is
// owned by a single session goroutine and is not safe for concurrent use.
type Transcript struct {
	msgs   []Message
	window WindowPolicy
}

// NewTranscript seeds the transcript with the session's system message.
func NewTranscript(system string) *Transcript {
	return &Transcript{
		msgs:   []Message{{Role: RoleSystem, Content: system}},
		window: FullHistory,
	}
}

// SetWindow replaces the context-window policy. A nil policy restores
// FullHistory.
func (t *Transcript) SetWindow(p WindowPolicy) {
	if p == nil {
		p = FullHistory
	}
	t.window = p
}

// Append is the only mutator. Messages are never removed or reordered.
func (t *Transcript) Append(m Message) {
	t.msgs = append(t.msgs, m)
}

// Len reports the number of stored messages, including the seed.
func (t *Transcript) Len() int { return len(t.msgs) }

// Messages returns a copy of the full log.
func (t *Transcript) Messages() []Message {
	out := make([]Message, len(t.msgs))
	copy(out, t.msgs)
	return out
}

// Snapshot returns the messages for the next inference call: the window
// policy applied over the log, with the seeded system message first. If
// system is non-empty it replaces the seed for this call only, which is
// how a routed agent supplies its own instructions without rewriting the
// stored log.
func (t *Transcript) Snapshot(system string) []Message {
	view := t.window(t.msgs)
	out := make([]Message, len(view))
	copy(out, view)
	if system != "" && len(out) > 0 && out[0].Role == RoleSystem {
		out[0] = Message{Role: RoleSystem, Content: system}
	}
	return out
}

// Truncate drops every message after length n. It exists so a session can
// discard the partial state of a turn that failed mid-flight; committed
// turns are never truncated.
func (t *Transcript) Truncate(n int) {
	if n >= 0 && n < len(t.msgs) {
		t.msgs = t.msgs[:n]
	}
}
