package chat

import "fmt"

// LoopLimitError reports a turn that hit the model/tool round-trip bound
// without producing a final answer.
type LoopLimitError struct {
	Rounds int
}

func (e *LoopLimitError) Error() string {
	return fmt.Sprintf("tool loop exceeded %d rounds without a final answer", e.Rounds)
}

// InferenceError wraps a failure of the language model itself: provider
// errors, timeouts, or an empty response.
type InferenceError struct {
	Err error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("model inference failed: %v", e.Err)
}

func (e *InferenceError) Unwrap() error { return e.Err }
