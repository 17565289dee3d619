package tools

import (
	"fmt"
	"strings"
)

// DuplicateToolError reports a second registration under an existing name.
type DuplicateToolError struct {
	Name string
}

func (e *DuplicateToolError) Error() string {
	return fmt.Sprintf("tool %q already registered", e.Name)
}

// UnknownToolError reports a dispatch against a name never registered.
// This is a hard error, not a placeholder result: a silent fallback would
// mask integration bugs between the model's schema and the registry.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool %q", e.Name)
}

// InvalidArgumentsError reports arguments that failed schema validation
// before dispatch, listing the offending fields.
type InvalidArgumentsError struct {
	Tool   string
	Fields []string
}

func (e *InvalidArgumentsError) Error() string {
	return fmt.Sprintf("invalid arguments for tool %q: %s", e.Tool, strings.Join(e.Fields, ", "))
}

// ExecutionError wraps a failure raised by the tool function itself so
// the loop can report a structured failure instead of crashing the
// session.
type ExecutionError struct {
	Tool string
	Err  error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("tool %q failed: %v", e.Tool, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }
