// Package tools holds the process-wide registry of capabilities the
// model may call. The registry is populated at startup and read-only
// afterwards, so it is safely shared across sessions.
package tools

import "context"

// Param describes one parameter of a tool schema.
type Param struct {
	Type        string // "string", "number", "integer" or "boolean"
	Description string
	Required    bool
	Default     any
	Enum        []string
}

// Schema maps parameter names to their declarations.
type Schema map[string]Param

// Tool is a registered capability.
type Tool interface {
	Name() string
	Description() string
	Schema() Schema
	// Execute runs the tool with validated arguments and returns the
	// serialized result that goes back into the transcript.
	Execute(ctx context.Context, args map[string]any) (string, error)
}
