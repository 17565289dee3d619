package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/tmc/langchaingo/llms"
)

// Registry holds registered tools and dispatches validated calls.
type Registry struct {
	tools map[string]Tool
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool. Registering a name twice is a DuplicateToolError.
func (r *Registry) Register(t Tool) error {
	if _, ok := r.tools[t.Name()]; ok {
		return &DuplicateToolError{Name: t.Name()}
	}
	r.tools[t.Name()] = t
	return nil
}

// MustRegister is Register for startup wiring, where a duplicate is a
// programming error.
func (r *Registry) MustRegister(t Tool) {
	if err := r.Register(t); err != nil {
		panic(err)
	}
}

// Get returns a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Names returns all registered tool names, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.tools))
	for name := range r.tools {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Dispatch validates rawArgs against the named tool's schema and invokes
// it. Failures are typed: UnknownToolError, InvalidArgumentsError, or
// ExecutionError wrapping whatever the tool raised.
func (r *Registry) Dispatch(ctx context.Context, name, rawArgs string) (result string, err error) {
	t, ok := r.tools[name]
	if !ok {
		return "", &UnknownToolError{Name: name}
	}

	args, err := parseArgs(name, rawArgs)
	if err != nil {
		return "", err
	}
	if err := validate(name, t.Schema(), args); err != nil {
		return "", err
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = &ExecutionError{Tool: name, Err: fmt.Errorf("panic: %v", rec)}
		}
	}()
	result, execErr := t.Execute(ctx, args)
	if execErr != nil {
		return "", &ExecutionError{Tool: name, Err: execErr}
	}
	return result, nil
}

// LLMTools exports registered schemas in the shape the model expects.
// With no names given it exports every tool; otherwise only the named
// subset, failing on a name that was never registered.
func (r *Registry) LLMTools(names ...string) ([]llms.Tool, error) {
	if len(names) == 0 {
		names = r.Names()
	}
	out := make([]llms.Tool, 0, len(names))
	for _, name := range names {
		t, ok := r.tools[name]
		if !ok {
			return nil, &UnknownToolError{Name: name}
		}
		out = append(out, llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  jsonSchema(t.Schema()),
			},
		})
	}
	return out, nil
}

func parseArgs(tool, raw string) (map[string]any, error) {
	if raw == "" {
		return map[string]any{}, nil
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, &InvalidArgumentsError{Tool: tool, Fields: []string{"(not a JSON object)"}}
	}
	return args, nil
}

// validate checks required fields and type coercibility, applies
// defaults, and normalizes integer-valued numbers for integer params.
func validate(tool string, schema Schema, args map[string]any) error {
	var bad []string
	names := make([]string, 0, len(schema))
	for name := range schema {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		p := schema[name]
		v, ok := args[name]
		if !ok || v == nil {
			if p.Required {
				bad = append(bad, name+" (missing)")
			} else if p.Default != nil {
				args[name] = p.Default
			}
			continue
		}
		switch p.Type {
		case "string":
			if _, ok := v.(string); !ok {
				bad = append(bad, name+" (expected string)")
			}
		case "boolean":
			if _, ok := v.(bool); !ok {
				bad = append(bad, name+" (expected boolean)")
			}
		case "number":
			if !isNumber(v) {
				bad = append(bad, name+" (expected number)")
			}
		case "integer":
			f, ok := asFloat(v)
			if !ok || f != float64(int64(f)) {
				bad = append(bad, name+" (expected integer)")
			}
		}
	}
	if len(bad) > 0 {
		return &InvalidArgumentsError{Tool: tool, Fields: bad}
	}
	return nil
}

func isNumber(v any) bool {
	_, ok := asFloat(v)
	return ok
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func jsonSchema(s Schema) map[string]any {
	props := make(map[string]any, len(s))
	var required []string
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p := s[name]
		prop := map[string]any{
			"type":        p.Type,
			"description": p.Description,
		}
		if len(p.Enum) > 0 {
			prop["enum"] = p.Enum
		}
		if p.Default != nil {
			prop["default"] = p.Default
		}
		props[name] = prop
		if p.Required {
			required = append(required, name)
		}
	}
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
