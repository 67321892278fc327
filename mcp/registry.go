package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
)

// ErrDuplicateTool is returned when a tool name is registered twice. The
// registry is built once at startup, so callers should treat this as a fatal
// configuration error rather than something to recover from.
var ErrDuplicateTool = errors.New("duplicate tool name")

// Tool is a named operation exposed over both protocol surfaces. Call
// receives the raw JSON arguments object and returns a structured payload or
// an error; it never sees wire envelopes.
type Tool interface {
	Name() string
	Description() string
	InputSchema() *jsonschema.Schema
	Call(ctx context.Context, args json.RawMessage) (any, error)
}

// ToolDefinition describes a tool's interface as returned by tools/list.
type ToolDefinition struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitzero"`
	InputSchema *jsonschema.Schema `json:"inputSchema"`
}

type registeredTool struct {
	tool     Tool
	def      ToolDefinition
	resolved *jsonschema.Resolved
}

// Registry holds the tools exposed by the server. It is populated at startup
// and read-only afterwards; lookups are safe from concurrent requests.
type Registry struct {
	mu    sync.Mutex
	tools map[string]*registeredTool
	order []string
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]*registeredTool),
		order: make([]string, 0),
	}
}

// Register adds a tool to the registry. Registering a second tool with the
// same name fails with [ErrDuplicateTool].
func (r *Registry) Register(tool Tool) error {
	if tool == nil {
		return fmt.Errorf("register tool: nil tool")
	}
	name := tool.Name()
	if name == "" {
		return fmt.Errorf("register tool: missing tool name")
	}

	var resolved *jsonschema.Resolved
	if schema := tool.InputSchema(); schema != nil {
		var err error
		resolved, err = schema.Resolve(nil)
		if err != nil {
			return fmt.Errorf("register tool %s: resolve schema: %w", name, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("register tool %s: %w", name, ErrDuplicateTool)
	}

	r.tools[name] = &registeredTool{
		tool: tool,
		def: ToolDefinition{
			Name:        name,
			Description: tool.Description(),
			InputSchema: tool.InputSchema(),
		},
		resolved: resolved,
	}
	r.order = append(r.order, name)
	return nil
}

// Lookup retrieves a tool by name. Returns the tool and true if found,
// or nil and false if no tool with that name is registered.
func (r *Registry) Lookup(name string) (Tool, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rt, ok := r.tools[name]
	if !ok {
		return nil, false
	}
	return rt.tool, true
}

// Definitions returns the tool definitions for all registered tools in
// registration order. Used verbatim by tools/list, so repeated calls with an
// unchanged registry serialize identically.
func (r *Registry) Definitions() []ToolDefinition {
	r.mu.Lock()
	defer r.mu.Unlock()

	defs := make([]ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].def)
	}
	return defs
}

// Call dispatches one tool invocation. Unknown tools, argument schema
// violations and handler errors are all tool-level outcomes -- never protocol
// errors -- so both surfaces can project them uniformly.
func (r *Registry) Call(ctx context.Context, name string, args json.RawMessage) Outcome {
	r.mu.Lock()
	rt, ok := r.tools[name]
	r.mu.Unlock()
	if !ok {
		return Failure(fmt.Sprintf("unknown tool %q", name))
	}

	args = normalizeArguments(args)

	if rt.resolved != nil {
		var instance any
		if err := json.Unmarshal(args, &instance); err != nil {
			return Failure(fmt.Sprintf("invalid arguments for %s: %v", name, err))
		}
		if err := rt.resolved.Validate(instance); err != nil {
			return Failure(fmt.Sprintf("invalid arguments for %s: %v", name, err))
		}
	}

	payload, err := rt.tool.Call(ctx, args)
	if err != nil {
		return Failure(err.Error())
	}
	return Success(payload)
}

// normalizeArguments maps absent or null arguments to an empty object so
// tools can unmarshal unconditionally.
func normalizeArguments(raw json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return json.RawMessage("{}")
	}
	return trimmed
}
