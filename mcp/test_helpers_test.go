package mcp

import (
	"context"
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
)

type stubTool struct {
	name        string
	description string
	schema      *jsonschema.Schema
	payload     any
	err         error
	calledWith  *string
}

func (s *stubTool) Name() string {
	return s.name
}

func (s *stubTool) Description() string {
	return s.description
}

func (s *stubTool) InputSchema() *jsonschema.Schema {
	return s.schema
}

func (s *stubTool) Call(_ context.Context, args json.RawMessage) (any, error) {
	if s.calledWith != nil {
		*s.calledWith = string(args)
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.payload, nil
}

var _ Tool = (*stubTool)(nil)

// echoSchema is the schema used by most stub tools: one required string.
func echoSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"msg": {Type: "string"},
		},
		Required: []string{"msg"},
	}
}

// panicTool is a test tool that panics when called
type panicTool struct{}

func (panicTool) Name() string {
	return "panic_tool"
}

func (panicTool) Description() string {
	return "A tool that panics for testing"
}

func (panicTool) InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{Type: "object"}
}

func (panicTool) Call(_ context.Context, _ json.RawMessage) (any, error) {
	panic("intentional panic for testing")
}

var _ Tool = panicTool{}
