package mcp

import (
	"encoding/json"
	"fmt"
)

// Outcome is the protocol-independent result of one tool dispatch: either a
// structured payload or a failure message. The two envelope shapes are pure
// projections of it, which is what keeps the legacy and JSON-RPC surfaces in
// agreement about which calls succeeded.
type Outcome struct {
	payload any
	message string
	failed  bool
}

// Success wraps a tool's payload in a successful outcome.
func Success(payload any) Outcome {
	return Outcome{payload: payload}
}

// Failure wraps a tool-level error message in a failed outcome.
func Failure(message string) Outcome {
	return Outcome{message: message, failed: true}
}

// Failed reports whether the outcome is a tool-level failure.
func (o Outcome) Failed() bool {
	return o.failed
}

// legacyEnvelope projects the outcome into the flat {status, error} shape.
// The payload travels as a structured value; stringification is left to the
// final JSON encoding.
func (o Outcome) legacyEnvelope() LegacyResponse {
	if o.failed {
		message := o.message
		return LegacyResponse{Error: &message}
	}
	return LegacyResponse{Status: o.payload}
}

// callToolResult projects the outcome into the MCP content-block shape.
func (o Outcome) callToolResult() CallToolResult {
	if o.failed {
		return CallToolResult{
			Content: []ContentBlock{{Type: "text", Text: o.message}},
			IsError: true,
		}
	}

	text, err := stringifyPayload(o.payload)
	if err != nil {
		return CallToolResult{
			Content: []ContentBlock{{Type: "text", Text: fmt.Sprintf("encode payload: %v", err)}},
			IsError: true,
		}
	}
	return CallToolResult{
		Content: []ContentBlock{{Type: "text", Text: text}},
	}
}

// stringifyPayload renders a payload as text for a content block. Strings
// pass through untouched; everything else is JSON-encoded (encoding/json
// sorts map keys, so equal payloads render byte-identically).
func stringifyPayload(payload any) (string, error) {
	if s, ok := payload.(string); ok {
		return s, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
