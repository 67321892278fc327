// Package mcp implements the RPC surface of the editor bridge: an HTTP
// listener on a dynamically selected loopback port that serves the same tool
// registry over two protocol generations.
//
// The newer surface is JSON-RPC 2.0 on the root path, shaped after the Model
// Context Protocol: initialize, tools/list and tools/call. The older surface
// is one POST endpoint per tool under /mcp/<name> or /api/mcp/<name>, with a
// flat {status, error} envelope. Both surfaces dispatch through the same
// [Registry], so the set of tools and whether a given call succeeded can
// never diverge between them; only the serialization differs.
//
// # Basic Usage
//
// Create a registry, register tools that implement [Tool], then create and
// run a server:
//
//	registry := mcp.NewRegistry()
//	if err := registry.Register(myTool); err != nil {
//	    log.Fatal(err)
//	}
//
//	server, err := mcp.NewServer(registry, mcp.Config{
//	    Range: mcp.PortRange{Start: 9960, End: 9990},
//	    Info:  mcp.Implementation{Name: "editor-bridge", Version: "dev"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := server.Listen(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	log.Printf("listening on port %d", server.Port())
//	if err := server.Serve(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Error Taxonomy
//
// Transport errors (unparseable POST body, unroutable path) are the only
// failures reported with a non-2xx HTTP status. Protocol errors (unknown
// JSON-RPC method, malformed params) travel in the JSON-RPC error object with
// HTTP 200. Tool errors -- the named tool is missing or its execution fails --
// are always carried inside a successful envelope: result.isError on the RPC
// surface, a non-null "error" field on the legacy surface.
package mcp

import "encoding/json"

// ProtocolVersion is the MCP protocol version supported by this server.
const ProtocolVersion = "2024-11-05"

const (
	errMethodNotFound = -32601
	errInvalidParams  = -32602
	errInternal       = -32603
)

// Request represents a JSON-RPC 2.0 request message. A missing or null ID
// denotes a notification; this server responds to notifications anyway so
// legacy clients that never learned the distinction keep working.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitzero"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitzero"`
}

// Response represents a JSON-RPC 2.0 response message.
// Either Result or Error will be set, but not both.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitzero"`
	Error   *Error          `json:"error,omitzero"`
}

// Error represents a JSON-RPC 2.0 error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitzero"`
}

// Implementation identifies the server to initialize callers.
type Implementation struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ToolCapabilities describes the server's tool-related capabilities.
type ToolCapabilities struct {
	ListChanged bool `json:"listChanged,omitzero"`
}

// ServerCapabilities describes what features the server supports.
// Only tools are implemented.
type ServerCapabilities struct {
	Tools *ToolCapabilities `json:"tools,omitzero"`
}

// InitializeResult is returned by the initialize method. It is a fixed
// descriptor: the registry contents do not influence it.
type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	ServerInfo      Implementation     `json:"serverInfo"`
	Capabilities    ServerCapabilities `json:"capabilities"`
}

// ListToolsResult is returned by the tools/list method. Tools appear in
// registration order, stable across calls.
type ListToolsResult struct {
	Tools []ToolDefinition `json:"tools"`
}

// ContentBlock represents a piece of content in a tool result.
// Only "text" is produced.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// CallToolResult is returned by the tools/call method. IsError reports a
// failure inside the tool, distinct from JSON-RPC errors; it is always
// serialized so callers can branch on it without a presence check.
type CallToolResult struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError"`
}

// LegacyResponse is the pre-JSON-RPC envelope: exactly one of Status and
// Error is non-null. Both keys are always present.
type LegacyResponse struct {
	Status any     `json:"status"`
	Error  *string `json:"error"`
}

// LegacyToolInfo is one entry in the legacy list_tools response.
type LegacyToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
