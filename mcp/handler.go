package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/bpowers/editor-bridge/internal/logging"
)

// Handler classifies each inbound HTTP request as JSON-RPC or legacy,
// validates it, and dispatches through the registry. It holds no per-request
// state, so concurrent requests need no coordination here.
type Handler struct {
	registry *Registry
	info     Implementation
	log      *slog.Logger
}

// NewHandler creates the protocol handler shared by both surfaces.
func NewHandler(registry *Registry, info Implementation) (*Handler, error) {
	if registry == nil {
		return nil, fmt.Errorf("new handler: registry is required")
	}
	if info.Name == "" {
		return nil, fmt.Errorf("new handler: server name is required")
	}
	if info.Version == "" {
		return nil, fmt.Errorf("new handler: server version is required")
	}
	return &Handler{
		registry: registry,
		info:     info,
		log:      logging.Logger(),
	}, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := h.log.With("request", ulid.Make().String())

	body, err := readBody(r)
	if err != nil {
		log.Warn("reading request body", "err", err)
		h.writeLegacy(w, http.StatusBadRequest, Failure(fmt.Sprintf("reading request body: %v", err)))
		return
	}

	// A POST body must be JSON; GET requests to enumeration endpoints arrive
	// with an empty body and are fine.
	if r.Method == http.MethodPost && len(bytes.TrimSpace(body)) > 0 && !json.Valid(body) {
		log.Warn("request body is not valid JSON", "path", r.URL.Path)
		h.writeLegacy(w, http.StatusBadRequest, Failure("request body is not valid JSON"))
		return
	}

	// Classify exactly once: a body that parses as an object with
	// jsonrpc "2.0" is an RPC request regardless of path; anything else is
	// routed by path. No fall-through between the two.
	if req, ok := parseRPCRequest(body); ok {
		log.Debug("rpc request", "method", req.Method, "path", r.URL.Path)
		resp := h.dispatchRPC(r.Context(), req, log)
		writeJSON(w, http.StatusOK, resp)
		return
	}

	name, ok := legacyToolName(r.URL.Path)
	if !ok {
		log.Debug("unroutable path", "method", r.Method, "path", r.URL.Path)
		http.NotFound(w, r)
		return
	}
	log.Debug("legacy request", "tool", name)
	h.serveLegacy(r.Context(), w, r, name, body, log)
}

func readBody(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r.Body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// parseRPCRequest reports whether the body is a JSON-RPC 2.0 envelope.
func parseRPCRequest(body []byte) (Request, bool) {
	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		return Request{}, false
	}
	if req.JSONRPC != "2.0" {
		return Request{}, false
	}
	return req, true
}

// legacyToolName extracts the tool name from a legacy per-tool path. Both
// historical prefixes are equivalent.
func legacyToolName(path string) (string, bool) {
	for _, prefix := range []string{"/api/mcp/", "/mcp/"} {
		if rest, ok := strings.CutPrefix(path, prefix); ok {
			if rest == "" || strings.Contains(rest, "/") {
				return "", false
			}
			return rest, true
		}
	}
	return "", false
}

func (h *Handler) dispatchRPC(ctx context.Context, req Request, log *slog.Logger) (resp *Response) {
	id := requestID(req.ID)

	// A panicking tool must not take down the listener or leave the request
	// unanswered.
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("panic during dispatch", "method", req.Method, "panic", rec)
			resp = errorResponse(id, errInternal, "internal error", fmt.Sprintf("%v", rec))
		}
	}()

	switch req.Method {
	case "initialize":
		return h.handleInitialize(req, id, log)
	case "tools/list":
		return h.handleListTools(req, id)
	case "tools/call":
		return h.handleCallTool(ctx, req, id, log)
	default:
		return errorResponse(id, errMethodNotFound, fmt.Sprintf("method not found: %s", req.Method), nil)
	}
}

func (h *Handler) handleInitialize(req Request, id json.RawMessage, log *slog.Logger) *Response {
	if len(req.Params) > 0 {
		var params struct {
			ProtocolVersion string          `json:"protocolVersion"`
			ClientInfo      Implementation  `json:"clientInfo"`
			Capabilities    json.RawMessage `json:"capabilities"`
		}
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return errorResponse(id, errInvalidParams, "invalid params", err.Error())
		}
		if params.ClientInfo.Name != "" {
			log.Debug("initialize", "client", params.ClientInfo.Name, "clientVersion", params.ClientInfo.Version)
		}
	}

	return resultResponse(id, InitializeResult{
		ProtocolVersion: ProtocolVersion,
		ServerInfo:      h.info,
		Capabilities: ServerCapabilities{
			Tools: &ToolCapabilities{},
		},
	})
}

func (h *Handler) handleListTools(req Request, id json.RawMessage) *Response {
	if len(req.Params) > 0 {
		var params struct {
			Cursor json.RawMessage `json:"cursor"`
		}
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return errorResponse(id, errInvalidParams, "invalid params", err.Error())
		}
		// Pagination is not implemented; cursor is parsed but ignored.
	}

	return resultResponse(id, ListToolsResult{Tools: h.registry.Definitions()})
}

func (h *Handler) handleCallTool(ctx context.Context, req Request, id json.RawMessage, log *slog.Logger) *Response {
	if len(req.Params) == 0 {
		return errorResponse(id, errInvalidParams, "missing params", nil)
	}

	var params struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(id, errInvalidParams, "invalid params", err.Error())
	}
	if params.Name == "" {
		return errorResponse(id, errInvalidParams, "invalid params", "tool name is required")
	}

	outcome := h.registry.Call(ctx, params.Name, params.Arguments)
	if outcome.Failed() {
		log.Debug("tool call failed", "tool", params.Name)
	}
	return resultResponse(id, outcome.callToolResult())
}

func (h *Handler) serveLegacy(ctx context.Context, w http.ResponseWriter, r *http.Request, name string, body []byte, log *slog.Logger) {
	// Legacy callers historically always receive 200 with the flat envelope,
	// so even a panicking tool is reported inside it.
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("panic during legacy dispatch", "tool", name, "panic", rec)
			h.writeLegacy(w, http.StatusOK, Failure(fmt.Sprintf("internal error: %v", rec)))
		}
	}()

	if name == "list_tools" {
		if r.Method != http.MethodGet && r.Method != http.MethodPost {
			w.Header().Set("Allow", "GET, POST")
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		defs := h.registry.Definitions()
		infos := make([]LegacyToolInfo, 0, len(defs))
		for _, def := range defs {
			infos = append(infos, LegacyToolInfo{Name: def.Name, Description: def.Description})
		}
		h.writeLegacy(w, http.StatusOK, Success(infos))
		return
	}

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	outcome := h.registry.Call(ctx, name, body)
	if outcome.Failed() {
		log.Debug("legacy tool call failed", "tool", name)
	}
	h.writeLegacy(w, http.StatusOK, outcome)
}

func (h *Handler) writeLegacy(w http.ResponseWriter, status int, o Outcome) {
	writeJSON(w, status, o.legacyEnvelope())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Logger().Error("writing response", "err", err)
	}
}

func resultResponse(id json.RawMessage, result any) *Response {
	return &Response{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	}
}

func errorResponse(id json.RawMessage, code int, message string, data any) *Response {
	return &Response{
		JSONRPC: "2.0",
		ID:      id,
		Error: &Error{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

func requestID(id json.RawMessage) json.RawMessage {
	if len(id) == 0 {
		return json.RawMessage("null")
	}
	return id
}
